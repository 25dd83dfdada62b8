package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/ygangat/coaching-platform/internal/wizard"
	"github.com/ygangat/coaching-platform/pkg/logging"
)

// Result is the outcome reported back to the wizard. Error carries a
// client-safe message; transport details stay in the logs.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DispatcherConfig names the provider-side addresses.
type DispatcherConfig struct {
	ProviderName  string // e.g. "Yasir"
	ProviderEmail string // the provider inbox that receives every booking
	TransferEmail string // the e-transfer destination quoted to clients
}

// Dispatcher sends the booking notification pair: one email to the
// provider for every booking, and a confirmation to the client when
// they left a usable address. Sends are sequential and a provider-side
// failure aborts the client send.
type Dispatcher struct {
	email  EmailSender
	cfg    DispatcherConfig
	logger *logging.Logger
}

// NewDispatcher creates a dispatcher. A nil sender is allowed; every
// dispatch then reports a configuration error.
func NewDispatcher(email EmailSender, cfg DispatcherConfig, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{email: email, cfg: cfg, logger: logger}
}

// DispatchBooking sends the notification pair for a completed booking.
func (d *Dispatcher) DispatchBooking(ctx context.Context, draft wizard.BookingDraft) Result {
	if d.email == nil {
		d.logger.Error("booking dispatch skipped: no email sender configured")
		return Result{Success: false, Error: "Server configuration error. Please contact support."}
	}

	fullName := draft.Contact.FullName()
	if fullName == "" {
		fullName = "Client (Name not provided)"
	}
	clientEmail := draft.Contact.Email
	if clientEmail == "" {
		clientEmail = "Not provided"
	}
	notes := draft.Notes
	if notes == "" {
		notes = "None"
	}

	serviceLabel := draft.ServiceType.Label()
	sessionLabel := draft.SessionType.Label()
	receiptLabel := draft.ReceiptType.Label()

	admin := EmailMessage{
		To:       d.cfg.ProviderEmail,
		ToName:   d.cfg.ProviderName,
		FromName: "Booking System",
		Subject:  fmt.Sprintf("New Booking Request: %s", fullName),
		Body: fmt.Sprintf(`New Booking Received!

Client: %s
Email: %s
Service: %s
Session Type: %s
Receipt Requested: %s
Notes: %s

Please verify payment and confirm the session.`,
			fullName, clientEmail, serviceLabel, sessionLabel, receiptLabel, notes),
		HTML: fmt.Sprintf(`<h2>New Booking Request</h2>
<p><strong>Client:</strong> %s</p>
<p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>
<hr />
<h3>Booking Details</h3>
<ul>
<li><strong>Service:</strong> %s</li>
<li><strong>Session Type:</strong> %s</li>
<li><strong>Receipt Preference:</strong> %s</li>
</ul>
<p><strong>Notes:</strong><br/>%s</p>`,
			fullName, clientEmail, clientEmail, serviceLabel, sessionLabel, receiptLabel, notes),
	}

	if err := d.email.Send(ctx, admin); err != nil {
		d.logger.Error("provider booking email failed", "error", err)
		return Result{Success: false, Error: "Failed to send email notifications."}
	}
	d.logger.Info("provider booking email sent", "service", string(draft.ServiceType))

	// Client confirmation only when the address can plausibly receive it.
	if !strings.Contains(draft.Contact.Email, "@") {
		return Result{Success: true}
	}

	client := d.clientConfirmation(draft, fullName, serviceLabel, sessionLabel, receiptLabel)
	if err := d.email.Send(ctx, client); err != nil {
		d.logger.Error("client confirmation email failed", "error", err)
		return Result{Success: false, Error: "Failed to send email notifications."}
	}
	d.logger.Info("client confirmation email sent")

	return Result{Success: true}
}

func (d *Dispatcher) clientConfirmation(draft wizard.BookingDraft, fullName, serviceLabel, sessionLabel, receiptLabel string) EmailMessage {
	greeting := draft.Contact.FirstName
	if greeting == "" {
		greeting = "there"
	}

	receiptNote := ""
	receiptNoteHTML := ""
	if draft.ReceiptType != wizard.ReceiptNone {
		receiptNote = "\nIMPORTANT: You requested an insurance receipt. Please ensure the name provided matches your legal name for insurance purposes.\n"
		receiptNoteHTML = fmt.Sprintf(`<div style="border-left: 4px solid #f59e0b; padding-left: 10px; margin-top: 20px;">
<p style="color: #b45309; font-weight: bold;">Insurance Receipt Info</p>
<p>You requested a <strong>%s</strong>. Please ensure the name you provided (%s) matches your legal name required for insurance claims.</p>
</div>`, receiptLabel, fullName)
	}

	return EmailMessage{
		To:       draft.Contact.Email,
		ToName:   fullName,
		FromName: fmt.Sprintf("%s - Coach", d.cfg.ProviderName),
		Subject:  fmt.Sprintf("Booking Confirmation - %s", serviceLabel),
		Body: fmt.Sprintf(`Hi %s,

Thanks for your booking request! Here are the details:

Service: %s
Session Type: %s

NEXT STEPS:
1. Please complete your E-Transfer to: %s
   (Auto-deposit enabled. Please reference your name in the memo.)
%s
I will confirm your slot once payment is received.

Best,
%s`, greeting, serviceLabel, sessionLabel, d.cfg.TransferEmail, receiptNote, d.cfg.ProviderName),
		HTML: fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2>Booking Received!</h2>
<p>Hi %s,</p>
<p>Thanks for booking with me. Here is a summary of your request:</p>
<div style="background-color: #f3f4f6; padding: 15px; border-radius: 8px; margin: 20px 0;">
<p style="margin: 5px 0;"><strong>Service:</strong> %s</p>
<p style="margin: 5px 0;"><strong>Session Details:</strong> %s</p>
</div>
<h3>Next Steps</h3>
<p>To secure your spot, please send an E-Transfer to:</p>
<p style="font-size: 1.1em; font-weight: bold; background-color: #e5e7eb; padding: 10px; display: inline-block;">%s</p>
<p style="font-size: 0.9em; color: #666;">(Auto-deposit is enabled. Please reference your name in the memo.)</p>
%s
<hr style="margin: 30px 0; border: 0; border-top: 1px solid #eee;" />
<p>I will confirm your appointment personally once payment is received.</p>
<p>Best,<br>%s</p>
</div>`, greeting, serviceLabel, sessionLabel, d.cfg.TransferEmail, receiptNoteHTML, d.cfg.ProviderName),
	}
}

// OrderLine is one line of a presale order summary.
type OrderLine struct {
	Label    string
	Quantity int
}

// OrderSummary is what a presale order contributes to its notification.
type OrderSummary struct {
	FullName      string
	Phone         string
	Instagram     string
	Lines         []OrderLine
	PickupDetails string
}

// DispatchOrder sends the provider notification for a presale order.
// There is no client email on this path; orders are followed up over
// Instagram.
func (d *Dispatcher) DispatchOrder(ctx context.Context, order OrderSummary) Result {
	if d.email == nil {
		d.logger.Warn("order dispatch skipped: no email sender configured")
		// The order summary is still shown to the client, so a missing
		// sender is not a client-facing failure.
		return Result{Success: true}
	}

	instagram := order.Instagram
	if instagram == "" {
		instagram = "Not provided"
	}

	var text strings.Builder
	var html strings.Builder
	for _, line := range order.Lines {
		fmt.Fprintf(&text, "%s x %d\n", line.Label, line.Quantity)
		fmt.Fprintf(&html, "<li><strong>%s</strong>: %d</li>", line.Label, line.Quantity)
	}

	msg := EmailMessage{
		To:       d.cfg.ProviderEmail,
		ToName:   d.cfg.ProviderName,
		FromName: "Presale Orders",
		Subject:  fmt.Sprintf("New Presale Order: %s", order.FullName),
		Body: fmt.Sprintf(`New Presale Order Received!

Client: %s
Phone: %s
Instagram: %s

Order Details:
%s
Allergy Acknowledgment: YES

Pickup Details: %s`, order.FullName, order.Phone, instagram, text.String(), order.PickupDetails),
		HTML: fmt.Sprintf(`<h2>New Presale Order</h2>
<p><strong>Client:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Instagram:</strong> %s</p>
<hr />
<h3>Order Summary</h3>
<ul>%s</ul>
<p><strong>Allergy Acknowledgment:</strong> Confirmed</p>
<p><strong>Pickup:</strong> %s</p>`, order.FullName, order.Phone, instagram, html.String(), order.PickupDetails),
	}

	if err := d.email.Send(ctx, msg); err != nil {
		d.logger.Error("presale order email failed", "error", err)
		return Result{Success: false, Error: "Failed to submit order. Please try again later."}
	}
	d.logger.Info("presale order email sent", "lines", len(order.Lines))

	return Result{Success: true}
}
