package wizard

import (
	"fmt"
	"net/url"
	"strings"
)

// HandoffConfig holds the addresses used by the e-transfer completion
// path: the mailto recipient of the pre-filled booking email and the
// e-transfer destination quoted in its body.
type HandoffConfig struct {
	ProviderName    string
	MailtoAddress   string
	TransferAddress string
}

// DefaultHandoff matches the provider's published addresses.
var DefaultHandoff = HandoffConfig{
	ProviderName:    "Yasir",
	MailtoAddress:   "yasirgangat@gmail.com",
	TransferAddress: "yasir_gangat@hotmail.com",
}

// MailtoLink builds the pre-filled mailto URL for the manual e-transfer
// handoff. Personal details appear in the body only when a receipt was
// requested, mirroring the draft-clearing invariant.
func (h HandoffConfig) MailtoLink(d *BookingDraft) string {
	subject := strings.TrimSpace(fmt.Sprintf("Booking Request: %s %s %s",
		d.ServiceType.Label(), d.Contact.FirstName, d.Contact.LastName))

	var personal string
	if d.ReceiptType != ReceiptNone {
		personal = fmt.Sprintf("Name: %s\nEmail: %s\n", d.Contact.FullName(), d.Contact.Email)
	}

	notes := d.Notes
	if notes == "" {
		notes = "None"
	}

	body := fmt.Sprintf(`Hi %s,

I'd like to confirm my booking details:

%sService: %s
Session Type: %s
Receipt: %s
Notes: %s

I will send the E-Transfer to %s shortly.`,
		h.ProviderName,
		personal,
		d.ServiceType.Label(),
		d.SessionType.Label(),
		d.ReceiptType.Label(),
		notes,
		h.TransferAddress,
	)

	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		h.MailtoAddress, encodeComponent(subject), encodeComponent(body))
}

// encodeComponent percent-encodes a mailto query component. QueryEscape
// alone would emit "+" for spaces, which mail clients take literally.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
