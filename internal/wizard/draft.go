// Package wizard implements the booking wizard: the step state machine,
// the mutable booking draft, and the snapshot persistence that lets an
// in-progress booking survive the redirect round trip through the
// scheduling widget and the payment gateway.
package wizard

import (
	"bytes"
	"strings"
)

// SessionType is the kind of session the client is booking.
type SessionType string

const (
	SessionWorkout SessionType = "workout"
	SessionTherapy SessionType = "therapy"
	SessionCombo   SessionType = "combo"
)

// Valid reports whether the value is one of the known session types.
func (s SessionType) Valid() bool {
	switch s {
	case SessionWorkout, SessionTherapy, SessionCombo:
		return true
	}
	return false
}

// Label returns the human-readable name shown in summaries and emails.
func (s SessionType) Label() string {
	switch s {
	case SessionWorkout:
		return "Workout"
	case SessionTherapy:
		return "Therapy"
	case SessionCombo:
		return "Workout/Therapy"
	}
	return string(s)
}

// ServiceType is the selected package.
type ServiceType string

const (
	ServiceSingle ServiceType = "single"
	ServicePack   ServiceType = "pack"
)

// Valid reports whether the value is one of the known packages.
func (s ServiceType) Valid() bool {
	return s == ServiceSingle || s == ServicePack
}

// Label returns the human-readable package name.
func (s ServiceType) Label() string {
	if s == ServicePack {
		return "Transformation Pack (4 Sessions)"
	}
	return "Single Session"
}

// PriceDollars returns the package price in whole dollars. Conversion to
// minor units happens only at the gateway boundary.
func (s ServiceType) PriceDollars() int64 {
	if s == ServicePack {
		return 400
	}
	return 125
}

// ReceiptType is the insurance receipt the client wants, if any.
type ReceiptType string

const (
	ReceiptNone    ReceiptType = "none"
	ReceiptMassage ReceiptType = "massage"
	ReceiptFitness ReceiptType = "fitness"
)

// Valid reports whether the value is one of the known receipt types.
func (r ReceiptType) Valid() bool {
	switch r {
	case ReceiptNone, ReceiptMassage, ReceiptFitness:
		return true
	}
	return false
}

// Label returns the human-readable receipt description.
func (r ReceiptType) Label() string {
	switch r {
	case ReceiptMassage:
		return "Massage Therapy Receipt"
	case ReceiptFitness:
		return "Fitness/Training Receipt"
	case ReceiptNone:
		return "No receipt needed"
	}
	return string(r)
}

// InsuranceChoice is the tri-state answer to the insurance-receipt
// question. Undecided blocks progression past the insurance step; the
// two decided values pick different paths through the wizard.
type InsuranceChoice int

const (
	InsuranceUndecided InsuranceChoice = iota
	InsuranceYes
	InsuranceNo
)

// Decided reports whether the client has answered the question.
func (c InsuranceChoice) Decided() bool { return c != InsuranceUndecided }

// MarshalJSON encodes the choice as null / true / false so snapshots
// keep the wire shape established by the browser client.
func (c InsuranceChoice) MarshalJSON() ([]byte, error) {
	switch c {
	case InsuranceYes:
		return []byte("true"), nil
	case InsuranceNo:
		return []byte("false"), nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes null / true / false.
func (c *InsuranceChoice) UnmarshalJSON(data []byte) error {
	switch {
	case bytes.Equal(data, []byte("true")):
		*c = InsuranceYes
	case bytes.Equal(data, []byte("false")):
		*c = InsuranceNo
	default:
		*c = InsuranceUndecided
	}
	return nil
}

// Contact holds the client identity used for insurance receipts. Fields
// default to the empty string, never a missing value, so downstream
// templating cannot render a literal "undefined".
type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// FullName joins the name parts, tolerating missing pieces.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// BookingDraft is the mutable working record for one in-progress booking.
type BookingDraft struct {
	Contact      Contact         `json:"contact"`
	ServiceType  ServiceType     `json:"serviceType"`
	SessionType  SessionType     `json:"sessionType"`
	HasInsurance InsuranceChoice `json:"hasInsurance"`
	ReceiptType  ReceiptType     `json:"receiptType"`
	Notes        string          `json:"notes"`
}

// NewDraft returns a draft with the documented defaults.
func NewDraft() BookingDraft {
	return BookingDraft{
		ServiceType: ServiceSingle,
		SessionType: SessionWorkout,
		ReceiptType: ReceiptNone,
	}
}

// detailsComplete is the gate for leaving the Details step: both names
// and a plausible email are required before an insurance receipt can be
// issued.
func (d *BookingDraft) detailsComplete() bool {
	return d.Contact.FirstName != "" &&
		d.Contact.LastName != "" &&
		plausibleEmail(d.Contact.Email)
}

// plausibleEmail is a syntax sniff, not verification: a non-empty local
// part and domain around a single "@".
func plausibleEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return !strings.Contains(s[at+1:], "@")
}
