package wizard

import (
	"net/url"
	"strings"
	"testing"
)

func TestMailtoLinkWithReceipt(t *testing.T) {
	d := NewDraft()
	d.Contact = Contact{FirstName: "Sam", LastName: "Rivera", Email: "sam@rivera.dev"}
	d.ServiceType = ServicePack
	d.SessionType = SessionCombo
	d.HasInsurance = InsuranceYes
	d.ReceiptType = ReceiptMassage
	d.Notes = "lower back"

	link := DefaultHandoff.MailtoLink(&d)
	if !strings.HasPrefix(link, "mailto:yasirgangat@gmail.com?subject=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	q := u.Query()

	subject := q.Get("subject")
	if subject != "Booking Request: Transformation Pack (4 Sessions) Sam Rivera" {
		t.Errorf("subject = %q", subject)
	}

	body := q.Get("body")
	for _, want := range []string{
		"Name: Sam Rivera",
		"Email: sam@rivera.dev",
		"Service: Transformation Pack (4 Sessions)",
		"Session Type: Workout/Therapy",
		"Receipt: Massage Therapy Receipt",
		"Notes: lower back",
		"E-Transfer to yasir_gangat@hotmail.com",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestMailtoLinkOmitsPersonalDetailsWithoutReceipt(t *testing.T) {
	d := NewDraft()
	d.Contact = Contact{FirstName: "Sam", LastName: "Rivera", Email: "sam@rivera.dev"}

	link := DefaultHandoff.MailtoLink(&d)
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	body := u.Query().Get("body")
	if strings.Contains(body, "Email: sam@rivera.dev") {
		t.Error("personal details must not appear in a receipt-less handoff")
	}
	if !strings.Contains(body, "Notes: None") {
		t.Errorf("empty notes should render as None:\n%s", body)
	}
}

func TestMailtoSpacesAreNotPlusSigns(t *testing.T) {
	d := NewDraft()
	link := DefaultHandoff.MailtoLink(&d)
	if strings.Contains(link, "+") {
		t.Errorf("mailto components must percent-encode spaces: %s", link)
	}
}
