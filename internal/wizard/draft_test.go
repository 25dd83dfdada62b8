package wizard

import (
	"encoding/json"
	"testing"
)

func TestInsuranceChoiceJSONRoundTrip(t *testing.T) {
	tests := []struct {
		choice InsuranceChoice
		wire   string
	}{
		{InsuranceUndecided, "null"},
		{InsuranceYes, "true"},
		{InsuranceNo, "false"},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.choice)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != tt.wire {
			t.Errorf("marshal(%v) = %s, want %s", tt.choice, data, tt.wire)
		}
		var back InsuranceChoice
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if back != tt.choice {
			t.Errorf("round trip of %v gave %v", tt.choice, back)
		}
	}
}

func TestPlausibleEmail(t *testing.T) {
	valid := []string{"a@b", "sarah@x.com", "first.last@sub.domain.ca"}
	invalid := []string{"", "nodomain@", "@nolocal", "plain", "two@@ats"}
	for _, s := range valid {
		if !plausibleEmail(s) {
			t.Errorf("expected %q to be plausible", s)
		}
	}
	for _, s := range invalid {
		if plausibleEmail(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestLabelsAndPrices(t *testing.T) {
	if ServiceSingle.PriceDollars() != 125 || ServicePack.PriceDollars() != 400 {
		t.Error("price table drifted from 125/400")
	}
	if SessionCombo.Label() != "Workout/Therapy" {
		t.Errorf("combo label = %q", SessionCombo.Label())
	}
	if ServicePack.Label() != "Transformation Pack (4 Sessions)" {
		t.Errorf("pack label = %q", ServicePack.Label())
	}
	if ReceiptNone.Label() != "No receipt needed" {
		t.Errorf("none receipt label = %q", ReceiptNone.Label())
	}
}

func TestDraftDefaults(t *testing.T) {
	d := NewDraft()
	if d.ServiceType != ServiceSingle || d.SessionType != SessionWorkout {
		t.Errorf("unexpected defaults: %+v", d)
	}
	if d.HasInsurance.Decided() {
		t.Error("insurance must start undecided")
	}
	if d.ReceiptType != ReceiptNone {
		t.Errorf("receipt must default to none, got %s", d.ReceiptType)
	}
}

func TestProgressPercent(t *testing.T) {
	if StepSessionType.ProgressPercent() != 20 {
		t.Errorf("step 1 progress = %d", StepSessionType.ProgressPercent())
	}
	if StepPayment.ProgressPercent() != 100 {
		t.Errorf("step 5 progress = %d", StepPayment.ProgressPercent())
	}
	if !StepSuccessCard.Terminal() || StepSuccessCard.ProgressPercent() != 100 {
		t.Error("terminal steps report full progress")
	}
}
