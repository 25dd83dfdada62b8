package wizard

// Step is the wizard's ordinal state. Details is skipped entirely when
// the client declines an insurance receipt, and the skip is symmetric
// when navigating back. The two success steps are terminal and distinct:
// an e-transfer completion is an unverified manual handoff while a card
// completion is a confirmed electronic payment.
type Step int

const (
	StepSessionType Step = iota + 1
	StepPackage
	StepInsuranceGate
	StepDetails
	StepPayment
	StepSuccessETransfer
	StepSuccessCard
)

// progressSteps is the number of steps shown on the progress indicator;
// the terminal steps are not part of it.
const progressSteps = 5

// String returns the step name used in logs and API payloads.
func (s Step) String() string {
	switch s {
	case StepSessionType:
		return "session_type"
	case StepPackage:
		return "package"
	case StepInsuranceGate:
		return "insurance"
	case StepDetails:
		return "details"
	case StepPayment:
		return "payment"
	case StepSuccessETransfer:
		return "success_etransfer"
	case StepSuccessCard:
		return "success_card"
	}
	return "unknown"
}

// Terminal reports whether the step has no outgoing transition.
func (s Step) Terminal() bool {
	return s == StepSuccessETransfer || s == StepSuccessCard
}

// ProgressPercent returns the progress-bar position for the step.
// Terminal steps report 100.
func (s Step) ProgressPercent() int {
	if s.Terminal() || int(s) > progressSteps {
		return 100
	}
	return int(s) * 100 / progressSteps
}

// stepRule is one row of the transition table: gate decides whether
// Advance is allowed from the step, next picks the successor for the
// current draft. The table is the single authority on branching; both
// navigation and the progress indicator consult it rather than
// re-deriving the insurance skip.
type stepRule struct {
	gate func(d *BookingDraft) bool
	next func(d *BookingDraft) Step
}

var forwardRules = map[Step]stepRule{
	StepSessionType: {
		next: func(*BookingDraft) Step { return StepPackage },
	},
	StepPackage: {
		next: func(*BookingDraft) Step { return StepInsuranceGate },
	},
	StepInsuranceGate: {
		gate: func(d *BookingDraft) bool { return d.HasInsurance.Decided() },
		next: func(d *BookingDraft) Step {
			if d.HasInsurance == InsuranceYes {
				return StepDetails
			}
			return StepPayment
		},
	},
	StepDetails: {
		gate: (*BookingDraft).detailsComplete,
		next: func(*BookingDraft) Step { return StepPayment },
	},
	// Payment exits only through CompleteViaTransfer or
	// ConfirmCardPayment; it has no Advance rule.
}

var backRules = map[Step]func(d *BookingDraft) Step{
	StepPackage:       func(*BookingDraft) Step { return StepSessionType },
	StepInsuranceGate: func(*BookingDraft) Step { return StepPackage },
	StepDetails:       func(*BookingDraft) Step { return StepInsuranceGate },
	StepPayment: func(d *BookingDraft) Step {
		if d.HasInsurance == InsuranceYes {
			return StepDetails
		}
		return StepInsuranceGate
	},
}

// NextStep consults the transition table. ok is false when the step has
// no forward transition or its gate is unmet.
func NextStep(s Step, d *BookingDraft) (next Step, ok bool) {
	rule, found := forwardRules[s]
	if !found {
		return s, false
	}
	if rule.gate != nil && !rule.gate(d) {
		return s, false
	}
	return rule.next(d), true
}

// PrevStep consults the transition table for backwards navigation. ok is
// false at the first step and at terminal steps.
func PrevStep(s Step, d *BookingDraft) (prev Step, ok bool) {
	rule, found := backRules[s]
	if !found {
		return s, false
	}
	return rule(d), true
}
