package wizard

import (
	"context"
	"errors"

	"github.com/ygangat/coaching-platform/pkg/logging"
)

// ErrNotAtPayment is returned when a payment-step completion is
// attempted from any other step.
var ErrNotAtPayment = errors.New("wizard: not at payment step")

// Machine drives one booking wizard session: it sequences steps through
// the transition table, gates advancement on validation, mutates the
// draft in response to client input, and mirrors every change into the
// snapshot store so the session survives the gateway redirect.
type Machine struct {
	draft   BookingDraft
	step    Step
	store   SnapshotStore
	handoff HandoffConfig
	logger  *logging.Logger
}

// Option configures a Machine at construction.
type Option func(*Machine)

// WithInitialContact seeds the contact from identity ingestion.
func WithInitialContact(c Contact) Option {
	return func(m *Machine) { m.draft.Contact = c }
}

// WithInitialService applies the service preselected via the booking
// link's query parameter.
func WithInitialService(s ServiceType) Option {
	return func(m *Machine) {
		if s.Valid() {
			m.draft.ServiceType = s
		}
	}
}

// WithHandoff sets the e-transfer handoff addresses.
func WithHandoff(cfg HandoffConfig) Option {
	return func(m *Machine) { m.handoff = cfg }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// NewMachine creates a wizard session at the first step. store must not
// be nil; use a no-op implementation when session storage is
// unavailable.
func NewMachine(store SnapshotStore, opts ...Option) *Machine {
	m := &Machine{
		draft:   NewDraft(),
		step:    StepSessionType,
		store:   store,
		handoff: DefaultHandoff,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Step returns the current step.
func (m *Machine) Step() Step { return m.step }

// Draft returns a copy of the working draft.
func (m *Machine) Draft() BookingDraft { return m.draft }

// AmountDollars is the price of the selected package in whole dollars,
// used both for display and for the authorization request.
func (m *Machine) AmountDollars() int64 { return m.draft.ServiceType.PriceDollars() }

// SelectSessionType sets the session type. No gate.
func (m *Machine) SelectSessionType(ctx context.Context, v SessionType) {
	if !v.Valid() {
		return
	}
	m.draft.SessionType = v
	m.persist(ctx)
}

// SelectPackage sets the package. No gate.
func (m *Machine) SelectPackage(ctx context.Context, v ServiceType) {
	if !v.Valid() {
		return
	}
	m.draft.ServiceType = v
	m.persist(ctx)
}

// SetInsurance records the insurance-receipt decision. Answering yes
// suggests a fitness receipt; answering no clears the receipt choice,
// the contact, and the notes so nothing entered for a receipt leaks
// into a receipt-less flow. Repeating "no" is a no-op.
func (m *Machine) SetInsurance(ctx context.Context, hasInsurance bool) {
	if hasInsurance {
		m.draft.HasInsurance = InsuranceYes
		m.draft.ReceiptType = ReceiptFitness
	} else {
		m.draft.HasInsurance = InsuranceNo
		m.draft.ReceiptType = ReceiptNone
		m.draft.Contact = Contact{}
		m.draft.Notes = ""
	}
	m.persist(ctx)
}

// SetDetails records the contact and notes entered on the Details step.
func (m *Machine) SetDetails(ctx context.Context, c Contact, notes string) {
	m.draft.Contact = c
	m.draft.Notes = notes
	m.persist(ctx)
}

// SetReceiptType picks the receipt variant. Only meaningful once the
// client has said they need a receipt.
func (m *Machine) SetReceiptType(ctx context.Context, r ReceiptType) {
	if m.draft.HasInsurance != InsuranceYes || !r.Valid() {
		return
	}
	m.draft.ReceiptType = r
	m.persist(ctx)
}

// Advance moves to the next step per the transition table. It returns
// false, changing nothing, when the current step's gate is unmet or the
// step has no forward transition.
func (m *Machine) Advance(ctx context.Context) bool {
	next, ok := NextStep(m.step, &m.draft)
	if !ok {
		return false
	}
	m.step = next
	m.persist(ctx)
	return true
}

// GoBack moves to the previous step. The Details skip is symmetric:
// backing out of Payment returns to Details only when the client wants
// an insurance receipt.
func (m *Machine) GoBack(ctx context.Context) bool {
	prev, ok := PrevStep(m.step, &m.draft)
	if !ok {
		return false
	}
	m.step = prev
	m.persist(ctx)
	return true
}

// CompleteViaTransfer finishes the booking through the manual e-transfer
// path. It builds the pre-filled provider email link and moves to the
// e-transfer success step unconditionally: activating a mail handoff is
// treated as success even though delivery is never confirmed.
func (m *Machine) CompleteViaTransfer(ctx context.Context) (mailto string, err error) {
	if m.step != StepPayment {
		return "", ErrNotAtPayment
	}
	link := m.handoff.MailtoLink(&m.draft)
	m.step = StepSuccessETransfer
	m.persist(ctx)
	return link, nil
}

// ConfirmCardPayment resolves a gateway redirect-back. When the payment
// succeeded, the draft is rehydrated from the snapshot store, the wizard
// jumps to the card success step, and the snapshot is deleted. Any other
// status leaves the session on the Payment step for a manual retry; if
// the snapshot is missing or the store unavailable the session proceeds
// with whatever draft it has rather than failing.
func (m *Machine) ConfirmCardPayment(ctx context.Context, succeeded bool) bool {
	if m.step.Terminal() {
		return m.step == StepSuccessCard
	}
	snap, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("wizard: snapshot load failed, continuing with current draft", "error", err)
	} else if snap != nil {
		m.draft = snap.restore()
	}
	if !succeeded {
		m.step = StepPayment
		return false
	}
	m.step = StepSuccessCard
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("wizard: snapshot clear failed", "error", err)
	}
	return true
}

// persist mirrors the draft into the snapshot store. Store failures are
// logged and otherwise ignored: the wizard keeps working and only the
// post-redirect rehydration degrades.
func (m *Machine) persist(ctx context.Context) {
	if err := m.store.Save(ctx, snapshotOf(m.draft)); err != nil {
		m.logger.Warn("wizard: snapshot save failed", "error", err, "step", m.step.String())
	}
}
