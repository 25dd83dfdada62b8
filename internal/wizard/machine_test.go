package wizard

import (
	"context"
	"errors"
	"testing"
)

// memStore is an in-process SnapshotStore for tests.
type memStore struct {
	snap  *Snapshot
	saves int
}

func (s *memStore) Save(_ context.Context, snap Snapshot) error {
	s.snap = &snap
	s.saves++
	return nil
}

func (s *memStore) Load(_ context.Context) (*Snapshot, error) {
	if s.snap == nil {
		return nil, nil
	}
	cp := *s.snap
	return &cp, nil
}

func (s *memStore) Clear(_ context.Context) error {
	s.snap = nil
	return nil
}

// brokenStore models unavailable session storage.
type brokenStore struct{}

func (brokenStore) Save(context.Context, Snapshot) error   { return errors.New("storage disabled") }
func (brokenStore) Load(context.Context) (*Snapshot, error) { return nil, errors.New("storage disabled") }
func (brokenStore) Clear(context.Context) error            { return errors.New("storage disabled") }

func TestInsuranceGateBlocksUntilDecided(t *testing.T) {
	ctx := context.Background()
	m := NewMachine(&memStore{})

	if !m.Advance(ctx) || !m.Advance(ctx) {
		t.Fatal("first two steps have no gates")
	}
	if m.Step() != StepInsuranceGate {
		t.Fatalf("expected insurance gate, got %s", m.Step())
	}

	if m.Advance(ctx) {
		t.Error("advance must be a no-op while insurance is undecided")
	}
	if m.Step() != StepInsuranceGate {
		t.Errorf("step moved despite unmet gate: %s", m.Step())
	}

	m.SetInsurance(ctx, true)
	if !m.Advance(ctx) {
		t.Error("advance must unblock the instant insurance is decided")
	}
	if m.Step() != StepDetails {
		t.Errorf("insurance=yes should lead to details, got %s", m.Step())
	}
}

func TestInsuranceNoSkipsDetailsSymmetrically(t *testing.T) {
	ctx := context.Background()
	m := NewMachine(&memStore{})
	m.Advance(ctx)
	m.Advance(ctx)

	m.SetInsurance(ctx, false)
	if !m.Advance(ctx) {
		t.Fatal("advance should pass the gate once decided")
	}
	if m.Step() != StepPayment {
		t.Fatalf("insurance=no should skip details, got %s", m.Step())
	}

	m.GoBack(ctx)
	if m.Step() != StepInsuranceGate {
		t.Errorf("back from payment without insurance should return to the gate, got %s", m.Step())
	}
}

func TestInsuranceYesPathAndBack(t *testing.T) {
	ctx := context.Background()
	m := NewMachine(&memStore{})
	m.Advance(ctx)
	m.Advance(ctx)
	m.SetInsurance(ctx, true)
	m.Advance(ctx)

	// Details gate: all three fields required.
	if m.Advance(ctx) {
		t.Error("details gate should block with empty contact")
	}
	m.SetDetails(ctx, Contact{FirstName: "Sam", LastName: "Rivera"}, "")
	if m.Advance(ctx) {
		t.Error("details gate should block without an email")
	}
	m.SetDetails(ctx, Contact{FirstName: "Sam", LastName: "Rivera", Email: "sam@rivera.dev"}, "knee pain")
	if !m.Advance(ctx) {
		t.Fatal("details gate should pass with complete contact")
	}
	if m.Step() != StepPayment {
		t.Fatalf("expected payment, got %s", m.Step())
	}

	m.GoBack(ctx)
	if m.Step() != StepDetails {
		t.Errorf("back from payment with insurance should return to details, got %s", m.Step())
	}
}

func TestSetInsuranceFalseClearsPersonalData(t *testing.T) {
	ctx := context.Background()
	m := NewMachine(&memStore{}, WithInitialContact(Contact{
		FirstName: "Sarah", LastName: "Doe", Email: "sarah@x.com",
	}))

	m.SetInsurance(ctx, true)
	m.SetDetails(ctx, m.Draft().Contact, "shoulder impingement")
	m.SetReceiptType(ctx, ReceiptMassage)

	m.SetInsurance(ctx, false)
	d := m.Draft()
	if d.Contact != (Contact{}) {
		t.Errorf("contact not cleared: %+v", d.Contact)
	}
	if d.Notes != "" {
		t.Errorf("notes not cleared: %q", d.Notes)
	}
	if d.ReceiptType != ReceiptNone {
		t.Errorf("receipt type not reset: %s", d.ReceiptType)
	}

	// false -> false is a no-op.
	before := m.Draft()
	m.SetInsurance(ctx, false)
	if m.Draft() != before {
		t.Error("repeating insurance=false changed the draft")
	}
}

func TestSetInsuranceTrueSuggestsFitnessReceipt(t *testing.T) {
	ctx := context.Background()
	m := NewMachine(&memStore{})
	m.SetInsurance(ctx, true)
	if got := m.Draft().ReceiptType; got != ReceiptFitness {
		t.Errorf("expected fitness receipt suggestion, got %s", got)
	}
}

func TestSetReceiptTypeRequiresInsurance(t *testing.T) {
	ctx := context.Background()
	m := NewMachine(&memStore{})
	m.SetReceiptType(ctx, ReceiptMassage)
	if got := m.Draft().ReceiptType; got != ReceiptNone {
		t.Errorf("receipt type should be ignored before the insurance answer, got %s", got)
	}
}

func TestEveryMutationOverwritesSnapshot(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	m := NewMachine(store)

	m.SelectSessionType(ctx, SessionTherapy)
	m.SelectPackage(ctx, ServicePack)
	m.SetInsurance(ctx, true)

	if store.saves != 3 {
		t.Fatalf("expected 3 write-through saves, got %d", store.saves)
	}
	if store.snap.SessionType != SessionTherapy || store.snap.ServiceType != ServicePack {
		t.Errorf("snapshot does not mirror the draft: %+v", store.snap)
	}
	if store.snap.HasInsurance != InsuranceYes {
		t.Errorf("snapshot missing insurance decision")
	}
}

func TestConfirmCardPaymentRehydratesAndClears(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}

	// A prior session chose the pack and insurance before redirecting away.
	prior := NewMachine(store)
	prior.SelectPackage(ctx, ServicePack)
	prior.SetInsurance(ctx, true)
	prior.SetDetails(ctx, Contact{FirstName: "Ana", LastName: "Silva", Email: "ana@silva.io"}, "")

	// The redirect-back lands in a fresh machine over the same store.
	m := NewMachine(store)
	if !m.ConfirmCardPayment(ctx, true) {
		t.Fatal("succeeded status must reach the card success step")
	}
	if m.Step() != StepSuccessCard {
		t.Fatalf("expected card success, got %s", m.Step())
	}
	if got := m.Draft().ServiceType; got != ServicePack {
		t.Errorf("draft not rehydrated from snapshot: serviceType=%s", got)
	}
	if got := m.Draft().Contact.Email; got != "ana@silva.io" {
		t.Errorf("contact not rehydrated: %q", got)
	}

	// Snapshot consumed exactly once.
	if snap, _ := store.Load(ctx); snap != nil {
		t.Error("snapshot must be deleted on successful confirmation")
	}
}

func TestConfirmCardPaymentNonSuccessLeavesPayment(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	prior := NewMachine(store)
	prior.SetInsurance(ctx, false)

	m := NewMachine(store)
	if m.ConfirmCardPayment(ctx, false) {
		t.Fatal("non-success status must not complete the booking")
	}
	if m.Step() != StepPayment {
		t.Errorf("expected payment step for manual retry, got %s", m.Step())
	}
	if snap, _ := store.Load(ctx); snap == nil {
		t.Error("snapshot must survive a failed confirmation")
	}
}

func TestBrokenStoreDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	m := NewMachine(brokenStore{})

	// The non-redirect path still works end to end.
	m.Advance(ctx)
	m.Advance(ctx)
	m.SetInsurance(ctx, false)
	m.Advance(ctx)
	link, err := m.CompleteViaTransfer(ctx)
	if err != nil {
		t.Fatalf("e-transfer path must not depend on the store: %v", err)
	}
	if link == "" {
		t.Fatal("expected a mailto link")
	}
	if m.Step() != StepSuccessETransfer {
		t.Fatalf("expected e-transfer success, got %s", m.Step())
	}

	// Redirect recovery degrades to a blank draft on payment.
	fresh := NewMachine(brokenStore{})
	if fresh.ConfirmCardPayment(ctx, false) {
		t.Fatal("unexpected success")
	}
	if fresh.Step() != StepPayment {
		t.Errorf("expected payment step, got %s", fresh.Step())
	}
}

func TestCompleteViaTransferOnlyFromPayment(t *testing.T) {
	ctx := context.Background()
	m := NewMachine(&memStore{})
	if _, err := m.CompleteViaTransfer(ctx); !errors.Is(err, ErrNotAtPayment) {
		t.Fatalf("expected ErrNotAtPayment, got %v", err)
	}
}

func TestAmountFollowsPriceTable(t *testing.T) {
	ctx := context.Background()
	m := NewMachine(&memStore{})
	if got := m.AmountDollars(); got != 125 {
		t.Errorf("single session price = %d, want 125", got)
	}
	m.SelectPackage(ctx, ServicePack)
	if got := m.AmountDollars(); got != 400 {
		t.Errorf("pack price = %d, want 400", got)
	}
}

func TestTerminalStepsHaveNoTransitions(t *testing.T) {
	ctx := context.Background()
	for _, s := range []Step{StepSuccessETransfer, StepSuccessCard} {
		d := NewDraft()
		if _, ok := NextStep(s, &d); ok {
			t.Errorf("%s must have no forward transition", s)
		}
		if _, ok := PrevStep(s, &d); ok {
			t.Errorf("%s must have no backward transition", s)
		}
	}
	m := NewMachine(&memStore{})
	if m.GoBack(ctx) {
		t.Error("back from the first step must be a no-op")
	}
}
