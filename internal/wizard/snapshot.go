package wizard

import "context"

// Snapshot mirrors the draft plus the step-relevant selections. It is
// overwritten in full on every draft mutation and consumed exactly once
// when a card payment is confirmed after the gateway redirect.
type Snapshot struct {
	Draft        BookingDraft    `json:"draft"`
	ServiceType  ServiceType     `json:"serviceType"`
	SessionType  SessionType     `json:"sessionType"`
	HasInsurance InsuranceChoice `json:"hasInsurance"`
}

// snapshotOf builds the snapshot for the current draft.
func snapshotOf(d BookingDraft) Snapshot {
	return Snapshot{
		Draft:        d,
		ServiceType:  d.ServiceType,
		SessionType:  d.SessionType,
		HasInsurance: d.HasInsurance,
	}
}

// restore rebuilds a draft from the snapshot. The top-level fields win
// over whatever the embedded draft carries.
func (s Snapshot) restore() BookingDraft {
	d := s.Draft
	d.ServiceType = s.ServiceType
	d.SessionType = s.SessionType
	d.HasInsurance = s.HasInsurance
	return d
}

// SnapshotStore is the session-scoped persistence capability injected
// into the wizard. An implementation is already bound to one wizard
// session; there is no cross-session key to get wrong.
//
// Save is a total overwrite, never a merge. Load returns (nil, nil)
// when nothing is stored. Clear is idempotent. A store that is
// unavailable may report errors from all three; the wizard treats them
// as no-ops and only the post-redirect rehydration degrades.
type SnapshotStore interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
	Clear(ctx context.Context) error
}
