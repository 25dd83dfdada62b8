package session

import (
	"context"

	"github.com/ygangat/coaching-platform/internal/wizard"
)

// Disabled is a snapshot store for deployments without redis. Writes
// and reads are no-ops: the wizard keeps working and only the
// post-redirect rehydration degrades to a blank draft.
type Disabled struct{}

// ForSession returns the same no-op store for every session.
func (d Disabled) ForSession(string) wizard.SnapshotStore { return d }

// Save discards the snapshot.
func (Disabled) Save(context.Context, wizard.Snapshot) error { return nil }

// Load reports that nothing is stored.
func (Disabled) Load(context.Context) (*wizard.Snapshot, error) { return nil, nil }

// Clear is a no-op.
func (Disabled) Clear(context.Context) error { return nil }
