package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DelegationStatus tracks the two-phase session handoff: the record is
// exported to a faster execution venue, remote mutations are applied
// against the snapshot, and the result is reconciled back into the
// durable store.
type DelegationStatus string

const (
	DelegationExported   DelegationStatus = "exported"
	DelegationApplied    DelegationStatus = "applied"
	DelegationReconciled DelegationStatus = "reconciled"
)

// SessionDelegation is the handoff record for one relocated session.
// Digest is the sha256 of the exported snapshot; apply and reconcile
// verify it so a stale or tampered snapshot can never merge back.
type SessionDelegation struct {
	SessionID string           `json:"session_id"`
	PlayerID  uuid.UUID        `json:"player_id"`
	Status    DelegationStatus `json:"status"`
	Snapshot  json.RawMessage  `json:"snapshot"`
	Digest    []byte           `json:"digest"`

	ExportedAt   time.Time  `json:"exported_at"`
	AppliedAt    *time.Time `json:"applied_at,omitempty"`
	ReconciledAt *time.Time `json:"reconciled_at,omitempty"`
}
