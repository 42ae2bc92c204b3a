// Package delegation implements the two-phase session handoff: a
// session record is exported as a digest-sealed snapshot to a faster
// execution venue, remote mutations are applied against the snapshot,
// and the result is reconciled back into the durable store. Game logic
// stays oblivious — it runs identically against the home copy or a
// relocated one.
package delegation

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wordrush/platform/internal/domain"
)

// Digest returns the sha256 seal over a snapshot.
func Digest(snapshot []byte) []byte {
	sum := sha256.Sum256(snapshot)
	return sum[:]
}

// Export seals the current session state into a handoff record.
func Export(s *domain.GameSession, now time.Time) (*domain.SessionDelegation, error) {
	if s.Completed {
		return nil, domain.ErrConflict("cannot delegate a completed session")
	}
	snapshot, err := json.Marshal(s)
	if err != nil {
		return nil, domain.ErrInternal("marshal session snapshot", err)
	}
	return &domain.SessionDelegation{
		SessionID:  s.SessionID,
		PlayerID:   s.PlayerID,
		Status:     domain.DelegationExported,
		Snapshot:   snapshot,
		Digest:     Digest(snapshot),
		ExportedAt: now,
	}, nil
}

// Apply folds remotely mutated session state into the handoff record.
// The remote copy must descend from the exported one: same session and
// player, guesses only ever added, completion never reverted.
func Apply(d *domain.SessionDelegation, remote *domain.GameSession, now time.Time) error {
	if d.Status == domain.DelegationReconciled {
		return domain.ErrConflict("delegation already reconciled")
	}
	if !bytes.Equal(d.Digest, Digest(d.Snapshot)) {
		return domain.ErrConflict("delegation snapshot digest mismatch")
	}

	exported, err := decodeSnapshot(d.Snapshot)
	if err != nil {
		return err
	}
	if remote.SessionID != exported.SessionID || remote.PlayerID != exported.PlayerID {
		return domain.ErrValidation("remote session does not match the exported record")
	}
	if remote.GuessesUsed < exported.GuessesUsed {
		return domain.ErrConflict("remote session lost guesses recorded before export")
	}
	if exported.Completed && !remote.Completed {
		return domain.ErrConflict("remote session reverted completion")
	}

	snapshot, err := json.Marshal(remote)
	if err != nil {
		return domain.ErrInternal("marshal session snapshot", err)
	}
	d.Snapshot = snapshot
	d.Digest = Digest(snapshot)
	d.Status = domain.DelegationApplied
	d.AppliedAt = &now
	return nil
}

// Reconcile verifies the sealed snapshot and returns the session state
// to merge back into the durable store. One-way: a reconciled record
// cannot be applied again.
func Reconcile(d *domain.SessionDelegation, now time.Time) (*domain.GameSession, error) {
	if d.Status == domain.DelegationReconciled {
		return nil, domain.ErrConflict("delegation already reconciled")
	}
	if !bytes.Equal(d.Digest, Digest(d.Snapshot)) {
		return nil, domain.ErrConflict("delegation snapshot digest mismatch")
	}
	s, err := decodeSnapshot(d.Snapshot)
	if err != nil {
		return nil, err
	}
	d.Status = domain.DelegationReconciled
	d.ReconciledAt = &now
	return s, nil
}

// MergeBack overwrites the durable session with the reconciled one.
// Completion is terminal: a durable session that completed (and
// settled) while the handoff was out must never be reopened, and a
// snapshot behind the durable row is stale. Both reject the merge.
func MergeBack(durable, merged *domain.GameSession) error {
	if durable.SessionID != merged.SessionID || durable.PlayerID != merged.PlayerID {
		return domain.ErrConflict("reconciled session does not match the durable record")
	}
	if durable.Completed {
		return domain.ErrConflict("session completed before reconciliation; delegated result discarded")
	}
	if durable.GuessesUsed > merged.GuessesUsed {
		return domain.ErrConflict("session progressed past the delegated snapshot; delegated result discarded")
	}
	*durable = *merged
	return nil
}

func decodeSnapshot(snapshot []byte) (*domain.GameSession, error) {
	var s domain.GameSession
	if err := json.Unmarshal(snapshot, &s); err != nil {
		return nil, domain.ErrInternal(fmt.Sprintf("decode session snapshot (%d bytes)", len(snapshot)), err)
	}
	return &s, nil
}
