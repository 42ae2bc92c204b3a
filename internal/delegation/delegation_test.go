package delegation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/game"
)

func activeSession(t *testing.T) *domain.GameSession {
	t.Helper()
	s, err := game.NewSession(uuid.New(), "D123", game.CommitWord("BRIDGE"), 1, time.Now())
	require.NoError(t, err)
	return s
}

func TestExportApplyReconcile(t *testing.T) {
	home := activeSession(t)
	d, err := Export(home, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.DelegationExported, d.Status)

	// Play two guesses against the relocated copy.
	remote, err := Reconcile(&domain.SessionDelegation{
		SessionID: d.SessionID, PlayerID: d.PlayerID,
		Status: d.Status, Snapshot: d.Snapshot, Digest: d.Digest,
	}, time.Now())
	require.NoError(t, err)
	_, err = game.ApplyGuess(remote, "BRIDGE", "CASTLE", time.Now())
	require.NoError(t, err)
	_, err = game.ApplyGuess(remote, "BRIDGE", "BRIDGE", time.Now())
	require.NoError(t, err)

	require.NoError(t, Apply(d, remote, time.Now()))
	assert.Equal(t, domain.DelegationApplied, d.Status)
	assert.NotNil(t, d.AppliedAt)

	merged, err := Reconcile(d, time.Now())
	require.NoError(t, err)
	assert.Equal(t, home.SessionID, merged.SessionID)
	assert.Equal(t, uint8(2), merged.GuessesUsed)
	assert.True(t, merged.Completed)
	assert.Equal(t, domain.DelegationReconciled, d.Status)

	_, err = Reconcile(d, time.Now())
	assert.Error(t, err, "reconciliation is one-way")
}

func TestExport_RejectsCompletedSession(t *testing.T) {
	s := activeSession(t)
	_, err := game.ApplyGuess(s, "BRIDGE", "BRIDGE", time.Now())
	require.NoError(t, err)

	_, err = Export(s, time.Now())
	assert.Error(t, err)
}

func TestApply_RejectsTamperedSnapshot(t *testing.T) {
	home := activeSession(t)
	d, err := Export(home, time.Now())
	require.NoError(t, err)

	d.Snapshot = append(d.Snapshot[:len(d.Snapshot)-1], ' ', '}')
	err = Apply(d, home, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "digest mismatch")
}

func TestApply_RejectsForeignSession(t *testing.T) {
	d, err := Export(activeSession(t), time.Now())
	require.NoError(t, err)

	err = Apply(d, activeSession(t), time.Now())
	assert.Error(t, err)
}

func TestMergeBack_MergesRemoteProgress(t *testing.T) {
	home := activeSession(t)
	d, err := Export(home, time.Now())
	require.NoError(t, err)

	remote, err := decodeSnapshot(d.Snapshot)
	require.NoError(t, err)
	_, err = game.ApplyGuess(remote, "BRIDGE", "BRIDGE", time.Now())
	require.NoError(t, err)
	require.NoError(t, Apply(d, remote, time.Now()))

	merged, err := Reconcile(d, time.Now())
	require.NoError(t, err)
	require.NoError(t, MergeBack(home, merged))
	assert.True(t, home.Completed)
	assert.Equal(t, uint8(1), home.GuessesUsed)
}

func TestMergeBack_RejectsStaleResultAfterHomeCompletion(t *testing.T) {
	home := activeSession(t)
	d, err := Export(home, time.Now())
	require.NoError(t, err)

	// The home copy completes and settles through the normal guess path
	// while the handoff is out.
	_, err = game.ApplyGuess(home, "BRIDGE", "BRIDGE", time.Now())
	require.NoError(t, err)
	require.True(t, home.Completed)

	merged, err := Reconcile(d, time.Now())
	require.NoError(t, err)

	err = MergeBack(home, merged)
	require.Error(t, err)
	assert.True(t, home.Completed, "completion stays terminal")
	assert.Equal(t, uint8(1), home.GuessesUsed)
	assert.Equal(t, "BRIDGE", home.TargetWord)
}

func TestMergeBack_RejectsHomeProgressPastSnapshot(t *testing.T) {
	home := activeSession(t)
	d, err := Export(home, time.Now())
	require.NoError(t, err)

	_, err = game.ApplyGuess(home, "BRIDGE", "CASTLE", time.Now())
	require.NoError(t, err)

	merged, err := Reconcile(d, time.Now())
	require.NoError(t, err)

	err = MergeBack(home, merged)
	require.Error(t, err)
	assert.Equal(t, uint8(1), home.GuessesUsed, "home guesses survive the discarded merge")
}

func TestMergeBack_RejectsForeignSession(t *testing.T) {
	home := activeSession(t)
	err := MergeBack(home, activeSession(t))
	assert.Error(t, err)
}

func TestApply_RejectsLostProgress(t *testing.T) {
	home := activeSession(t)
	_, err := game.ApplyGuess(home, "BRIDGE", "CASTLE", time.Now())
	require.NoError(t, err)

	d, err := Export(home, time.Now())
	require.NoError(t, err)

	rewound, err := Reconcile(&domain.SessionDelegation{
		SessionID: d.SessionID, PlayerID: d.PlayerID,
		Status: d.Status, Snapshot: d.Snapshot, Digest: d.Digest,
	}, time.Now())
	require.NoError(t, err)
	rewound.GuessesUsed = 0
	rewound.Guesses[0] = nil

	err = Apply(d, rewound, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lost guesses")
}
