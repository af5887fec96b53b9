package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Meet/internal/domain"
)

func TestRegistryAddRefusesDuplicate(t *testing.T) {
	r := NewRegistry()
	require.True(t, r.Add(&PeerSession{ID: "A"}))
	assert.False(t, r.Add(&PeerSession{ID: "A"}))
	assert.Equal(t, 1, r.Len())
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Add(&PeerSession{ID: "A"})

	_, ok := r.Remove("A")
	assert.True(t, ok)
	_, ok = r.Remove("A")
	assert.False(t, ok)
	_, ok = r.Remove("never-existed")
	assert.False(t, ok)
	assert.Zero(t, r.Len())
}

func TestRegistryUpdateMissing(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Update("ghost", func(*PeerSession) { t.Fatal("must not run") }))
}

func TestRegistrySnapshot(t *testing.T) {
	r := NewRegistry()
	r.Add(&PeerSession{ID: "A", Phase: domain.PhaseLocalOfferSent, State: domain.StateChecking})
	r.Update("A", func(ps *PeerSession) {
		ps.LocalCandidates = 3
		ps.RemoteCandidates = 2
	})

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, domain.ParticipantID("A"), snap[0].UserID)
	assert.Equal(t, domain.PhaseLocalOfferSent, snap[0].Phase)
	assert.Equal(t, domain.StateChecking, snap[0].State)
	assert.Equal(t, 3, snap[0].LocalCandidates)
	assert.Equal(t, 2, snap[0].RemoteCandidates)
}
