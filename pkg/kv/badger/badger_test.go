package badger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/draftkeep/pkg/kv"
	"github.com/marmos91/draftkeep/pkg/kv/kvtest"
	"github.com/marmos91/draftkeep/pkg/storage"
)

func openTestStore(t *testing.T, path string, quota int64) *Store {
	t.Helper()

	s, err := Open(t.Context(), Config{Path: path, Quota: quota})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestConformance(t *testing.T) {
	kvtest.RunConformanceSuite(t, func(t *testing.T, quota int64) kv.Provider {
		return openTestStore(t, filepath.Join(t.TempDir(), "kv"), quota)
	})
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(t.Context(), Config{})
	assert.Error(t, err)
}

func TestStore_UsageSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv")

	s, err := Open(t.Context(), Config{Path: path, Quota: 32})
	require.NoError(t, err)
	require.NoError(t, s.Set(t.Context(), "a", make([]byte, 20)))
	require.NoError(t, s.Close())

	reopened := openTestStore(t, path, 32)

	got, err := reopened.Get(t.Context(), "a")
	require.NoError(t, err)
	assert.Len(t, got, 20)

	// 21 bytes already accounted, 1+15 more would exceed 32.
	err = reopened.Set(t.Context(), "b", make([]byte, 15))
	assert.ErrorIs(t, err, kv.ErrQuotaExceeded)
}

func TestStore_Healthcheck(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "kv"), 0)
	require.NoError(t, s.Healthcheck(t.Context()))

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Healthcheck(t.Context()), kv.ErrUnavailable)
}

func TestStore_ProbeUsesHealthcheck(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "kv"), 0)
	var _ kv.Healthchecker = s

	probe := storage.NewProbe(s, nil)
	assert.Equal(t, storage.StatusHealthy, probe.Check(t.Context()).Status)

	require.NoError(t, s.Close())
	h := probe.Check(t.Context())
	assert.Equal(t, storage.StatusUnavailable, h.Status)
	assert.ErrorIs(t, h.Cause, kv.ErrUnavailable)
}
