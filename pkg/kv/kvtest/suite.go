// Package kvtest provides a conformance suite for kv.Provider implementations.
package kvtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/draftkeep/pkg/kv"
)

// Factory creates a fresh provider for each test. quota is the capacity in
// bytes the provider must enforce, 0 for unbounded. The factory should use
// t.TempDir() for on-disk state and t.Cleanup() for teardown.
type Factory func(t *testing.T, quota int64) kv.Provider

// RunConformanceSuite runs every conformance test against factory.
func RunConformanceSuite(t *testing.T, factory Factory) {
	t.Helper()

	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, factory) })
	t.Run("SetGet", func(t *testing.T) { testSetGet(t, factory) })
	t.Run("Overwrite", func(t *testing.T) { testOverwrite(t, factory) })
	t.Run("Remove", func(t *testing.T) { testRemove(t, factory) })
	t.Run("Clear", func(t *testing.T) { testClear(t, factory) })
	t.Run("KeysSorted", func(t *testing.T) { testKeysSorted(t, factory) })
	t.Run("Quota", func(t *testing.T) { testQuota(t, factory) })
	t.Run("QuotaOverwrite", func(t *testing.T) { testQuotaOverwrite(t, factory) })
	t.Run("Closed", func(t *testing.T) { testClosed(t, factory) })
}

func testGetMissing(t *testing.T, factory Factory) {
	p := factory(t, 0)

	_, err := p.Get(t.Context(), "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func testSetGet(t *testing.T, factory Factory) {
	p := factory(t, 0)
	ctx := t.Context()

	values := map[string]string{
		"markdown-content": "# Title\n\nbody",
		"unicode":          "héllo wörld ✓",
		"empty":            "",
	}
	for k, v := range values {
		require.NoError(t, p.Set(ctx, k, []byte(v)), "Set(%q)", k)
	}
	for k, v := range values {
		got, err := p.Get(ctx, k)
		require.NoError(t, err, "Get(%q)", k)
		assert.Equal(t, v, string(got), "Get(%q)", k)
	}
}

func testOverwrite(t *testing.T, factory Factory) {
	p := factory(t, 0)
	ctx := t.Context()

	require.NoError(t, p.Set(ctx, "k", []byte("first")))
	require.NoError(t, p.Set(ctx, "k", []byte("second")))

	got, err := p.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	keys, err := p.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, keys)
}

func testRemove(t *testing.T, factory Factory) {
	p := factory(t, 0)
	ctx := t.Context()

	require.NoError(t, p.Set(ctx, "k", []byte("v")))
	require.NoError(t, p.Remove(ctx, "k"))

	_, err := p.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	assert.NoError(t, p.Remove(ctx, "never-set"), "removing an absent key is not an error")
}

func testClear(t *testing.T, factory Factory) {
	p := factory(t, 0)
	ctx := t.Context()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, p.Set(ctx, k, []byte(k)))
	}
	require.NoError(t, p.Clear(ctx))

	keys, err := p.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func testKeysSorted(t *testing.T, factory Factory) {
	p := factory(t, 0)
	ctx := t.Context()

	for _, k := range []string{"markdown-drafts", "current-draft-id", "preview-theme"} {
		require.NoError(t, p.Set(ctx, k, []byte("x")))
	}

	keys, err := p.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"current-draft-id", "markdown-drafts", "preview-theme"}, keys)
}

func testQuota(t *testing.T, factory Factory) {
	p := factory(t, 32)
	ctx := t.Context()

	// 1 + 10 bytes fits.
	require.NoError(t, p.Set(ctx, "a", []byte("0123456789")))

	// 1 + 40 bytes does not, and must leave the old value alone.
	err := p.Set(ctx, "a", make([]byte, 40))
	require.ErrorIs(t, err, kv.ErrQuotaExceeded)

	got, err := p.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(got))

	// A second key pushes the total over.
	err = p.Set(ctx, "b", make([]byte, 25))
	require.ErrorIs(t, err, kv.ErrQuotaExceeded)
	_, err = p.Get(ctx, "b")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func testQuotaOverwrite(t *testing.T, factory Factory) {
	p := factory(t, 32)
	ctx := t.Context()

	// Replacing a value only charges the difference.
	require.NoError(t, p.Set(ctx, "a", make([]byte, 30)))
	require.NoError(t, p.Set(ctx, "a", make([]byte, 31)))

	// Removing frees space.
	require.NoError(t, p.Remove(ctx, "a"))
	require.NoError(t, p.Set(ctx, "b", make([]byte, 31)))
}

func testClosed(t *testing.T, factory Factory) {
	p := factory(t, 0)
	ctx := t.Context()

	require.NoError(t, p.Set(ctx, "k", []byte("v")))
	require.NoError(t, p.Close())

	_, err := p.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrUnavailable)
	assert.ErrorIs(t, p.Set(ctx, "k", []byte("v")), kv.ErrUnavailable)
}
