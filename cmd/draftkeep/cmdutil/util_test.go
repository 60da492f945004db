package cmdutil

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/draftkeep/internal/cli/output"
	"github.com/marmos91/draftkeep/pkg/drafts"
	"github.com/marmos91/draftkeep/pkg/kv/memory"
	"github.com/marmos91/draftkeep/pkg/storage"
)

func withOutput(t *testing.T, format string) {
	t.Helper()
	prev := Flags.Output
	Flags.Output = format
	t.Cleanup(func() { Flags.Output = prev })
}

func TestPrintOutput(t *testing.T) {
	table := output.NewTableData("ID")
	table.AddRow("1")

	t.Run("empty table prints message", func(t *testing.T) {
		withOutput(t, "table")
		var buf bytes.Buffer
		require.NoError(t, PrintOutput(&buf, []string{}, true, "No drafts found.", table))
		assert.Equal(t, "No drafts found.\n", buf.String())
	})

	t.Run("json ignores empty message", func(t *testing.T) {
		withOutput(t, "json")
		var buf bytes.Buffer
		require.NoError(t, PrintOutput(&buf, []string{}, true, "No drafts found.", table))
		assert.JSONEq(t, `[]`, buf.String())
	})

	t.Run("invalid format", func(t *testing.T) {
		withOutput(t, "xml")
		assert.Error(t, PrintOutput(&bytes.Buffer{}, nil, false, "", table))
	})
}

func TestPrintResourceWithSuccess(t *testing.T) {
	withOutput(t, "table")
	prev := Flags.NoColor
	Flags.NoColor = true
	t.Cleanup(func() { Flags.NoColor = prev })

	var buf bytes.Buffer
	require.NoError(t, PrintResourceWithSuccess(&buf, map[string]string{"a": "b"}, "Draft pinned"))
	assert.Equal(t, "Draft pinned\n", buf.String())
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "-", EmptyOr("", "-"))
	assert.Equal(t, "x", EmptyOr("x", "-"))
	assert.Equal(t, "yes", BoolToYesNo(true))
	assert.Equal(t, "no", BoolToYesNo(false))
}

func TestResolveDraft(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	reg := drafts.NewRegistry(storage.New(memory.New()), drafts.WithClock(clock))
	sess := &Session{Drafts: reg}

	notes, err := reg.Create(ctx, "a", "Notes")
	require.NoError(t, err)
	_, err = reg.Create(ctx, "b", "dup")
	require.NoError(t, err)
	_, err = reg.Create(ctx, "c", "Dup")
	require.NoError(t, err)

	got, err := sess.ResolveDraft(ctx, notes.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notes", got.Name)

	got, err = sess.ResolveDraft(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, notes.ID, got.ID)

	_, err = sess.ResolveDraft(ctx, "dup")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = sess.ResolveDraft(ctx, "missing")
	assert.ErrorContains(t, err, "not found")
}
