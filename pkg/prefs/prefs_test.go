package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/draftkeep/pkg/kv/memory"
	"github.com/marmos91/draftkeep/pkg/storage"
)

func TestParse(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"light", "dark", "minimal", " Dark "} {
		_, err := ParseTheme(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseTheme("solarized")
	assert.Error(t, err)

	m, err := ParseMode("STRUCTURED")
	require.NoError(t, err)
	assert.Equal(t, ModeStructured, m)
	_, err = ParseMode("wysiwyg")
	assert.Error(t, err)
}

func TestStore_Defaults(t *testing.T) {
	t.Parallel()
	p := New(storage.New(memory.New()))

	assert.Equal(t, Values{Theme: ThemeLight, Mode: ModeRaw}, p.Values(t.Context()))
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	provider := memory.New()
	p := New(storage.New(provider))

	require.NoError(t, p.SetTheme(ctx, ThemeMinimal))
	require.NoError(t, p.SetMode(ctx, ModeStructured))
	assert.Equal(t, Values{Theme: ThemeMinimal, Mode: ModeStructured}, p.Values(ctx))

	raw, err := provider.Get(ctx, storage.KeyPreviewTheme)
	require.NoError(t, err)
	assert.Equal(t, "minimal", string(raw))
}

func TestStore_IgnoresInvalidStoredValues(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	provider := memory.New()
	require.NoError(t, provider.Set(ctx, storage.KeyPreviewTheme, []byte("neon")))
	require.NoError(t, provider.Set(ctx, storage.KeyEditorMode, []byte("vim")))

	p := New(storage.New(provider))
	assert.Equal(t, ThemeLight, p.Theme(ctx))
	assert.Equal(t, ModeRaw, p.Mode(ctx))
}

func TestStore_RejectsInvalidInput(t *testing.T) {
	t.Parallel()
	p := New(storage.New(memory.New()))

	assert.Error(t, p.SetTheme(t.Context(), Theme("neon")))
	assert.Error(t, p.SetMode(t.Context(), EditorMode("vim")))
}

func TestStore_WriteFailure(t *testing.T) {
	t.Parallel()
	provider := memory.New(memory.WithReadOnly())
	p := New(storage.New(provider))

	err := p.SetTheme(t.Context(), ThemeDark)
	require.Error(t, err)
	assert.Equal(t, storage.KindAccessDenied, storage.KindOf(err))
}
