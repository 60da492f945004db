// Package prefs stores the editor's small typed preferences.
package prefs

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/marmos91/draftkeep/internal/logger"
	"github.com/marmos91/draftkeep/pkg/storage"
)

// Theme is the preview theme.
type Theme string

const (
	ThemeLight   Theme = "light"
	ThemeDark    Theme = "dark"
	ThemeMinimal Theme = "minimal"
)

// DefaultTheme is used when nothing valid is stored.
const DefaultTheme = ThemeLight

// EditorMode selects the editing surface.
type EditorMode string

const (
	ModeRaw        EditorMode = "raw"
	ModeStructured EditorMode = "structured"
)

// DefaultMode is used when nothing valid is stored.
const DefaultMode = ModeRaw

// Themes lists the accepted themes.
var Themes = []Theme{ThemeLight, ThemeDark, ThemeMinimal}

// Modes lists the accepted editor modes.
var Modes = []EditorMode{ModeRaw, ModeStructured}

// Values is a snapshot of every preference.
type Values struct {
	Theme Theme      `json:"theme" yaml:"theme" validate:"oneof=light dark minimal"`
	Mode  EditorMode `json:"mode" yaml:"mode" validate:"oneof=raw structured"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseTheme validates s as a theme name.
func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if err := validate.Var(string(t), "oneof=light dark minimal"); err != nil {
		return "", fmt.Errorf("invalid theme %q: must be one of light, dark, minimal", s)
	}
	return t, nil
}

// ParseMode validates s as an editor mode.
func ParseMode(s string) (EditorMode, error) {
	m := EditorMode(strings.ToLower(strings.TrimSpace(s)))
	if err := validate.Var(string(m), "oneof=raw structured"); err != nil {
		return "", fmt.Errorf("invalid editor mode %q: must be raw or structured", s)
	}
	return m, nil
}

// Store reads and writes preferences through a SafeStore.
type Store struct {
	store *storage.SafeStore
}

// New creates a preference store.
func New(store *storage.SafeStore) *Store {
	return &Store{store: store}
}

// Theme returns the stored theme. Missing, unreadable or unknown values give
// the default.
func (p *Store) Theme(ctx context.Context) Theme {
	raw, found, err := p.store.Read(ctx, storage.KeyPreviewTheme)
	if err != nil || !found {
		return DefaultTheme
	}
	t, err := ParseTheme(raw)
	if err != nil {
		logger.DebugCtx(ctx, "Ignoring stored theme", logger.KeyKey, storage.KeyPreviewTheme, logger.Err(err))
		return DefaultTheme
	}
	return t
}

// Mode returns the stored editor mode, falling back to the default.
func (p *Store) Mode(ctx context.Context) EditorMode {
	raw, found, err := p.store.Read(ctx, storage.KeyEditorMode)
	if err != nil || !found {
		return DefaultMode
	}
	m, err := ParseMode(raw)
	if err != nil {
		logger.DebugCtx(ctx, "Ignoring stored editor mode", logger.KeyKey, storage.KeyEditorMode, logger.Err(err))
		return DefaultMode
	}
	return m
}

// Values returns every preference.
func (p *Store) Values(ctx context.Context) Values {
	return Values{Theme: p.Theme(ctx), Mode: p.Mode(ctx)}
}

// SetTheme persists t. A storage failure is logged and returned; callers
// usually keep going with the in-memory value.
func (p *Store) SetTheme(ctx context.Context, t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	return p.write(ctx, storage.KeyPreviewTheme, string(t))
}

// SetMode persists m.
func (p *Store) SetMode(ctx context.Context, m EditorMode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	return p.write(ctx, storage.KeyEditorMode, string(m))
}

func (p *Store) write(ctx context.Context, key, value string) error {
	if err := p.store.Write(ctx, key, value); err != nil {
		logger.WarnCtx(ctx, "Could not save preference", logger.KeyKey, key, logger.Err(err))
		return err
	}
	return nil
}
