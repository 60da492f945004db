package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/marmos91/draftkeep/internal/logger"
	"github.com/marmos91/draftkeep/internal/telemetry"
	"github.com/marmos91/draftkeep/pkg/autosave"
	"github.com/marmos91/draftkeep/pkg/config"
	"github.com/marmos91/draftkeep/pkg/drafts"
	"github.com/marmos91/draftkeep/pkg/metrics"
	"github.com/marmos91/draftkeep/pkg/storage"
)

// LoadConfig loads the configuration selected by --config. --verbose forces
// debug logging.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.MustLoad(Flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	if Flags.Verbose {
		cfg.Logging.Level = "DEBUG"
	}
	return cfg, nil
}

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// Session holds the components every storage-backed command needs.
type Session struct {
	Config *config.Config
	Store  *storage.SafeStore
	Drafts *drafts.Registry

	closers []func(context.Context) error
}

// OpenSession loads configuration, initializes logging, tracing, profiling
// and metrics, then opens the configured storage. Callers must Close it.
func OpenSession(ctx context.Context) (*Session, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := InitLogger(cfg); err != nil {
		return nil, err
	}

	s := &Session{Config: cfg}

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "draftkeep",
		ServiceVersion: BuildVersion,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	s.closers = append(s.closers, telemetryShutdown)

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "draftkeep",
		ServiceVersion: BuildVersion,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		_ = s.Close(ctx)
		return nil, fmt.Errorf("failed to initialize profiling: %w", err)
	}
	s.closers = append(s.closers, func(context.Context) error { return profilingShutdown() })

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	store, closeStore, err := config.OpenStore(ctx, cfg)
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	s.closers = append(s.closers, func(context.Context) error { return closeStore() })
	s.Store = store

	s.Drafts = drafts.NewRegistry(store,
		drafts.WithNameLayout(cfg.Drafts.NameLayout),
		drafts.WithMetrics(metrics.NewDraftMetrics()),
	)

	logger.DebugCtx(ctx, "Session opened",
		logger.KeyStoreType, cfg.Storage.Type,
		"telemetry", telemetry.IsEnabled(),
		"profiling", telemetry.IsProfilingEnabled(),
		"metrics", metrics.IsEnabled())
	return s, nil
}

// AutosaveOptions returns tracker options derived from the configuration.
func (s *Session) AutosaveOptions() []autosave.Option {
	a := s.Config.Autosave
	return []autosave.Option{
		autosave.WithQuietPeriod(a.QuietPeriod),
		autosave.WithMaxRetries(a.MaxRetries),
		autosave.WithGuard(autosave.NewGuard(a.GuardMessage)),
		autosave.WithMetrics(metrics.NewAutosaveMetrics()),
	}
}

// Close releases storage and flushes telemetry, in reverse order of setup.
func (s *Session) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// ResolveDraft finds a draft by exact id, then by case-insensitive name.
// Ambiguous names are an error.
func (s *Session) ResolveDraft(ctx context.Context, ref string) (drafts.Draft, error) {
	d, ok, err := s.Drafts.Get(ctx, ref)
	if err != nil {
		return drafts.Draft{}, err
	}
	if ok {
		return d, nil
	}

	list, err := s.Drafts.List(ctx)
	if err != nil {
		return drafts.Draft{}, err
	}
	var matches []drafts.Draft
	for _, d := range list {
		if strings.EqualFold(d.Name, ref) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return drafts.Draft{}, fmt.Errorf("draft %q not found", ref)
	case 1:
		return matches[0], nil
	default:
		return drafts.Draft{}, fmt.Errorf("draft name %q is ambiguous (%d matches), use the id", ref, len(matches))
	}
}
