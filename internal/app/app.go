// Package app wires the sign store, the profile builder and the matcher
// into the signmatch application.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ayusman/signmatch/internal/config"
	"github.com/ayusman/signmatch/internal/dtw"
	"github.com/ayusman/signmatch/internal/gesture"
	"github.com/ayusman/signmatch/internal/store"
)

// QueryID labels query profiles built by Match.
const QueryID = "query"

// Config holds configuration options for the application.
type Config struct {
	Store   *store.Store
	Frames  int
	Radius  int
	Weights gesture.Weights
	Workers int
	Timeout time.Duration
	Logger  *slog.Logger
}

// FromConfig builds an application Config from file settings.
func FromConfig(cfg *config.Config, s *store.Store, logger *slog.Logger) Config {
	return Config{
		Store:   s,
		Frames:  cfg.Matching.ResampleSize,
		Radius:  cfg.Matching.Radius,
		Weights: cfg.Matching.Weights,
		Workers: cfg.Matching.Workers,
		Timeout: cfg.Matching.Timeout,
		Logger:  logger,
	}
}

// App builds sign profiles, keeps the reference library in memory and in
// the store, and ranks queries against it.
type App struct {
	config  Config
	logger  *slog.Logger
	builder *gesture.Builder
	library *gesture.Library
	started time.Time
}

// New creates a new App. The library starts empty; call LoadLibrary to
// fill it from the store.
func New(cfg Config) (*App, error) {
	if cfg.Radius < 0 {
		return nil, fmt.Errorf("radius must not be negative, got %d", cfg.Radius)
	}
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	comparator := gesture.NewComparator(dtw.NewAligner(cfg.Radius), cfg.Weights, logger)
	matcher := gesture.NewMatcher(comparator, cfg.Workers, logger)

	return &App{
		config:  cfg,
		logger:  logger,
		builder: gesture.NewBuilder(cfg.Frames),
		library: gesture.NewLibrary(matcher),
		started: time.Now(),
	}, nil
}

// LoadLibrary loads every sign with stored features into the library.
// Signs without features are skipped; signs whose features fail
// validation are logged and skipped.
func (a *App) LoadLibrary() error {
	if a.config.Store == nil {
		return nil
	}

	signs, err := a.config.Store.Signs().List()
	if err != nil {
		return err
	}

	loaded := 0
	for _, sg := range signs {
		p, err := a.config.Store.Signs().GetFeatures(sg.ID)
		if errors.Is(err, store.ErrNoFeatures) {
			continue
		}
		if err != nil {
			a.logger.Warn("failed to load sign features", "sign", sg.Name, "error", err)
			continue
		}
		if err := a.library.Add(p); err != nil {
			a.logger.Warn("skipping invalid sign profile", "sign", sg.Name, "error", err)
			continue
		}
		loaded++
	}

	a.logger.Info("loaded sign library", "signs", loaded, "stored", len(signs))
	return nil
}

// Register builds the profile of a new recording of sign signID, stores
// the raw recording and the features, and makes the profile matchable.
// A later recording replaces the sign's profile.
func (a *App) Register(ctx context.Context, signID string, rec gesture.Recording, raw json.RawMessage) (*gesture.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec.ID = signID
	if a.config.Store != nil {
		sg, err := a.config.Store.Signs().GetByID(signID)
		if err != nil {
			return nil, err
		}
		rec.Name = sg.Name
	}

	p, err := a.builder.Build(rec)
	if err != nil {
		return nil, fmt.Errorf("build profile: %w", err)
	}

	if a.config.Store != nil {
		if raw != nil {
			if _, err := a.config.Store.Recordings().Create(signID, raw); err != nil {
				return nil, fmt.Errorf("store recording: %w", err)
			}
		}
		if err := a.config.Store.Signs().SetFeatures(signID, p); err != nil {
			return nil, fmt.Errorf("store features: %w", err)
		}
	}

	if err := a.library.Add(p); err != nil {
		return nil, err
	}
	a.logger.Info("registered sign", "sign", p.Name, "id", signID, "one_handed", p.OneHanded)
	return p, nil
}

// Reload refreshes the library entry of sign signID from the store, for
// example after a rename. Signs without features are removed.
func (a *App) Reload(signID string) error {
	if a.config.Store == nil {
		return nil
	}
	p, err := a.config.Store.Signs().GetFeatures(signID)
	if errors.Is(err, store.ErrNoFeatures) || errors.Is(err, store.ErrNotFound) {
		a.library.Remove(signID)
		return nil
	}
	if err != nil {
		return err
	}
	if err := a.library.Add(p); err != nil {
		a.library.Remove(signID)
		return err
	}
	return nil
}

// Unregister removes sign signID from the library and reports whether it
// was matchable.
func (a *App) Unregister(signID string) bool {
	return a.library.Remove(signID)
}

// Match builds a query profile from rec and ranks the library against it.
func (a *App) Match(ctx context.Context, rec gesture.Recording, topK int) ([]gesture.Match, error) {
	rec.ID = QueryID
	query, err := a.builder.Build(rec)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	matches, err := a.library.Match(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("ranked query", "candidates", a.library.Len(), "matches", len(matches), "elapsed", time.Since(start))
	return matches, nil
}

// Library returns the in-memory reference library.
func (a *App) Library() *gesture.Library {
	return a.library
}

// Store returns the backing store, or nil for an in-memory app.
func (a *App) Store() *store.Store {
	return a.config.Store
}

// Size returns the number of matchable signs.
func (a *App) Size() int {
	return a.library.Len()
}

// Uptime returns the time since the app was created.
func (a *App) Uptime() time.Duration {
	return time.Since(a.started)
}
