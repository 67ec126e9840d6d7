// Package achievements evaluates a user's catch history against the achievement catalog.
package achievements

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"fishlog/models"

	"github.com/rs/zerolog"
)

var ErrUnknownAchievement = errors.New("unknown achievement")

// Engine runs every registered evaluator for one user. It holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	catalog  *Catalog
	registry Registry
	now      func() time.Time
	log      zerolog.Logger
}

type Option func(*Engine)

// WithClock overrides the evaluation time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine pairs a catalog with a registry. Every catalog key needs exactly one
// evaluator and every evaluator needs a catalog entry.
func NewEngine(catalog *Catalog, registry Registry, opts ...Option) (*Engine, error) {
	if catalog == nil {
		return nil, errors.New("achievements: nil catalog")
	}

	var missing, orphaned []string
	for _, key := range catalog.Keys() {
		if registry[key] == nil {
			missing = append(missing, key)
		}
	}
	for key := range registry {
		if _, ok := catalog.Get(key); !ok {
			orphaned = append(orphaned, key)
		}
	}
	if len(missing) > 0 || len(orphaned) > 0 {
		slices.Sort(orphaned)
		return nil, fmt.Errorf("achievements: catalog/registry mismatch: no evaluator for %v, no config for %v", missing, orphaned)
	}

	e := &Engine{
		catalog:  catalog,
		registry: registry,
		now:      func() time.Time { return time.Now().UTC() },
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewDefaultEngine builds an engine over DefaultCatalog and DefaultRegistry.
func NewDefaultEngine(opts ...Option) *Engine {
	e, err := NewEngine(DefaultCatalog(), DefaultRegistry(), opts...)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Engine) Catalog() *Catalog { return e.catalog }

// UserCatches filters catches down to those caught by userID.
func UserCatches(userID string, catches []models.Catch) []models.Catch {
	var out []models.Catch
	for _, c := range catches {
		if c.CaughtByUser(userID) {
			out = append(out, c)
		}
	}
	return out
}

// Recalculate evaluates the whole catalog for userID and returns the records to upsert.
// Catches caught by other users and existing records of other users are ignored. A
// failing evaluator is logged and skipped.
func (e *Engine) Recalculate(userID string, catches []models.Catch, existing []models.AchievementRecord) []models.AchievementRecord {
	now := e.now()
	own := UserCatches(userID, catches)

	prior := make(map[string]*models.AchievementRecord, len(existing))
	for i := range existing {
		if existing[i].UserID == userID {
			prior[existing[i].Key] = &existing[i]
		}
	}

	var out []models.AchievementRecord
	for _, cfg := range e.catalog.configs {
		rec, err := e.run(cfg, own, userID, prior[cfg.Key], now)
		if err != nil {
			e.log.Error().Err(err).Str("user_id", userID).Str("key", cfg.Key).Msg("achievement evaluation failed")
			continue
		}
		if rec != nil {
			out = append(out, *rec)
		}
	}

	e.log.Debug().
		Str("user_id", userID).
		Int("catches", len(own)).
		Int("records", len(out)).
		Msg("achievements recalculated")
	return out
}

// Evaluate runs a single achievement. The catches are expected to belong to userID.
func (e *Engine) Evaluate(key, userID string, catches []models.Catch, existing *models.AchievementRecord) (*models.AchievementRecord, error) {
	cfg, ok := e.catalog.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAchievement, key)
	}
	return e.run(cfg, catches, userID, existing, e.now())
}

func (e *Engine) run(cfg models.AchievementConfig, catches []models.Catch, userID string, existing *models.AchievementRecord, now time.Time) (rec *models.AchievementRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, fmt.Errorf("evaluator %s panicked: %v", cfg.Key, r)
		}
	}()
	return e.registry[cfg.Key](catches, cfg, userID, existing, now), nil
}
