package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"fishlog/achievements"
	"fishlog/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var recordUpdateColumns = []string{
	"progress", "total_xp", "unlocked", "current_tier", "tiers", "date_unlocked", "updated_at",
}

// AchievementService loads a user's catches, runs the engine and persists the change set.
type AchievementService struct {
	DB          *gorm.DB
	Engine      *achievements.Engine
	Progression *ProgressionService

	log   zerolog.Logger
	locks [recalcLockStripes]sync.Mutex
}

// recalcLockStripes bounds the lock table; users hashing to the same stripe serialize.
const recalcLockStripes = 64

func NewAchievementService(db *gorm.DB, engine *achievements.Engine, progression *ProgressionService, logger zerolog.Logger) *AchievementService {
	return &AchievementService{DB: db, Engine: engine, Progression: progression, log: logger}
}

func (s *AchievementService) userLock(userID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &s.locks[h.Sum32()%recalcLockStripes]
}

// RecalculateUser recomputes every achievement of one user and upserts the result by
// (user_id, key). Records are never deleted.
func (s *AchievementService) RecalculateUser(ctx context.Context, userID string) ([]models.AchievementRecord, error) {
	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	var changed []models.AchievementRecord
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var catches []models.Catch
		if err := tx.Where("caught_by_user_id = ?", userID).
			Order("date ASC, time ASC").
			Find(&catches).Error; err != nil {
			return fmt.Errorf("load catches: %w", err)
		}

		var existing []models.AchievementRecord
		if err := tx.Where("user_id = ?", userID).Find(&existing).Error; err != nil {
			return fmt.Errorf("load achievements: %w", err)
		}

		changed = s.Engine.Recalculate(userID, catches, existing)
		for i := range changed {
			if err := upsertRecord(tx, &changed[i]); err != nil {
				return fmt.Errorf("upsert achievement %s: %w", changed[i].Key, err)
			}
		}

		_, err := s.Progression.SyncFromAchievements(tx, userID, time.Now().UTC())
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("❌ achievement recalculation failed")
		return nil, err
	}

	s.log.Info().
		Str("user_id", userID).
		Int("records", len(changed)).
		Msg("🏆 achievements recalculated")
	return changed, nil
}

func upsertRecord(tx *gorm.DB, rec *models.AchievementRecord) error {
	if rec.ID != "" {
		return tx.Model(rec).Select(recordUpdateColumns).Updates(rec).Error
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns(recordUpdateColumns),
	}).Create(rec).Error
}

// RecalculateAll recalculates every user that has at least one attributed catch.
// Failures are logged per user and do not stop the run.
func (s *AchievementService) RecalculateAll(ctx context.Context) (int, error) {
	var userIDs []string
	if err := s.DB.WithContext(ctx).Model(&models.Catch{}).
		Where("caught_by_user_id IS NOT NULL AND caught_by_user_id <> ''").
		Distinct().
		Pluck("caught_by_user_id", &userIDs).Error; err != nil {
		return 0, fmt.Errorf("list anglers: %w", err)
	}

	done := 0
	for _, id := range userIDs {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := s.RecalculateUser(ctx, id); err != nil {
			continue
		}
		done++
	}
	return done, nil
}

// AchievementView pairs a catalog definition with the user's record, if any.
type AchievementView struct {
	Config models.AchievementConfig   `json:"config"`
	Record *models.AchievementRecord `json:"record"`
}

// ListForUser returns the whole catalog in order with the user's stored state.
func (s *AchievementService) ListForUser(ctx context.Context, userID string) ([]AchievementView, error) {
	var records []models.AchievementRecord
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	byKey := make(map[string]*models.AchievementRecord, len(records))
	for i := range records {
		byKey[records[i].Key] = &records[i]
	}

	configs := s.Engine.Catalog().All()
	views := make([]AchievementView, len(configs))
	for i, cfg := range configs {
		views[i] = AchievementView{Config: cfg, Record: byKey[cfg.Key]}
	}
	return views, nil
}

// EvaluateForUser computes one achievement from the user's current catches without
// persisting it. Record is nil when the user has made no progress.
func (s *AchievementService) EvaluateForUser(ctx context.Context, userID, key string) (*AchievementView, error) {
	cfg, ok := s.Engine.Catalog().Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", achievements.ErrUnknownAchievement, key)
	}

	var catches []models.Catch
	if err := s.DB.WithContext(ctx).
		Where("caught_by_user_id = ?", userID).
		Order("date ASC, time ASC").
		Find(&catches).Error; err != nil {
		return nil, fmt.Errorf("load catches: %w", err)
	}

	var existing *models.AchievementRecord
	var stored models.AchievementRecord
	err := s.DB.WithContext(ctx).Where("user_id = ? AND key = ?", userID, key).First(&stored).Error
	switch {
	case err == nil:
		existing = &stored
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("load achievement %s: %w", key, err)
	}

	rec, err := s.Engine.Evaluate(key, userID, catches, existing)
	if err != nil {
		return nil, err
	}
	return &AchievementView{Config: cfg, Record: rec}, nil
}
