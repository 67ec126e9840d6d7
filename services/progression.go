package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"fishlog/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// LevelConfig: XP needed for *next* level (e.g., level 1 → 2 needs BaseXPPerLevel * 1^1.2)
const BaseXPPerLevel = 100

// xpForNextLevel returns XP required to reach level+1 from current level
// e.g., xpForNextLevel(1) = XP to go from L1 → L2
func xpForNextLevel(currentLevel int) int64 {
	if currentLevel < 1 {
		currentLevel = 1
	}
	// L_n = floor(BaseXPPerLevel * n^1.2)
	return int64(float64(BaseXPPerLevel) * math.Pow(float64(currentLevel), 1.2))
}

// levelThreshold is the total XP at which level becomes level+1.
func levelThreshold(level int) int64 {
	if level < 1 {
		return 0
	}
	return int64(BaseXPPerLevel)*int64(level) + xpForNextLevel(level)
}

// levelForXP walks the level curve from level 1.
func levelForXP(totalXP int64) int {
	level := 1
	for totalXP >= levelThreshold(level) {
		level++
	}
	return level
}

// RankThresholds: levels required before rank-up
var RankThresholds = map[int]int{ // rank → min level
	1: 1,  // Rookie (start)
	2: 5,  // Bronze
	3: 10, // Silver
	4: 20, // Gold
	5: 35, // Platinum
}

func determineRank(level int) int {
	for rank := len(RankThresholds); rank >= 1; rank-- {
		if level >= RankThresholds[rank] {
			return rank
		}
	}
	return 1
}

func rankName(rank int) string {
	switch rank {
	case 1:
		return "Rookie"
	case 2:
		return "Bronze"
	case 3:
		return "Silver"
	case 4:
		return "Gold"
	case 5:
		return "Platinum"
	default:
		if rank > 5 {
			return "Legend"
		}
		return "Rookie"
	}
}

type ProgressionService struct {
	DB  *gorm.DB
	log zerolog.Logger
}

func NewProgressionService(db *gorm.DB, logger zerolog.Logger) *ProgressionService {
	return &ProgressionService{DB: db, log: logger}
}

// ProgressSummary is the progress row plus the XP window of the current level.
type ProgressSummary struct {
	*models.UserProgress
	RankName     string `json:"rank_name"`
	LevelStartXP int64  `json:"level_start_xp"`
	NextLevelXP  int64  `json:"next_level_xp"`
}

func (s *ProgressionService) Summary(ctx context.Context, externalUserID string) (*ProgressSummary, error) {
	prog, err := s.GetProgress(ctx, externalUserID)
	if err != nil {
		return nil, err
	}
	return &ProgressSummary{
		UserProgress: prog,
		RankName:     rankName(prog.Rank),
		LevelStartXP: levelThreshold(prog.Level - 1),
		NextLevelXP:  levelThreshold(prog.Level),
	}, nil
}

// GetProgress returns the stored progress, or a fresh level 1 record when the user has
// never been recalculated. The fresh record is not persisted.
func (s *ProgressionService) GetProgress(ctx context.Context, externalUserID string) (*models.UserProgress, error) {
	var prog models.UserProgress
	err := s.DB.WithContext(ctx).Where("external_user_id = ?", externalUserID).First(&prog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserProgress{ExternalUserID: externalUserID, Level: 1, Rank: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress for %s: %w", externalUserID, err)
	}
	return &prog, nil
}

// SyncFromAchievements rebuilds the user's progress row from their achievement records.
// It must run inside the recalculation transaction.
func (s *ProgressionService) SyncFromAchievements(tx *gorm.DB, externalUserID string, now time.Time) (*models.UserProgress, error) {
	var totals struct {
		TotalXP  int64
		Unlocked int64
	}
	if err := tx.Model(&models.AchievementRecord{}).
		Select("COALESCE(SUM(total_xp), 0) AS total_xp, COALESCE(SUM(CASE WHEN unlocked THEN 1 ELSE 0 END), 0) AS unlocked").
		Where("user_id = ?", externalUserID).
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("sum achievement xp: %w", err)
	}

	var catches int64
	if err := tx.Model(&models.Catch{}).Where("caught_by_user_id = ?", externalUserID).Count(&catches).Error; err != nil {
		return nil, fmt.Errorf("count catches: %w", err)
	}

	var prog models.UserProgress
	err := tx.Where("external_user_id = ?", externalUserID).First(&prog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prog = models.UserProgress{ExternalUserID: externalUserID, Level: 1, Rank: 1}
	} else if err != nil {
		return nil, err
	}

	oldLevel, oldRank := prog.Level, prog.Rank
	prog.TotalXP = totals.TotalXP
	prog.AchievementsUnlocked = totals.Unlocked
	prog.TotalCatches = catches
	prog.Level = levelForXP(prog.TotalXP)
	prog.Rank = determineRank(prog.Level)
	prog.LastRecalculateAt = &now
	if prog.Level > oldLevel {
		prog.LastLevelUpAt = &now
	}
	if prog.Rank > oldRank {
		prog.LastRankUpAt = &now
	}

	if err := tx.Save(&prog).Error; err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	s.log.Info().
		Str("user_id", externalUserID).
		Int64("xp", prog.TotalXP).
		Int("level", prog.Level).
		Int("rank", prog.Rank).
		Msg("🎣 progress synced")
	return &prog, nil
}
