package services

import (
	"context"
	"fmt"
	"slices"

	"fishlog/catchstats"
	"fishlog/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const (
	defaultLeaderboardSize = 20
	maxLeaderboardSize     = 100
)

// UserStats summarizes an angler's catch log.
type UserStats struct {
	TotalCatches  int                        `json:"total_catches"`
	Species       []catchstats.Count[string] `json:"species"`
	BodiesOfWater []catchstats.Count[string] `json:"bodies_of_water"`
	Lures         []catchstats.Count[string] `json:"lures"`
	BiggestCatch  *models.Catch              `json:"biggest_catch,omitempty"`
	LongestStreak int                        `json:"longest_streak"`
	Seasons       int                        `json:"seasons"`
	WithImages    int                        `json:"with_images"`
}

type LeaderboardEntry struct {
	Position     int    `json:"position"`
	UserID       string `json:"user_id"`
	DisplayName  string `json:"display_name"`
	TotalXP      int64  `json:"total_xp"`
	Level        int    `json:"level"`
	Rank         int    `json:"rank"`
	RankName     string `json:"rank_name"`
	Catches      int64  `json:"total_catches"`
	Achievements int64  `json:"achievements_unlocked"`
}

type StatsService struct {
	DB      *gorm.DB
	Catches *CatchService
	// Lang orders species and water names for display.
	Lang language.Tag
}

func NewStatsService(db *gorm.DB, catches *CatchService) *StatsService {
	return &StatsService{DB: db, Catches: catches, Lang: language.Finnish}
}

func (s *StatsService) sortNames(counts []catchstats.Count[string]) {
	col := collate.New(s.Lang, collate.IgnoreCase)
	slices.SortStableFunc(counts, func(a, b catchstats.Count[string]) int {
		return col.CompareString(a.Value, b.Value)
	})
}

// UserStats computes catch statistics for userID.
func (s *StatsService) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	catches, err := s.Catches.AllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		TotalCatches:  len(catches),
		Species:       catchstats.SpeciesCounts(catches),
		BodiesOfWater: catchstats.BodyOfWaterCounts(catches),
		Lures:         catchstats.LureCounts(catches),
		LongestStreak: catchstats.LongestFishingStreak(catches),
		Seasons:       catchstats.UniqueSeasonsCount(catches),
		WithImages:    catchstats.CountWithImages(catches),
	}
	s.sortNames(stats.Species)
	s.sortNames(stats.BodiesOfWater)
	s.sortNames(stats.Lures)

	for i := range catches {
		if catches[i].Weight > 0 && (stats.BiggestCatch == nil || catches[i].Weight > stats.BiggestCatch.Weight) {
			stats.BiggestCatch = &catches[i]
		}
	}
	return stats, nil
}

// Leaderboard ranks anglers by achievement XP.
func (s *StatsService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > maxLeaderboardSize {
		limit = defaultLeaderboardSize
	}

	var progress []models.UserProgress
	if err := s.DB.WithContext(ctx).
		Order("total_xp DESC, total_catches DESC, external_user_id ASC").
		Limit(limit).
		Find(&progress).Error; err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	if len(progress) == 0 {
		return []LeaderboardEntry{}, nil
	}

	ids := make([]string, len(progress))
	for i, p := range progress {
		ids[i] = p.ExternalUserID
	}
	var anglers []models.Angler
	if err := s.DB.WithContext(ctx).Where("external_user_id IN ?", ids).Find(&anglers).Error; err != nil {
		return nil, fmt.Errorf("load anglers: %w", err)
	}
	names := make(map[string]string, len(anglers))
	for _, a := range anglers {
		names[a.ExternalUserID] = a.DisplayName()
	}

	entries := make([]LeaderboardEntry, len(progress))
	for i, p := range progress {
		name, ok := names[p.ExternalUserID]
		if !ok {
			name = p.ExternalUserID
		}
		entries[i] = LeaderboardEntry{
			Position:     i + 1,
			UserID:       p.ExternalUserID,
			DisplayName:  name,
			TotalXP:      p.TotalXP,
			Level:        p.Level,
			Rank:         p.Rank,
			RankName:     rankName(p.Rank),
			Catches:      p.TotalCatches,
			Achievements: p.AchievementsUnlocked,
		}
	}
	return entries, nil
}
