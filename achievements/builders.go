package achievements

import (
	"math"
	"time"

	"fishlog/models"
)

func sanitize(progress float64) float64 {
	if math.IsNaN(progress) || math.IsInf(progress, 0) {
		return 0
	}
	return progress
}

// tierFor returns the highest tier whose threshold is <= progress, 0 if none.
func tierFor(tiers []models.TierConfig, progress float64) int {
	for i, t := range tiers {
		if t.Threshold > progress {
			return i
		}
	}
	return len(tiers)
}

// BuildTieredRecord turns a progress measurement into a tiered record. It returns nil for
// untouched achievements. Unlock dates already stored on existing are kept; tiers reached
// for the first time are stamped with now.
func BuildTieredRecord(cfg models.AchievementConfig, userID string, progress float64, existing *models.AchievementRecord, now time.Time) *models.AchievementRecord {
	progress = sanitize(progress)
	if existing == nil && progress == 0 {
		return nil
	}

	current := tierFor(cfg.Tiers, progress)

	totalXP := 0
	for _, t := range cfg.Tiers[:current] {
		totalXP += t.XP
	}
	if cfg.DynamicBonus && current == len(cfg.Tiers) && current > 0 {
		extra := math.Floor(progress - cfg.Tiers[current-1].Threshold)
		totalXP += int(extra) * cfg.BonusXPPerUnit
	}

	unlocks := make([]models.TierUnlock, len(cfg.Tiers))
	for i, t := range cfg.Tiers {
		unlocks[i] = models.TierUnlock{Tier: t.Tier}
		if prev := previousUnlock(existing, i); prev != nil {
			unlocks[i].DateUnlocked = prev
		} else if i < current {
			stamp := now
			unlocks[i].DateUnlocked = &stamp
		}
	}

	rec := &models.AchievementRecord{
		UserID:      userID,
		Key:         cfg.Key,
		Progress:    progress,
		TotalXP:     totalXP,
		Unlocked:    current > 0,
		CurrentTier: current,
		Tiers:       unlocks,
	}
	if existing != nil {
		rec.ID = existing.ID
	}
	return rec
}

func previousUnlock(existing *models.AchievementRecord, i int) *time.Time {
	if existing == nil || i >= len(existing.Tiers) {
		return nil
	}
	return existing.Tiers[i].DateUnlocked
}

// BuildOneTimeRecord turns a measurement and unlock decision into a one-time record.
// It returns nil for untouched achievements. The date is stamped when the record first
// appears, locked or not, and is never replaced.
func BuildOneTimeRecord(cfg models.AchievementConfig, userID string, progress float64, unlocked bool, existing *models.AchievementRecord, now time.Time) *models.AchievementRecord {
	progress = sanitize(progress)
	if existing == nil && progress == 0 {
		return nil
	}

	rec := &models.AchievementRecord{
		UserID:    userID,
		Key:       cfg.Key,
		IsOneTime: true,
		Progress:  progress,
		Unlocked:  unlocked,
	}
	if existing != nil {
		rec.ID = existing.ID
		rec.DateUnlocked = existing.DateUnlocked
	}
	if rec.DateUnlocked == nil {
		stamp := now
		rec.DateUnlocked = &stamp
	}
	if unlocked {
		rec.TotalXP = cfg.XP
	}
	return rec
}
