package achievements

import (
	"time"

	"fishlog/catchstats"
	"fishlog/models"
)

// Evaluator computes the new state of one achievement from a user's catches. It returns
// nil when no record should exist. Evaluators must not modify their inputs.
type Evaluator func(catches []models.Catch, cfg models.AchievementConfig, userID string, existing *models.AchievementRecord, now time.Time) *models.AchievementRecord

// Registry maps achievement keys to their evaluators.
type Registry map[string]Evaluator

const (
	defaultMinSpotDistance = 200.0
	defaultTinyLength      = 5.0
)

// Tiered wraps a progress measurement into an Evaluator using BuildTieredRecord.
func Tiered(measure func(catches []models.Catch, cfg models.AchievementConfig) float64) Evaluator {
	return func(catches []models.Catch, cfg models.AchievementConfig, userID string, existing *models.AchievementRecord, now time.Time) *models.AchievementRecord {
		return BuildTieredRecord(cfg, userID, measure(catches, cfg), existing, now)
	}
}

// OneTime wraps a measurement and unlock check into an Evaluator using BuildOneTimeRecord.
func OneTime(check func(catches []models.Catch, cfg models.AchievementConfig, existing *models.AchievementRecord) (progress float64, unlocked bool)) Evaluator {
	return func(catches []models.Catch, cfg models.AchievementConfig, userID string, existing *models.AchievementRecord, now time.Time) *models.AchievementRecord {
		progress, unlocked := check(catches, cfg, existing)
		return BuildOneTimeRecord(cfg, userID, progress, unlocked, existing, now)
	}
}

func thresholdOr(cfg models.AchievementConfig, def float64) float64 {
	if cfg.Threshold != nil {
		return *cfg.Threshold
	}
	return def
}

func countOf(values []string) float64 { return float64(len(values)) }

func catchCount(catches []models.Catch, _ models.AchievementConfig) float64 {
	return float64(len(catches))
}

func uniqueSpecies(catches []models.Catch, _ models.AchievementConfig) float64 {
	return countOf(catchstats.UniqueSpecies(catches))
}

func maxWeight(catches []models.Catch, _ models.AchievementConfig) float64 {
	return catchstats.MaxWeight(catches)
}

func speciesCount(catches []models.Catch, cfg models.AchievementConfig) float64 {
	return float64(catchstats.SpeciesTotal(catches, cfg.Condition.String("species")))
}

func uniqueWaters(catches []models.Catch, _ models.AchievementConfig) float64 {
	return countOf(catchstats.UniqueBodiesOfWater(catches))
}

func uniqueLures(catches []models.Catch, _ models.AchievementConfig) float64 {
	return countOf(catchstats.UniqueLures(catches))
}

func fishingStreak(catches []models.Catch, _ models.AchievementConfig) float64 {
	return float64(catchstats.LongestFishingStreak(catches))
}

func uniqueSpots(catches []models.Catch, cfg models.AchievementConfig) float64 {
	minDistance := cfg.Condition.Float("minDistance", defaultMinSpotDistance)
	return float64(catchstats.UniqueSpotsByDistance(catches, minDistance))
}

// tinyCatch stays unlocked once reached and reports the smallest length ever seen,
// including lengths from catches that are no longer in the log.
func tinyCatch(catches []models.Catch, cfg models.AchievementConfig, existing *models.AchievementRecord) (float64, bool) {
	smallest := catchstats.SmallestLength(catches)
	if existing != nil && existing.Progress > 0 && (smallest == 0 || existing.Progress < smallest) {
		smallest = existing.Progress
	}
	unlocked := smallest > 0 && smallest <= thresholdOr(cfg, defaultTinyLength)
	if existing != nil && existing.Unlocked {
		unlocked = true
	}
	return smallest, unlocked
}

func fourSeasons(catches []models.Catch, _ models.AchievementConfig, _ *models.AchievementRecord) (float64, bool) {
	n := catchstats.UniqueSeasonsCount(catches)
	return float64(n), n == 4
}

// timeframeBurst checks for N catches within M minutes. With requiredCount set the search
// stops at the first qualifying window; otherwise the maximum window is compared to the
// threshold.
func timeframeBurst(catches []models.Catch, cfg models.AchievementConfig, _ *models.AchievementRecord) (float64, bool) {
	minutes := cfg.Condition.Int("timeframeMinutes", 60)
	if required := cfg.Condition.Int("requiredCount", 0); required > 0 {
		n := catchstats.ResolveTimeframeCatches(catches, minutes, required)
		return float64(n), n >= required
	}
	n := catchstats.ResolveTimeframeCatches(catches, minutes, 0)
	return float64(n), float64(n) >= thresholdOr(cfg, 1)
}

func hasImage(catches []models.Catch, _ models.AchievementConfig, _ *models.AchievementRecord) (float64, bool) {
	n := catchstats.CountWithImages(catches)
	return float64(n), n > 0
}

func hasComment(catches []models.Catch, _ models.AchievementConfig, _ *models.AchievementRecord) (float64, bool) {
	n := catchstats.CountWithComments(catches)
	return float64(n), n > 0
}

func speciesWeightMilestone(catches []models.Catch, cfg models.AchievementConfig, _ *models.AchievementRecord) (float64, bool) {
	heaviest := catchstats.HeaviestOfSpecies(catches, cfg.Condition.String("species"))
	target := cfg.Condition.Float("weight", 0)
	return heaviest, heaviest > 0 && heaviest >= target
}

// DefaultRegistry returns the evaluators for DefaultCatalog.
func DefaultRegistry() Registry {
	return Registry{
		"catch_count":    Tiered(catchCount),
		"unique_species": Tiered(uniqueSpecies),
		"max_weight":     Tiered(maxWeight),
		"pike_count":     Tiered(speciesCount),
		"perch_count":    Tiered(speciesCount),
		"zander_count":   Tiered(speciesCount),
		"trout_count":    Tiered(speciesCount),
		"unique_waters":  Tiered(uniqueWaters),
		"unique_spots":   Tiered(uniqueSpots),
		"unique_lures":   Tiered(uniqueLures),
		"fishing_streak": Tiered(fishingStreak),
		"tiny_catch":     OneTime(tinyCatch),
		"four_seasons":   OneTime(fourSeasons),
		"double_trouble": OneTime(timeframeBurst),
		"feeding_frenzy": OneTime(timeframeBurst),
		"photographer":   OneTime(hasImage),
		"storyteller":    OneTime(hasComment),
		"pike_master":    OneTime(speciesWeightMilestone),
	}
}
