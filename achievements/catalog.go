package achievements

import (
	"fmt"

	"fishlog/models"
)

// Catalog is an immutable set of achievement definitions.
type Catalog struct {
	configs []models.AchievementConfig
	byKey   map[string]models.AchievementConfig
}

// NewCatalog validates configs and indexes them by key.
func NewCatalog(configs []models.AchievementConfig) (*Catalog, error) {
	c := &Catalog{
		configs: make([]models.AchievementConfig, 0, len(configs)),
		byKey:   make(map[string]models.AchievementConfig, len(configs)),
	}
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byKey[cfg.Key]; dup {
			return nil, fmt.Errorf("duplicate achievement key %q", cfg.Key)
		}
		c.configs = append(c.configs, cfg)
		c.byKey[cfg.Key] = cfg
	}
	return c, nil
}

// All returns the definitions in catalog order. The slice is a copy.
func (c *Catalog) All() []models.AchievementConfig {
	out := make([]models.AchievementConfig, len(c.configs))
	copy(out, c.configs)
	return out
}

func (c *Catalog) Get(key string) (models.AchievementConfig, bool) {
	cfg, ok := c.byKey[key]
	return cfg, ok
}

func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.configs))
	for i, cfg := range c.configs {
		keys[i] = cfg.Key
	}
	return keys
}

func (c *Catalog) Len() int { return len(c.configs) }

func tiers(thresholds []float64, xp []int) []models.TierConfig {
	out := make([]models.TierConfig, len(thresholds))
	for i := range thresholds {
		out[i] = models.TierConfig{Tier: i + 1, Threshold: thresholds[i], XP: xp[i]}
	}
	return out
}

func threshold(v float64) *float64 { return &v }

var (
	standardXP = []int{100, 200, 400, 800, 1500}
	speciesXP  = []int{50, 150, 300, 600, 1200}
)

// DefaultCatalog returns the built-in achievement definitions.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultConfigs())
	if err != nil {
		panic(fmt.Sprintf("invalid built-in achievement catalog: %v", err))
	}
	return c
}

func defaultConfigs() []models.AchievementConfig {
	return []models.AchievementConfig{
		// Amount
		{
			Key: "catch_count", Name: "Angler",
			Description: "Log catches",
			Category:    models.CategoryAmount,
			Tiers:       tiers([]float64{1, 10, 50, 150, 300}, standardXP),
		},
		{
			Key: "unique_species", Name: "Collector",
			Description: "Catch different species",
			Category:    models.CategoryAmount,
			Tiers:       tiers([]float64{1, 3, 5, 10, 15}, standardXP),
		},

		// Size
		{
			Key: "max_weight", Name: "Heavyweight",
			Description: "Land a heavy fish (kg)",
			Category:    models.CategorySize,
			Tiers:       tiers([]float64{1, 3, 5, 8, 12}, standardXP),
		},
		{
			Key: "tiny_catch", Name: "Micro Fishing",
			Description: "Log a fish no longer than 5 cm",
			Category:    models.CategorySize,
			IsOneTime:   true, XP: 150, Rarity: 2,
			Threshold: threshold(5),
		},
		{
			Key: "pike_master", Name: "Pike Master",
			Description: "Catch a pike weighing at least 10 kg",
			Category:    models.CategoryMisc,
			IsOneTime:   true, XP: 2000, Rarity: 5,
			Condition: models.Condition{"species": "Pike", "weight": 10.0},
		},

		// Species
		{
			Key: "pike_count", Name: "Pike Hunter",
			Description: "Catch pike",
			Category:    models.CategorySpecies,
			Condition:   models.Condition{"species": "Pike"},
			Tiers:       tiers([]float64{1, 10, 25, 50, 100}, speciesXP),
		},
		{
			Key: "perch_count", Name: "Perch Pro",
			Description: "Catch perch",
			Category:    models.CategorySpecies,
			Condition:   models.Condition{"species": "Perch"},
			Tiers:       tiers([]float64{1, 10, 25, 50, 100}, speciesXP),
		},
		{
			Key: "zander_count", Name: "Zander Seeker",
			Description: "Catch zander",
			Category:    models.CategorySpecies,
			Condition:   models.Condition{"species": "Zander"},
			Tiers:       tiers([]float64{1, 10, 25, 50, 100}, speciesXP),
		},
		{
			Key: "trout_count", Name: "Trout Whisperer",
			Description: "Catch trout",
			Category:    models.CategorySpecies,
			Condition:   models.Condition{"species": "Trout"},
			Tiers:       tiers([]float64{1, 5, 10, 25, 50}, speciesXP),
		},

		// Location
		{
			Key: "unique_waters", Name: "Explorer",
			Description: "Fish in different bodies of water. Every water beyond the last tier gives bonus XP.",
			Category:    models.CategoryLocation,
			Tiers:       tiers([]float64{1, 3, 5, 10, 20}, standardXP),
			DynamicBonus: true, BonusXPPerUnit: 50,
		},
		{
			Key: "unique_spots", Name: "Spot Hopper",
			Description: "Catch fish at spots at least 200 m apart in the same water",
			Category:    models.CategoryLocation,
			Condition:   models.Condition{"minDistance": 200.0},
			Tiers:       tiers([]float64{2, 5, 10, 25, 50}, standardXP),
		},

		// Lure
		{
			Key: "unique_lures", Name: "Tackle Box",
			Description: "Catch fish with different lures",
			Category:    models.CategoryLure,
			Tiers:       tiers([]float64{1, 3, 5, 10, 20}, standardXP),
		},

		// Time
		{
			Key: "fishing_streak", Name: "On a Roll",
			Description: "Catch fish on consecutive days",
			Category:    models.CategoryTime,
			Tiers:       tiers([]float64{2, 3, 5, 7, 14}, standardXP),
		},
		{
			Key: "four_seasons", Name: "All Year Round",
			Description: "Catch a fish in every season",
			Category:    models.CategoryTime,
			IsOneTime:   true, XP: 500, Rarity: 3,
		},
		{
			Key: "double_trouble", Name: "Double Trouble",
			Description: "Catch two fish within five minutes",
			Category:    models.CategoryTime,
			IsOneTime:   true, XP: 200, Rarity: 2,
			Condition: models.Condition{"timeframeMinutes": 5, "requiredCount": 2},
		},
		{
			Key: "feeding_frenzy", Name: "Feeding Frenzy",
			Description: "Catch five fish within an hour",
			Category:    models.CategoryTime,
			IsOneTime:   true, XP: 600, Rarity: 4,
			Condition: models.Condition{"timeframeMinutes": 60},
			Threshold: threshold(5),
		},

		// Log detail
		{
			Key: "photographer", Name: "Photographer",
			Description: "Attach a photo to a catch",
			Category:    models.CategoryLog,
			IsOneTime:   true, XP: 100, Rarity: 1,
		},
		{
			Key: "storyteller", Name: "Storyteller",
			Description: "Write a comment on a catch",
			Category:    models.CategoryLog,
			IsOneTime:   true, XP: 100, Rarity: 1,
		},
	}
}
