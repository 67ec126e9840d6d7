package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AchievementCategory groups achievements by theme for display.
type AchievementCategory string

const (
	CategoryAmount   AchievementCategory = "amount"
	CategorySize     AchievementCategory = "size"
	CategorySpecies  AchievementCategory = "species"
	CategoryLocation AchievementCategory = "location"
	CategoryLure     AchievementCategory = "lure"
	CategoryTime     AchievementCategory = "time"
	CategoryLog      AchievementCategory = "log"
	CategoryMisc     AchievementCategory = "misc"
)

const (
	MaxTiers  = 5
	MinRarity = 1
	MaxRarity = 5
)

// TierConfig is one progressive threshold of a tiered achievement.
type TierConfig struct {
	Tier      int     `json:"tier"`
	Threshold float64 `json:"threshold"`
	XP        int     `json:"xp"`
}

// Condition holds evaluator-specific parameters. Only the matching evaluator reads it.
type Condition map[string]any

// Float returns the numeric value stored under key, or def when missing or not a number.
func (c Condition) Float(key string, def float64) float64 {
	switch v := c[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

func (c Condition) Int(key string, def int) int {
	return int(c.Float(key, float64(def)))
}

func (c Condition) String(key string) string {
	s, _ := c[key].(string)
	return s
}

// AchievementConfig is a static achievement definition. IsOneTime selects the variant:
// tiered configs use Tiers/DynamicBonus, one-time configs use XP/Threshold/Rarity.
type AchievementConfig struct {
	Key         string              `json:"key"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    AchievementCategory `json:"category"`
	IsOneTime   bool                `json:"is_one_time"`
	Condition   Condition           `json:"condition,omitempty"`

	// tiered
	Tiers          []TierConfig `json:"tiers,omitempty"`
	DynamicBonus   bool         `json:"dynamic_bonus,omitempty"`
	BonusXPPerUnit int          `json:"bonus_xp_per_unit,omitempty"`

	// one-time
	XP        int      `json:"xp,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
	Rarity    int      `json:"rarity,omitempty"`
}

// Validate checks the constraints of the config variant.
func (c AchievementConfig) Validate() error {
	if c.Key == "" {
		return fmt.Errorf("achievement config: empty key")
	}
	if c.IsOneTime {
		if len(c.Tiers) > 0 {
			return fmt.Errorf("achievement %s: one-time config must not define tiers", c.Key)
		}
		if c.Rarity < MinRarity || c.Rarity > MaxRarity {
			return fmt.Errorf("achievement %s: rarity %d out of range %d-%d", c.Key, c.Rarity, MinRarity, MaxRarity)
		}
		if c.XP < 0 {
			return fmt.Errorf("achievement %s: negative xp", c.Key)
		}
		return nil
	}

	if len(c.Tiers) == 0 || len(c.Tiers) > MaxTiers {
		return fmt.Errorf("achievement %s: expected 1-%d tiers, got %d", c.Key, MaxTiers, len(c.Tiers))
	}
	for i, t := range c.Tiers {
		if t.Tier != i+1 {
			return fmt.Errorf("achievement %s: tier %d has number %d", c.Key, i+1, t.Tier)
		}
		if i > 0 && t.Threshold <= c.Tiers[i-1].Threshold {
			return fmt.Errorf("achievement %s: tier %d threshold %v not above previous %v",
				c.Key, t.Tier, t.Threshold, c.Tiers[i-1].Threshold)
		}
	}
	if c.DynamicBonus && c.BonusXPPerUnit <= 0 {
		return fmt.Errorf("achievement %s: dynamic bonus without bonus xp", c.Key)
	}
	return nil
}

// TierUnlock records when a tier was first reached.
type TierUnlock struct {
	Tier         int        `json:"tier"`
	DateUnlocked *time.Time `json:"date_unlocked"`
}

// AchievementRecord is the per-user state of one achievement. Rows are upserted by
// (user_id, key) and never deleted.
type AchievementRecord struct {
	ID        string  `gorm:"primaryKey;type:uuid" json:"id,omitempty"`
	UserID    string  `gorm:"uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	Key       string  `gorm:"uniqueIndex:idx_user_achievement;type:varchar(64);not null" json:"key"`
	IsOneTime bool    `gorm:"not null;default:false" json:"is_one_time"`
	Progress  float64 `json:"progress"`
	TotalXP   int     `gorm:"column:total_xp" json:"total_xp"`
	Unlocked  bool    `gorm:"not null;default:false" json:"unlocked"`

	// tiered
	CurrentTier int          `json:"current_tier"`
	Tiers       []TierUnlock `gorm:"serializer:json;type:text" json:"tiers,omitempty"`

	// one-time
	DateUnlocked *time.Time `json:"date_unlocked,omitempty"`

	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"-" gorm:"autoUpdateTime"`
}

func (AchievementRecord) TableName() string {
	return "user_achievements"
}

func (r *AchievementRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
