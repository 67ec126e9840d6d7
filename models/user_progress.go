package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProgress is the denormalized progression summary of an angler, rebuilt from their
// achievement records after every recalculation.
type UserProgress struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // links to profile service

	// Core progression
	TotalXP int64 `json:"total_xp" gorm:"column:total_xp;default:0"`
	Level   int   `json:"level" gorm:"default:1"`
	Rank    int   `json:"rank" gorm:"default:1"` // Rookie(1)→Bronze(2)→Silver(3)→Gold(4)→Platinum(5)

	// Activity counters
	TotalCatches         int64 `json:"total_catches" gorm:"default:0"`
	AchievementsUnlocked int64 `json:"achievements_unlocked" gorm:"default:0"`

	// Milestones
	LastLevelUpAt     *time.Time `json:"last_level_up_at,omitempty"`
	LastRankUpAt      *time.Time `json:"last_rank_up_at,omitempty"`
	LastRecalculateAt *time.Time `json:"last_recalculated_at,omitempty"`

	Timestamps
}

func (p *UserProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
