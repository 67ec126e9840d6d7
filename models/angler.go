package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Angler is a local snapshot of the profile data shown on leaderboards.
// Populated by the sync worker from the profile service.
type Angler struct {
	ID                string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID    string    `gorm:"uniqueIndex;not null" json:"external_user_id"` // profile service user id
	Username          string    `gorm:"index;not null" json:"username"`
	FirstName         *string   `json:"first_name,omitempty"`
	LastName          *string   `json:"last_name,omitempty"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Angler) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// DisplayName prefers the full name and falls back to the username.
func (a Angler) DisplayName() string {
	if a.FirstName != nil && *a.FirstName != "" {
		if a.LastName != nil && *a.LastName != "" {
			return *a.FirstName + " " + *a.LastName
		}
		return *a.FirstName
	}
	return a.Username
}
