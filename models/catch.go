package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatchLocation describes where a fish was caught.
type CatchLocation struct {
	BodyOfWater string `json:"body_of_water" gorm:"index;not null"`
	Spot        string `json:"spot,omitempty"`
	Coordinates string `json:"coordinates,omitempty"` // "lat,lng"
}

// CaughtBy links a catch to the angler. UserID is nil for guests logged by someone else.
type CaughtBy struct {
	Name   string  `json:"name"`
	UserID *string `json:"user_id,omitempty" gorm:"index"`
}

// Catch is one fishing event. Catches are read-only for the achievement engine.
type Catch struct {
	ID       string        `gorm:"primaryKey;type:uuid" json:"id"`
	Species  string        `gorm:"index;not null" json:"species"`
	Date     string        `gorm:"type:varchar(10);index;not null" json:"date"` // YYYY-MM-DD
	Time     string        `gorm:"type:varchar(5)" json:"time,omitempty"`       // HH:MM
	Length   float64       `json:"length,omitempty"`                            // cm, 0 = not measured
	Weight   float64       `json:"weight,omitempty"`                            // kg, 0 = not weighed
	Lure     string        `json:"lure,omitempty"`
	Location CatchLocation `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	CaughtBy CaughtBy      `gorm:"embedded;embeddedPrefix:caught_by_" json:"caught_by"`
	Images   []string      `gorm:"serializer:json;type:text" json:"images"`
	Comment  string        `gorm:"type:text" json:"comment,omitempty"`

	// CreatedByID is the user who logged the catch, not necessarily the one who caught it.
	CreatedByID string `gorm:"index" json:"created_by_id"`

	Timestamps
}

func (c *Catch) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CaughtByUser reports whether the catch is attributed to the given user.
func (c Catch) CaughtByUser(userID string) bool {
	return userID != "" && c.CaughtBy.UserID != nil && *c.CaughtBy.UserID == userID
}
