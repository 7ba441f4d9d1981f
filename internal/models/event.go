package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	gorm.Model

	Title       string    `gorm:"not null"`
	Description string
	StartDate   time.Time `gorm:"not null;index"`
	EndDate     *time.Time
	IsPunctual  bool `gorm:"default:true"` // single-day event
	Location    string
	Latitude    *float64
	Longitude   *float64
	CreatorID   uint `gorm:"not null;index"`

	// Relationships
	Creator       User           `gorm:"foreignKey:CreatorID"`
	Participants  []Participant  `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Media         []Media        `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Contributions []Contribution `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
