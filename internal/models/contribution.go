package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ContributionTypeAnecdote = "ANECDOTE"
	ContributionTypeComment  = "COMMENT"

	ContributionStatusPending   = "PENDING"
	ContributionStatusValidated = "VALIDATED"
)

type Contribution struct {
	gorm.Model

	EventID     uint   `gorm:"not null;index"`
	UserID      uint   `gorm:"not null;index"`
	Type        string `gorm:"not null"`
	Content     string `gorm:"not null"`
	Status      string `gorm:"not null"`
	ValidatedAt *time.Time

	// Relationships
	Event Event `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
