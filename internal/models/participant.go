package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ParticipantRoleCreator = "CREATOR"
	ParticipantRoleGuest   = "GUEST"

	ParticipantStatusAccepted = "ACCEPTED"
	ParticipantStatusPending  = "PENDING"
)

type Participant struct {
	gorm.Model

	EventID  uint      `gorm:"not null;uniqueIndex:idx_event_user"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_event_user"`
	Role     string    `gorm:"not null"`
	Status   string    `gorm:"not null"`
	JoinedAt time.Time `gorm:"not null"`

	// Relationships
	Event Event `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
