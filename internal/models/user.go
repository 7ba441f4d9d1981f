package models

import "gorm.io/gorm"

const (
	UserStatusPending    = "PENDING"
	UserStatusRegistered = "REGISTERED"
	UserStatusActive     = "ACTIVE"
)

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string // empty for federated-only accounts
	Phone        string
	Status       string `gorm:"not null;default:PENDING"`
	Image        string

	// Relationships
	CreatedEvents  []Event        `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Participations []Participant  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Media          []Media        `gorm:"foreignKey:UploadedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Contributions  []Contribution `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
