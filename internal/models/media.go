package models

import "gorm.io/gorm"

const (
	MediaTypeImage = "IMAGE"

	MediaStatusPending   = "PENDING"
	MediaStatusValidated = "VALIDATED"
)

type Media struct {
	gorm.Model

	EventID    uint   `gorm:"not null;index"`
	UploadedBy uint   `gorm:"not null;index"`
	Type       string `gorm:"not null"`
	StorageKey string `gorm:"not null"`
	Bucket     string `gorm:"not null"` // "local" when stored on disk
	Filename   string `gorm:"not null"`
	MimeType   string `gorm:"not null"`
	Size       int64  `gorm:"not null"`
	Status     string `gorm:"not null"`
	Width      int
	Height     int

	// Relationships
	Event    Event `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Uploader User  `gorm:"foreignKey:UploadedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
