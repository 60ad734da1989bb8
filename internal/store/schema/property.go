package schema

import (
	"time"

	"gorm.io/datatypes"
)

// PropertyStatus tracks where a property sits in the registration pipeline
type PropertyStatus string

const (
	PropertyStatusPending    PropertyStatus = "pending"
	PropertyStatusRegistered PropertyStatus = "registered"
	PropertyStatusFailed     PropertyStatus = "failed"
)

// Property is a land property tracked by the registry
type Property struct {
	ID           uint           `gorm:"primaryKey;autoIncrement"`
	PropertyID   string         `gorm:"uniqueIndex;size:128;not null"`
	Name         string         `gorm:"size:256"`
	OwnerName    string         `gorm:"size:256"`
	OwnerEmail   string         `gorm:"size:256"`
	PropertyType string         `gorm:"size:64"`
	FileURLs     datatypes.JSON `gorm:"type:jsonb"`
	TokenID      *uint64        `gorm:"uniqueIndex"`
	TxHash       string         `gorm:"size:66"`
	MetadataCID  string         `gorm:"size:128;index"`
	Status       PropertyStatus `gorm:"size:32;index;default:pending"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Property) TableName() string {
	return "properties"
}
