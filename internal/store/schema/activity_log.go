package schema

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog records pipeline events for a property: job state transitions,
// balance failures, chain submissions and their outcomes.
type ActivityLog struct {
	ID         uint           `gorm:"primaryKey;autoIncrement"`
	JobID      string         `gorm:"size:32;index"`
	PropertyID string         `gorm:"size:128;index"`
	Action     string         `gorm:"size:32"`
	State      string         `gorm:"size:32"`
	Message    string         `gorm:"type:text"`
	Detail     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
