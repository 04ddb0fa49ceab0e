package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportSetting holds the single row of reporting preferences.
type ReportSetting struct {
	ID                  uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuarterlyEnabled    bool       `gorm:"column:quarterly_enabled;not null;default:false"`
	RecipientEmail      string     `gorm:"column:recipient_email;type:text"`
	DefaultFormat       string     `gorm:"column:default_format;type:text;not null;default:'summary'"`
	LastDispatchedAt    *time.Time `gorm:"column:last_dispatched_at"`
	LastDispatchedRange *string    `gorm:"column:last_dispatched_range"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides GORM's pluralization.
func (ReportSetting) TableName() string { return "report_settings" }
