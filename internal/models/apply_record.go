package models

import "time"

// ApplyRecord is one committed theme switch.
type ApplyRecord struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	Theme         string    `gorm:"size:200;index;not null" json:"theme"`
	PreviousTheme string    `gorm:"size:200" json:"previous_theme"`
	Notified      int       `json:"notified"`
	Failed        int       `json:"failed"`
	FailedNames   string    `gorm:"type:text" json:"failed_names"`
	Wallpaper     string    `gorm:"size:1000" json:"wallpaper"`
	DurationMs    int64     `json:"duration_ms"`
	AppliedAt     time.Time `gorm:"index" json:"applied_at"`
}

// TableName specifies the table name for GORM.
func (ApplyRecord) TableName() string {
	return "apply_records"
}
