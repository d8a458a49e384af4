package models

import "time"

// ApplicationState records which theme and wallpaper are currently applied.
// Only the orchestrator writes it.
type ApplicationState struct {
	ID               string    `gorm:"primaryKey;size:64" json:"-"`
	CurrentTheme     string    `gorm:"size:200" json:"currentTheme"`
	CurrentWallpaper string    `gorm:"size:1000" json:"currentWallpaper,omitempty"`
	LastSwitched     time.Time `json:"lastSwitched"`
	TrackingID       string    `gorm:"size:64" json:"-"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"-"`
}

// TableName specifies the table name for GORM.
func (ApplicationState) TableName() string {
	return "application_state"
}

// DefaultApplicationState is the state before any theme was applied.
func DefaultApplicationState() *ApplicationState {
	return &ApplicationState{ID: "default"}
}

// HasTheme reports whether a theme has ever been applied.
func (s *ApplicationState) HasTheme() bool {
	return s != nil && s.CurrentTheme != ""
}
