package db

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/swatch/internal/models"
)

// Load returns the application state. It satisfies state.Store.
func (db *DB) Load() (*models.ApplicationState, error) {
	var st models.ApplicationState
	err := db.Where("id = ?", models.DefaultApplicationState().ID).First(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultApplicationState(), nil
		}
		return nil, err
	}
	return &st, nil
}

// Save upserts the theme, wallpaper and switch time, leaving the tracking
// id untouched. It satisfies state.Store.
func (db *DB) Save(st *models.ApplicationState) error {
	row := models.ApplicationState{
		ID:               models.DefaultApplicationState().ID,
		CurrentTheme:     st.CurrentTheme,
		CurrentWallpaper: st.CurrentWallpaper,
		LastSwitched:     st.LastSwitched,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_theme", "current_wallpaper", "last_switched", "updated_at"}),
	}).Create(&row).Error
}

// GetOrCreateTrackingID returns the persistent tracking ID, creating one if it doesn't exist.
// On any error, it falls back to generating a per-session ID.
func (db *DB) GetOrCreateTrackingID() string {
	st, err := db.Load()
	if err != nil {
		return generateSessionID()
	}

	if st.TrackingID != "" {
		return st.TrackingID
	}

	trackingID := generateSessionID()
	st.TrackingID = trackingID
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tracking_id", "updated_at"}),
	}).Create(st).Error
	if err != nil {
		// Even if save fails, return the generated ID for this session
		return trackingID
	}

	return trackingID
}

// generateSessionID creates a new UUID for session-based tracking.
func generateSessionID() string {
	return uuid.New().String()
}
