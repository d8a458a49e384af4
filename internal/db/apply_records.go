package db

import (
	"fmt"

	"github.com/asteroid-belt/swatch/internal/models"
)

// RecordApply stores one committed apply.
func (db *DB) RecordApply(rec *models.ApplyRecord) error {
	if rec.ID == "" {
		rec.ID = generateSessionID()
	}
	if err := db.Create(rec).Error; err != nil {
		return fmt.Errorf("record apply: %w", err)
	}
	return nil
}

// ListApplyRecords returns the most recent applies first. A limit of 0
// returns all of them.
func (db *DB) ListApplyRecords(limit int) ([]models.ApplyRecord, error) {
	var records []models.ApplyRecord
	q := db.Order("applied_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list apply records: %w", err)
	}
	return records, nil
}

// CountApplies returns how many times theme was applied, or all applies
// when theme is empty.
func (db *DB) CountApplies(theme string) (int64, error) {
	var n int64
	q := db.Model(&models.ApplyRecord{})
	if theme != "" {
		q = q.Where("theme = ?", theme)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
