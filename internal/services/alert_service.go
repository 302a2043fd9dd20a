package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/brandsignal/brandsignal/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Notifier delivers a fired alert to an external channel. Implementations
// must not block ingestion and must swallow their own failures.
type Notifier interface {
	NotifyAlert(alert *database.Alert)
}

// AlertService manages alerts keyed by their natural-language title. Both
// the spike detector and the competitor processor emit alerts through it, so
// re-detection of the same condition refreshes one row instead of creating
// duplicates.
type AlertService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewAlertService creates a new AlertService. notifier may be nil.
func NewAlertService(db *gorm.DB, notifier Notifier) *AlertService {
	return &AlertService{db: db, notifier: notifier}
}

// UpsertAlert creates the alert or, when the title already exists, refreshes
// its severity, timestamp, and linked entity in place. ResolvedAt is left
// alone: a resolved alert stays resolved until the caller re-opens it.
func (s *AlertService) UpsertAlert(title, description string, severity database.AlertSeverity, mentionID, competitorUpdateID *uint) (*database.Alert, error) {
	alert := database.Alert{
		Title:              title,
		Description:        description,
		Severity:           severity,
		MentionID:          mentionID,
		CompetitorUpdateID: competitorUpdateID,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "title"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"severity":             severity,
			"mention_id":           mentionID,
			"competitor_update_id": competitorUpdateID,
			"created_at":           time.Now(),
		}),
	}).Create(&alert).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert alert: %w", err)
	}

	// Refetch so the caller sees the stored row regardless of which branch
	// the upsert took.
	var stored database.Alert
	if err := s.db.Where("title = ?", title).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to load upserted alert: %w", err)
	}

	if s.notifier != nil && stored.Severity == database.SeverityCritical {
		s.notifier.NotifyAlert(&stored)
	}

	return &stored, nil
}

// ListActiveAlerts returns all unresolved alerts, newest first.
func (s *AlertService) ListActiveAlerts() ([]database.Alert, error) {
	var alerts []database.Alert
	err := s.db.Where("resolved_at IS NULL").Order("created_at DESC").Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// ResolveAlert marks an alert resolved. Resolving twice refreshes the
// timestamp.
func (s *AlertService) ResolveAlert(id uint) error {
	var alert database.Alert
	if err := s.db.First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: alert %d", ErrNotFound, id)
		}
		return err
	}

	now := time.Now()
	return s.db.Model(&alert).Update("resolved_at", now).Error
}
