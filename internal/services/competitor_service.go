package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/brandsignal/brandsignal/internal/classify"
	"github.com/brandsignal/brandsignal/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RawCompetitorUpdate is a competitor update as delivered by an upstream
// feed. Type and Impact are optional; empty values are classified from the
// title and description.
type RawCompetitorUpdate struct {
	CompetitorName    string
	CompetitorWebsite string
	Type              database.UpdateType
	Title             string
	Description       string
	SourceURL         string
	SourceChannel     database.Channel
	PublishedAt       time.Time
	Impact            database.AlertSeverity
}

// CompetitorService ingests competitor updates: competitor upsert, the
// (competitor, sourceUrl) dedup, type/impact classification, and high-impact
// alert emission.
type CompetitorService struct {
	db     *gorm.DB
	alerts *AlertService
}

// NewCompetitorService creates a new CompetitorService
func NewCompetitorService(db *gorm.DB, alerts *AlertService) *CompetitorService {
	return &CompetitorService{db: db, alerts: alerts}
}

// ProcessCompetitorUpdate ingests one raw update. A known
// (competitor, sourceUrl) pair is patched in place and takes no alert path;
// a new update is created and, when its impact lands at HIGH or CRITICAL,
// upserts an alert titled deterministically from the competitor and update
// titles.
func (s *CompetitorService) ProcessCompetitorUpdate(raw RawCompetitorUpdate) error {
	if err := validateRawCompetitorUpdate(raw); err != nil {
		return err
	}

	competitor, err := s.resolveCompetitor(raw.CompetitorName, raw.CompetitorWebsite)
	if err != nil {
		return fmt.Errorf("failed to resolve competitor: %w", err)
	}

	if raw.SourceURL != "" {
		var existing database.CompetitorUpdate
		err := s.db.Where("competitor_id = ? AND source_url = ?", competitor.ID, raw.SourceURL).
			First(&existing).Error
		if err == nil {
			return s.patchUpdate(&existing, raw)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up competitor update: %w", err)
		}
	}

	updateType := raw.Type
	if updateType == "" {
		updateType = classify.ClassifyUpdateType(raw.Title, raw.Description)
	}
	impact := raw.Impact
	if impact == "" {
		impact = classify.AssessImpact(raw.Title, raw.Description, updateType)
	}

	update := database.CompetitorUpdate{
		CompetitorID:  competitor.ID,
		Type:          updateType,
		Title:         raw.Title,
		Description:   raw.Description,
		SourceChannel: raw.SourceChannel,
		PublishedAt:   raw.PublishedAt,
		Impact:        impact,
	}
	if raw.SourceURL != "" {
		update.SourceURL = &raw.SourceURL
	}

	if err := s.db.Create(&update).Error; err != nil {
		return fmt.Errorf("failed to create competitor update: %w", err)
	}

	if impact == database.SeverityHigh || impact == database.SeverityCritical {
		title := fmt.Sprintf("High-impact update: %s - %s", raw.CompetitorName, raw.Title)
		if _, err := s.alerts.UpsertAlert(title, raw.Description, impact, nil, &update.ID); err != nil {
			return fmt.Errorf("failed to upsert high-impact alert: %w", err)
		}
	}

	return nil
}

// ProcessCompetitorUpdatesBatch ingests a slice of raw updates sequentially,
// logging and skipping failed items. Returns the number of items that failed.
func (s *CompetitorService) ProcessCompetitorUpdatesBatch(raws []RawCompetitorUpdate) (int, error) {
	var failed int
	for _, raw := range raws {
		if err := s.ProcessCompetitorUpdate(raw); err != nil {
			log.Printf("Failed to process competitor update %q: %v", raw.Title, err)
			failed++
		}
	}
	if failed > 0 {
		return failed, fmt.Errorf("failed to process %d of %d competitor updates", failed, len(raws))
	}
	return 0, nil
}

// patchUpdate rewrites a re-delivered update in place. Omitted type/impact
// fall back to the stored values; no duplicate row and no alert.
func (s *CompetitorService) patchUpdate(existing *database.CompetitorUpdate, raw RawCompetitorUpdate) error {
	updates := map[string]interface{}{
		"title":       raw.Title,
		"description": raw.Description,
		"updated_at":  time.Now(),
	}
	if raw.Type != "" {
		updates["type"] = raw.Type
	}
	if raw.Impact != "" {
		updates["impact"] = raw.Impact
	}
	if err := s.db.Model(existing).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update competitor update: %w", err)
	}
	return nil
}

// resolveCompetitor creates or touches the competitor row for the name.
// updated_at moves on every ingestion so "last seen" reads stay cheap.
func (s *CompetitorService) resolveCompetitor(name, website string) (*database.Competitor, error) {
	assignments := map[string]interface{}{"updated_at": time.Now()}
	if website != "" {
		assignments["website"] = website
	}

	competitor := database.Competitor{Name: name, Website: website}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&competitor).Error
	if err != nil {
		return nil, err
	}
	if competitor.ID == 0 {
		if err := s.db.Where("name = ?", name).First(&competitor).Error; err != nil {
			return nil, err
		}
	}
	return &competitor, nil
}

func validateRawCompetitorUpdate(raw RawCompetitorUpdate) error {
	switch {
	case raw.CompetitorName == "":
		return fmt.Errorf("%w: competitor name is required", ErrValidation)
	case raw.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case raw.SourceChannel == "":
		return fmt.Errorf("%w: source channel is required", ErrValidation)
	case raw.PublishedAt.IsZero():
		return fmt.Errorf("%w: published_at is required", ErrValidation)
	}
	return nil
}
