package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/brandsignal/brandsignal/internal/classify"
	"github.com/brandsignal/brandsignal/internal/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// History actions recorded in the query audit trail.
const (
	actionCreated         = "created"
	actionAssigned        = "assigned"
	actionStatusChanged   = "status_changed"
	actionPriorityUpdated = "priority_updated"
)

// RawQuery is a customer query as delivered by an upstream channel. Channel
// is the raw string from the boundary; unknown values map to OTHER.
type RawQuery struct {
	Channel      string
	SourceID     string
	AuthorName   string
	AuthorEmail  string
	AuthorHandle string
	Subject      string
	Body         string
	SourceURL    string
	ReceivedAt   time.Time
	Priority     database.QueryPriority
	Status       database.QueryStatus
	Tags         []database.QueryTagType
}

// QueryService runs the customer-query triage workflow: ingestion with
// auto-tagging and priority detection, assignment, status and priority
// transitions, and age-based escalation. Every mutation leaves a history
// entry.
type QueryService struct {
	db *gorm.DB
}

// NewQueryService creates a new QueryService
func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{db: db}
}

// ProcessQuery ingests one raw query and returns its public id. Redelivery
// with a known (sourceId, channel) pair patches subject and body in place
// without re-tagging or a new history entry. New queries are auto-tagged and
// priority-detected unless the caller supplied explicit values, and can
// arrive already resolved.
func (s *QueryService) ProcessQuery(raw RawQuery) (string, error) {
	if raw.AuthorName == "" {
		return "", fmt.Errorf("%w: author name is required", ErrValidation)
	}
	if raw.Body == "" {
		return "", fmt.Errorf("%w: body is required", ErrValidation)
	}

	channel := database.ParseQueryChannel(raw.Channel)

	if raw.SourceID != "" {
		var existing database.Query
		err := s.db.Where("source_id = ? AND channel = ?", raw.SourceID, channel).First(&existing).Error
		if err == nil {
			updates := map[string]interface{}{
				"body":       raw.Body,
				"subject":    raw.Subject,
				"updated_at": time.Now(),
			}
			if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
				return "", fmt.Errorf("failed to update query: %w", err)
			}
			return existing.UUID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to look up query: %w", err)
		}
	}

	priority := raw.Priority
	if priority == "" {
		priority = classify.DetectPriority(raw.Subject, raw.Body, channel)
	}
	status := raw.Status
	if status == "" {
		status = database.StatusNew
	}
	receivedAt := raw.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	query := database.Query{
		UUID:         uuid.New().String(),
		Channel:      channel,
		AuthorName:   raw.AuthorName,
		AuthorEmail:  raw.AuthorEmail,
		AuthorHandle: raw.AuthorHandle,
		Subject:      raw.Subject,
		Body:         raw.Body,
		SourceURL:    raw.SourceURL,
		Priority:     priority,
		Status:       status,
		ReceivedAt:   receivedAt,
	}
	if raw.SourceID != "" {
		query.SourceID = &raw.SourceID
	}
	// A query can be ingested already closed; its resolution time is its
	// arrival time.
	if status.IsTerminal() {
		query.ResolvedAt = &receivedAt
	}

	if err := s.db.Create(&query).Error; err != nil {
		return "", fmt.Errorf("failed to create query: %w", err)
	}

	tagTypes := raw.Tags
	if tagTypes == nil {
		tagTypes = classify.AutoTagQuery(raw.Subject, raw.Body)
	}
	for _, tagType := range tagTypes {
		if err := s.linkTag(query.ID, tagType); err != nil {
			return "", fmt.Errorf("failed to link tag %s: %w", tagType, err)
		}
	}

	notes := "Query received and auto-tagged"
	if status.IsTerminal() {
		notes = "Query received and auto-tagged (already resolved)"
	}
	history := database.QueryHistory{
		QueryID:  query.ID,
		Action:   actionCreated,
		NewValue: string(status),
		Notes:    notes,
	}
	if err := s.db.Create(&history).Error; err != nil {
		return "", fmt.Errorf("failed to record query history: %w", err)
	}

	return query.UUID, nil
}

// AssignQuery sets or replaces the query's single current assignment. A NEW
// query transitions to ASSIGNED with a history entry; assigning a query that
// already moved past NEW leaves its status alone.
func (s *QueryService) AssignQuery(queryID, assigneeID, notes string) error {
	if assigneeID == "" {
		return fmt.Errorf("%w: assignee id is required", ErrValidation)
	}

	query, err := s.getByUUID(queryID)
	if err != nil {
		return err
	}

	var assignment database.QueryAssignment
	err = s.db.Where("query_id = ?", query.ID).First(&assignment).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{"assignee_id": assigneeID, "notes": notes}
		if err := s.db.Model(&assignment).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update assignment: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		assignment = database.QueryAssignment{QueryID: query.ID, AssigneeID: assigneeID, Notes: notes}
		if err := s.db.Create(&assignment).Error; err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}
	default:
		return fmt.Errorf("failed to look up assignment: %w", err)
	}

	if query.Status == database.StatusNew {
		if err := s.db.Model(query).Update("status", database.StatusAssigned).Error; err != nil {
			return fmt.Errorf("failed to update query status: %w", err)
		}
		historyNotes := notes
		if historyNotes == "" {
			historyNotes = "Query assigned"
		}
		history := database.QueryHistory{
			QueryID:  query.ID,
			UserID:   assigneeID,
			Action:   actionAssigned,
			NewValue: assigneeID,
			Notes:    historyNotes,
		}
		if err := s.db.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record query history: %w", err)
		}
	}

	return nil
}

// UpdateQueryStatus transitions the query to newStatus. The first move from
// NEW or ASSIGNED into IN_PROGRESS stamps firstResponseAt exactly once;
// entering RESOLVED or CLOSED stamps resolvedAt every time.
func (s *QueryService) UpdateQueryStatus(queryID string, newStatus database.QueryStatus, userID, notes string) error {
	query, err := s.getByUUID(queryID)
	if err != nil {
		return err
	}

	oldStatus := query.Status
	now := time.Now()

	updates := map[string]interface{}{"status": newStatus}
	if (oldStatus == database.StatusNew || oldStatus == database.StatusAssigned) &&
		newStatus == database.StatusInProgress &&
		query.FirstResponseAt == nil {
		updates["first_response_at"] = now
	}
	if newStatus.IsTerminal() {
		updates["resolved_at"] = now
	}

	if err := s.db.Model(query).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update query status: %w", err)
	}

	if notes == "" {
		notes = fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus)
	}
	history := database.QueryHistory{
		QueryID:  query.ID,
		UserID:   userID,
		Action:   actionStatusChanged,
		OldValue: string(oldStatus),
		NewValue: string(newStatus),
		Notes:    notes,
	}
	if err := s.db.Create(&history).Error; err != nil {
		return fmt.Errorf("failed to record query history: %w", err)
	}

	return nil
}

// UpdateQueryPriority overwrites the query's priority and records it.
func (s *QueryService) UpdateQueryPriority(queryID string, newPriority database.QueryPriority, userID, notes string) error {
	query, err := s.getByUUID(queryID)
	if err != nil {
		return err
	}

	oldPriority := query.Priority
	if err := s.db.Model(query).Update("priority", newPriority).Error; err != nil {
		return fmt.Errorf("failed to update query priority: %w", err)
	}

	if notes == "" {
		notes = fmt.Sprintf("Priority updated from %s to %s", oldPriority, newPriority)
	}
	history := database.QueryHistory{
		QueryID:  query.ID,
		UserID:   userID,
		Action:   actionPriorityUpdated,
		OldValue: string(oldPriority),
		NewValue: string(newPriority),
		Notes:    notes,
	}
	if err := s.db.Create(&history).Error; err != nil {
		return fmt.Errorf("failed to record query history: %w", err)
	}

	return nil
}

// EscalateStale applies the escalation policy to every open query and bumps
// the ones whose age demands it, through the same path as a manual priority
// change so the history trail is identical. Returns the number escalated.
func (s *QueryService) EscalateStale() (int, error) {
	var open []database.Query
	err := s.db.Where("status NOT IN ? AND priority <> ?",
		[]database.QueryStatus{database.StatusResolved, database.StatusClosed},
		database.PriorityUrgent).
		Find(&open).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load open queries: %w", err)
	}

	escalated := 0
	for _, q := range open {
		next := classify.ShouldEscalate(q.ReceivedAt, q.Priority, q.Status)
		if next == q.Priority {
			continue
		}
		if err := s.UpdateQueryPriority(q.UUID, next, "", "Auto-escalated based on age"); err != nil {
			log.Printf("Failed to escalate query %s: %v", q.UUID, err)
			continue
		}
		escalated++
	}

	return escalated, nil
}

// GetQuery returns the query with its tags, assignment, and history.
func (s *QueryService) GetQuery(queryID string) (*database.Query, error) {
	var query database.Query
	err := s.db.Preload("Tags").Preload("Assignment").Preload("History").
		Where("uuid = ?", queryID).First(&query).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: query %s", ErrNotFound, queryID)
		}
		return nil, err
	}
	return &query, nil
}

// linkTag resolves the canonical tag row for the type, creating it with its
// fixed label when the vocabulary was not seeded, and links it to the query.
func (s *QueryService) linkTag(queryID uint, tagType database.QueryTagType) error {
	label, ok := database.QueryTagLabels[tagType]
	if !ok {
		return fmt.Errorf("%w: unknown tag type %q", ErrValidation, tagType)
	}

	tag := database.QueryTag{Label: label, Type: tagType}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}},
		DoNothing: true,
	}).Create(&tag).Error
	if err != nil {
		return err
	}
	if tag.ID == 0 {
		if err := s.db.Where("type = ?", tagType).First(&tag).Error; err != nil {
			return err
		}
	}

	link := database.QueryTagLink{QueryID: queryID, QueryTagID: tag.ID}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (s *QueryService) getByUUID(queryID string) (*database.Query, error) {
	var query database.Query
	err := s.db.Where("uuid = ?", queryID).First(&query).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: query %s", ErrNotFound, queryID)
		}
		return nil, err
	}
	return &query, nil
}
