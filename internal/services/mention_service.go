package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/brandsignal/brandsignal/internal/classify"
	"github.com/brandsignal/brandsignal/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RawMention is a mention as delivered by an upstream feed or webhook.
// Pointer fields distinguish "not supplied" from a zero value so that
// re-ingestion patches only what the source actually sent.
type RawMention struct {
	SourceName  string
	Channel     database.Channel
	SourceURL   string
	Author      string
	Handle      string
	Body        string
	Permalink   string
	PublishedAt time.Time
	Reach       *int
	Sentiment   *database.Sentiment
	Topics      []string
	Spike       *bool
}

// MentionService ingests raw mentions: source resolution, classification,
// and the permalink-keyed idempotent upsert with topic links.
type MentionService struct {
	db        *gorm.DB
	sentiment *SentimentService
}

// NewMentionService creates a new MentionService
func NewMentionService(db *gorm.DB, sentiment *SentimentService) *MentionService {
	return &MentionService{db: db, sentiment: sentiment}
}

// ProcessMention ingests one raw mention. The permalink is the natural key:
// a known permalink patches only {reach, sentiment, spike} from the supplied
// fields; an unknown one creates the mention, classifies sentiment and
// topics when the feed did not supply them, and links topics idempotently.
func (s *MentionService) ProcessMention(ctx context.Context, raw RawMention) error {
	if err := validateRawMention(raw); err != nil {
		return err
	}

	source, err := s.resolveSource(raw.SourceName, raw.Channel, raw.SourceURL)
	if err != nil {
		return fmt.Errorf("failed to resolve source: %w", err)
	}

	var existing database.Mention
	err = s.db.Where("permalink = ?", raw.Permalink).First(&existing).Error
	if err == nil {
		return s.patchMention(&existing, raw)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up mention: %w", err)
	}

	// Create path: classify what the feed left unclassified.
	sentiment := database.SentimentNeutral
	if raw.Sentiment != nil {
		sentiment = *raw.Sentiment
	} else if s.sentiment != nil {
		sentiment = s.sentiment.AnalyzeSentiment(ctx, raw.Body)
	}

	topics := raw.Topics
	if topics == nil {
		topics = classify.ExtractTopics(raw.Body)
	}

	mention := database.Mention{
		SourceID:    source.ID,
		Author:      raw.Author,
		Handle:      raw.Handle,
		Body:        raw.Body,
		Permalink:   raw.Permalink,
		Sentiment:   sentiment,
		PublishedAt: raw.PublishedAt,
	}
	if raw.Reach != nil {
		mention.Reach = *raw.Reach
	}
	if raw.Spike != nil {
		mention.Spike = *raw.Spike
	}

	if err := s.db.Create(&mention).Error; err != nil {
		return fmt.Errorf("failed to create mention: %w", err)
	}

	for _, label := range topics {
		if err := s.linkTopic(mention.ID, label); err != nil {
			return fmt.Errorf("failed to link topic %q: %w", label, err)
		}
	}

	return nil
}

// ProcessMentionsBatch ingests a slice of raw mentions sequentially. Items
// that fail are logged and skipped so one bad record does not block a feed.
// Returns the number of items that failed.
func (s *MentionService) ProcessMentionsBatch(ctx context.Context, raws []RawMention) (int, error) {
	var failed int
	for _, raw := range raws {
		if err := s.ProcessMention(ctx, raw); err != nil {
			log.Printf("Failed to process mention %s: %v", raw.Permalink, err)
			failed++
		}
	}
	if failed > 0 {
		return failed, fmt.Errorf("failed to process %d of %d mentions", failed, len(raws))
	}
	return 0, nil
}

// patchMention updates only the re-ingestable fields of an existing mention.
// Everything else, topic links included, stays untouched.
func (s *MentionService) patchMention(existing *database.Mention, raw RawMention) error {
	updates := map[string]interface{}{}
	if raw.Reach != nil {
		updates["reach"] = *raw.Reach
	}
	if raw.Sentiment != nil {
		updates["sentiment"] = *raw.Sentiment
	}
	if raw.Spike != nil {
		updates["spike"] = *raw.Spike
	}
	if len(updates) == 0 {
		return nil
	}
	if err := s.db.Model(existing).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update mention: %w", err)
	}
	return nil
}

// resolveSource creates or fetches the source for (name, channel). The
// upsert is a single ON CONFLICT statement so concurrent delivery cannot
// create duplicates.
func (s *MentionService) resolveSource(name string, channel database.Channel, url string) (*database.Source, error) {
	source := database.Source{Name: name, Channel: channel, URL: url}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "channel"}},
		DoNothing: true,
	}).Create(&source).Error
	if err != nil {
		return nil, err
	}
	if source.ID == 0 {
		if err := s.db.Where("name = ? AND channel = ?", name, channel).First(&source).Error; err != nil {
			return nil, err
		}
	}
	return &source, nil
}

// linkTopic resolves-or-creates the topic and attaches it to the mention.
// Re-linking an already-linked topic is a no-op.
func (s *MentionService) linkTopic(mentionID uint, label string) error {
	topic := database.Topic{Label: label}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "label"}},
		DoNothing: true,
	}).Create(&topic).Error
	if err != nil {
		return err
	}
	if topic.ID == 0 {
		if err := s.db.Where("label = ?", label).First(&topic).Error; err != nil {
			return err
		}
	}

	link := database.MentionTopic{MentionID: mentionID, TopicID: topic.ID}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func validateRawMention(raw RawMention) error {
	switch {
	case raw.SourceName == "":
		return fmt.Errorf("%w: source name is required", ErrValidation)
	case raw.Channel == "":
		return fmt.Errorf("%w: channel is required", ErrValidation)
	case raw.Author == "":
		return fmt.Errorf("%w: author is required", ErrValidation)
	case raw.Body == "":
		return fmt.Errorf("%w: body is required", ErrValidation)
	case raw.Permalink == "":
		return fmt.Errorf("%w: permalink is required", ErrValidation)
	case raw.PublishedAt.IsZero():
		return fmt.Errorf("%w: published_at is required", ErrValidation)
	}
	if raw.Reach != nil && *raw.Reach < 0 {
		return fmt.Errorf("%w: reach must be non-negative", ErrValidation)
	}
	return nil
}
