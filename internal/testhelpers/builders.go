// Package-level data builders for seeding test databases.
package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/brandsignal/brandsignal/internal/database"
)

// ========================================
// Mention Builder
// ========================================

// MentionBuilder builds Mention instances for testing
type MentionBuilder struct {
	mention database.Mention
	topics  []string
}

// NewMentionBuilder creates a new mention builder with defaults
func NewMentionBuilder() *MentionBuilder {
	return &MentionBuilder{
		mention: database.Mention{
			Author:      "test-author",
			Body:        "test mention body",
			Permalink:   fmt.Sprintf("https://example.com/posts/%d", time.Now().UnixNano()),
			Sentiment:   database.SentimentNeutral,
			PublishedAt: time.Now(),
		},
	}
}

// WithAuthor sets the author
func (b *MentionBuilder) WithAuthor(author string) *MentionBuilder {
	b.mention.Author = author
	return b
}

// WithBody sets the body
func (b *MentionBuilder) WithBody(body string) *MentionBuilder {
	b.mention.Body = body
	return b
}

// WithPermalink sets the permalink
func (b *MentionBuilder) WithPermalink(permalink string) *MentionBuilder {
	b.mention.Permalink = permalink
	return b
}

// WithSentiment sets the sentiment
func (b *MentionBuilder) WithSentiment(sentiment database.Sentiment) *MentionBuilder {
	b.mention.Sentiment = sentiment
	return b
}

// WithReach sets the reach
func (b *MentionBuilder) WithReach(reach int) *MentionBuilder {
	b.mention.Reach = reach
	return b
}

// WithPublishedAt sets the publish time
func (b *MentionBuilder) WithPublishedAt(t time.Time) *MentionBuilder {
	b.mention.PublishedAt = t
	return b
}

// WithTopics attaches topic labels, created on insert
func (b *MentionBuilder) WithTopics(labels ...string) *MentionBuilder {
	b.topics = append(b.topics, labels...)
	return b
}

// Build returns the constructed mention
func (b *MentionBuilder) Build() database.Mention {
	return b.mention
}

// Insert persists the mention under the given source, creating topic rows
// and links for any attached labels.
func (b *MentionBuilder) Insert(t *testing.T, db *gorm.DB, sourceID uint) database.Mention {
	t.Helper()
	b.mention.SourceID = sourceID
	if err := db.Create(&b.mention).Error; err != nil {
		t.Fatalf("failed to insert mention: %v", err)
	}
	for _, label := range b.topics {
		topic := database.Topic{Label: label}
		if err := db.Where("label = ?", label).FirstOrCreate(&topic).Error; err != nil {
			t.Fatalf("failed to create topic %q: %v", label, err)
		}
		link := database.MentionTopic{MentionID: b.mention.ID, TopicID: topic.ID}
		if err := db.Create(&link).Error; err != nil {
			t.Fatalf("failed to link topic %q: %v", label, err)
		}
	}
	return b.mention
}

// ========================================
// Competitor Update Builder
// ========================================

// CompetitorUpdateBuilder builds CompetitorUpdate instances for testing
type CompetitorUpdateBuilder struct {
	update database.CompetitorUpdate
}

// NewCompetitorUpdateBuilder creates a new builder with defaults
func NewCompetitorUpdateBuilder() *CompetitorUpdateBuilder {
	return &CompetitorUpdateBuilder{
		update: database.CompetitorUpdate{
			Type:        database.UpdateTypeOther,
			Title:       "test update",
			Impact:      database.SeverityMedium,
			PublishedAt: time.Now(),
		},
	}
}

// WithType sets the update type
func (b *CompetitorUpdateBuilder) WithType(t database.UpdateType) *CompetitorUpdateBuilder {
	b.update.Type = t
	return b
}

// WithTitle sets the title
func (b *CompetitorUpdateBuilder) WithTitle(title string) *CompetitorUpdateBuilder {
	b.update.Title = title
	return b
}

// WithImpact sets the impact
func (b *CompetitorUpdateBuilder) WithImpact(impact database.AlertSeverity) *CompetitorUpdateBuilder {
	b.update.Impact = impact
	return b
}

// WithSourceURL sets the source URL
func (b *CompetitorUpdateBuilder) WithSourceURL(url string) *CompetitorUpdateBuilder {
	b.update.SourceURL = &url
	return b
}

// WithPublishedAt sets the publish time
func (b *CompetitorUpdateBuilder) WithPublishedAt(t time.Time) *CompetitorUpdateBuilder {
	b.update.PublishedAt = t
	return b
}

// Insert persists the update under the given competitor.
func (b *CompetitorUpdateBuilder) Insert(t *testing.T, db *gorm.DB, competitorID uint) database.CompetitorUpdate {
	t.Helper()
	b.update.CompetitorID = competitorID
	if err := db.Create(&b.update).Error; err != nil {
		t.Fatalf("failed to insert competitor update: %v", err)
	}
	return b.update
}

// ========================================
// Seed Helpers
// ========================================

// SeedSource inserts a source row and returns it.
func SeedSource(t *testing.T, db *gorm.DB, name string, channel database.Channel) database.Source {
	t.Helper()
	source := database.Source{Name: name, Channel: channel}
	if err := db.Create(&source).Error; err != nil {
		t.Fatalf("failed to seed source: %v", err)
	}
	return source
}

// SeedCompetitor inserts a competitor row and returns it.
func SeedCompetitor(t *testing.T, db *gorm.DB, name string) database.Competitor {
	t.Helper()
	competitor := database.Competitor{Name: name}
	if err := db.Create(&competitor).Error; err != nil {
		t.Fatalf("failed to seed competitor: %v", err)
	}
	return competitor
}
