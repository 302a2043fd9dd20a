package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/brandsignal/brandsignal/internal/database"
	"gorm.io/gorm"
)

// Spike detection thresholds: the last hour must exceed 3x the preceding
// 23-hour hourly average AND an absolute floor of 5 mentions, so a rise from
// a near-zero baseline does not trigger on tiny counts.
const (
	spikeWindow     = time.Hour
	baselineWindow  = 24 * time.Hour
	baselineHours   = 23.0
	spikeMultiplier = 3.0
	spikeFloor      = 5
)

// spikeAlertTitle doubles as the dedup key: at most one negative-sentiment
// spike alert is ever live.
const (
	spikeAlertTitle       = "Spike in negative sentiment"
	spikeAlertDescription = "Detected a significant increase in negative mentions in the last hour. Consider immediate response."
)

// SpikeService detects mention-rate anomalies over a sliding one-hour window
// and emits the negative-sentiment spike alert.
type SpikeService struct {
	db     *gorm.DB
	alerts *AlertService
}

// NewSpikeService creates a new SpikeService
func NewSpikeService(db *gorm.DB, alerts *AlertService) *SpikeService {
	return &SpikeService{db: db, alerts: alerts}
}

// DetectSpike compares the last hour's mention count against the hourly
// average of the preceding 23 hours. Empty topicLabel or sentiment disables
// that filter; a given filter applies identically to both windows.
func (s *SpikeService) DetectSpike(topicLabel string, sentiment database.Sentiment) (bool, error) {
	now := time.Now()
	hourAgo := now.Add(-spikeWindow)
	dayAgo := now.Add(-baselineWindow)

	recentCount, err := s.countMentions(topicLabel, sentiment, hourAgo, time.Time{})
	if err != nil {
		return false, fmt.Errorf("failed to count recent mentions: %w", err)
	}

	previousCount, err := s.countMentions(topicLabel, sentiment, dayAgo, hourAgo)
	if err != nil {
		return false, fmt.Errorf("failed to count baseline mentions: %w", err)
	}

	avgPerHour := float64(previousCount) / baselineHours
	return float64(recentCount) > avgPerHour*spikeMultiplier && recentCount > spikeFloor, nil
}

// CheckAndCreateAlerts runs the negative-sentiment spike check. On a spike
// it upserts the spike alert linked to the newest triggering mention and
// marks every negative mention of the last hour with spike=true, a side
// effect visible to mention-feed readers independent of the alert.
func (s *SpikeService) CheckAndCreateAlerts() error {
	spike, err := s.DetectSpike("", database.SentimentNegative)
	if err != nil {
		return err
	}
	if !spike {
		return nil
	}

	hourAgo := time.Now().Add(-spikeWindow)

	var newest database.Mention
	err = s.db.Where("published_at >= ? AND sentiment = ?", hourAgo, database.SentimentNegative).
		Order("published_at DESC").
		First(&newest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find triggering mention: %w", err)
	}

	if _, err := s.alerts.UpsertAlert(spikeAlertTitle, spikeAlertDescription, database.SeverityCritical, &newest.ID, nil); err != nil {
		return err
	}

	result := s.db.Model(&database.Mention{}).
		Where("published_at >= ? AND sentiment = ?", hourAgo, database.SentimentNegative).
		Update("spike", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark spike mentions: %w", result.Error)
	}
	log.Printf("Negative sentiment spike detected, marked %d mentions", result.RowsAffected)

	return nil
}

// countMentions counts mentions published at or after from, and before to
// when to is non-zero, matching the optional topic and sentiment filters.
func (s *SpikeService) countMentions(topicLabel string, sentiment database.Sentiment, from, to time.Time) (int64, error) {
	query := s.db.Model(&database.Mention{}).
		Where("mentions.published_at >= ?", from)
	if !to.IsZero() {
		query = query.Where("mentions.published_at < ?", to)
	}

	if sentiment != "" {
		query = query.Where("mentions.sentiment = ?", sentiment)
	}
	if topicLabel != "" {
		query = query.
			Joins("JOIN mention_topics ON mention_topics.mention_id = mentions.id").
			Joins("JOIN topics ON topics.id = mention_topics.topic_id").
			Where("topics.label = ?", topicLabel)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
