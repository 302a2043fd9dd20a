package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/brandsignal/brandsignal/internal/database"
	"gorm.io/gorm"
)

// TrendDirection classifies whether a competitor's update cadence is picking
// up or slowing down over the lookback window.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// Trend is the activity summary for one (competitor, update type) group.
// Frequency is updates per week extrapolated from the whole lookback window,
// not a rolling weekly count.
type Trend struct {
	CompetitorID   uint                `json:"competitor_id"`
	CompetitorName string              `json:"competitor_name"`
	Type           database.UpdateType `json:"type"`
	Frequency      float64             `json:"frequency"`
	Trend          TrendDirection      `json:"trend"`
	LastUpdate     time.Time           `json:"last_update"`
}

// Pattern describes a regular update cadence, e.g. "Every 2 weeks".
// Confidence is 1 minus the coefficient of variation of the inter-update
// intervals.
type Pattern struct {
	Pattern    string  `json:"pattern"`
	Confidence float64 `json:"confidence"`
}

// patternConfidenceThreshold is the minimum regularity required before a
// cadence is reported at all.
const patternConfidenceThreshold = 0.6

// trendGrowthFactor is how much larger one half of the window must be than
// the other before the direction leaves "stable".
const trendGrowthFactor = 1.2

// TrendService answers read-only questions about competitor update cadence.
type TrendService struct {
	db *gorm.DB
}

// NewTrendService creates a new TrendService
func NewTrendService(db *gorm.DB) *TrendService {
	return &TrendService{db: db}
}

// DetectTrends groups the trailing days-day window of competitor updates by
// (competitor, type) and classifies each group's direction by comparing the
// halves of its timeline. Results are sorted by frequency descending.
func (s *TrendService) DetectTrends(days int) ([]Trend, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrValidation)
	}

	cutoff := time.Now().AddDate(0, 0, -days)

	var updates []database.CompetitorUpdate
	err := s.db.Preload("Competitor").
		Where("published_at >= ?", cutoff).
		Order("published_at DESC").
		Find(&updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load competitor updates: %w", err)
	}

	type groupKey struct {
		competitorID uint
		updateType   database.UpdateType
	}
	type group struct {
		competitorName string
		dates          []time.Time
	}

	groups := make(map[groupKey]*group)
	var order []groupKey
	for _, u := range updates {
		key := groupKey{competitorID: u.CompetitorID, updateType: u.Type}
		g, ok := groups[key]
		if !ok {
			g = &group{competitorName: u.Competitor.Name}
			groups[key] = g
			order = append(order, key)
		}
		g.dates = append(g.dates, u.PublishedAt)
	}

	trends := make([]Trend, 0, len(groups))
	for _, key := range order {
		g := groups[key]
		sort.Slice(g.dates, func(i, j int) bool { return g.dates[i].Before(g.dates[j]) })

		// Split the sorted timestamps at the midpoint index and compare the
		// half sizes. The second half carries the extra element when the
		// count is odd.
		mid := len(g.dates) / 2
		firstHalf := float64(mid)
		secondHalf := float64(len(g.dates) - mid)

		direction := TrendStable
		if secondHalf > firstHalf*trendGrowthFactor {
			direction = TrendIncreasing
		} else if firstHalf > secondHalf*trendGrowthFactor {
			direction = TrendDecreasing
		}

		trends = append(trends, Trend{
			CompetitorID:   key.competitorID,
			CompetitorName: g.competitorName,
			Type:           key.updateType,
			Frequency:      float64(len(g.dates)) / float64(days) * 7,
			Trend:          direction,
			LastUpdate:     g.dates[len(g.dates)-1],
		})
	}

	sort.SliceStable(trends, func(i, j int) bool { return trends[i].Frequency > trends[j].Frequency })
	return trends, nil
}

// DetectPatterns examines the most recent 10 updates of one
// (competitor, type) pair for a regular cadence. It returns nil when fewer
// than 3 updates exist or the intervals are too irregular.
func (s *TrendService) DetectPatterns(competitorID uint, updateType database.UpdateType) (*Pattern, error) {
	var updates []database.CompetitorUpdate
	err := s.db.Where("competitor_id = ? AND type = ?", competitorID, updateType).
		Order("published_at DESC").
		Limit(10).
		Find(&updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load competitor updates: %w", err)
	}

	if len(updates) < 3 {
		return nil, nil
	}

	// Oldest first for interval computation.
	sort.Slice(updates, func(i, j int) bool {
		return updates[i].PublishedAt.Before(updates[j].PublishedAt)
	})

	intervals := make([]float64, 0, len(updates)-1)
	for i := 1; i < len(updates); i++ {
		diff := updates[i].PublishedAt.Sub(updates[i-1].PublishedAt)
		intervals = append(intervals, diff.Hours()/24)
	}

	var sum float64
	for _, iv := range intervals {
		sum += iv
	}
	mean := sum / float64(len(intervals))

	var variance float64
	for _, iv := range intervals {
		variance += (iv - mean) * (iv - mean)
	}
	variance /= float64(len(intervals))
	stdDev := math.Sqrt(variance)

	confidence := math.Max(0, 1-stdDev/mean)
	if confidence <= patternConfidenceThreshold || mean <= 0 {
		return nil, nil
	}

	var phrase string
	switch {
	case mean < 7:
		phrase = fmt.Sprintf("Every %d days", int(math.Round(mean)))
	case mean < 30:
		phrase = fmt.Sprintf("Every %d weeks", int(math.Round(mean/7)))
	default:
		phrase = fmt.Sprintf("Every %d months", int(math.Round(mean/30)))
	}

	return &Pattern{Pattern: phrase, Confidence: confidence}, nil
}
