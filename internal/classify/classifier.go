// Package classify contains the pure text-classification routines of the
// triage engine: sentiment scoring, topic extraction, competitor update
// typing, impact assessment, query auto-tagging, priority detection, and the
// escalation policy. Every function is deterministic and total; the keyword
// tables live in the embedded rules.yaml.
package classify

import (
	"strings"

	"github.com/brandsignal/brandsignal/internal/database"
)

// ClassifySentiment scores text by counting positive versus negative keyword
// occurrences (case-insensitive substring match).
func ClassifySentiment(text string) database.Sentiment {
	lower := strings.ToLower(text)

	var positive, negative int
	for _, kw := range positiveKeywords {
		if strings.Contains(lower, kw) {
			positive++
		}
	}
	for _, kw := range negativeKeywords {
		if strings.Contains(lower, kw) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return database.SentimentPositive
	case negative > positive:
		return database.SentimentNegative
	default:
		return database.SentimentNeutral
	}
}

// ExtractTopics returns the topic labels whose keyword lists match the text.
// A text may match zero, one, or many topics; labels never repeat.
func ExtractTopics(text string) []string {
	lower := strings.ToLower(text)

	var topics []string
	for _, rule := range topicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				topics = append(topics, rule.label)
				break
			}
		}
	}
	return topics
}

// ClassifyUpdateType runs the update-type cascade over the concatenated
// title and description and returns the first matching type, OTHER if none
// match. The cascade order is a product decision: a text matching both
// pricing and campaign keywords classifies as PRICING.
func ClassifyUpdateType(title, description string) database.UpdateType {
	text := strings.ToLower(title + " " + description)

	for _, rule := range typeRules {
		if rule.pattern.MatchString(text) {
			return rule.updateType
		}
	}
	return database.UpdateTypeOther
}

// AssessImpact rates the severity of a competitor update. Pricing changes
// are HIGH by default and CRITICAL with a high-impact keyword; releases and
// features are MEDIUM by default and HIGH with one; everything else is
// MEDIUM.
func AssessImpact(title, description string, updateType database.UpdateType) database.AlertSeverity {
	text := strings.ToLower(title + " " + description)

	highImpact := false
	for _, kw := range highImpactKeywords {
		if strings.Contains(text, kw) {
			highImpact = true
			break
		}
	}

	switch updateType {
	case database.UpdateTypePricing:
		if highImpact {
			return database.SeverityCritical
		}
		return database.SeverityHigh
	case database.UpdateTypeRelease, database.UpdateTypeFeature:
		if highImpact {
			return database.SeverityHigh
		}
		return database.SeverityMedium
	default:
		return database.SeverityMedium
	}
}

// AutoTagQuery evaluates the independent tag checks against the subject and
// body. FEEDBACK is suppressed when COMPLAINT already matched; a query that
// matches nothing is tagged GENERAL, so the result is never empty.
func AutoTagQuery(subject, body string) []database.QueryTagType {
	text := strings.ToLower(subject + " " + body)

	var tags []database.QueryTagType
	hasComplaint := false
	for _, rule := range tagRules {
		if rule.tag == database.TagFeedback && hasComplaint {
			continue
		}
		matched := rule.pattern.MatchString(text)
		if rule.tag == database.TagQuestion && !matched {
			matched = strings.Contains(text, "?")
		}
		if matched {
			tags = append(tags, rule.tag)
			if rule.tag == database.TagComplaint {
				hasComplaint = true
			}
		}
	}

	if len(tags) == 0 {
		tags = append(tags, database.TagGeneral)
	}
	return tags
}

// DetectPriority derives a query priority from its content and channel.
// Urgent keywords short-circuit to URGENT; high-priority keywords or
// complaint language yield HIGH; otherwise the channel decides.
func DetectPriority(subject, body string, channel database.QueryChannel) database.QueryPriority {
	text := strings.ToLower(subject + " " + body)

	for _, kw := range urgentKeywords {
		if strings.Contains(text, kw) {
			return database.PriorityUrgent
		}
	}

	for _, kw := range highKeywords {
		if strings.Contains(text, kw) {
			return database.PriorityHigh
		}
	}
	if highPriorityPattern.MatchString(text) {
		return database.PriorityHigh
	}

	switch channel {
	case database.QueryChannelSupportTicket, database.QueryChannelEmail:
		return database.PriorityMedium
	case database.QueryChannelTwitter, database.QueryChannelReddit, database.QueryChannelForum:
		return database.PriorityLow
	default:
		return database.PriorityMedium
	}
}
