package database

import "strings"

// Sentiment is the classified tone of a mention.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentNegative Sentiment = "NEGATIVE"
)

// ParseSentiment maps an arbitrary-case string to a Sentiment.
// Returns false for anything outside the closed vocabulary.
func ParseSentiment(s string) (Sentiment, bool) {
	switch Sentiment(strings.ToUpper(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive, true
	case SentimentNeutral:
		return SentimentNeutral, true
	case SentimentNegative:
		return SentimentNegative, true
	}
	return "", false
}

// Channel is the platform a mention or competitor update was observed on.
type Channel string

const (
	ChannelTwitter Channel = "TWITTER"
	ChannelReddit  Channel = "REDDIT"
	ChannelNews    Channel = "NEWS"
	ChannelBlog    Channel = "BLOG"
	ChannelYouTube Channel = "YOUTUBE"
	ChannelForums  Channel = "FORUMS"
)

// ParseChannel maps an arbitrary-case string to a Channel.
// "FORUM" is accepted as a spelling of FORUMS; collectors disagree on it.
func ParseChannel(s string) (Channel, bool) {
	switch Channel(strings.ToUpper(strings.TrimSpace(s))) {
	case ChannelTwitter:
		return ChannelTwitter, true
	case ChannelReddit:
		return ChannelReddit, true
	case ChannelNews:
		return ChannelNews, true
	case ChannelBlog:
		return ChannelBlog, true
	case ChannelYouTube:
		return ChannelYouTube, true
	case ChannelForums, Channel("FORUM"):
		return ChannelForums, true
	}
	return "", false
}

// UpdateType categorizes a competitor update.
type UpdateType string

const (
	UpdateTypePricing      UpdateType = "PRICING"
	UpdateTypeCampaign     UpdateType = "CAMPAIGN"
	UpdateTypeRelease      UpdateType = "RELEASE"
	UpdateTypePartnership  UpdateType = "PARTNERSHIP"
	UpdateTypeFeature      UpdateType = "FEATURE"
	UpdateTypeAnnouncement UpdateType = "ANNOUNCEMENT"
	UpdateTypeOther        UpdateType = "OTHER"
)

// ParseUpdateType maps an arbitrary-case string to an UpdateType.
// Unknown values map to OTHER; the empty string reports false so callers
// can distinguish "not supplied" from a supplied value.
func ParseUpdateType(s string) (UpdateType, bool) {
	if strings.TrimSpace(s) == "" {
		return UpdateTypeOther, false
	}
	switch UpdateType(strings.ToUpper(strings.TrimSpace(s))) {
	case UpdateTypePricing:
		return UpdateTypePricing, true
	case UpdateTypeCampaign:
		return UpdateTypeCampaign, true
	case UpdateTypeRelease:
		return UpdateTypeRelease, true
	case UpdateTypePartnership:
		return UpdateTypePartnership, true
	case UpdateTypeFeature:
		return UpdateTypeFeature, true
	case UpdateTypeAnnouncement:
		return UpdateTypeAnnouncement, true
	}
	return UpdateTypeOther, true
}

// AlertSeverity is the shared LOW..CRITICAL ordering used by competitor
// updates and alerts.
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "LOW"
	SeverityMedium   AlertSeverity = "MEDIUM"
	SeverityHigh     AlertSeverity = "HIGH"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// ParseSeverity maps an arbitrary-case string to an AlertSeverity.
func ParseSeverity(s string) (AlertSeverity, bool) {
	switch AlertSeverity(strings.ToUpper(strings.TrimSpace(s))) {
	case SeverityLow:
		return SeverityLow, true
	case SeverityMedium:
		return SeverityMedium, true
	case SeverityHigh:
		return SeverityHigh, true
	case SeverityCritical:
		return SeverityCritical, true
	}
	return "", false
}

// QueryChannel is the channel a customer query arrived on.
type QueryChannel string

const (
	QueryChannelEmail         QueryChannel = "EMAIL"
	QueryChannelTwitter       QueryChannel = "TWITTER"
	QueryChannelReddit        QueryChannel = "REDDIT"
	QueryChannelChat          QueryChannel = "CHAT"
	QueryChannelForum         QueryChannel = "FORUM"
	QueryChannelSupportTicket QueryChannel = "SUPPORT_TICKET"
	QueryChannelOther         QueryChannel = "OTHER"
)

// ParseQueryChannel maps an arbitrary-case string to a QueryChannel.
// Unknown values map to OTHER, making the mapping total at the boundary.
func ParseQueryChannel(s string) QueryChannel {
	switch QueryChannel(strings.ToUpper(strings.TrimSpace(s))) {
	case QueryChannelEmail:
		return QueryChannelEmail
	case QueryChannelTwitter:
		return QueryChannelTwitter
	case QueryChannelReddit:
		return QueryChannelReddit
	case QueryChannelChat:
		return QueryChannelChat
	case QueryChannelForum:
		return QueryChannelForum
	case QueryChannelSupportTicket:
		return QueryChannelSupportTicket
	}
	return QueryChannelOther
}

// QueryPriority is the triage priority of a customer query.
type QueryPriority string

const (
	PriorityLow    QueryPriority = "LOW"
	PriorityMedium QueryPriority = "MEDIUM"
	PriorityHigh   QueryPriority = "HIGH"
	PriorityUrgent QueryPriority = "URGENT"
)

// ParseQueryPriority maps an arbitrary-case string to a QueryPriority.
func ParseQueryPriority(s string) (QueryPriority, bool) {
	switch QueryPriority(strings.ToUpper(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	case PriorityUrgent:
		return PriorityUrgent, true
	}
	return "", false
}

// QueryStatus is the workflow state of a customer query.
type QueryStatus string

const (
	StatusNew             QueryStatus = "NEW"
	StatusAssigned        QueryStatus = "ASSIGNED"
	StatusInProgress      QueryStatus = "IN_PROGRESS"
	StatusWaitingCustomer QueryStatus = "WAITING_CUSTOMER"
	StatusResolved        QueryStatus = "RESOLVED"
	StatusClosed          QueryStatus = "CLOSED"
)

// ParseQueryStatus maps an arbitrary-case string to a QueryStatus.
func ParseQueryStatus(s string) (QueryStatus, bool) {
	switch QueryStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusNew:
		return StatusNew, true
	case StatusAssigned:
		return StatusAssigned, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusWaitingCustomer:
		return StatusWaitingCustomer, true
	case StatusResolved:
		return StatusResolved, true
	case StatusClosed:
		return StatusClosed, true
	}
	return "", false
}

// IsTerminal reports whether the status closes the query.
func (s QueryStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// QueryTagType is the closed vocabulary of auto-applied query tags.
type QueryTagType string

const (
	TagQuestion       QueryTagType = "QUESTION"
	TagRequest        QueryTagType = "REQUEST"
	TagComplaint      QueryTagType = "COMPLAINT"
	TagFeedback       QueryTagType = "FEEDBACK"
	TagBugReport      QueryTagType = "BUG_REPORT"
	TagFeatureRequest QueryTagType = "FEATURE_REQUEST"
	TagBilling        QueryTagType = "BILLING"
	TagTechnical      QueryTagType = "TECHNICAL"
	TagGeneral        QueryTagType = "GENERAL"
)

// QueryTagLabels is the canonical display label for each tag type. One tag
// row exists per type; its label comes from this table.
var QueryTagLabels = map[QueryTagType]string{
	TagQuestion:       "Question",
	TagRequest:        "Request",
	TagComplaint:      "Complaint",
	TagFeedback:       "Feedback",
	TagBugReport:      "Bug Report",
	TagFeatureRequest: "Feature Request",
	TagBilling:        "Billing",
	TagTechnical:      "Technical",
	TagGeneral:        "General",
}

// ParseQueryTagType maps an arbitrary-case string to a QueryTagType.
func ParseQueryTagType(s string) (QueryTagType, bool) {
	t := QueryTagType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := QueryTagLabels[t]; ok {
		return t, true
	}
	return "", false
}
