package classify

import (
	"testing"

	"github.com/brandsignal/brandsignal/internal/database"
)

func TestClassifySentiment_Negative(t *testing.T) {
	got := ClassifySentiment("This product is terrible, full of bugs")
	if got != database.SentimentNegative {
		t.Errorf("expected NEGATIVE, got %s", got)
	}
}

func TestClassifySentiment_Positive(t *testing.T) {
	got := ClassifySentiment("Amazing tool, I love it and recommend it to everyone")
	if got != database.SentimentPositive {
		t.Errorf("expected POSITIVE, got %s", got)
	}
}

func TestClassifySentiment_TieIsNeutral(t *testing.T) {
	// One positive ("great") and one negative ("slow") keyword.
	got := ClassifySentiment("great interface but slow")
	if got != database.SentimentNeutral {
		t.Errorf("expected NEUTRAL on tie, got %s", got)
	}
}

func TestClassifySentiment_NoKeywords(t *testing.T) {
	got := ClassifySentiment("the quarterly report was published on Monday")
	if got != database.SentimentNeutral {
		t.Errorf("expected NEUTRAL, got %s", got)
	}
}

func TestExtractTopics_MultipleMatches(t *testing.T) {
	topics := ExtractTopics("The pricing is too expensive and support never responds")
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %v", topics)
	}
	if topics[0] != "pricing" || topics[1] != "support" {
		t.Errorf("expected [pricing support], got %v", topics)
	}
}

func TestExtractTopics_NoMatch(t *testing.T) {
	topics := ExtractTopics("nothing relevant here")
	if len(topics) != 0 {
		t.Errorf("expected no topics, got %v", topics)
	}
}

func TestExtractTopics_NoDuplicateLabels(t *testing.T) {
	// Multiple keywords of the same topic must yield the label once.
	topics := ExtractTopics("the price and cost and pricing are all high")
	count := 0
	for _, label := range topics {
		if label == "pricing" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected pricing exactly once, got %v", topics)
	}
}

func TestClassifyUpdateType_CascadeOrder(t *testing.T) {
	// "pricing" and "launch" both match; PRICING is checked first.
	got := ClassifyUpdateType("New pricing launch", "")
	if got != database.UpdateTypePricing {
		t.Errorf("expected PRICING to win the cascade, got %s", got)
	}
}

func TestClassifyUpdateType_Campaign(t *testing.T) {
	got := ClassifyUpdateType("Summer marketing campaign", "big push across channels")
	if got != database.UpdateTypeCampaign {
		t.Errorf("expected CAMPAIGN, got %s", got)
	}
}

func TestClassifyUpdateType_NoMatchIsOther(t *testing.T) {
	got := ClassifyUpdateType("Quarterly results", "steady as expected")
	if got != database.UpdateTypeOther {
		t.Errorf("expected OTHER, got %s", got)
	}
}

func TestClassifyUpdateType_WordBoundaries(t *testing.T) {
	// "priced" matches; "prices" inside another word must not.
	got := ClassifyUpdateType("Repricedemo event", "")
	if got == database.UpdateTypePricing {
		t.Errorf("substring inside a word should not match PRICING")
	}
}

func TestAssessImpact_PricingDefault(t *testing.T) {
	got := AssessImpact("Price change", "small adjustment", database.UpdateTypePricing)
	if got != database.SeverityHigh {
		t.Errorf("expected HIGH for pricing, got %s", got)
	}
}

func TestAssessImpact_PricingHighImpact(t *testing.T) {
	got := AssessImpact("Major price cut", "", database.UpdateTypePricing)
	if got != database.SeverityCritical {
		t.Errorf("expected CRITICAL for pricing with high-impact keyword, got %s", got)
	}
}

func TestAssessImpact_ReleaseDefault(t *testing.T) {
	got := AssessImpact("Version 2.0", "", database.UpdateTypeRelease)
	if got != database.SeverityMedium {
		t.Errorf("expected MEDIUM for release, got %s", got)
	}
}

func TestAssessImpact_FeatureHighImpact(t *testing.T) {
	got := AssessImpact("Breaking API change", "", database.UpdateTypeFeature)
	if got != database.SeverityHigh {
		t.Errorf("expected HIGH for feature with high-impact keyword, got %s", got)
	}
}

func TestAssessImpact_OtherAlwaysMedium(t *testing.T) {
	got := AssessImpact("Major critical urgent news", "", database.UpdateTypeAnnouncement)
	if got != database.SeverityMedium {
		t.Errorf("expected MEDIUM for non-pricing non-release types, got %s", got)
	}
}

func TestAutoTagQuery_NeverEmpty(t *testing.T) {
	tags := AutoTagQuery("", "xyzzy")
	if len(tags) != 1 || tags[0] != database.TagGeneral {
		t.Errorf("expected [GENERAL], got %v", tags)
	}
}

func TestAutoTagQuery_QuestionMark(t *testing.T) {
	tags := AutoTagQuery("", "the thing over there?")
	found := false
	for _, tag := range tags {
		if tag == database.TagQuestion {
			found = true
		}
	}
	if !found {
		t.Errorf("expected QUESTION for text ending in ?, got %v", tags)
	}
}

func TestAutoTagQuery_FeedbackSuppressedByComplaint(t *testing.T) {
	// "terrible" matches COMPLAINT, "thanks" would match FEEDBACK.
	tags := AutoTagQuery("", "terrible experience, thanks for nothing")
	for _, tag := range tags {
		if tag == database.TagFeedback {
			t.Errorf("FEEDBACK must be suppressed when COMPLAINT matched, got %v", tags)
		}
	}
}

func TestAutoTagQuery_MultipleTags(t *testing.T) {
	tags := AutoTagQuery("Billing bug", "how do I get a refund for this error?")
	want := map[database.QueryTagType]bool{
		database.TagQuestion:  true,
		database.TagBugReport: true,
		database.TagBilling:   true,
	}
	for _, tag := range tags {
		delete(want, tag)
	}
	if len(want) != 0 {
		t.Errorf("missing expected tags %v in %v", want, tags)
	}
}

func TestDetectPriority_UrgentOverridesChannel(t *testing.T) {
	got := DetectPriority("Site is down", "everything broken", database.QueryChannelTwitter)
	if got != database.PriorityUrgent {
		t.Errorf("expected URGENT, got %s", got)
	}
}

func TestDetectPriority_HighKeyword(t *testing.T) {
	got := DetectPriority("", "I want a refund", database.QueryChannelTwitter)
	if got != database.PriorityHigh {
		t.Errorf("expected HIGH, got %s", got)
	}
}

func TestDetectPriority_HighPattern(t *testing.T) {
	got := DetectPriority("", "I am very disappointed with this", database.QueryChannelChat)
	if got != database.PriorityHigh {
		t.Errorf("expected HIGH for complaint language, got %s", got)
	}
}

func TestDetectPriority_ChannelFallback(t *testing.T) {
	cases := []struct {
		channel database.QueryChannel
		want    database.QueryPriority
	}{
		{database.QueryChannelSupportTicket, database.PriorityMedium},
		{database.QueryChannelEmail, database.PriorityMedium},
		{database.QueryChannelTwitter, database.PriorityLow},
		{database.QueryChannelReddit, database.PriorityLow},
		{database.QueryChannelForum, database.PriorityLow},
		{database.QueryChannelChat, database.PriorityMedium},
		{database.QueryChannelOther, database.PriorityMedium},
	}
	for _, tc := range cases {
		got := DetectPriority("hello", "just checking in", tc.channel)
		if got != tc.want {
			t.Errorf("channel %s: expected %s, got %s", tc.channel, tc.want, got)
		}
	}
}
