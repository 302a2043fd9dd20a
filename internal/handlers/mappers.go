package handlers

import (
	"fmt"

	"github.com/brandsignal/brandsignal/internal/api"
	"github.com/brandsignal/brandsignal/internal/database"
	"github.com/brandsignal/brandsignal/internal/services"
)

// mentionToRaw converts a boundary DTO into the service input, parsing enum
// strings. An unknown mention channel is a validation failure, not a default.
func mentionToRaw(req api.MentionRequest) (services.RawMention, map[string]string) {
	channel, ok := database.ParseChannel(req.Channel)
	if !ok {
		return services.RawMention{}, map[string]string{"channel": fmt.Sprintf("unknown channel %q", req.Channel)}
	}

	raw := services.RawMention{
		SourceName:  req.SourceName,
		Channel:     channel,
		SourceURL:   req.SourceURL,
		Author:      req.Author,
		Handle:      req.Handle,
		Body:        req.Body,
		Permalink:   req.Permalink,
		PublishedAt: req.PublishedAt,
		Reach:       req.Reach,
		Topics:      req.Topics,
		Spike:       req.Spike,
	}

	if req.Sentiment != nil {
		sentiment, ok := database.ParseSentiment(*req.Sentiment)
		if !ok {
			return services.RawMention{}, map[string]string{"sentiment": fmt.Sprintf("unknown sentiment %q", *req.Sentiment)}
		}
		raw.Sentiment = &sentiment
	}

	return raw, nil
}

// competitorUpdateToRaw converts a boundary DTO into the service input.
// Empty type and impact are left for the classifier; unknown non-empty types
// map to OTHER.
func competitorUpdateToRaw(req api.CompetitorUpdateRequest) (services.RawCompetitorUpdate, map[string]string) {
	raw := services.RawCompetitorUpdate{
		CompetitorName:    req.CompetitorName,
		CompetitorWebsite: req.CompetitorWebsite,
		Title:             req.Title,
		Description:       req.Description,
		SourceURL:         req.SourceURL,
		PublishedAt:       req.PublishedAt,
	}

	if req.Type != "" {
		updateType, _ := database.ParseUpdateType(req.Type)
		raw.Type = updateType
	}
	if req.Impact != "" {
		impact, ok := database.ParseSeverity(req.Impact)
		if !ok {
			return services.RawCompetitorUpdate{}, map[string]string{"impact": fmt.Sprintf("unknown impact %q", req.Impact)}
		}
		raw.Impact = impact
	}
	if req.SourceChannel != "" {
		channel, ok := database.ParseChannel(req.SourceChannel)
		if !ok {
			return services.RawCompetitorUpdate{}, map[string]string{"source_channel": fmt.Sprintf("unknown channel %q", req.SourceChannel)}
		}
		raw.SourceChannel = channel
	}

	return raw, nil
}

// queryToRaw converts a boundary DTO into the service input. The channel
// string passes through untouched: unknown query channels map to OTHER in
// the service, never fail.
func queryToRaw(req api.CreateQueryRequest) (services.RawQuery, map[string]string) {
	raw := services.RawQuery{
		Channel:      req.Channel,
		SourceID:     req.SourceID,
		AuthorName:   req.AuthorName,
		AuthorEmail:  req.AuthorEmail,
		AuthorHandle: req.AuthorHandle,
		Subject:      req.Subject,
		Body:         req.Body,
		SourceURL:    req.SourceURL,
		ReceivedAt:   req.ReceivedAt,
	}

	if req.Priority != "" {
		priority, ok := database.ParseQueryPriority(req.Priority)
		if !ok {
			return services.RawQuery{}, map[string]string{"priority": fmt.Sprintf("unknown priority %q", req.Priority)}
		}
		raw.Priority = priority
	}
	if req.Status != "" {
		status, ok := database.ParseQueryStatus(req.Status)
		if !ok {
			return services.RawQuery{}, map[string]string{"status": fmt.Sprintf("unknown status %q", req.Status)}
		}
		raw.Status = status
	}
	if req.Tags != nil {
		tags := make([]database.QueryTagType, 0, len(req.Tags))
		for _, t := range req.Tags {
			tagType, ok := database.ParseQueryTagType(t)
			if !ok {
				return services.RawQuery{}, map[string]string{"tags": fmt.Sprintf("unknown tag %q", t)}
			}
			tags = append(tags, tagType)
		}
		raw.Tags = tags
	}

	return raw, nil
}
