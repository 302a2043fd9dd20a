package api

import "time"

// ========== Mention Types ==========

// MentionRequest is the request body for POST /api/mentions.
// Enum fields arrive as raw strings and are parsed at the handler boundary;
// pointer fields distinguish "not supplied" from a zero value.
type MentionRequest struct {
	SourceName  string    `json:"source_name" validate:"required,min=1,max=255"`
	Channel     string    `json:"channel" validate:"required"`
	SourceURL   string    `json:"source_url" validate:"omitempty,url"`
	Author      string    `json:"author" validate:"required,min=1,max=255"`
	Handle      string    `json:"handle" validate:"omitempty,max=255"`
	Body        string    `json:"body" validate:"required"`
	Permalink   string    `json:"permalink" validate:"required,url"`
	PublishedAt time.Time `json:"published_at" validate:"required"`
	Reach       *int      `json:"reach" validate:"omitempty,gte=0"`
	Sentiment   *string   `json:"sentiment"`
	Topics      []string  `json:"topics"`
	Spike       *bool     `json:"spike"`
}

// MentionBatchRequest is the request body for POST /api/mentions/batch.
type MentionBatchRequest struct {
	Mentions []MentionRequest `json:"mentions" validate:"required,min=1,dive"`
}

// ========== Competitor Types ==========

// CompetitorUpdateRequest is the request body for POST /api/competitors/updates.
type CompetitorUpdateRequest struct {
	CompetitorName    string    `json:"competitor_name" validate:"required,min=1,max=255"`
	CompetitorWebsite string    `json:"competitor_website" validate:"omitempty,url"`
	Type              string    `json:"type"`
	Title             string    `json:"title" validate:"required,min=1,max=512"`
	Description       string    `json:"description"`
	SourceURL         string    `json:"source_url" validate:"omitempty,url"`
	SourceChannel     string    `json:"source_channel"`
	PublishedAt       time.Time `json:"published_at"`
	Impact            string    `json:"impact"`
}

// CompetitorUpdateBatchRequest is the request body for POST /api/competitors/updates/batch.
type CompetitorUpdateBatchRequest struct {
	Updates []CompetitorUpdateRequest `json:"updates" validate:"required,min=1,dive"`
}

// ========== Query Types ==========

// CreateQueryRequest is the request body for POST /api/queries.
type CreateQueryRequest struct {
	Channel      string    `json:"channel" validate:"required"`
	SourceID     string    `json:"source_id" validate:"omitempty,max=255"`
	AuthorName   string    `json:"author_name" validate:"required,min=1,max=255"`
	AuthorEmail  string    `json:"author_email" validate:"omitempty,email"`
	AuthorHandle string    `json:"author_handle" validate:"omitempty,max=255"`
	Subject      string    `json:"subject" validate:"omitempty,max=512"`
	Body         string    `json:"body" validate:"required"`
	SourceURL    string    `json:"source_url" validate:"omitempty,url"`
	ReceivedAt   time.Time `json:"received_at"`
	Priority     string    `json:"priority"`
	Status       string    `json:"status"`
	Tags         []string  `json:"tags"`
}

// CreateQueryResponse is the response body for POST /api/queries.
type CreateQueryResponse struct {
	ID string `json:"id"`
}

// AssignQueryRequest is the request body for POST /api/queries/:id/assign.
type AssignQueryRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required,min=1,max=255"`
	Notes      string `json:"notes"`
}

// UpdateQueryStatusRequest is the request body for PUT /api/queries/:id/status.
// Status is parsed case-insensitively at the handler boundary.
type UpdateQueryStatusRequest struct {
	Status string `json:"status" validate:"required"`
	UserID string `json:"user_id" validate:"omitempty,max=255"`
	Notes  string `json:"notes"`
}

// UpdateQueryPriorityRequest is the request body for PUT /api/queries/:id/priority.
// Priority is parsed case-insensitively at the handler boundary.
type UpdateQueryPriorityRequest struct {
	Priority string `json:"priority" validate:"required"`
	UserID   string `json:"user_id" validate:"omitempty,max=255"`
	Notes    string `json:"notes"`
}

// ========== Batch Types ==========

// BatchResponse reports how many items a batch endpoint accepted.
type BatchResponse struct {
	Accepted int `json:"accepted"`
	Failed   int `json:"failed"`
}
