package database

import "time"

// Source is a monitored publication, keyed by (name, channel).
type Source struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_sources_name_channel" json:"name"`
	Channel   Channel   `gorm:"type:varchar(20);not null;uniqueIndex:idx_sources_name_channel" json:"channel"`
	URL       string    `gorm:"size:512" json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Mentions []Mention `gorm:"foreignKey:SourceID" json:"mentions,omitempty"`
}

// Mention is a single observed brand mention. The permalink is the natural
// key: re-ingestion of the same permalink patches the existing row.
type Mention struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SourceID    uint      `gorm:"not null;index" json:"source_id"`
	Author      string    `gorm:"size:255;not null" json:"author"`
	Handle      string    `gorm:"size:255" json:"handle"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	Permalink   string    `gorm:"size:512;uniqueIndex;not null" json:"permalink"`
	Sentiment   Sentiment `gorm:"type:varchar(20);not null;default:'NEUTRAL'" json:"sentiment"`
	Reach       int       `gorm:"not null;default:0" json:"reach"`
	Spike       bool      `gorm:"not null;default:false" json:"spike"`
	PublishedAt time.Time `gorm:"not null;index" json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Source Source  `gorm:"foreignKey:SourceID" json:"source,omitempty"`
	Topics []Topic `gorm:"many2many:mention_topics;" json:"topics,omitempty"`
}

// Topic is a globally unique label attached to mentions.
type Topic struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Label     string    `gorm:"size:64;uniqueIndex;not null" json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// MentionTopic is the join row between mentions and topics.
// GORM manages this table via the many2many:mention_topics tag.
type MentionTopic struct {
	MentionID uint      `gorm:"primaryKey" json:"mention_id"`
	TopicID   uint      `gorm:"primaryKey" json:"topic_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Competitor is a tracked competitor, unique by name.
type Competitor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Website   string    `gorm:"size:512" json:"website"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Updates []CompetitorUpdate `gorm:"foreignKey:CompetitorID" json:"updates,omitempty"`
}

// CompetitorUpdate is one observed change from a competitor. When a source
// URL is known, (competitor_id, source_url) is the natural key; rows without
// a source URL are always distinct.
type CompetitorUpdate struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	CompetitorID  uint          `gorm:"not null;index;uniqueIndex:idx_competitor_updates_source" json:"competitor_id"`
	Type          UpdateType    `gorm:"type:varchar(20);not null;default:'OTHER'" json:"type"`
	Title         string        `gorm:"size:255;not null" json:"title"`
	Description   string        `gorm:"type:text" json:"description"`
	SourceURL     *string       `gorm:"size:512;uniqueIndex:idx_competitor_updates_source" json:"source_url,omitempty"`
	SourceChannel Channel       `gorm:"type:varchar(20);not null" json:"source_channel"`
	Impact        AlertSeverity `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"impact"`
	PublishedAt   time.Time     `gorm:"not null;index" json:"published_at"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	Competitor Competitor `gorm:"foreignKey:CompetitorID" json:"competitor,omitempty"`
}

// Query is a customer query moving through the triage workflow. UUID is the
// external identifier; (source_id, channel) deduplicates redelivery from the
// originating system.
type Query struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	UUID            string        `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	Channel         QueryChannel  `gorm:"type:varchar(20);not null;uniqueIndex:idx_queries_source" json:"channel"`
	SourceID        *string       `gorm:"size:255;uniqueIndex:idx_queries_source" json:"source_id,omitempty"`
	AuthorName      string        `gorm:"size:255;not null" json:"author_name"`
	AuthorEmail     string        `gorm:"size:255" json:"author_email"`
	AuthorHandle    string        `gorm:"size:255" json:"author_handle"`
	Subject         string        `gorm:"size:512" json:"subject"`
	Body            string        `gorm:"type:text;not null" json:"body"`
	SourceURL       string        `gorm:"size:512" json:"source_url"`
	Priority        QueryPriority `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	Status          QueryStatus   `gorm:"type:varchar(20);not null;default:'NEW'" json:"status"`
	ReceivedAt      time.Time     `gorm:"not null;index" json:"received_at"`
	FirstResponseAt *time.Time    `json:"first_response_at,omitempty"`
	ResolvedAt      *time.Time    `json:"resolved_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Tags       []QueryTag       `gorm:"many2many:query_tag_links;" json:"tags,omitempty"`
	Assignment *QueryAssignment `gorm:"foreignKey:QueryID" json:"assignment,omitempty"`
	History    []QueryHistory   `gorm:"foreignKey:QueryID" json:"history,omitempty"`
}

// QueryTag is the shared tag vocabulary, one canonical row per tag type.
type QueryTag struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Label     string       `gorm:"size:64;not null" json:"label"`
	Type      QueryTagType `gorm:"type:varchar(20);uniqueIndex;not null" json:"type"`
	CreatedAt time.Time    `json:"created_at"`
}

// QueryTagLink is the join row between queries and tags.
// GORM manages this table via the many2many:query_tag_links tag.
type QueryTagLink struct {
	QueryID    uint      `gorm:"primaryKey" json:"query_id"`
	QueryTagID uint      `gorm:"primaryKey" json:"query_tag_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// QueryAssignment is the single current assignment of a query.
type QueryAssignment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QueryID    uint      `gorm:"uniqueIndex;not null" json:"query_id"`
	AssigneeID string    `gorm:"size:255;not null" json:"assignee_id"`
	Notes      string    `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// QueryHistory is the append-only audit trail of a query.
type QueryHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	QueryID   uint      `gorm:"not null;index" json:"query_id"`
	UserID    string    `gorm:"size:255" json:"user_id"`
	Action    string    `gorm:"size:64;not null" json:"action"`
	OldValue  string    `gorm:"size:255" json:"old_value"`
	NewValue  string    `gorm:"size:255" json:"new_value"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// Alert is a triage alert. The title is the natural key: two alerts with the
// same computed title collapse into one row, refreshing its timestamp and
// linked entity. A null ResolvedAt means the alert is active.
type Alert struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	Title              string        `gorm:"size:255;uniqueIndex;not null" json:"title"`
	Description        string        `gorm:"type:text" json:"description"`
	Severity           AlertSeverity `gorm:"type:varchar(20);not null" json:"severity"`
	MentionID          *uint         `gorm:"index" json:"mention_id,omitempty"`
	CompetitorUpdateID *uint         `gorm:"index" json:"competitor_update_id,omitempty"`
	ResolvedAt         *time.Time    `json:"resolved_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	Mention          *Mention          `gorm:"foreignKey:MentionID" json:"mention,omitempty"`
	CompetitorUpdate *CompetitorUpdate `gorm:"foreignKey:CompetitorUpdateID" json:"competitor_update,omitempty"`
}

// IsActive reports whether the alert is unresolved.
func (a *Alert) IsActive() bool {
	return a.ResolvedAt == nil
}

// TableName overrides for explicit table naming
func (Source) TableName() string {
	return "sources"
}

func (Mention) TableName() string {
	return "mentions"
}

func (Topic) TableName() string {
	return "topics"
}

func (MentionTopic) TableName() string {
	return "mention_topics"
}

func (Competitor) TableName() string {
	return "competitors"
}

func (CompetitorUpdate) TableName() string {
	return "competitor_updates"
}

func (Query) TableName() string {
	return "queries"
}

func (QueryTag) TableName() string {
	return "query_tags"
}

func (QueryTagLink) TableName() string {
	return "query_tag_links"
}

func (QueryAssignment) TableName() string {
	return "query_assignments"
}

func (QueryHistory) TableName() string {
	return "query_histories"
}

func (Alert) TableName() string {
	return "alerts"
}
