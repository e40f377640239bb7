package audit

import (
	"context"
	"time"
)

// Sink is a persistence or output destination for audit events. A sink is
// registered as an unconfigured prototype and instantiated per deployment
// through WithSettings.
type Sink interface {
	Name() string
	ValidateConfig(settings map[string]interface{}) error
	WithSettings(settings map[string]interface{}) (Sink, error)
	Write(ctx context.Context, evt *Event) error
	WriteBatch(ctx context.Context, events []*Event) error
	Close()
}

// Filter narrows repository queries. Zero values mean "no constraint".
type Filter struct {
	ActorUserID string
	EventTypes  []EventType
	EventCodes  []string
	StartTime   time.Time
	EndTime     time.Time
	Severities  []Severity
	RiskLevels  []RiskLevel
	TargetType  string
	TargetID    string
	IPAddress   string
	Limit       int
	Offset      int
}

// SearchResult is one page of events plus the unpaginated total.
type SearchResult struct {
	Events  []*Event `json:"events"`
	Total   int64    `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
	HasMore bool     `json:"has_more"`
}

// Repository persists events to the relational store and serves point
// queries over them.
type Repository interface {
	Insert(ctx context.Context, evt *Event) error
	// InsertBatch inserts each event independently so one bad record does
	// not drop the rest; it returns how many rows landed.
	InsertBatch(ctx context.Context, events []*Event) (int, error)
	Query(ctx context.Context, filter Filter) (*SearchResult, error)
	// ResourceTrail returns all events for one target, newest first.
	ResourceTrail(ctx context.Context, targetType, targetID string, limit int) ([]*Event, error)
	// SecurityEvents returns events in [from, to] at or above minSeverity,
	// newest first.
	SecurityEvents(ctx context.Context, from, to time.Time, minSeverity Severity) ([]*Event, error)
}
