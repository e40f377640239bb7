package repository

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/takanori-w/lifeplan-navigator/pkg/audit"
	dbtypes "github.com/takanori-w/lifeplan-navigator/pkg/infra/database/types"
)

const (
	defaultQueryLimit = 100
	defaultTrailLimit = 50

	// Batch rows are inserted independently; this bounds their concurrency.
	batchInsertWorkers = 4
)

// AuditLogRow is the flattened audit_logs table row. Nested structures are
// stored as jsonb, list fields as text arrays.
type AuditLogRow struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	Timestamp time.Time `gorm:"index"`

	EventType        string `gorm:"index;size:8"`
	EventCode        string `gorm:"index;size:64"`
	EventName        string
	EventDescription string

	ActorType        string `gorm:"size:16"`
	ActorUserID      string `gorm:"index"`
	ActorUsername    string
	ActorEmailHash   string
	ActorRoles       pq.StringArray `gorm:"type:text[]"`
	ActorSessionID   string
	ActorIPAddress   string `gorm:"index"`
	ActorUserAgent   string
	ActorGeoLocation dbtypes.JSONObject `gorm:"type:jsonb"`

	TargetType           string `gorm:"index"`
	TargetID             string `gorm:"index"`
	TargetName           string
	TargetOwnerID        string
	TargetPreviousState  dbtypes.JSONMap `gorm:"type:jsonb"`
	TargetNewState       dbtypes.JSONMap `gorm:"type:jsonb"`
	TargetAffectedFields pq.StringArray  `gorm:"type:text[]"`

	RequestID            string
	RequestMethod        string `gorm:"size:16"`
	RequestPath          string
	RequestQuery         dbtypes.StringMap `gorm:"type:jsonb"`
	RequestHeaders       dbtypes.StringMap `gorm:"type:jsonb"`
	RequestBodySanitized dbtypes.JSONMap   `gorm:"type:jsonb"`
	RequestContentType   string
	RequestContentLength int64

	ResponseStatusCode   int
	ResponseSuccess      bool
	ResponseErrorCode    string
	ResponseErrorMessage string
	ResponseDurationMS   int64
	ResponseDataSize     int64

	ContextService       string
	ContextVersion       string
	ContextEnvironment   string
	ContextHostname      string
	ContextTraceID       string `gorm:"index"`
	ContextSpanID        string
	ContextParentSpanID  string
	ContextCorrelationID string

	Severity  string          `gorm:"index;size:16"`
	RiskLevel string          `gorm:"size:16"`
	Metadata  dbtypes.JSONMap `gorm:"type:jsonb"`
}

func (AuditLogRow) TableName() string {
	return "audit_logs"
}

// Migrate creates or updates the audit_logs table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&AuditLogRow{})
}

// AuditRepository persists events to PostgreSQL. With a nil database it runs
// in mock mode: every operation logs its intent at debug level and succeeds
// without touching a store.
type AuditRepository struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

func NewAuditRepository(db *gorm.DB, logger logrus.FieldLogger) audit.Repository {
	return &AuditRepository{db: db, logger: logger}
}

func (r *AuditRepository) mock() bool {
	return r.db == nil
}

func (r *AuditRepository) Insert(ctx context.Context, evt *audit.Event) error {
	if r.mock() {
		r.logger.WithFields(logrus.Fields{
			"event_id":   evt.ID,
			"event_code": evt.EventCode,
		}).Debug("mock mode: skipping audit log insert")
		return nil
	}
	row := rowFromEvent(evt)
	return r.db.WithContext(ctx).Create(row).Error
}

// InsertBatch inserts each event independently so a failure on one record
// does not drop the rest of the batch. Failures are logged and reflected in
// the returned count only.
func (r *AuditRepository) InsertBatch(ctx context.Context, events []*audit.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	if r.mock() {
		r.logger.WithField("events", len(events)).Debug("mock mode: skipping audit log batch insert")
		return len(events), nil
	}

	var inserted atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchInsertWorkers)
	for _, evt := range events {
		evt := evt
		g.Go(func() error {
			if err := r.db.WithContext(ctx).Create(rowFromEvent(evt)).Error; err != nil {
				r.logger.WithError(err).
					WithField("event_id", evt.ID).
					Error("failed to insert audit log")
				return nil
			}
			inserted.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return int(inserted.Load()), nil
}

func (r *AuditRepository) Query(ctx context.Context, filter audit.Filter) (*audit.SearchResult, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if r.mock() {
		r.logger.Debug("mock mode: returning empty audit log page")
		return &audit.SearchResult{Events: []*audit.Event{}, Limit: limit, Offset: offset}, nil
	}

	q := r.db.WithContext(ctx).Model(&AuditLogRow{})
	if filter.ActorUserID != "" {
		q = q.Where("actor_user_id = ?", filter.ActorUserID)
	}
	if len(filter.EventTypes) > 0 {
		q = q.Where("event_type IN ?", toStrings(filter.EventTypes))
	}
	if len(filter.EventCodes) > 0 {
		q = q.Where("event_code IN ?", filter.EventCodes)
	}
	if !filter.StartTime.IsZero() {
		q = q.Where("timestamp >= ?", filter.StartTime)
	}
	if !filter.EndTime.IsZero() {
		q = q.Where("timestamp <= ?", filter.EndTime)
	}
	if len(filter.Severities) > 0 {
		q = q.Where("severity IN ?", toStrings(filter.Severities))
	}
	if len(filter.RiskLevels) > 0 {
		q = q.Where("risk_level IN ?", toStrings(filter.RiskLevels))
	}
	if filter.TargetType != "" {
		q = q.Where("target_type = ?", filter.TargetType)
	}
	if filter.TargetID != "" {
		q = q.Where("target_id = ?", filter.TargetID)
	}
	if filter.IPAddress != "" {
		q = q.Where("actor_ip_address = ?", filter.IPAddress)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []AuditLogRow
	err := q.Order("timestamp desc").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return &audit.SearchResult{
		Events:  eventsFromRows(rows),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(rows)) < total,
	}, nil
}

func (r *AuditRepository) ResourceTrail(ctx context.Context, targetType, targetID string, limit int) ([]*audit.Event, error) {
	if limit <= 0 {
		limit = defaultTrailLimit
	}
	if r.mock() {
		return []*audit.Event{}, nil
	}

	var rows []AuditLogRow
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("timestamp desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return eventsFromRows(rows), nil
}

func (r *AuditRepository) SecurityEvents(ctx context.Context, from, to time.Time, minSeverity audit.Severity) ([]*audit.Event, error) {
	if r.mock() {
		return []*audit.Event{}, nil
	}

	var rows []AuditLogRow
	err := r.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp <= ?", from, to).
		Where("severity IN ?", toStrings(audit.SeveritiesFrom(minSeverity))).
		Order("timestamp desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return eventsFromRows(rows), nil
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func rowFromEvent(evt *audit.Event) *AuditLogRow {
	row := &AuditLogRow{
		ID:        evt.ID,
		Timestamp: evt.Timestamp,

		EventType:        string(evt.EventType),
		EventCode:        evt.EventCode,
		EventName:        evt.EventName,
		EventDescription: evt.Description,

		ActorType:      string(evt.Actor.Type),
		ActorUserID:    evt.Actor.UserID,
		ActorUsername:  evt.Actor.Username,
		ActorEmailHash: evt.Actor.EmailHash,
		ActorRoles:     evt.Actor.Roles,
		ActorSessionID: evt.Actor.SessionID,
		ActorIPAddress: evt.Actor.IPAddress,
		ActorUserAgent: evt.Actor.UserAgent,

		RequestID:            evt.Request.ID,
		RequestMethod:        evt.Request.Method,
		RequestPath:          evt.Request.Path,
		RequestQuery:         evt.Request.Query,
		RequestHeaders:       evt.Request.Headers,
		RequestBodySanitized: evt.Request.Body,
		RequestContentType:   evt.Request.ContentType,
		RequestContentLength: evt.Request.ContentLength,

		ResponseStatusCode:   evt.Response.StatusCode,
		ResponseSuccess:      evt.Response.Success,
		ResponseErrorCode:    evt.Response.ErrorCode,
		ResponseErrorMessage: evt.Response.ErrorMessage,
		ResponseDurationMS:   evt.Response.DurationMS,
		ResponseDataSize:     evt.Response.DataSize,

		ContextService:       evt.Context.Service,
		ContextVersion:       evt.Context.Version,
		ContextEnvironment:   evt.Context.Environment,
		ContextHostname:      evt.Context.Hostname,
		ContextTraceID:       evt.Context.TraceID,
		ContextSpanID:        evt.Context.SpanID,
		ContextParentSpanID:  evt.Context.ParentSpanID,
		ContextCorrelationID: evt.Context.CorrelationID,

		Severity:  string(evt.Severity),
		RiskLevel: string(evt.RiskLevel),
		Metadata:  evt.Metadata,
	}
	if evt.Actor.GeoLocation != nil {
		if data, err := json.Marshal(evt.Actor.GeoLocation); err == nil {
			row.ActorGeoLocation = data
		}
	}
	if evt.Target != nil {
		row.TargetType = evt.Target.Type
		row.TargetID = evt.Target.ID
		row.TargetName = evt.Target.Name
		row.TargetOwnerID = evt.Target.OwnerID
		row.TargetPreviousState = evt.Target.PreviousState
		row.TargetNewState = evt.Target.NewState
		row.TargetAffectedFields = evt.Target.AffectedFields
	}
	return row
}

func eventFromRow(row AuditLogRow) *audit.Event {
	evt := &audit.Event{
		ID:          row.ID,
		Timestamp:   row.Timestamp,
		EventType:   audit.EventType(row.EventType),
		EventCode:   row.EventCode,
		EventName:   row.EventName,
		Description: row.EventDescription,
		Actor: audit.Actor{
			Type:      audit.ActorType(row.ActorType),
			UserID:    row.ActorUserID,
			Username:  row.ActorUsername,
			EmailHash: row.ActorEmailHash,
			Roles:     row.ActorRoles,
			SessionID: row.ActorSessionID,
			IPAddress: row.ActorIPAddress,
			UserAgent: row.ActorUserAgent,
		},
		Request: audit.RequestInfo{
			ID:            row.RequestID,
			Method:        row.RequestMethod,
			Path:          row.RequestPath,
			Query:         row.RequestQuery,
			Headers:       row.RequestHeaders,
			Body:          row.RequestBodySanitized,
			ContentType:   row.RequestContentType,
			ContentLength: row.RequestContentLength,
		},
		Response: audit.ResponseInfo{
			StatusCode:   row.ResponseStatusCode,
			Success:      row.ResponseSuccess,
			ErrorCode:    row.ResponseErrorCode,
			ErrorMessage: row.ResponseErrorMessage,
			DurationMS:   row.ResponseDurationMS,
			DataSize:     row.ResponseDataSize,
		},
		Context: audit.TraceContext{
			Service:       row.ContextService,
			Version:       row.ContextVersion,
			Environment:   row.ContextEnvironment,
			Hostname:      row.ContextHostname,
			TraceID:       row.ContextTraceID,
			SpanID:        row.ContextSpanID,
			ParentSpanID:  row.ContextParentSpanID,
			CorrelationID: row.ContextCorrelationID,
		},
		Severity:  audit.Severity(row.Severity),
		RiskLevel: audit.RiskLevel(row.RiskLevel),
		Metadata:  row.Metadata,
	}
	if len(row.ActorGeoLocation) > 0 {
		var geo audit.GeoLocation
		if err := json.Unmarshal(row.ActorGeoLocation, &geo); err == nil {
			evt.Actor.GeoLocation = &geo
		}
	}
	if row.TargetType != "" || row.TargetID != "" {
		evt.Target = &audit.Target{
			Type:           row.TargetType,
			ID:             row.TargetID,
			Name:           row.TargetName,
			OwnerID:        row.TargetOwnerID,
			PreviousState:  row.TargetPreviousState,
			NewState:       row.TargetNewState,
			AffectedFields: row.TargetAffectedFields,
		}
	}
	return evt
}

func eventsFromRows(rows []AuditLogRow) []*audit.Event {
	events := make([]*audit.Event, len(rows))
	for i, row := range rows {
		events[i] = eventFromRow(row)
	}
	return events
}
