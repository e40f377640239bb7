package repository

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takanori-w/lifeplan-navigator/pkg/audit"
)

func newMockRepository() audit.Repository {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewAuditRepository(nil, logger)
}

func sampleEvent() *audit.Event {
	return &audit.Event{
		ID:        "evt-1",
		Timestamp: time.Now().UTC(),
		EventType: audit.EventTypeData,
		EventCode: audit.CodeLifeplanView,
		EventName: "Lifeplan viewed",
		Actor: audit.Actor{
			Type:      audit.ActorUser,
			UserID:    "u-1",
			EmailHash: audit.HashEmail("user@example.com"),
			Roles:     []string{"member"},
			IPAddress: "10.0.0.1",
			UserAgent: "curl/8.0",
			GeoLocation: &audit.GeoLocation{
				Country: "JP",
				City:    "Tokyo",
			},
		},
		Target: &audit.Target{
			Type:           "lifeplan",
			ID:             "lp-1",
			OwnerID:        "u-1",
			PreviousState:  map[string]interface{}{"name": "old"},
			NewState:       map[string]interface{}{"name": "new"},
			AffectedFields: []string{"name"},
		},
		Request: audit.RequestInfo{
			ID:      "req-1",
			Method:  "GET",
			Path:    "/api/lifeplans/lp-1",
			Query:   map[string]string{"full": "true"},
			Headers: map[string]string{"Content-Type": "application/json"},
			Body:    map[string]interface{}{"email": audit.RedactionMarker},
		},
		Response: audit.ResponseInfo{
			StatusCode: 200,
			Success:    true,
			DurationMS: 12,
		},
		Context: audit.TraceContext{
			Service:       "lifeplan-navigator",
			Version:       "1.0.0",
			Environment:   "test",
			Hostname:      "test-host",
			TraceID:       "req-1",
			SpanID:        "0123456789abcdef",
			CorrelationID: "req-1",
		},
		Severity: audit.SeverityInfo,
		Metadata: map[string]interface{}{"source": "test"},
	}
}

func TestMockRepository_InsertSucceeds(t *testing.T) {
	repo := newMockRepository()

	assert.NoError(t, repo.Insert(context.Background(), sampleEvent()))
}

func TestMockRepository_InsertBatchReportsFullCount(t *testing.T) {
	repo := newMockRepository()

	count, err := repo.InsertBatch(context.Background(), []*audit.Event{
		sampleEvent(), sampleEvent(), sampleEvent(),
	})

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMockRepository_InsertBatchEmpty(t *testing.T) {
	repo := newMockRepository()

	count, err := repo.InsertBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMockRepository_QueryReturnsEmptyPageWithDefaults(t *testing.T) {
	repo := newMockRepository()

	result, err := repo.Query(context.Background(), audit.Filter{})

	require.NoError(t, err)
	assert.Empty(t, result.Events)
	assert.Equal(t, defaultQueryLimit, result.Limit)
	assert.Equal(t, 0, result.Offset)
	assert.False(t, result.HasMore)
}

func TestMockRepository_QueryKeepsExplicitPagination(t *testing.T) {
	repo := newMockRepository()

	result, err := repo.Query(context.Background(), audit.Filter{Limit: 5, Offset: 20})

	require.NoError(t, err)
	assert.Equal(t, 5, result.Limit)
	assert.Equal(t, 20, result.Offset)
}

func TestMockRepository_ResourceTrailEmpty(t *testing.T) {
	repo := newMockRepository()

	events, err := repo.ResourceTrail(context.Background(), "lifeplan", "lp-1", 0)

	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestMockRepository_SecurityEventsEmpty(t *testing.T) {
	repo := newMockRepository()

	events, err := repo.SecurityEvents(context.Background(),
		time.Now().Add(-time.Hour), time.Now(), audit.SeverityWarn)

	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRowMapping_RoundTrip(t *testing.T) {
	evt := sampleEvent()

	row := rowFromEvent(evt)
	back := eventFromRow(*row)

	assert.Equal(t, evt.ID, back.ID)
	assert.Equal(t, evt.EventType, back.EventType)
	assert.Equal(t, evt.EventCode, back.EventCode)
	assert.Equal(t, evt.Actor.UserID, back.Actor.UserID)
	assert.Equal(t, evt.Actor.EmailHash, back.Actor.EmailHash)
	assert.Equal(t, []string(row.ActorRoles), back.Actor.Roles)
	require.NotNil(t, back.Actor.GeoLocation)
	assert.Equal(t, "JP", back.Actor.GeoLocation.Country)
	require.NotNil(t, back.Target)
	assert.Equal(t, evt.Target.ID, back.Target.ID)
	assert.Equal(t, evt.Target.AffectedFields, []string(row.TargetAffectedFields))
	assert.Equal(t, evt.Request.Query, map[string]string(row.RequestQuery))
	assert.Equal(t, evt.Response.StatusCode, back.Response.StatusCode)
	assert.Equal(t, evt.Context.TraceID, back.Context.TraceID)
	assert.Equal(t, evt.Severity, back.Severity)
	assert.Equal(t, evt.Metadata["source"], back.Metadata["source"])
}

func TestRowMapping_NilTargetOmitted(t *testing.T) {
	evt := sampleEvent()
	evt.Target = nil

	row := rowFromEvent(evt)
	back := eventFromRow(*row)

	assert.Empty(t, row.TargetType)
	assert.Nil(t, back.Target)
}
