package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takanori-w/lifeplan-navigator/pkg/audit"
)

// stubRepository records the last received arguments and returns canned
// results.
type stubRepository struct {
	lastFilter      audit.Filter
	lastTargetType  string
	lastTargetID    string
	lastLimit       int
	lastFrom        time.Time
	lastTo          time.Time
	lastMinSeverity audit.Severity

	queryResult *audit.SearchResult
	trailResult []*audit.Event
	secResult   []*audit.Event
	err         error
}

func (s *stubRepository) Insert(ctx context.Context, evt *audit.Event) error { return s.err }
func (s *stubRepository) InsertBatch(ctx context.Context, events []*audit.Event) (int, error) {
	return len(events), s.err
}

func (s *stubRepository) Query(ctx context.Context, filter audit.Filter) (*audit.SearchResult, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	if s.queryResult == nil {
		return &audit.SearchResult{Events: []*audit.Event{}}, nil
	}
	return s.queryResult, nil
}

func (s *stubRepository) ResourceTrail(ctx context.Context, targetType, targetID string, limit int) ([]*audit.Event, error) {
	s.lastTargetType = targetType
	s.lastTargetID = targetID
	s.lastLimit = limit
	return s.trailResult, s.err
}

func (s *stubRepository) SecurityEvents(ctx context.Context, from, to time.Time, minSeverity audit.Severity) ([]*audit.Event, error) {
	s.lastFrom = from
	s.lastTo = to
	s.lastMinSeverity = minSeverity
	return s.secResult, s.err
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestSearchAuditLogsHandler_ParsesFilter(t *testing.T) {
	repo := &stubRepository{}
	app := fiber.New()
	app.Get("/logs", NewSearchAuditLogsHandler(newTestLogger(), repo).Handle)

	req := httptest.NewRequest(fiber.MethodGet,
		"/logs?actor_user_id=u-1&event_type=AUTH,SEC&severity=WARN&event_code=AUTH_LOGIN_FAILURE"+
			"&start_time=2026-01-01T00:00:00Z&end_time=2026-01-31T23:59:59Z&limit=10&offset=20", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	f := repo.lastFilter
	assert.Equal(t, "u-1", f.ActorUserID)
	assert.Equal(t, []audit.EventType{audit.EventTypeAuth, audit.EventTypeSecurity}, f.EventTypes)
	assert.Equal(t, []audit.Severity{audit.SeverityWarn}, f.Severities)
	assert.Equal(t, []string{audit.CodeLoginFailure}, f.EventCodes)
	assert.Equal(t, 2026, f.StartTime.Year())
	assert.Equal(t, time.Month(1), f.EndTime.Month())
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 20, f.Offset)
}

func TestSearchAuditLogsHandler_RejectsBadTimestamp(t *testing.T) {
	repo := &stubRepository{}
	app := fiber.New()
	app.Get("/logs", NewSearchAuditLogsHandler(newTestLogger(), repo).Handle)

	req := httptest.NewRequest(fiber.MethodGet, "/logs?start_time=yesterday", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSearchAuditLogsHandler_RepositoryError(t *testing.T) {
	repo := &stubRepository{err: errors.New("db down")}
	app := fiber.New()
	app.Get("/logs", NewSearchAuditLogsHandler(newTestLogger(), repo).Handle)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/logs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestSearchAuditLogsHandler_ReturnsPage(t *testing.T) {
	repo := &stubRepository{
		queryResult: &audit.SearchResult{
			Events:  []*audit.Event{{ID: "evt-1"}},
			Total:   42,
			Limit:   1,
			HasMore: true,
		},
	}
	app := fiber.New()
	app.Get("/logs", NewSearchAuditLogsHandler(newTestLogger(), repo).Handle)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/logs", nil))
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	var result audit.SearchResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, int64(42), result.Total)
	assert.True(t, result.HasMore)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "evt-1", result.Events[0].ID)
}

func TestGetResourceTrailHandler_PassesParams(t *testing.T) {
	repo := &stubRepository{trailResult: []*audit.Event{{ID: "evt-1"}}}
	app := fiber.New()
	app.Get("/resources/:type/:id", NewGetResourceTrailHandler(newTestLogger(), repo).Handle)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/resources/lifeplan/lp-1?limit=5", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, "lifeplan", repo.lastTargetType)
	assert.Equal(t, "lp-1", repo.lastTargetID)
	assert.Equal(t, 5, repo.lastLimit)
}

func TestGetResourceTrailHandler_RepositoryError(t *testing.T) {
	repo := &stubRepository{err: errors.New("db down")}
	app := fiber.New()
	app.Get("/resources/:type/:id", NewGetResourceTrailHandler(newTestLogger(), repo).Handle)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/resources/lifeplan/lp-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestListSecurityEventsHandler_Defaults(t *testing.T) {
	repo := &stubRepository{secResult: []*audit.Event{}}
	app := fiber.New()
	app.Get("/security-events", NewListSecurityEventsHandler(newTestLogger(), repo).Handle)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/security-events", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, audit.SeverityWarn, repo.lastMinSeverity)
	window := repo.lastTo.Sub(repo.lastFrom)
	assert.Equal(t, 24*time.Hour, window)
}

func TestListSecurityEventsHandler_CustomWindowAndSeverity(t *testing.T) {
	repo := &stubRepository{secResult: []*audit.Event{}}
	app := fiber.New()
	app.Get("/security-events", NewListSecurityEventsHandler(newTestLogger(), repo).Handle)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet,
		"/security-events?hours=48&min_severity=ERROR", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, audit.SeverityError, repo.lastMinSeverity)
	assert.Equal(t, 48*time.Hour, repo.lastTo.Sub(repo.lastFrom))
}

func TestListSecurityEventsHandler_RejectsNonPositiveWindow(t *testing.T) {
	repo := &stubRepository{}
	app := fiber.New()
	app.Get("/security-events", NewListSecurityEventsHandler(newTestLogger(), repo).Handle)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/security-events?hours=-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
