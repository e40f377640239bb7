package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takanori-w/lifeplan-navigator/pkg/audit"
	"github.com/takanori-w/lifeplan-navigator/pkg/infra/httpx"
)

type mockHTTPClient struct {
	status  int
	err     error
	calls   int
	lastURL string
}

func (m *mockHTTPClient) Post(url, contentType string, body []byte) (int, error) {
	m.calls++
	m.lastURL = url
	return m.status, m.err
}

type passthroughBreaker struct{}

func (passthroughBreaker) Execute(fn func() error) error { return fn() }

func newTestRemoteSink(client httpx.Client) *RemoteSink {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return &RemoteSink{
		cfg:     RemoteConfig{Endpoint: "https://collector.example.com/events"},
		client:  client,
		breaker: passthroughBreaker{},
		logger:  logger,
	}
}

func testEvent(id string) *audit.Event {
	return &audit.Event{ID: id, EventType: audit.EventTypeData, EventCode: audit.CodeLifeplanView}
}

func TestRemoteSink_ValidateConfig(t *testing.T) {
	s := NewRemoteSink(logrus.New())

	assert.Error(t, s.ValidateConfig(map[string]interface{}{}))
	assert.NoError(t, s.ValidateConfig(map[string]interface{}{
		"endpoint": "https://collector.example.com/events",
	}))
}

func TestRemoteSink_WithSettingsBuildsConfiguredSink(t *testing.T) {
	base := NewRemoteSink(logrus.New())

	configured, err := base.WithSettings(map[string]interface{}{
		"endpoint":   "https://collector.example.com/events",
		"timeout_ms": 500,
	})

	require.NoError(t, err)
	remote, ok := configured.(*RemoteSink)
	require.True(t, ok)
	assert.Equal(t, "https://collector.example.com/events", remote.cfg.Endpoint)
	assert.NotNil(t, remote.client)
	assert.NotNil(t, remote.breaker)
}

func TestRemoteSink_WithSettingsRejectsMissingEndpoint(t *testing.T) {
	base := NewRemoteSink(logrus.New())

	configured, err := base.WithSettings(map[string]interface{}{})

	assert.Nil(t, configured)
	assert.Error(t, err)
}

func TestRemoteSink_WritePostsEvent(t *testing.T) {
	client := &mockHTTPClient{status: 202}
	s := newTestRemoteSink(client)

	err := s.Write(context.Background(), testEvent("evt-1"))

	assert.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "https://collector.example.com/events", client.lastURL)
}

func TestRemoteSink_WriteFailsOnTransportError(t *testing.T) {
	client := &mockHTTPClient{err: errors.New("connection refused")}
	s := newTestRemoteSink(client)

	err := s.Write(context.Background(), testEvent("evt-1"))

	assert.Error(t, err)
}

func TestRemoteSink_WriteFailsOnErrorStatus(t *testing.T) {
	client := &mockHTTPClient{status: 503}
	s := newTestRemoteSink(client)

	err := s.Write(context.Background(), testEvent("evt-1"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestRemoteSink_WriteBatchPostsEveryEvent(t *testing.T) {
	client := &mockHTTPClient{status: 200}
	s := newTestRemoteSink(client)

	err := s.WriteBatch(context.Background(), []*audit.Event{
		testEvent("evt-1"), testEvent("evt-2"), testEvent("evt-3"),
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, client.calls)
}

func TestRemoteSink_WriteBatchReportsPerEventFailures(t *testing.T) {
	client := &mockHTTPClient{status: 500}
	s := newTestRemoteSink(client)

	err := s.WriteBatch(context.Background(), []*audit.Event{
		testEvent("evt-1"), testEvent("evt-2"),
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "evt-1")
	assert.Contains(t, err.Error(), "evt-2")
	// every event is attempted even when earlier ones fail
	assert.Equal(t, 2, client.calls)
}
