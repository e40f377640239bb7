package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginFailure_HashesAttemptedEmail(t *testing.T) {
	sink := &mockSink{}
	p := newTestPipeline(PipelineConfig{AsyncLogging: false}, sink)

	p.LoginFailure(context.Background(), "user@Example.com", "10.0.0.1", "curl/8.0", "bad password")

	evt := sink.last()
	require.NotNil(t, evt)
	assert.Equal(t, CodeLoginFailure, evt.EventCode)
	assert.Equal(t, SeverityWarn, evt.Severity)
	assert.Equal(t, ActorAnonymous, evt.Actor.Type)
	assert.Equal(t, HashEmail("user@example.com"), evt.Actor.EmailHash)
	assert.Equal(t, "AUTH_FAILED", evt.Response.ErrorCode)
	assert.Equal(t, "bad password", evt.Metadata["failure_reason"])
}

func TestProfileUpdate_RedactsStatesAndNamesChanges(t *testing.T) {
	sink := &mockSink{}
	p := newTestPipeline(PipelineConfig{AsyncLogging: false}, sink)

	p.ProfileUpdate(context.Background(), "u-1", "u-2",
		map[string]interface{}{"email": "old@example.com", "nickname": "a"},
		map[string]interface{}{"email": "new@example.com", "nickname": "b"},
		"10.0.0.1")

	evt := sink.last()
	require.NotNil(t, evt)
	require.NotNil(t, evt.Target)
	assert.Equal(t, "user_profile", evt.Target.Type)
	assert.Equal(t, []string{"email", "nickname"}, evt.Target.AffectedFields)
	assert.Equal(t, RedactionMarker, evt.Target.PreviousState["email"])
	assert.Equal(t, RedactionMarker, evt.Target.NewState["email"])
}

func TestBruteForceDetected_IsHighRisk(t *testing.T) {
	sink := &mockSink{}
	p := newTestPipeline(PipelineConfig{AsyncLogging: true, BatchSize: 100, FlushInterval: time.Hour}, sink)
	defer p.Shutdown(context.Background())

	p.BruteForceDetected(context.Background(), "203.0.113.7", 12)

	// security events bypass the buffer even in async mode
	require.Equal(t, 1, sink.count())
	evt := sink.last()
	assert.Equal(t, CodeBruteForceDetected, evt.EventCode)
	assert.Equal(t, RiskHigh, evt.RiskLevel)
	assert.Equal(t, SeverityError, evt.Severity)
	assert.Equal(t, 12, evt.Metadata["attempt_count"])
}

func TestRateLimitExceeded_AnonymousWithoutUser(t *testing.T) {
	sink := &mockSink{}
	p := newTestPipeline(PipelineConfig{AsyncLogging: false}, sink)

	p.RateLimitExceeded(context.Background(), "", "10.0.0.1", "/api/lifeplans")

	evt := sink.last()
	require.NotNil(t, evt)
	assert.Equal(t, ActorAnonymous, evt.Actor.Type)
	assert.Equal(t, RiskLow, evt.RiskLevel)
	assert.Equal(t, SeverityInfo, evt.Severity)
}
