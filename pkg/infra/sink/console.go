package sink

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/takanori-w/lifeplan-navigator/pkg/audit"
)

const ConsoleSinkName = "console"

// ConsoleSink emits a compact projection of each event through the process
// logger, routed to the error/warn/info stream by event severity.
type ConsoleSink struct {
	logger logrus.FieldLogger
}

func NewConsoleSink(logger logrus.FieldLogger) *ConsoleSink {
	return &ConsoleSink{logger: logger}
}

func (s *ConsoleSink) Name() string {
	return ConsoleSinkName
}

func (s *ConsoleSink) ValidateConfig(settings map[string]interface{}) error {
	return nil
}

func (s *ConsoleSink) WithSettings(settings map[string]interface{}) (audit.Sink, error) {
	return s, nil
}

func (s *ConsoleSink) Write(ctx context.Context, evt *audit.Event) error {
	fields := logrus.Fields{
		"audit":       true,
		"event_type":  evt.EventType,
		"event_code":  evt.EventCode,
		"event_name":  evt.EventName,
		"severity":    evt.Severity,
		"actor_type":  evt.Actor.Type,
		"actor_ip":    evt.Actor.IPAddress,
		"status_code": evt.Response.StatusCode,
		"success":     evt.Response.Success,
		"duration_ms": evt.Response.DurationMS,
	}
	if evt.Actor.UserID != "" {
		fields["actor_user_id"] = evt.Actor.UserID
	}
	if evt.Target != nil {
		fields["target_type"] = evt.Target.Type
		fields["target_id"] = evt.Target.ID
	}

	entry := s.logger.WithFields(fields)
	switch evt.Severity {
	case audit.SeverityError, audit.SeverityCritical:
		entry.Error(evt.EventCode)
	case audit.SeverityWarn:
		entry.Warn(evt.EventCode)
	default:
		entry.Info(evt.EventCode)
	}
	return nil
}

func (s *ConsoleSink) WriteBatch(ctx context.Context, events []*audit.Event) error {
	for _, evt := range events {
		_ = s.Write(ctx, evt)
	}
	return nil
}

func (s *ConsoleSink) Close() {}
