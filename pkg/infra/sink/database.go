package sink

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/takanori-w/lifeplan-navigator/pkg/audit"
)

const DatabaseSinkName = "database"

// DatabaseSink persists events through the audit repository. Batch writes
// delegate to the repository, which isolates per-row failures itself.
type DatabaseSink struct {
	repo   audit.Repository
	logger logrus.FieldLogger
}

func NewDatabaseSink(repo audit.Repository, logger logrus.FieldLogger) *DatabaseSink {
	return &DatabaseSink{repo: repo, logger: logger}
}

func (s *DatabaseSink) Name() string {
	return DatabaseSinkName
}

func (s *DatabaseSink) ValidateConfig(settings map[string]interface{}) error {
	return nil
}

func (s *DatabaseSink) WithSettings(settings map[string]interface{}) (audit.Sink, error) {
	return s, nil
}

func (s *DatabaseSink) Write(ctx context.Context, evt *audit.Event) error {
	return s.repo.Insert(ctx, evt)
}

func (s *DatabaseSink) WriteBatch(ctx context.Context, events []*audit.Event) error {
	inserted, err := s.repo.InsertBatch(ctx, events)
	if err != nil {
		return err
	}
	if inserted < len(events) {
		s.logger.WithFields(logrus.Fields{
			"requested": len(events),
			"inserted":  inserted,
		}).Warn("audit batch persisted partially")
	}
	return nil
}

func (s *DatabaseSink) Close() {}
