package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	"github.com/takanori-w/lifeplan-navigator/pkg/audit"
	"github.com/takanori-w/lifeplan-navigator/pkg/infra/httpx"
)

const RemoteSinkName = "remote"

const (
	remoteBreakerTimeout     = 30 * time.Second
	remoteBreakerMaxFailures = 5
)

// RemoteConfig configures the remote SIEM endpoint.
type RemoteConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

// RemoteSink forwards events to an external collector over HTTP. Calls run
// behind a circuit breaker so a dead collector cannot stall the pipeline.
type RemoteSink struct {
	cfg     RemoteConfig
	client  httpx.Client
	breaker httpx.CircuitBreaker
	logger  logrus.FieldLogger
}

func NewRemoteSink(logger logrus.FieldLogger) *RemoteSink {
	return &RemoteSink{logger: logger}
}

func (s *RemoteSink) Name() string {
	return RemoteSinkName
}

func (s *RemoteSink) ValidateConfig(settings map[string]interface{}) error {
	var cfg RemoteConfig
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return fmt.Errorf("failed to decode remote sink settings: %w", err)
	}
	if cfg.Endpoint == "" {
		return errors.New("remote sink requires an endpoint")
	}
	return nil
}

func (s *RemoteSink) WithSettings(settings map[string]interface{}) (audit.Sink, error) {
	if err := s.ValidateConfig(settings); err != nil {
		return nil, err
	}
	var cfg RemoteConfig
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode remote sink settings: %w", err)
	}

	timeout := httpx.DefaultTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}

	return &RemoteSink{
		cfg:     cfg,
		client:  httpx.NewClient(timeout),
		breaker: httpx.NewCircuitBreaker("audit-remote", remoteBreakerTimeout, remoteBreakerMaxFailures),
		logger:  s.logger,
	}, nil
}

func (s *RemoteSink) Write(ctx context.Context, evt *audit.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to serialize audit event: %w", err)
	}
	return s.post(body)
}

func (s *RemoteSink) WriteBatch(ctx context.Context, events []*audit.Event) error {
	var errs []error
	for _, evt := range events {
		if err := s.Write(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("event %s: %w", evt.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *RemoteSink) post(body []byte) error {
	return s.breaker.Execute(func() error {
		status, err := s.client.Post(s.cfg.Endpoint, "application/json", body)
		if err != nil {
			return err
		}
		if status >= 400 {
			return fmt.Errorf("remote collector returned status %d", status)
		}
		return nil
	})
}

func (s *RemoteSink) Close() {}
