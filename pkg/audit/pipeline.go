package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	metrics "github.com/takanori-w/lifeplan-navigator/pkg/infra/prometheus"
)

const (
	DefaultBatchSize     = 100
	DefaultFlushInterval = 5 * time.Second

	systemIPAddress = "127.0.0.1"
	systemUserAgent = "lifeplan-navigator-system"
)

// PipelineConfig controls buffering behavior.
type PipelineConfig struct {
	// AsyncLogging enables the in-memory buffer for AUTH/DATA/SYS events.
	// SEC and ADMIN events are always persisted immediately.
	AsyncLogging  bool
	BatchSize     int
	FlushInterval time.Duration
}

// Pipeline owns the event buffer, the flush timer and the sink fan-out.
// One pipeline instance serves the whole process and is safe for concurrent
// use from many in-flight request handlers. Logging operations never return
// an error to the audited business operation; sink failures are isolated,
// logged and counted.
type Pipeline struct {
	logger  logrus.FieldLogger
	builder *Builder
	sinks   []Sink

	async         bool
	batchSize     int
	flushInterval time.Duration

	mu     sync.Mutex
	buffer []*Event

	done         chan struct{}
	loopWG       sync.WaitGroup
	shuttingDown atomic.Bool
	closeOnce    sync.Once
}

func NewPipeline(cfg PipelineConfig, builder *Builder, sinks []Sink, logger logrus.FieldLogger) *Pipeline {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}
	p := &Pipeline{
		logger:        logger,
		builder:       builder,
		sinks:         sinks,
		async:         cfg.AsyncLogging,
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
		done:          make(chan struct{}),
	}
	if p.async {
		p.loopWG.Add(1)
		go p.runFlushLoop()
	}
	return p
}

// Log dispatches a record to the operation matching its category. The
// switch is exhaustive over the closed Record set.
func (p *Pipeline) Log(ctx context.Context, rec Record) {
	switch r := rec.(type) {
	case AuthenticationRecord:
		p.LogAuthentication(ctx, r.Code, r.Actor, r.Request, r.Response, r.Metadata)
	case DataAccessRecord:
		p.LogDataAccess(ctx, r.Code, r.Actor, r.Target, r.Request, r.Response, r.Metadata)
	case DataModificationRecord:
		p.LogDataModification(ctx, r.Code, r.Actor, r.Target, r.PreviousState, r.NewState, r.Request, r.Response, r.Metadata)
	case AdminActionRecord:
		p.LogAdminAction(ctx, r.Code, r.Actor, r.Target, r.Request, r.Response, r.Metadata)
	case SecurityRecord:
		p.LogSecurityEvent(ctx, r.Code, r.Actor, r.Request, r.Response, r.RiskLevel, r.Metadata)
	case SystemRecord:
		p.LogSystemEvent(ctx, r.Code, r.Request, r.Response, r.Metadata)
	default:
		p.logger.WithField("record", rec).Error("unhandled audit record type")
	}
}

// LogAuthentication records an AUTH event.
func (p *Pipeline) LogAuthentication(ctx context.Context, code string, actor ActorInput, req RequestInput, resp ResponseInput, metadata map[string]interface{}) {
	evt := p.builder.Build(EventTypeAuth, code, actor, nil, req, resp, metadata)
	p.persist(ctx, evt)
}

// LogDataAccess records a DATA read event.
func (p *Pipeline) LogDataAccess(ctx context.Context, code string, actor ActorInput, target *TargetInput, req RequestInput, resp ResponseInput, metadata map[string]interface{}) {
	evt := p.builder.Build(EventTypeData, code, actor, target, req, resp, metadata)
	p.persist(ctx, evt)
}

// LogDataModification records a DATA write event. Both state snapshots are
// redacted and the changed top-level keys are computed before redaction can
// mask the comparison.
func (p *Pipeline) LogDataModification(ctx context.Context, code string, actor ActorInput, target TargetInput, previousState, newState map[string]interface{}, req RequestInput, resp ResponseInput, metadata map[string]interface{}) {
	redactor := p.builder.Redactor()
	target.AffectedFields = ChangedFields(previousState, newState)
	target.PreviousState = redactor.Redact(previousState)
	target.NewState = redactor.Redact(newState)

	evt := p.builder.Build(EventTypeData, code, actor, &target, req, resp, metadata)
	p.persist(ctx, evt)
}

// LogAdminAction records an ADMIN event. Admin actions bypass the buffer;
// they are high value and low volume, and must not be lost to a crash
// before the next scheduled flush.
func (p *Pipeline) LogAdminAction(ctx context.Context, code string, actor ActorInput, target *TargetInput, req RequestInput, resp ResponseInput, metadata map[string]interface{}) {
	evt := p.builder.Build(EventTypeAdmin, code, actor, target, req, resp, metadata)
	p.persistImmediately(ctx, evt)
}

// LogSecurityEvent records a SEC event. The risk level is mandatory and
// overrides the code-derived severity. Security events bypass the buffer.
func (p *Pipeline) LogSecurityEvent(ctx context.Context, code string, actor ActorInput, req RequestInput, resp ResponseInput, riskLevel RiskLevel, metadata map[string]interface{}) {
	evt := p.builder.Build(EventTypeSecurity, code, actor, nil, req, resp, metadata)
	evt.RiskLevel = riskLevel
	evt.Severity = RiskSeverity(riskLevel)
	p.persistImmediately(ctx, evt)
}

// LogSystemEvent records a SYS event emitted by the process itself.
func (p *Pipeline) LogSystemEvent(ctx context.Context, code string, req RequestInput, resp ResponseInput, metadata map[string]interface{}) {
	actor := ActorInput{
		Type:      ActorSystem,
		IPAddress: systemIPAddress,
		UserAgent: systemUserAgent,
	}
	evt := p.builder.Build(EventTypeSystem, code, actor, nil, req, resp, metadata)
	p.persist(ctx, evt)
}

// persist enqueues the event when buffering is active, flushing when the
// batch size is reached. After shutdown has begun, or in synchronous mode,
// the event is written before persist returns.
func (p *Pipeline) persist(ctx context.Context, evt *Event) {
	metrics.AuditEventsTotal.WithLabelValues(string(evt.EventType), string(evt.Severity)).Inc()

	if !p.async || p.shuttingDown.Load() {
		p.fanOut(ctx, []*Event{evt})
		return
	}

	p.mu.Lock()
	p.buffer = append(p.buffer, evt)
	size := len(p.buffer)
	var batch []*Event
	if size >= p.batchSize {
		batch = p.buffer
		p.buffer = nil
		size = 0
	}
	p.mu.Unlock()
	metrics.AuditBufferSize.Set(float64(size))

	if batch != nil {
		metrics.AuditFlushesTotal.WithLabelValues(metrics.TriggerBatchSize).Inc()
		p.fanOut(ctx, batch)
	}
}

func (p *Pipeline) persistImmediately(ctx context.Context, evt *Event) {
	metrics.AuditEventsTotal.WithLabelValues(string(evt.EventType), string(evt.Severity)).Inc()
	p.fanOut(ctx, []*Event{evt})
}

// flush atomically claims the buffered events and fans them out. Concurrent
// appends during the fan-out land in the next batch. A no-op when the
// buffer is empty, so racing triggers are harmless.
func (p *Pipeline) flush(trigger string) {
	p.mu.Lock()
	batch := p.buffer
	p.buffer = nil
	p.mu.Unlock()
	metrics.AuditBufferSize.Set(0)

	if len(batch) == 0 {
		return
	}
	metrics.AuditFlushesTotal.WithLabelValues(trigger).Inc()
	p.fanOut(context.Background(), batch)
}

// fanOut writes the batch to every sink concurrently and returns only after
// all sinks have been attempted. A failing sink never blocks or aborts the
// others.
func (p *Pipeline) fanOut(ctx context.Context, events []*Event) {
	if len(events) == 0 {
		return
	}
	var wg sync.WaitGroup
	for _, s := range p.sinks {
		wg.Add(1)
		go func(s Sink) {
			defer wg.Done()
			var err error
			if len(events) == 1 {
				err = s.Write(ctx, events[0])
			} else {
				err = s.WriteBatch(ctx, events)
			}
			if err != nil {
				metrics.AuditSinkWritesTotal.WithLabelValues(s.Name(), "failure").Inc()
				p.logger.WithError(err).
					WithField("sink", s.Name()).
					WithField("events", len(events)).
					Error("audit sink write failed")
				return
			}
			metrics.AuditSinkWritesTotal.WithLabelValues(s.Name(), "success").Inc()
		}(s)
	}
	wg.Wait()
}

func (p *Pipeline) runFlushLoop() {
	defer p.loopWG.Done()
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.safeFlush(metrics.TriggerInterval)
		case <-p.done:
			return
		}
	}
}

// safeFlush keeps a misbehaving sink from killing the timer loop; the next
// tick proceeds normally.
func (p *Pipeline) safeFlush(trigger string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithField("panic", r).Error("audit flush panicked")
		}
	}()
	p.flush(trigger)
}

// BufferLen reports how many events are currently buffered.
func (p *Pipeline) BufferLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buffer)
}

// Shutdown stops the flush timer and drains the buffer synchronously. Any
// log call arriving afterwards is persisted immediately, since no future
// flush is guaranteed. Safe to call more than once.
func (p *Pipeline) Shutdown(ctx context.Context) {
	p.closeOnce.Do(func() {
		p.shuttingDown.Store(true)
		if p.async {
			close(p.done)
			p.loopWG.Wait()
		}
		p.flush(metrics.TriggerShutdown)
		for _, s := range p.sinks {
			s.Close()
		}
	})
}
