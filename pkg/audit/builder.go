package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActorInput is the caller-supplied, possibly partial actor description.
// Email, when present, is hashed during build and never stored raw.
type ActorInput struct {
	Type        ActorType
	UserID      string
	Username    string
	Email       string
	Roles       []string
	SessionID   string
	IPAddress   string
	UserAgent   string
	GeoLocation *GeoLocation
}

// TargetInput is the caller-supplied, possibly partial target description.
type TargetInput struct {
	Type           string
	ID             string
	Name           string
	OwnerID        string
	PreviousState  map[string]interface{}
	NewState       map[string]interface{}
	AffectedFields []string
}

// RequestInput is the caller-supplied, possibly partial request description.
// Headers and Body arrive unfiltered; the builder redacts them.
type RequestInput struct {
	ID            string
	Method        string
	Path          string
	Query         map[string]string
	Headers       map[string]string
	Body          map[string]interface{}
	ContentType   string
	ContentLength int64
}

// ResponseInput is the caller-supplied outcome description. Success is
// always recomputed from the status code.
type ResponseInput struct {
	StatusCode   int
	ErrorCode    string
	ErrorMessage string
	Duration     time.Duration
	DataSize     int64
}

// BuilderConfig is the process-wide identity stamped on every event.
type BuilderConfig struct {
	ServiceName string
	Version     string
	Environment string
	Hostname    string
}

// Builder assembles fully populated immutable events from partial inputs,
// applying redaction, classification and identifier generation. Building
// never fails; missing optional fields are defaulted.
type Builder struct {
	cfg      BuilderConfig
	redactor *Redactor
}

func NewBuilder(cfg BuilderConfig, redactor *Redactor) *Builder {
	if cfg.Hostname == "" {
		if h, err := os.Hostname(); err == nil {
			cfg.Hostname = h
		} else {
			cfg.Hostname = "unknown"
		}
	}
	if redactor == nil {
		redactor = NewRedactor(nil)
	}
	return &Builder{cfg: cfg, redactor: redactor}
}

func (b *Builder) Redactor() *Redactor {
	return b.redactor
}

// Build assembles one event. Target may be nil for events that do not act
// on a specific resource.
func (b *Builder) Build(
	eventType EventType,
	code string,
	actor ActorInput,
	target *TargetInput,
	req RequestInput,
	resp ResponseInput,
	metadata map[string]interface{},
) *Event {
	requestID := req.ID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	traceID := requestID

	evt := &Event{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		EventType:   eventType,
		EventCode:   code,
		EventName:   EventName(code),
		Description: EventDescription(code),
		Actor:       b.buildActor(actor),
		Request: RequestInfo{
			ID:            requestID,
			Method:        defaultString(req.Method, "UNKNOWN"),
			Path:          defaultString(req.Path, "/"),
			Query:         req.Query,
			Headers:       b.redactor.FilterHeaders(req.Headers),
			Body:          b.redactor.Redact(req.Body),
			ContentType:   req.ContentType,
			ContentLength: req.ContentLength,
		},
		Response: ResponseInfo{
			StatusCode:   resp.StatusCode,
			Success:      resp.StatusCode >= 200 && resp.StatusCode < 400,
			ErrorCode:    resp.ErrorCode,
			ErrorMessage: resp.ErrorMessage,
			DurationMS:   resp.Duration.Milliseconds(),
			DataSize:     resp.DataSize,
		},
		Context: TraceContext{
			Service:       b.cfg.ServiceName,
			Version:       b.cfg.Version,
			Environment:   b.cfg.Environment,
			Hostname:      b.cfg.Hostname,
			TraceID:       traceID,
			SpanID:        newSpanID(),
			CorrelationID: requestID,
		},
		Severity: SeverityForCode(code),
	}

	if target != nil {
		evt.Target = &Target{
			Type:           defaultString(target.Type, "unknown"),
			ID:             defaultString(target.ID, "unknown"),
			Name:           target.Name,
			OwnerID:        target.OwnerID,
			PreviousState:  target.PreviousState,
			NewState:       target.NewState,
			AffectedFields: target.AffectedFields,
		}
	}
	if metadata != nil {
		evt.Metadata = b.redactor.Redact(metadata)
	}
	return evt
}

func (b *Builder) buildActor(in ActorInput) Actor {
	actor := Actor{
		Type:        in.Type,
		UserID:      in.UserID,
		Username:    in.Username,
		Roles:       in.Roles,
		SessionID:   in.SessionID,
		IPAddress:   defaultString(in.IPAddress, UnknownIPAddress),
		UserAgent:   defaultString(in.UserAgent, UnknownUserAgent),
		GeoLocation: in.GeoLocation,
	}
	if actor.Type == "" {
		actor.Type = ActorAnonymous
	}
	if in.Email != "" {
		actor.EmailHash = HashEmail(in.Email)
	}
	return actor
}

// HashEmail returns the hex SHA-256 digest of the lower-cased email, so that
// case variants of one address hash identically.
func HashEmail(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(email)))
	return hex.EncodeToString(sum[:])
}

func newSpanID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
