package audit

import "time"

// EventType categorizes an audit event. It is fixed at build time.
type EventType string

const (
	EventTypeAuth     EventType = "AUTH"
	EventTypeData     EventType = "DATA"
	EventTypeAdmin    EventType = "ADMIN"
	EventTypeSecurity EventType = "SEC"
	EventTypeSystem   EventType = "SYS"
)

// Severity is the operational log level assigned to every event.
type Severity string

const (
	SeverityDebug    Severity = "DEBUG"
	SeverityInfo     Severity = "INFO"
	SeverityWarn     Severity = "WARN"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// severityRank defines the fixed ordering DEBUG < INFO < WARN < ERROR < CRITICAL.
var severityRank = map[Severity]int{
	SeverityDebug:    0,
	SeverityInfo:     1,
	SeverityWarn:     2,
	SeverityError:    3,
	SeverityCritical: 4,
}

func (s Severity) Rank() int {
	return severityRank[s]
}

// AtLeast reports whether s is at or above min in the severity ordering.
func (s Severity) AtLeast(min Severity) bool {
	return s.Rank() >= min.Rank()
}

// SeveritiesFrom returns every severity at or above min, in ascending order.
func SeveritiesFrom(min Severity) []Severity {
	all := []Severity{SeverityDebug, SeverityInfo, SeverityWarn, SeverityError, SeverityCritical}
	out := make([]Severity, 0, len(all))
	for _, s := range all {
		if s.AtLeast(min) {
			out = append(out, s)
		}
	}
	return out
}

// RiskLevel is the security-specific escalation tier, set only on SEC events.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// ActorType identifies the class of identity behind an audited action.
type ActorType string

const (
	ActorUser      ActorType = "user"
	ActorAdmin     ActorType = "admin"
	ActorSystem    ActorType = "system"
	ActorAnonymous ActorType = "anonymous"
)

// Sentinel values used when actor network details are unavailable.
const (
	UnknownIPAddress = "0.0.0.0"
	UnknownUserAgent = "unknown"
)

// GeoLocation is an optional resolved location for an actor IP. Resolution
// itself is an external concern; the pipeline only carries the result.
type GeoLocation struct {
	Country   string  `json:"country,omitempty"`
	Region    string  `json:"region,omitempty"`
	City      string  `json:"city,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// Actor is the identity responsible for an audited action. IPAddress and
// UserAgent are always populated, with sentinel values when unavailable.
// The raw email is never carried, only its one-way hash.
type Actor struct {
	Type        ActorType    `json:"type"`
	UserID      string       `json:"user_id,omitempty"`
	Username    string       `json:"username,omitempty"`
	EmailHash   string       `json:"email_hash,omitempty"`
	Roles       []string     `json:"roles,omitempty"`
	SessionID   string       `json:"session_id,omitempty"`
	IPAddress   string       `json:"ip_address"`
	UserAgent   string       `json:"user_agent"`
	GeoLocation *GeoLocation `json:"geo_location,omitempty"`
}

// Target is the resource an audited action was performed on. PreviousState
// and NewState are always redacted before they land here; AffectedFields
// lists the top-level keys whose serialized value differs between the two.
type Target struct {
	Type           string                 `json:"type"`
	ID             string                 `json:"id"`
	Name           string                 `json:"name,omitempty"`
	OwnerID        string                 `json:"owner_id,omitempty"`
	PreviousState  map[string]interface{} `json:"previous_state,omitempty"`
	NewState       map[string]interface{} `json:"new_state,omitempty"`
	AffectedFields []string               `json:"affected_fields,omitempty"`
}

// RequestInfo captures the inbound HTTP request. Headers hold only the
// allow-listed subset and Body has been redacted.
type RequestInfo struct {
	ID            string                 `json:"id"`
	Method        string                 `json:"method"`
	Path          string                 `json:"path"`
	Query         map[string]string      `json:"query,omitempty"`
	Headers       map[string]string      `json:"headers,omitempty"`
	Body          map[string]interface{} `json:"body,omitempty"`
	ContentType   string                 `json:"content_type,omitempty"`
	ContentLength int64                  `json:"content_length,omitempty"`
}

// ResponseInfo captures the outcome of the audited operation.
// Success is true iff 200 <= StatusCode < 400.
type ResponseInfo struct {
	StatusCode   int    `json:"status_code"`
	Success      bool   `json:"success"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	DurationMS   int64  `json:"duration_ms"`
	DataSize     int64  `json:"data_size,omitempty"`
}

// TraceContext carries process identity plus per-request trace identifiers.
type TraceContext struct {
	Service       string `json:"service"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	Hostname      string `json:"hostname"`
	TraceID       string `json:"trace_id"`
	SpanID        string `json:"span_id"`
	ParentSpanID  string `json:"parent_span_id,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Event is the unit of record. It is created fully populated by the Builder
// and treated as immutable afterwards; corrections are separate, later events.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	EventType   EventType `json:"event_type"`
	EventCode   string    `json:"event_code"`
	EventName   string    `json:"event_name"`
	Description string    `json:"event_description"`

	Actor    Actor        `json:"actor"`
	Target   *Target      `json:"target,omitempty"`
	Request  RequestInfo  `json:"request"`
	Response ResponseInfo `json:"response"`
	Context  TraceContext `json:"context"`

	Metadata map[string]interface{} `json:"metadata,omitempty"`

	Severity  Severity  `json:"severity"`
	RiskLevel RiskLevel `json:"risk_level,omitempty"`
}

// IntegrityVerification states for IntegrityRecord.
const (
	IntegrityPending  = "PENDING"
	IntegrityVerified = "VERIFIED"
	IntegrityFailed   = "FAILED"
)

// IntegrityRecord is a periodic hash-chain checkpoint over a contiguous run
// of events. No producer or verifier exists yet; the chaining algorithm is
// pending product input.
type IntegrityRecord struct {
	ID                 string     `json:"id"`
	PeriodStart        time.Time  `json:"period_start"`
	PeriodEnd          time.Time  `json:"period_end"`
	RecordCount        int64      `json:"record_count"`
	HashChain          string     `json:"hash_chain"`
	PreviousHash       string     `json:"previous_hash,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	VerificationStatus string     `json:"verification_status"`
}
