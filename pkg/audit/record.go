package audit

// Record is the sum type over the five event categories. Each variant
// carries only the fields relevant to it, and Pipeline.Log dispatches over
// the closed set, so adding a category is a compile-time-checked change.
type Record interface {
	recordType() EventType
}

// AuthenticationRecord describes an AUTH event.
type AuthenticationRecord struct {
	Code     string
	Actor    ActorInput
	Request  RequestInput
	Response ResponseInput
	Metadata map[string]interface{}
}

// DataAccessRecord describes a DATA read event.
type DataAccessRecord struct {
	Code     string
	Actor    ActorInput
	Target   *TargetInput
	Request  RequestInput
	Response ResponseInput
	Metadata map[string]interface{}
}

// DataModificationRecord describes a DATA write event carrying before and
// after state snapshots.
type DataModificationRecord struct {
	Code          string
	Actor         ActorInput
	Target        TargetInput
	PreviousState map[string]interface{}
	NewState      map[string]interface{}
	Request       RequestInput
	Response      ResponseInput
	Metadata      map[string]interface{}
}

// AdminActionRecord describes an ADMIN event. Always persisted immediately.
type AdminActionRecord struct {
	Code     string
	Actor    ActorInput
	Target   *TargetInput
	Request  RequestInput
	Response ResponseInput
	Metadata map[string]interface{}
}

// SecurityRecord describes a SEC event. Requires a risk level and is always
// persisted immediately.
type SecurityRecord struct {
	Code      string
	Actor     ActorInput
	Request   RequestInput
	Response  ResponseInput
	RiskLevel RiskLevel
	Metadata  map[string]interface{}
}

// SystemRecord describes a SYS event emitted by the process itself.
type SystemRecord struct {
	Code     string
	Request  RequestInput
	Response ResponseInput
	Metadata map[string]interface{}
}

func (AuthenticationRecord) recordType() EventType   { return EventTypeAuth }
func (DataAccessRecord) recordType() EventType       { return EventTypeData }
func (DataModificationRecord) recordType() EventType { return EventTypeData }
func (AdminActionRecord) recordType() EventType      { return EventTypeAdmin }
func (SecurityRecord) recordType() EventType         { return EventTypeSecurity }
func (SystemRecord) recordType() EventType           { return EventTypeSystem }
