package audit

import (
	"encoding/json"
	"sort"
	"strings"
)

// RedactionMarker replaces string values of matching PII fields.
const RedactionMarker = "[REDACTED]"

// DefaultPIIFields is the field-name list used when none is configured.
var DefaultPIIFields = []string{
	"email", "phone", "address", "ssn", "credit_card", "password", "token",
}

// Allow-listed request headers retained on an event. Everything else is
// dropped before persistence; authorization is truncated, never stored whole.
var allowedHeaders = map[string]struct{}{
	"content-type":    {},
	"accept":          {},
	"x-csrf-token":    {},
	"x-request-id":    {},
	"x-forwarded-for": {},
	"x-real-ip":       {},
}

const authorizationPrefixLen = 10

// Redactor strips personally identifiable fields from arbitrary nested
// key/value payloads. Every externally supplied payload passes through it
// before being attached to an event.
type Redactor struct {
	fields []string
}

func NewRedactor(fields []string) *Redactor {
	if len(fields) == 0 {
		fields = DefaultPIIFields
	}
	lowered := make([]string, len(fields))
	for i, f := range fields {
		lowered[i] = strings.ToLower(f)
	}
	return &Redactor{fields: lowered}
}

// Redact returns a copy of obj where every key matching a configured PII
// field name (case-insensitive substring match) has its value replaced by
// the redaction marker (strings) or nil (non-strings). Nested maps are
// recursed into; arrays and primitives under non-matching keys pass through.
func (r *Redactor) Redact(obj map[string]interface{}) map[string]interface{} {
	if obj == nil {
		return nil
	}
	out := make(map[string]interface{}, len(obj))
	for key, value := range obj {
		switch {
		case r.matches(key):
			if _, ok := value.(string); ok {
				out[key] = RedactionMarker
			} else {
				out[key] = nil
			}
		default:
			if nested, ok := value.(map[string]interface{}); ok {
				out[key] = r.Redact(nested)
			} else {
				out[key] = value
			}
		}
	}
	return out
}

func (r *Redactor) matches(key string) bool {
	lower := strings.ToLower(key)
	for _, field := range r.fields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

// FilterHeaders keeps only the allow-listed headers. An authorization header
// is reduced to a fixed-length prefix plus a redaction marker. Returns nil
// when nothing survives the filter.
func (r *Redactor) FilterHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	filtered := make(map[string]string)
	for key, value := range headers {
		lower := strings.ToLower(key)
		if _, ok := allowedHeaders[lower]; ok {
			filtered[key] = value
		}
		if lower == "authorization" {
			prefix := value
			if len(prefix) > authorizationPrefixLen {
				prefix = prefix[:authorizationPrefixLen]
			}
			filtered[key] = prefix + "***REDACTED***"
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

// ChangedFields returns the sorted set of top-level keys, across the union
// of both states, whose JSON-serialized values differ.
func ChangedFields(prev, next map[string]interface{}) []string {
	keys := make(map[string]struct{}, len(prev)+len(next))
	for k := range prev {
		keys[k] = struct{}{}
	}
	for k := range next {
		keys[k] = struct{}{}
	}

	var changed []string
	for k := range keys {
		before, _ := json.Marshal(prev[k])
		after, _ := json.Marshal(next[k])
		if string(before) != string(after) {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}
