package audit

import "strings"

// SeverityForCode derives the operational severity of an event from its
// code. Rules apply in priority order; the first match wins.
func SeverityForCode(code string) Severity {
	switch {
	case strings.Contains(code, "FAILURE"), strings.Contains(code, "DENIED"):
		return SeverityWarn
	case strings.Contains(code, "DETECTED"),
		strings.Contains(code, "VIOLATION"),
		strings.Contains(code, "ATTEMPT"):
		return SeverityError
	case strings.Contains(code, "DELETE"), strings.Contains(code, "PURGE"):
		return SeverityWarn
	case strings.Contains(code, "LOCKED"):
		return SeverityWarn
	default:
		return SeverityInfo
	}
}

var riskSeverity = map[RiskLevel]Severity{
	RiskLow:      SeverityInfo,
	RiskMedium:   SeverityWarn,
	RiskHigh:     SeverityError,
	RiskCritical: SeverityCritical,
}

// RiskSeverity maps a security risk level to its severity. It overrides the
// code-derived severity for SEC events only.
func RiskSeverity(risk RiskLevel) Severity {
	if s, ok := riskSeverity[risk]; ok {
		return s
	}
	return SeverityInfo
}
