package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityForCode(t *testing.T) {
	cases := []struct {
		code     string
		expected Severity
	}{
		{CodeLoginSuccess, SeverityInfo},
		{CodeLoginFailure, SeverityWarn},
		{CodePermissionDenied, SeverityWarn},
		{CodeBruteForceDetected, SeverityError},
		{CodeCSRFViolation, SeverityError},
		{CodeSessionHijackAttempt, SeverityError},
		{CodeLifeplanDelete, SeverityWarn},
		{CodeAccountLocked, SeverityWarn},
		{CodeLifeplanView, SeverityInfo},
		{CodeSystemStartup, SeverityInfo},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.expected, SeverityForCode(tc.code))
		})
	}
}

func TestSeverityForCode_FailureBeatsDetected(t *testing.T) {
	// FAILURE is checked before DETECTED when a code carries both.
	assert.Equal(t, SeverityWarn, SeverityForCode("SEC_DETECTED_FAILURE"))
}

func TestRiskSeverity(t *testing.T) {
	assert.Equal(t, SeverityInfo, RiskSeverity(RiskLow))
	assert.Equal(t, SeverityWarn, RiskSeverity(RiskMedium))
	assert.Equal(t, SeverityError, RiskSeverity(RiskHigh))
	assert.Equal(t, SeverityCritical, RiskSeverity(RiskCritical))
	assert.Equal(t, SeverityInfo, RiskSeverity(RiskLevel("UNKNOWN")))
}

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityCritical.AtLeast(SeverityWarn))
	assert.True(t, SeverityWarn.AtLeast(SeverityWarn))
	assert.False(t, SeverityInfo.AtLeast(SeverityWarn))
}

func TestSeveritiesFrom(t *testing.T) {
	assert.Equal(t,
		[]Severity{SeverityWarn, SeverityError, SeverityCritical},
		SeveritiesFrom(SeverityWarn),
	)
}
