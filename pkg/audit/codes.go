package audit

// Authentication event codes.
const (
	CodeLoginSuccess          = "AUTH_LOGIN_SUCCESS"
	CodeLoginFailure          = "AUTH_LOGIN_FAILURE"
	CodeLogout                = "AUTH_LOGOUT"
	CodePasswordChange        = "AUTH_PASSWORD_CHANGE"
	CodePasswordResetRequest  = "AUTH_PASSWORD_RESET_REQUEST"
	CodePasswordResetComplete = "AUTH_PASSWORD_RESET_COMPLETE"
	CodeMFAEnabled            = "AUTH_MFA_ENABLED"
	CodeMFADisabled           = "AUTH_MFA_DISABLED"
	CodeSessionExpired        = "AUTH_SESSION_EXPIRED"
	CodeTokenRevoked          = "AUTH_TOKEN_REVOKED"
	CodeAccountLocked         = "AUTH_ACCOUNT_LOCKED"
)

// Data access event codes.
const (
	CodeUserProfileView   = "DATA_USER_PROFILE_VIEW"
	CodeUserProfileUpdate = "DATA_USER_PROFILE_UPDATE"
	CodeLifeplanCreate    = "DATA_LIFEPLAN_CREATE"
	CodeLifeplanView      = "DATA_LIFEPLAN_VIEW"
	CodeLifeplanUpdate    = "DATA_LIFEPLAN_UPDATE"
	CodeLifeplanDelete    = "DATA_LIFEPLAN_DELETE"
	CodeFinancialView     = "DATA_FINANCIAL_VIEW"
	CodeFinancialUpdate   = "DATA_FINANCIAL_UPDATE"
	CodeSimulationRun     = "DATA_SIMULATION_RUN"
	CodeDataExport        = "DATA_EXPORT"
	CodeBulkAccess        = "DATA_BULK_ACCESS"
)

// Administrative event codes.
const (
	CodeAdminUserCreate   = "ADMIN_USER_CREATE"
	CodeAdminUserUpdate   = "ADMIN_USER_UPDATE"
	CodeAdminUserDelete   = "ADMIN_USER_DELETE"
	CodeAdminUserDisable  = "ADMIN_USER_DISABLE"
	CodeAdminRoleChange   = "ADMIN_ROLE_CHANGE"
	CodeAdminConfigChange = "ADMIN_CONFIG_CHANGE"
	CodeAdminDataPurge    = "ADMIN_DATA_PURGE"
	CodeAdminAuditAccess  = "ADMIN_AUDIT_ACCESS"
)

// Security event codes.
const (
	CodeBruteForceDetected   = "SEC_BRUTE_FORCE_DETECTED"
	CodeSuspiciousAccess     = "SEC_SUSPICIOUS_ACCESS"
	CodeGeoAnomaly           = "SEC_GEO_ANOMALY"
	CodeSessionHijackAttempt = "SEC_SESSION_HIJACK_ATTEMPT"
	CodeCSRFViolation        = "SEC_CSRF_VIOLATION"
	CodeSQLInjectionAttempt  = "SEC_SQL_INJECTION_ATTEMPT"
	CodeXSSAttempt           = "SEC_XSS_ATTEMPT"
	CodeRateLimitExceeded    = "SEC_RATE_LIMIT_EXCEEDED"
	CodePermissionDenied     = "SEC_PERMISSION_DENIED"
	CodeInvalidInput         = "SEC_INVALID_INPUT"
)

// System event codes.
const (
	CodeSystemStartup       = "SYS_STARTUP"
	CodeSystemShutdown      = "SYS_SHUTDOWN"
	CodeConfigReload        = "SYS_CONFIG_RELOAD"
	CodeDatabaseConnection  = "SYS_DATABASE_CONNECTION"
	CodeExternalServiceCall = "SYS_EXTERNAL_SERVICE_CALL"
	CodeBatchJobStart       = "SYS_BATCH_JOB_START"
	CodeBatchJobComplete    = "SYS_BATCH_JOB_COMPLETE"
	CodeBatchJobFailure     = "SYS_BATCH_JOB_FAILURE"
)

var eventNames = map[string]string{
	CodeLoginSuccess:          "Login success",
	CodeLoginFailure:          "Login failure",
	CodeLogout:                "Logout",
	CodePasswordChange:        "Password change",
	CodePasswordResetRequest:  "Password reset requested",
	CodePasswordResetComplete: "Password reset completed",
	CodeMFAEnabled:            "MFA enabled",
	CodeMFADisabled:           "MFA disabled",
	CodeSessionExpired:        "Session expired",
	CodeTokenRevoked:          "Token revoked",
	CodeAccountLocked:         "Account locked",

	CodeUserProfileView:   "Profile viewed",
	CodeUserProfileUpdate: "Profile updated",
	CodeLifeplanCreate:    "Life plan created",
	CodeLifeplanView:      "Life plan viewed",
	CodeLifeplanUpdate:    "Life plan updated",
	CodeLifeplanDelete:    "Life plan deleted",
	CodeFinancialView:     "Financial data viewed",
	CodeFinancialUpdate:   "Financial data updated",
	CodeSimulationRun:     "Simulation run",
	CodeDataExport:        "Data exported",
	CodeBulkAccess:        "Bulk data access",

	CodeAdminUserCreate:   "User created",
	CodeAdminUserUpdate:   "User updated",
	CodeAdminUserDelete:   "User deleted",
	CodeAdminUserDisable:  "User disabled",
	CodeAdminRoleChange:   "Role changed",
	CodeAdminConfigChange: "Configuration changed",
	CodeAdminDataPurge:    "Data purged",
	CodeAdminAuditAccess:  "Audit log accessed",

	CodeBruteForceDetected:   "Brute force detected",
	CodeSuspiciousAccess:     "Suspicious access",
	CodeGeoAnomaly:           "Geographic anomaly",
	CodeSessionHijackAttempt: "Session hijack attempt",
	CodeCSRFViolation:        "CSRF violation",
	CodeSQLInjectionAttempt:  "SQL injection attempt",
	CodeXSSAttempt:           "XSS attempt",
	CodeRateLimitExceeded:    "Rate limit exceeded",
	CodePermissionDenied:     "Permission denied",
	CodeInvalidInput:         "Invalid input",

	CodeSystemStartup:       "System startup",
	CodeSystemShutdown:      "System shutdown",
	CodeConfigReload:        "Configuration reloaded",
	CodeDatabaseConnection:  "Database connection",
	CodeExternalServiceCall: "External service call",
	CodeBatchJobStart:       "Batch job started",
	CodeBatchJobComplete:    "Batch job completed",
	CodeBatchJobFailure:     "Batch job failed",
}

var eventDescriptions = map[string]string{
	CodeLoginSuccess:  "User successfully logged into the system",
	CodeLoginFailure:  "Login attempt failed with an authentication error",
	CodeLogout:        "User logged out of the system",
	CodePasswordChange: "User changed their password",
	CodeAccountLocked: "Account locked after repeated failed login attempts",

	CodeUserProfileView:   "A user profile was viewed",
	CodeUserProfileUpdate: "A user profile was updated",
	CodeLifeplanCreate:    "A new life plan was created",
	CodeLifeplanView:      "A life plan was viewed",
	CodeLifeplanUpdate:    "A life plan was updated",
	CodeLifeplanDelete:    "A life plan was deleted",

	CodeBruteForceDetected: "A brute force attack attempt was detected",
	CodeCSRFViolation:      "CSRF token validation failed",
	CodeRateLimitExceeded:  "API rate limit was exceeded",
}

// EventName resolves a stable machine code to a human readable name.
// Unknown codes fall back to the code itself.
func EventName(code string) string {
	if name, ok := eventNames[code]; ok {
		return name
	}
	return code
}

// EventDescription resolves a code to its description, empty when unknown.
func EventDescription(code string) string {
	return eventDescriptions[code]
}
