package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Convenience entry points pre-filled for the application's common audit
// calls. They are thin wrappers over the six logging operations and carry
// no logic of their own.

func (p *Pipeline) LoginSuccess(ctx context.Context, userID, username, email, ipAddress, userAgent string, metadata map[string]interface{}) {
	p.LogAuthentication(ctx, CodeLoginSuccess,
		ActorInput{Type: ActorUser, UserID: userID, Username: username, Email: email, IPAddress: ipAddress, UserAgent: userAgent},
		RequestInput{ID: uuid.NewString(), Method: "POST", Path: "/api/auth/login"},
		ResponseInput{StatusCode: 200},
		metadata,
	)
}

func (p *Pipeline) LoginFailure(ctx context.Context, attemptedEmail, ipAddress, userAgent, reason string) {
	p.LogAuthentication(ctx, CodeLoginFailure,
		ActorInput{Type: ActorAnonymous, Email: attemptedEmail, IPAddress: ipAddress, UserAgent: userAgent},
		RequestInput{ID: uuid.NewString(), Method: "POST", Path: "/api/auth/login"},
		ResponseInput{StatusCode: 401, ErrorCode: "AUTH_FAILED", ErrorMessage: reason},
		map[string]interface{}{"failure_reason": reason},
	)
}

func (p *Pipeline) Logout(ctx context.Context, userID, username, ipAddress string) {
	p.LogAuthentication(ctx, CodeLogout,
		ActorInput{Type: ActorUser, UserID: userID, Username: username, IPAddress: ipAddress},
		RequestInput{ID: uuid.NewString(), Method: "POST", Path: "/api/auth/logout"},
		ResponseInput{StatusCode: 200},
		nil,
	)
}

func (p *Pipeline) ProfileView(ctx context.Context, actorUserID, targetUserID, ipAddress string) {
	p.LogDataAccess(ctx, CodeUserProfileView,
		ActorInput{Type: ActorUser, UserID: actorUserID, IPAddress: ipAddress},
		&TargetInput{Type: "user_profile", ID: targetUserID, OwnerID: targetUserID},
		RequestInput{ID: uuid.NewString(), Method: "GET", Path: "/api/users/" + targetUserID},
		ResponseInput{StatusCode: 200},
		nil,
	)
}

func (p *Pipeline) ProfileUpdate(ctx context.Context, actorUserID, targetUserID string, previousState, newState map[string]interface{}, ipAddress string) {
	p.LogDataModification(ctx, CodeUserProfileUpdate,
		ActorInput{Type: ActorUser, UserID: actorUserID, IPAddress: ipAddress},
		TargetInput{Type: "user_profile", ID: targetUserID, OwnerID: targetUserID},
		previousState, newState,
		RequestInput{ID: uuid.NewString(), Method: "PUT", Path: "/api/users/" + targetUserID},
		ResponseInput{StatusCode: 200},
		nil,
	)
}

func (p *Pipeline) PlanCreate(ctx context.Context, userID, planID, ipAddress string) {
	p.LogDataAccess(ctx, CodeLifeplanCreate,
		ActorInput{Type: ActorUser, UserID: userID, IPAddress: ipAddress},
		&TargetInput{Type: "lifeplan", ID: planID, OwnerID: userID},
		RequestInput{ID: uuid.NewString(), Method: "POST", Path: "/api/lifeplans"},
		ResponseInput{StatusCode: 201},
		nil,
	)
}

func (p *Pipeline) PlanView(ctx context.Context, userID, planID, ownerID, ipAddress string) {
	p.LogDataAccess(ctx, CodeLifeplanView,
		ActorInput{Type: ActorUser, UserID: userID, IPAddress: ipAddress},
		&TargetInput{Type: "lifeplan", ID: planID, OwnerID: ownerID},
		RequestInput{ID: uuid.NewString(), Method: "GET", Path: "/api/lifeplans/" + planID},
		ResponseInput{StatusCode: 200},
		nil,
	)
}

func (p *Pipeline) PlanUpdate(ctx context.Context, userID, planID string, previousState, newState map[string]interface{}, ipAddress string) {
	p.LogDataModification(ctx, CodeLifeplanUpdate,
		ActorInput{Type: ActorUser, UserID: userID, IPAddress: ipAddress},
		TargetInput{Type: "lifeplan", ID: planID, OwnerID: userID},
		previousState, newState,
		RequestInput{ID: uuid.NewString(), Method: "PUT", Path: "/api/lifeplans/" + planID},
		ResponseInput{StatusCode: 200},
		nil,
	)
}

func (p *Pipeline) PlanDelete(ctx context.Context, userID, planID, ipAddress string) {
	p.LogDataAccess(ctx, CodeLifeplanDelete,
		ActorInput{Type: ActorUser, UserID: userID, IPAddress: ipAddress},
		&TargetInput{Type: "lifeplan", ID: planID, OwnerID: userID},
		RequestInput{ID: uuid.NewString(), Method: "DELETE", Path: "/api/lifeplans/" + planID},
		ResponseInput{StatusCode: 200},
		nil,
	)
}

func (p *Pipeline) BruteForceDetected(ctx context.Context, ipAddress string, attemptCount int) {
	p.LogSecurityEvent(ctx, CodeBruteForceDetected,
		ActorInput{Type: ActorAnonymous, IPAddress: ipAddress},
		RequestInput{ID: uuid.NewString(), Method: "POST", Path: "/api/auth/login"},
		ResponseInput{StatusCode: 429, ErrorCode: "BRUTE_FORCE"},
		RiskHigh,
		map[string]interface{}{
			"attempt_count":  attemptCount,
			"detection_time": time.Now().UTC().Format(time.RFC3339),
		},
	)
}

func (p *Pipeline) CSRFViolation(ctx context.Context, ipAddress, userAgent, path string) {
	p.LogSecurityEvent(ctx, CodeCSRFViolation,
		ActorInput{Type: ActorAnonymous, IPAddress: ipAddress, UserAgent: userAgent},
		RequestInput{ID: uuid.NewString(), Method: "POST", Path: path},
		ResponseInput{StatusCode: 403, ErrorCode: "CSRF_INVALID"},
		RiskMedium,
		map[string]interface{}{"violation_type": "invalid_token"},
	)
}

func (p *Pipeline) RateLimitExceeded(ctx context.Context, userID, ipAddress, endpoint string) {
	actorType := ActorAnonymous
	if userID != "" {
		actorType = ActorUser
	}
	p.LogSecurityEvent(ctx, CodeRateLimitExceeded,
		ActorInput{Type: actorType, UserID: userID, IPAddress: ipAddress},
		RequestInput{ID: uuid.NewString(), Method: "GET", Path: endpoint},
		ResponseInput{StatusCode: 429, ErrorCode: "RATE_LIMIT"},
		RiskLow,
		map[string]interface{}{"endpoint": endpoint},
	)
}

func (p *Pipeline) DataExport(ctx context.Context, userID, exportType string, recordCount int, ipAddress string) {
	p.LogDataAccess(ctx, CodeDataExport,
		ActorInput{Type: ActorUser, UserID: userID, IPAddress: ipAddress},
		&TargetInput{Type: "export", ID: uuid.NewString(), OwnerID: userID},
		RequestInput{ID: uuid.NewString(), Method: "GET", Path: "/api/export"},
		ResponseInput{StatusCode: 200},
		map[string]interface{}{"export_type": exportType, "record_count": recordCount},
	)
}
