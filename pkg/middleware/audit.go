package middleware

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/takanori-w/lifeplan-navigator/pkg/audit"
	"github.com/takanori-w/lifeplan-navigator/pkg/common"
	"github.com/takanori-w/lifeplan-navigator/pkg/utils"
)

// AuditOptions configures one audited route. ExtractTarget and
// ExtractMetadata receive the parsed JSON request body, which is nil when
// the body is absent or not a JSON object.
type AuditOptions struct {
	EventCode       string
	EventType       audit.EventType
	ExtractTarget   func(c *fiber.Ctx, body map[string]interface{}) *audit.TargetInput
	ExtractMetadata func(c *fiber.Ctx, body map[string]interface{}) map[string]interface{}
	SkipOnSuccess   bool
	SkipOnFailure   bool
}

type auditMiddleware struct {
	logger   logrus.FieldLogger
	pipeline *audit.Pipeline
	opts     AuditOptions
}

func NewAuditMiddleware(logger logrus.FieldLogger, pipeline *audit.Pipeline, opts AuditOptions) Middleware {
	if opts.EventType == "" {
		opts.EventType = audit.EventTypeData
	}
	return &auditMiddleware{
		logger:   logger,
		pipeline: pipeline,
		opts:     opts,
	}
}

func (m *auditMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := uuid.New().String()
		c.Locals(common.RequestIDKey, requestID)
		start := time.Now()

		actor := extractActor(c)
		req := extractRequest(c, requestID)
		body := parseJSONBody(c)
		req.Body = body

		var target *audit.TargetInput
		if m.opts.ExtractTarget != nil {
			target = m.opts.ExtractTarget(c, body)
		}
		metadata := map[string]interface{}{}
		if m.opts.ExtractMetadata != nil {
			for k, v := range m.opts.ExtractMetadata(c, body) {
				metadata[k] = v
			}
		}
		if info := utils.ParseUserAgent(actor.UserAgent, c.Get(fiber.HeaderAcceptLanguage)); info != nil {
			metadata["client_device"] = info.Device
			metadata["client_os"] = info.OS
			metadata["client_browser"] = info.Browser
			if info.Locale != "" {
				metadata["client_locale"] = info.Locale
			}
		}

		err := c.Next()

		if err != nil {
			resp := audit.ResponseInput{
				StatusCode:   fiber.StatusInternalServerError,
				ErrorCode:    "INTERNAL_ERROR",
				ErrorMessage: err.Error(),
				Duration:     time.Since(start),
			}
			if !m.opts.SkipOnFailure {
				metadata["error"] = err.Error()
				m.dispatch(c, actor, target, req, resp, metadata)
			}
			return err
		}

		status := c.Response().StatusCode()
		if m.opts.SkipOnSuccess && status < fiber.StatusBadRequest {
			return nil
		}

		resp := audit.ResponseInput{
			StatusCode: status,
			Duration:   time.Since(start),
			DataSize:   int64(len(c.Response().Body())),
		}
		m.dispatch(c, actor, target, req, resp, metadata)
		return nil
	}
}

func (m *auditMiddleware) dispatch(
	c *fiber.Ctx,
	actor audit.ActorInput,
	target *audit.TargetInput,
	req audit.RequestInput,
	resp audit.ResponseInput,
	metadata map[string]interface{},
) {
	ctx := c.UserContext()
	switch m.opts.EventType {
	case audit.EventTypeAuth:
		m.pipeline.LogAuthentication(ctx, m.opts.EventCode, actor, req, resp, metadata)
	case audit.EventTypeAdmin:
		m.pipeline.LogAdminAction(ctx, m.opts.EventCode, actor, target, req, resp, metadata)
	case audit.EventTypeSystem:
		m.pipeline.LogSystemEvent(ctx, m.opts.EventCode, req, resp, metadata)
	default:
		m.pipeline.LogDataAccess(ctx, m.opts.EventCode, actor, target, req, resp, metadata)
	}
}

// extractActor reads actor identity from proxy-injected headers. The first
// entry of X-Forwarded-For wins over X-Real-Ip; both falling back to the
// unknown-address sentinel.
func extractActor(c *fiber.Ctx) audit.ActorInput {
	userID := c.Get(common.UserIDHeader)

	ip := ""
	if fwd := c.Get(common.ForwardedForHeader); fwd != "" {
		ip = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if ip == "" {
		ip = c.Get(common.RealIPHeader)
	}
	if ip == "" {
		ip = audit.UnknownIPAddress
	}

	ua := c.Get(fiber.HeaderUserAgent)
	if ua == "" {
		ua = audit.UnknownUserAgent
	}

	actorType := audit.ActorAnonymous
	if userID != "" {
		actorType = audit.ActorUser
	}

	return audit.ActorInput{
		Type:      actorType,
		UserID:    userID,
		Username:  c.Get(common.UsernameHeader),
		SessionID: c.Get(common.SessionIDHeader),
		IPAddress: ip,
		UserAgent: ua,
	}
}

func extractRequest(c *fiber.Ctx, requestID string) audit.RequestInput {
	query := make(map[string]string)
	c.Request().URI().QueryArgs().VisitAll(func(k, v []byte) {
		query[string(k)] = string(v)
	})
	if len(query) == 0 {
		query = nil
	}

	headers := make(map[string]string)
	c.Request().Header.VisitAll(func(k, v []byte) {
		headers[string(k)] = string(v)
	})

	return audit.RequestInput{
		ID:            requestID,
		Method:        c.Method(),
		Path:          c.Path(),
		Query:         query,
		Headers:       headers,
		ContentType:   c.Get(fiber.HeaderContentType),
		ContentLength: int64(len(c.Body())),
	}
}

// parseJSONBody decodes the request body without consuming it. Anything
// that is not a JSON object yields nil.
func parseJSONBody(c *fiber.Ctx) map[string]interface{} {
	raw := c.Body()
	if len(raw) == 0 {
		return nil
	}
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	return body
}
