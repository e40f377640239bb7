package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/takanori-w/lifeplan-navigator/pkg/audit"
)

type searchAuditLogsHandler struct {
	logger logrus.FieldLogger
	repo   audit.Repository
}

func NewSearchAuditLogsHandler(logger logrus.FieldLogger, repo audit.Repository) Handler {
	return &searchAuditLogsHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle serves paginated audit log searches. List-valued filters accept
// comma-separated query values; timestamps are RFC3339.
func (h *searchAuditLogsHandler) Handle(c *fiber.Ctx) error {
	filter := audit.Filter{
		ActorUserID: c.Query("actor_user_id"),
		TargetType:  c.Query("target_type"),
		TargetID:    c.Query("target_id"),
		IPAddress:   c.Query("ip_address"),
		EventCodes:  splitQuery(c.Query("event_code")),
		Limit:       c.QueryInt("limit"),
		Offset:      c.QueryInt("offset"),
	}

	for _, v := range splitQuery(c.Query("event_type")) {
		filter.EventTypes = append(filter.EventTypes, audit.EventType(v))
	}
	for _, v := range splitQuery(c.Query("severity")) {
		filter.Severities = append(filter.Severities, audit.Severity(v))
	}
	for _, v := range splitQuery(c.Query("risk_level")) {
		filter.RiskLevels = append(filter.RiskLevels, audit.RiskLevel(v))
	}

	if raw := c.Query("start_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid start_time"})
		}
		filter.StartTime = t
	}
	if raw := c.Query("end_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid end_time"})
		}
		filter.EndTime = t
	}

	result, err := h.repo.Query(c.UserContext(), filter)
	if err != nil {
		h.logger.WithError(err).Error("failed to search audit logs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to search audit logs"})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func splitQuery(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
