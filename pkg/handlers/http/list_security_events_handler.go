package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/takanori-w/lifeplan-navigator/pkg/audit"
)

const defaultSecurityWindowHours = 24

type listSecurityEventsHandler struct {
	logger logrus.FieldLogger
	repo   audit.Repository
}

func NewListSecurityEventsHandler(logger logrus.FieldLogger, repo audit.Repository) Handler {
	return &listSecurityEventsHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle returns recent security-relevant events at or above a minimum
// severity. The window defaults to the last 24 hours.
func (h *listSecurityEventsHandler) Handle(c *fiber.Ctx) error {
	hours := c.QueryInt("hours", defaultSecurityWindowHours)
	if hours <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "hours must be positive"})
	}

	minSeverity := audit.SeverityWarn
	if raw := c.Query("min_severity"); raw != "" {
		minSeverity = audit.Severity(raw)
	}

	to := time.Now().UTC()
	from := to.Add(-time.Duration(hours) * time.Hour)

	events, err := h.repo.SecurityEvents(c.UserContext(), from, to, minSeverity)
	if err != nil {
		h.logger.WithError(err).Error("failed to list security events")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list security events"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"from":         from,
		"to":           to,
		"min_severity": minSeverity,
		"events":       events,
	})
}
