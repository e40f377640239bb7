package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/takanori-w/lifeplan-navigator/pkg/audit"
)

type getResourceTrailHandler struct {
	logger logrus.FieldLogger
	repo   audit.Repository
}

func NewGetResourceTrailHandler(logger logrus.FieldLogger, repo audit.Repository) Handler {
	return &getResourceTrailHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle returns the change history of one resource, newest first.
func (h *getResourceTrailHandler) Handle(c *fiber.Ctx) error {
	targetType := c.Params("type")
	targetID := c.Params("id")
	if targetType == "" || targetID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "resource type and id are required"})
	}

	events, err := h.repo.ResourceTrail(c.UserContext(), targetType, targetID, c.QueryInt("limit"))
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"target_type": targetType,
			"target_id":   targetID,
		}).Error("failed to load resource trail")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load resource trail"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"target_type": targetType,
		"target_id":   targetID,
		"events":      events,
	})
}
