package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/takanori-w/lifeplan-navigator/pkg/audit"
)

type healthHandler struct {
	logger   logrus.FieldLogger
	pipeline *audit.Pipeline
}

func NewHealthHandler(logger logrus.FieldLogger, pipeline *audit.Pipeline) Handler {
	return &healthHandler{
		logger:   logger,
		pipeline: pipeline,
	}
}

func (h *healthHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":          "ok",
		"buffered_events": h.pipeline.BufferLen(),
	})
}
