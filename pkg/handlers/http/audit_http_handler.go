package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Audit queries
	SearchAuditLogsHandler    Handler
	GetResourceTrailHandler   Handler
	ListSecurityEventsHandler Handler

	// Operational
	HealthHandler Handler
}
