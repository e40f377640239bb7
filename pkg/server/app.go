package server

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/takanori-w/lifeplan-navigator/pkg/config"
	handlers "github.com/takanori-w/lifeplan-navigator/pkg/handlers/http"
	"github.com/takanori-w/lifeplan-navigator/pkg/middleware"
)

type (
	AppServerDI struct {
		HandlerTransport       handlers.HandlerTransport
		PanicRecoverMiddleware middleware.Middleware
		AuditAccessMiddleware  middleware.Middleware
		Config                 *config.Config
		Logger                 *logrus.Logger
	}
	AppServer struct {
		*BaseServer
		handlerTransport       handlers.HandlerTransport
		panicRecoverMiddleware middleware.Middleware
		auditAccessMiddleware  middleware.Middleware
	}
)

func NewAppServer(di AppServerDI) *AppServer {
	return &AppServer{
		BaseServer:             NewBaseServer(di.Config, di.Logger),
		handlerTransport:       di.HandlerTransport,
		panicRecoverMiddleware: di.PanicRecoverMiddleware,
		auditAccessMiddleware:  di.AuditAccessMiddleware,
	}
}

func (s *AppServer) Run() error {
	s.setupRoutes()
	s.setupMetricsEndpoint()
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.WithField("addr", addr).Info("Starting server")
	return s.router.Listen(addr)
}

func (s *AppServer) setupRoutes() {
	s.router.Use(s.panicRecoverMiddleware.Middleware())

	s.router.Get("/health", s.handlerTransport.HealthHandler.Handle)

	v1 := s.router.Group("/api/v1")
	{
		// Reads of the audit trail are privileged and audited themselves.
		auditGroup := v1.Group("/audit", s.auditAccessMiddleware.Middleware())
		{
			auditGroup.Get("/logs", s.handlerTransport.SearchAuditLogsHandler.Handle)
			auditGroup.Get("/resources/:type/:id", s.handlerTransport.GetResourceTrailHandler.Handle)
			auditGroup.Get("/security-events", s.handlerTransport.ListSecurityEventsHandler.Handle)
		}
	}
}

func (s *AppServer) Shutdown() error {
	return s.router.Shutdown()
}
