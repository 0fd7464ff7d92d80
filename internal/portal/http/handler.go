// Package http serves the portal's JSON API. Every route except session
// creation and the reference lookups runs against the caller's workspace.
package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/locale"
	"github.com/ngo-portal/portal-backend/internal/portal/service"
	"github.com/ngo-portal/portal-backend/internal/portal/session"
)

type Handler struct {
	manager *session.Manager
	bundle  *locale.Bundle
	logger  *zap.Logger
}

func New(manager *session.Manager, bundle *locale.Bundle, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{manager: manager, bundle: bundle, logger: logger}
}

// Register mounts the API on rg, normally /api/v1.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/session", h.createSession)
	rg.GET("/focus-areas", h.listFocusAreas)
	rg.GET("/focus-areas/:token/indicators", h.focusAreaFields)

	ws := rg.Group("")
	ws.Use(session.Middleware(h.manager, h.bundle, h.logger))

	ws.GET("/session", h.getSession)
	ws.DELETE("/session", h.resetSession)
	ws.GET("/notifications", h.drainNotifications)
	ws.GET("/notifications/stream", h.streamNotifications)
	ws.GET("/dashboard", h.dashboard)

	ngos := ws.Group("/ngos")
	registerScreen(ngos, h, screenRoutes[domain.NGO, domain.NGODraft]{
		list:   "ngos",
		item:   "ngo",
		screen: func(w *session.Workspace) *service.NGOScreen { return w.NGOs },
		decode: bindDraft[domain.NGODraft],
	})

	adminProjects := ws.Group("/admin/projects")
	registerScreen(adminProjects, h, screenRoutes[domain.AdminProject, domain.AdminProjectDraft]{
		list:   "projects",
		item:   "project",
		screen: func(w *session.Workspace) *service.AdminProjectScreen { return w.AdminProjects },
		decode: bindDraft[domain.AdminProjectDraft],
	})
	adminProjects.POST("/dialog/focus-areas/:token/toggle", h.toggleFocusArea)
	adminProjects.POST("/dialog/indicators/:token/toggle", h.toggleIndicator)

	ngoProjects := ws.Group("/ngo/projects")
	registerScreen(ngoProjects, h, screenRoutes[domain.NGOProject, domain.NGOProjectDraft]{
		list:   "projects",
		item:   "project",
		screen: func(w *session.Workspace) *service.NGOProjectScreen { return w.NGOProjects },
		decode: bindNGOProjectDraft,
	})
	ngoProjects.GET("/dialog/fields", h.dialogFields)
	ngoProjects.PUT("/dialog/focus-area/:token", h.selectFocusArea)
}
