package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/service"
	"github.com/ngo-portal/portal-backend/internal/portal/session"
)

// screenActions are the dialog and delete-confirmation posts shared by
// every list screen. Each one redirects back to the screen.
type screenActions[T domain.Record, D any] struct {
	base   string
	screen func(*session.Workspace) *service.Screen[T, D]
}

var (
	ngoActions = screenActions[domain.NGO, domain.NGODraft]{
		base:   "/admin/ngos",
		screen: func(w *session.Workspace) *service.NGOScreen { return w.NGOs },
	}
	adminProjectActions = screenActions[domain.AdminProject, domain.AdminProjectDraft]{
		base:   "/admin/projects",
		screen: func(w *session.Workspace) *service.AdminProjectScreen { return w.AdminProjects },
	}
	ngoProjectActions = screenActions[domain.NGOProject, domain.NGOProjectDraft]{
		base:   "/ngo/projects",
		screen: func(w *session.Workspace) *service.NGOProjectScreen { return w.NGOProjects },
	}
)

func (a screenActions[T, D]) register(g *gin.RouterGroup, s *Shell) {
	g.POST(a.base+"/dialog", a.do(s, func(_ *gin.Context, sc *service.Screen[T, D]) error {
		sc.OpenDialog()
		return nil
	}))
	g.POST(a.base+"/dialog/close", a.do(s, func(_ *gin.Context, sc *service.Screen[T, D]) error {
		sc.CloseDialog()
		return nil
	}))
	g.POST(a.base+"/:id/delete", a.do(s, func(c *gin.Context, sc *service.Screen[T, D]) error {
		sc.MarkForDeletion(c.Param("id"))
		return nil
	}))
	g.POST(a.base+"/delete/cancel", a.do(s, func(_ *gin.Context, sc *service.Screen[T, D]) error {
		sc.CancelDeletion()
		return nil
	}))
	g.POST(a.base+"/delete/confirm", a.do(s, func(c *gin.Context, sc *service.Screen[T, D]) error {
		_, _, err := sc.ConfirmDeletion(c.Request.Context())
		return err
	}))
}

func (a screenActions[T, D]) do(s *Shell, fn func(*gin.Context, *service.Screen[T, D]) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		w := session.FromContext(c)
		if err := fn(c, a.screen(w)); err != nil {
			s.serverError(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, a.base)
	}
}
