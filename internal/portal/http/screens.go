package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/service"
	"github.com/ngo-portal/portal-backend/internal/portal/session"
)

// screenRoutes describes one list screen's routes. list and item name the
// response fields, e.g. "ngos" and "ngo".
type screenRoutes[T domain.Record, D any] struct {
	list   string
	item   string
	screen func(*session.Workspace) *service.Screen[T, D]
	decode func(*gin.Context) (D, error)
}

func registerScreen[T domain.Record, D any](rg *gin.RouterGroup, h *Handler, r screenRoutes[T, D]) {
	rg.GET("", r.handle(h, r.search))
	rg.POST("", r.handle(h, r.create))
	rg.PATCH("/:id", r.handle(h, r.edit))
	rg.DELETE("/:id", r.handle(h, r.delete))

	rg.GET("/dialog", r.handle(h, r.dialog))
	rg.POST("/dialog", r.handle(h, r.openDialog))
	rg.PUT("/dialog", r.handle(h, r.setDraft))
	rg.DELETE("/dialog", r.handle(h, r.closeDialog))
	rg.POST("/dialog/submit", r.handle(h, r.submit))

	rg.GET("/pending-deletion", r.handle(h, r.pending))
	rg.POST("/:id/pending-deletion", r.handle(h, r.mark))
	rg.POST("/pending-deletion/confirm", r.handle(h, r.confirm))
	rg.DELETE("/pending-deletion", r.handle(h, r.cancel))
}

type screenFunc[T domain.Record, D any] func(c *gin.Context, w *session.Workspace, s *service.Screen[T, D]) error

func (r screenRoutes[T, D]) handle(h *Handler, fn screenFunc[T, D]) gin.HandlerFunc {
	return func(c *gin.Context) {
		w := session.FromContext(c)
		if w == nil {
			h.fail(c, nil, domain.ErrSessionNotFound)
			return
		}
		if err := fn(c, w, r.screen(w)); err != nil {
			h.fail(c, w, err)
		}
	}
}

// search filters by ?q= when given and otherwise reapplies the current
// query.
func (r screenRoutes[T, D]) search(c *gin.Context, _ *session.Workspace, s *service.Screen[T, D]) error {
	var (
		records []T
		err     error
	)
	if q, ok := c.GetQuery("q"); ok {
		records, err = s.Search(c.Request.Context(), q)
	} else {
		records, err = s.Visible(c.Request.Context())
	}
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "query": s.Query(), r.list: nonNil(records)})
	return nil
}

func (r screenRoutes[T, D]) create(c *gin.Context, _ *session.Workspace, s *service.Screen[T, D]) error {
	d, err := r.decode(c)
	if err != nil {
		badRequest(c, err.Error())
		return nil
	}
	rec, err := s.Create(c.Request.Context(), d)
	if err != nil {
		return err
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, r.item: rec})
	return nil
}

func (r screenRoutes[T, D]) edit(c *gin.Context, _ *session.Workspace, s *service.Screen[T, D]) error {
	return s.Edit(c.Request.Context(), c.Param("id"))
}

// delete stages and confirms in one request. Deleting an id that is not
// present succeeds with deleted=false.
func (r screenRoutes[T, D]) delete(c *gin.Context, _ *session.Workspace, s *service.Screen[T, D]) error {
	removed, err := s.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": c.Param("id"), "deleted": removed})
	return nil
}

func (r screenRoutes[T, D]) dialog(c *gin.Context, _ *session.Workspace, s *service.Screen[T, D]) error {
	c.JSON(http.StatusOK, gin.H{"ok": true, "dialog": s.Dialog()})
	return nil
}

func (r screenRoutes[T, D]) openDialog(c *gin.Context, _ *session.Workspace, s *service.Screen[T, D]) error {
	s.OpenDialog()
	c.JSON(http.StatusOK, gin.H{"ok": true, "dialog": s.Dialog()})
	return nil
}

func (r screenRoutes[T, D]) setDraft(c *gin.Context, _ *session.Workspace, s *service.Screen[T, D]) error {
	d, err := r.decode(c)
	if err != nil {
		badRequest(c, err.Error())
		return nil
	}
	if err := s.SetDraft(d); err != nil {
		return err
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "dialog": s.Dialog()})
	return nil
}

func (r screenRoutes[T, D]) closeDialog(c *gin.Context, _ *session.Workspace, s *service.Screen[T, D]) error {
	s.CloseDialog()
	c.JSON(http.StatusOK, gin.H{"ok": true, "dialog": s.Dialog()})
	return nil
}

func (r screenRoutes[T, D]) submit(c *gin.Context, _ *session.Workspace, s *service.Screen[T, D]) error {
	rec, err := s.SubmitDialog(c.Request.Context())
	if err != nil {
		return err
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, r.item: rec, "dialog": s.Dialog()})
	return nil
}

func (r screenRoutes[T, D]) pending(c *gin.Context, _ *session.Workspace, s *service.Screen[T, D]) error {
	id, ok := s.PendingDeletion()
	c.JSON(http.StatusOK, gin.H{"ok": true, "pending": ok, "id": id})
	return nil
}

func (r screenRoutes[T, D]) mark(c *gin.Context, _ *session.Workspace, s *service.Screen[T, D]) error {
	s.MarkForDeletion(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"ok": true, "pending": true, "id": c.Param("id")})
	return nil
}

func (r screenRoutes[T, D]) confirm(c *gin.Context, _ *session.Workspace, s *service.Screen[T, D]) error {
	id, removed, err := s.ConfirmDeletion(c.Request.Context())
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": id, "deleted": removed})
	return nil
}

func (r screenRoutes[T, D]) cancel(c *gin.Context, _ *session.Workspace, s *service.Screen[T, D]) error {
	s.CancelDeletion()
	c.JSON(http.StatusOK, gin.H{"ok": true, "pending": false})
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
