package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/schema"
	"github.com/ngo-portal/portal-backend/internal/portal/service"
	"github.com/ngo-portal/portal-backend/internal/portal/session"
)

// bindDraft decodes a JSON draft. Unknown focus-area or indicator tokens
// fail decoding.
func bindDraft[D any](c *gin.Context) (D, error) {
	var d D
	if err := c.ShouldBindJSON(&d); err != nil {
		return d, fmt.Errorf("invalid body: %w", err)
	}
	return d, nil
}

func bindNGOProjectDraft(c *gin.Context) (domain.NGOProjectDraft, error) {
	d, err := bindDraft[domain.NGOProjectDraft](c)
	if err != nil {
		return d, err
	}
	service.SelectFocusArea(&d, d.FocusArea)
	return d, nil
}

func (h *Handler) toggleFocusArea(c *gin.Context) {
	fa, err := domain.ParseFocusArea(c.Param("token"))
	if err != nil || !fa.Valid() {
		badRequest(c, "unknown focus area")
		return
	}
	h.editAdminDraft(c, func(d *domain.AdminProjectDraft) { d.ToggleFocusArea(fa) })
}

func (h *Handler) toggleIndicator(c *gin.Context) {
	ind, err := domain.ParseProjectIndicator(c.Param("token"))
	if err != nil || !ind.Valid() {
		badRequest(c, "unknown indicator")
		return
	}
	h.editAdminDraft(c, func(d *domain.AdminProjectDraft) { d.ToggleIndicator(ind) })
}

func (h *Handler) editAdminDraft(c *gin.Context, fn func(*domain.AdminProjectDraft)) {
	w := session.FromContext(c)
	if err := w.AdminProjects.EditDraft(fn); err != nil {
		h.fail(c, w, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "dialog": w.AdminProjects.Dialog()})
}

// selectFocusArea changes the NGO project draft's focus area; the response
// carries the fields to render for it.
func (h *Handler) selectFocusArea(c *gin.Context) {
	fa, err := domain.ParseFocusArea(c.Param("token"))
	if err != nil {
		badRequest(c, "unknown focus area")
		return
	}
	w := session.FromContext(c)
	if err := w.NGOProjects.EditDraft(func(d *domain.NGOProjectDraft) { service.SelectFocusArea(d, fa) }); err != nil {
		h.fail(c, w, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "dialog": w.NGOProjects.Dialog(), "fields": schema.ResolveLabeled(fa, w.Localizer().FieldLabel)})
}

// dialogFields returns the indicator fields for the draft's focus area.
func (h *Handler) dialogFields(c *gin.Context) {
	w := session.FromContext(c)
	st := w.NGOProjects.Dialog()
	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"focus_area": st.Draft.FocusArea,
		"fields":     schema.ResolveLabeled(st.Draft.FocusArea, w.Localizer().FieldLabel),
	})
}
