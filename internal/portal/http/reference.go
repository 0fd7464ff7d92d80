package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngo-portal/portal-backend/internal/portal/dashboard"
	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/schema"
	"github.com/ngo-portal/portal-backend/internal/portal/session"
)

func (h *Handler) createSession(c *gin.Context) {
	w, err := session.Start(c, h.manager, h.bundle)
	if err != nil {
		h.fail(c, nil, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "session": w.ID, "lang": w.Language().String()})
}

func (h *Handler) getSession(c *gin.Context) {
	w := session.FromContext(c)
	langs := make([]string, 0, 2)
	for _, t := range h.bundle.Languages() {
		langs = append(langs, t.String())
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"session":   w.ID,
		"lang":      w.Language().String(),
		"languages": langs,
	})
}

// resetSession reseeds the caller's workspace, like a page reload.
func (h *Handler) resetSession(c *gin.Context) {
	w := session.FromContext(c)
	if _, err := h.manager.Reset(c.Request.Context(), w.ID); err != nil {
		h.fail(c, w, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": w.ID})
}

type focusAreaView struct {
	Token  domain.FocusArea `json:"token"`
	Fields int              `json:"fields"`
}

func (h *Handler) listFocusAreas(c *gin.Context) {
	out := make([]focusAreaView, 0, len(domain.FocusAreas()))
	for _, fa := range domain.FocusAreas() {
		out = append(out, focusAreaView{Token: fa, Fields: len(schema.Resolve(fa))})
	}
	indicators := make([]string, 0, len(domain.ProjectIndicators()))
	for _, ind := range domain.ProjectIndicators() {
		indicators = append(indicators, ind.String())
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "focus_areas": out, "indicators": indicators})
}

// focusAreaFields resolves the indicator fields for a token. Unknown
// tokens resolve to no fields.
func (h *Handler) focusAreaFields(c *gin.Context) {
	loc := h.bundle.For(h.bundle.Match(c.Query("lang"), c.GetHeader("Accept-Language")))
	fields := schema.Relabel(schema.ResolveToken(c.Param("token")), loc.FieldLabel)
	c.JSON(http.StatusOK, gin.H{"ok": true, "fields": fields})
}

func (h *Handler) dashboard(c *gin.Context) {
	w := session.FromContext(c)
	sum, err := dashboard.ForWorkspace(c.Request.Context(), w, c.Query("ngo"))
	if err != nil {
		h.fail(c, w, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "dashboard": sum})
}
