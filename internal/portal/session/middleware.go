package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/locale"
)

const (
	CookieName = "portal_sid"
	HeaderName = "X-Session-Id"
	LangCookie = "lang"

	ctxWorkspace = "portal_workspace"
)

// Middleware attaches the caller's workspace to the request, creating one
// when the request carries no known session id. The id is read from the
// X-Session-Id header, then the portal_sid cookie. A ?lang= parameter
// switches the workspace language and is remembered in a cookie.
func Middleware(m *Manager, bundle *locale.Bundle, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		w, err := lookup(c, m)
		if errors.Is(err, domain.ErrSessionNotFound) {
			w, err = Start(c, m, bundle)
		}
		if errors.Is(err, domain.ErrSessionLimit) {
			logger.Warn("workspace limit reached", zap.Int("workspaces", m.Len()))
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": err.Error()})
			return
		}
		if err != nil {
			logger.Error("failed to open workspace", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "workspace unavailable"})
			return
		}

		if q := strings.TrimSpace(c.Query("lang")); q != "" {
			tag := bundle.Match(q)
			w.SetLanguage(tag)
			c.SetCookie(LangCookie, tag.String(), 365*24*3600, "/", "", false, false)
		}

		c.Set(ctxWorkspace, w)
		c.Next()
	}
}

// Peek attaches the caller's workspace when the request carries a known
// session id and never starts a new one.
func Peek(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if w, err := lookup(c, m); err == nil {
			c.Set(ctxWorkspace, w)
		}
		c.Next()
	}
}

func lookup(c *gin.Context, m *Manager) (*Workspace, error) {
	id := strings.TrimSpace(c.GetHeader(HeaderName))
	if id == "" {
		id, _ = c.Cookie(CookieName)
	}
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}
	return m.Get(c.Request.Context(), id)
}

// Start creates a workspace for the caller and hands its id back in the
// session cookie and header. The language comes from ?lang=, the lang
// cookie or Accept-Language, in that order.
func Start(c *gin.Context, m *Manager, bundle *locale.Bundle) (*Workspace, error) {
	cookieLang, _ := c.Cookie(LangCookie)
	tag := bundle.Match(c.Query("lang"), cookieLang, c.GetHeader("Accept-Language"))

	w, err := m.Create(c.Request.Context(), tag)
	if err != nil {
		return nil, err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, w.ID, 0, "/", "", false, true)
	c.Header(HeaderName, w.ID)
	return w, nil
}

// FromContext returns the workspace attached by Middleware or Peek, or nil.
func FromContext(c *gin.Context) *Workspace {
	if v, ok := c.Get(ctxWorkspace); ok {
		if w, ok := v.(*Workspace); ok {
			return w
		}
	}
	return nil
}
