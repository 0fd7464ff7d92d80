// Package web renders the portal's HTML screens. Each screen drives the
// same workflows as the JSON API through plain forms, redirecting after
// every successful post.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/locale"
	"github.com/ngo-portal/portal-backend/internal/portal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Shell serves the HTML screens.
type Shell struct {
	manager *session.Manager
	bundle  *locale.Bundle
	logger  *zap.Logger
}

func New(manager *session.Manager, bundle *locale.Bundle, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{manager: manager, bundle: bundle, logger: logger}
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	t, err := template.New("portal").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

var funcs = template.FuncMap{
	"searchbar": func(query, placeholder string) map[string]string {
		return map[string]string{"Query": query, "Placeholder": placeholder}
	},
	"row": func(p Page, base, id string) map[string]any {
		return map[string]any{"Page": p, "Base": base, "ID": id}
	},
	"confirm": func(p Page, base string, pending bool) map[string]any {
		return map[string]any{"Page": p, "Base": base, "HasPending": pending}
	},
}

// Register installs the templates on r and mounts every screen. Unknown
// paths render the not-found page, except under /api where a JSON 404 is
// returned.
func (s *Shell) Register(r *gin.Engine) error {
	t, err := Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(t)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}
	r.StaticFS("/static", http.FS(static))

	withWorkspace := session.Middleware(s.manager, s.bundle, s.logger)
	g := r.Group("", withWorkspace)

	g.GET("/", s.home)
	g.GET("/ngo/login", s.login)
	g.POST("/ngo/login", s.submitLogin)

	g.GET("/admin/dashboard", s.dashboard)

	g.GET("/admin/ngos", s.ngos)
	g.POST("/admin/ngos", s.createNGO)
	ngoActions.register(g, s)

	g.GET("/admin/projects", s.adminProjects)
	g.POST("/admin/projects", s.createAdminProject)
	adminProjectActions.register(g, s)

	g.GET("/ngo/projects", s.ngoProjects)
	g.POST("/ngo/projects", s.createNGOProject)
	g.POST("/ngo/projects/dialog/focus-area", s.selectFocusArea)
	ngoProjectActions.register(g, s)

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
			c.Abort()
		}
	}, session.Peek(s.manager), s.notFound)
	return nil
}

// page builds the template data. Without a workspace the language comes
// from the request and there are no notifications to show.
func (s *Shell) page(c *gin.Context, role Role, titleKey string, data any) Page {
	var (
		loc   locale.Localizer
		notes []domain.Notification
	)
	if w := session.FromContext(c); w != nil {
		loc = w.Localizer()
		notes = w.Feed.Drain()
	} else {
		cookieLang, _ := c.Cookie(session.LangCookie)
		loc = s.bundle.For(s.bundle.Match(c.Query("lang"), cookieLang, c.GetHeader("Accept-Language")))
	}

	langs := make([]string, 0, 2)
	for _, t := range s.bundle.Languages() {
		langs = append(langs, t.String())
	}
	return Page{
		Title:         loc.T(titleKey),
		Role:          role,
		Path:          c.Request.URL.Path,
		Nav:           Nav(role, c.Request.URL.Path),
		Lang:          loc.Lang(),
		Languages:     langs,
		Notifications: notes,
		Data:          data,
		loc:           loc,
	}
}

func (s *Shell) render(c *gin.Context, status int, name string, p Page) {
	c.HTML(status, name, p)
}

func (s *Shell) serverError(c *gin.Context, err error) {
	s.logger.Error("page failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err),
	)
	c.String(http.StatusInternalServerError, "internal error")
}

func (s *Shell) home(c *gin.Context) {
	s.render(c, http.StatusOK, "home.html", s.page(c, RoleNone, "app.title", nil))
}

func (s *Shell) login(c *gin.Context) {
	s.render(c, http.StatusOK, "login.html", s.page(c, RoleNGO, "login.title", nil))
}

// submitLogin accepts any credentials.
func (s *Shell) submitLogin(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/ngo/projects")
}

func (s *Shell) notFound(c *gin.Context) {
	s.render(c, http.StatusNotFound, "not_found.html", s.page(c, RoleNone, "notfound.title", nil))
}
