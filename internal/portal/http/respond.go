package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/session"
)

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}

// fail maps err to a status and envelope. Validation failures carry the
// notification the workflow just raised.
func (h *Handler) fail(c *gin.Context, w *session.Workspace, err error) {
	var missing *domain.MissingFieldsError
	var email *domain.InvalidEmailError

	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"ok":           false,
			"error":        "missing_fields",
			"fields":       missing.Fields,
			"notification": lastNotification(w),
		})
	case errors.As(err, &email):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"ok":           false,
			"error":        "invalid_email",
			"fields":       []string{"email"},
			"notification": lastNotification(w),
		})
	case errors.Is(err, domain.ErrDialogClosed):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrEditUnsupported):
		c.JSON(http.StatusNotImplemented, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "session not found"})
	case errors.Is(err, domain.ErrSessionLimit):
		c.Header("Retry-After", "60")
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrUnknownFocusArea), errors.Is(err, domain.ErrUnknownIndicator):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	default:
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}

func lastNotification(w *session.Workspace) *domain.Notification {
	if w == nil {
		return nil
	}
	recent := w.Feed.Recent(1)
	if len(recent) == 0 {
		return nil
	}
	return &recent[0]
}
