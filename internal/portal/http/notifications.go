package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/session"
)

const keepAliveInterval = 15 * time.Second

// drainNotifications returns the notifications raised since the last
// drain, oldest first.
func (h *Handler) drainNotifications(c *gin.Context) {
	w := session.FromContext(c)
	c.JSON(http.StatusOK, gin.H{"ok": true, "notifications": nonNil(w.Feed.Drain())})
}

// streamNotifications pushes the workspace's notifications as Server-Sent
// Events until the client goes away or the workspace is closed.
func (h *Handler) streamNotifications(c *gin.Context) {
	w := session.FromContext(c)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}

	events, cancel := w.Feed.Subscribe()
	defer cancel()

	initial, _ := json.Marshal(gin.H{"recent": nonNil(w.Feed.Recent(0))})
	fmt.Fprintf(c.Writer, "event: initial\ndata: %s\n\n", initial)
	flusher.Flush()

	ctx := c.Request.Context()
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()
		case n, ok := <-events:
			if !ok {
				fmt.Fprint(c.Writer, "event: closed\ndata: {}\n\n")
				flusher.Flush()
				return
			}
			writeEvent(c, n)
			flusher.Flush()
		}
	}
}

func writeEvent(c *gin.Context, n domain.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "event: notification\ndata: %s\n\n", data)
}
