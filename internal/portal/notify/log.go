package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
)

// LogNotifier writes notifications to a zap logger. Destructive ones are
// logged at warn level.
type LogNotifier struct {
	logger    *zap.Logger
	workspace string
}

func NewLogNotifier(logger *zap.Logger, workspaceID string) *LogNotifier {
	return &LogNotifier{logger: logger, workspace: workspaceID}
}

func (l *LogNotifier) Notify(_ context.Context, n domain.Notification) {
	fields := []zap.Field{
		zap.String("workspace", l.workspace),
		zap.String("screen", n.Screen),
		zap.String("title", n.Title),
		zap.String("severity", string(n.Severity)),
	}
	if n.Destructive() {
		l.logger.Warn("notification", fields...)
		return
	}
	l.logger.Info("notification", fields...)
}
