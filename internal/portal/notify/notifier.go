// Package notify delivers transient user-facing notifications. Delivery is
// fire-and-forget: notifiers never report errors back to the workflow that
// raised the notification and must not block it.
package notify

import (
	"context"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, n domain.Notification)

func (f Func) Notify(ctx context.Context, n domain.Notification) { f(ctx, n) }

// Discard drops every notification.
var Discard Notifier = Func(func(context.Context, domain.Notification) {})

// Multi fans a notification out to several notifiers in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n domain.Notification) {
	for _, x := range m {
		if x != nil {
			x.Notify(ctx, n)
		}
	}
}
