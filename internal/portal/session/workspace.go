// Package session owns the per-visitor workspaces. A workspace is what a
// single page session sees: three independently seeded screens, a
// notification feed and a display language. Resetting a workspace is the
// equivalent of reloading the page.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/ngo-portal/portal-backend/internal/portal/locale"
	"github.com/ngo-portal/portal-backend/internal/portal/notify"
	"github.com/ngo-portal/portal-backend/internal/portal/seed"
	"github.com/ngo-portal/portal-backend/internal/portal/service"
)

type Workspace struct {
	ID string

	NGOs          *service.NGOScreen
	AdminProjects *service.AdminProjectScreen
	NGOProjects   *service.NGOProjectScreen
	Feed          *notify.Feed

	bundle  *locale.Bundle
	seed    seed.Data
	drops   []dropper
	touches []toucher

	mu       sync.Mutex
	lang     language.Tag
	lastSeen time.Time
}

func (w *Workspace) Language() language.Tag {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lang
}

// SetLanguage switches the display language; unsupported tags fall back
// to the bundle default.
func (w *Workspace) SetLanguage(tag language.Tag) {
	loc := w.bundle.For(tag)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lang = language.Make(loc.Lang())
}

// Localizer renders text in the workspace's current language.
func (w *Workspace) Localizer() locale.Localizer {
	return w.bundle.For(w.Language())
}

func (w *Workspace) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// touch marks the workspace active at now and extends the lifetime of its
// external storage.
func (w *Workspace) touch(ctx context.Context, now time.Time) error {
	w.mu.Lock()
	if now.After(w.lastSeen) {
		w.lastSeen = now
	}
	w.mu.Unlock()

	var errs []error
	for _, t := range w.touches {
		if err := t.Touch(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("touch workspace %s: %w", w.ID, err)
	}
	return nil
}

// Reset discards every change made in the workspace: each screen is
// reseeded and unread notifications are dropped.
func (w *Workspace) Reset(ctx context.Context) error {
	data := w.seed.Clone()
	if err := w.NGOs.Seed(ctx, data.NGOs); err != nil {
		return err
	}
	if err := w.AdminProjects.Seed(ctx, data.AdminProjects); err != nil {
		return err
	}
	if err := w.NGOProjects.Seed(ctx, data.NGOProjects); err != nil {
		return err
	}
	w.Feed.Drain()
	return nil
}

// close releases the workspace's subscribers and external storage.
func (w *Workspace) close(ctx context.Context) error {
	w.Feed.Close()
	var errs []error
	for _, d := range w.drops {
		if err := d.Drop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close workspace %s: %w", w.ID, err)
	}
	return nil
}
