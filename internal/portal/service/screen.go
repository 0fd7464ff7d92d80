// Package service implements the record-management workflows behind each
// portal screen: search, create-with-validation and delete-with-confirmation.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/locale"
	"github.com/ngo-portal/portal-backend/internal/portal/notify"
	"github.com/ngo-portal/portal-backend/internal/portal/repository"
	"github.com/ngo-portal/portal-backend/internal/portal/search"
	"github.com/ngo-portal/portal-backend/internal/portal/workflow"
)

// Blueprint supplies the entity-specific parts of a screen.
type Blueprint[T domain.Record, D any] interface {
	// Screen names the screen, e.g. "ngos".
	Screen() string
	// Noun selects the notification texts, e.g. "ngo" or "project".
	Noun() string
	Blank() D
	// Normalize returns the draft as validation sees it. Records are built
	// from the draft as entered.
	Normalize(d D) D
	Validate(d D) error
	Build(d D, id string, today time.Time, loc locale.Localizer) T
}

// Options configures a Screen. Nil fields select a discarding notifier, a
// localizer that echoes message keys, time.Now and no metrics.
type Options struct {
	Notifier  notify.Notifier
	Localizer func() locale.Localizer
	Clock     func() time.Time
	Recorder  Recorder
}

// Screen is the state container of one list screen: its record store, the
// current search query, the create dialog and the pending deletion. All
// methods hold the screen lock for their whole duration, so each workflow
// runs to completion before the next one starts.
type Screen[T domain.Record, D any] struct {
	mu       sync.Mutex
	bp       Blueprint[T, D]
	store    repository.Store[T]
	notifier notify.Notifier
	loc      func() locale.Localizer
	clock    func() time.Time
	rec      Recorder

	query   string
	dialog  *workflow.Dialog[D]
	confirm workflow.Confirmation
}

func NewScreen[T domain.Record, D any](bp Blueprint[T, D], store repository.Store[T], opts Options) *Screen[T, D] {
	s := &Screen[T, D]{
		bp:       bp,
		store:    store,
		notifier: opts.Notifier,
		loc:      opts.Localizer,
		clock:    opts.Clock,
		rec:      opts.Recorder,
		dialog:   workflow.NewDialog(bp.Blank),
	}
	if s.notifier == nil {
		s.notifier = notify.Discard
	}
	if s.loc == nil {
		s.loc = func() locale.Localizer { return locale.Localizer{} }
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.rec == nil {
		s.rec = nopRecorder{}
	}
	return s
}

func (s *Screen[T, D]) Name() string { return s.bp.Screen() }

// Seed replaces the records with seed and returns the screen to its initial
// state: empty query, closed dialog, nothing pending.
func (s *Screen[T, D]) Seed(ctx context.Context, seed []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(ctx, seed); err != nil {
		return fmt.Errorf("seed %s: %w", s.bp.Screen(), err)
	}
	s.query = ""
	s.dialog.Close()
	s.confirm.Cancel()
	return nil
}

// All returns every record in store order, ignoring the query.
func (s *Screen[T, D]) All(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List(ctx)
}

// Search sets the query and returns the matching records.
func (s *Screen[T, D]) Search(ctx context.Context, q string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
	return s.visible(ctx)
}

// Visible returns the records matching the current query.
func (s *Screen[T, D]) Visible(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible(ctx)
}

func (s *Screen[T, D]) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *Screen[T, D]) visible(ctx context.Context) ([]T, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.bp.Screen(), err)
	}
	return search.Filter(all, s.query), nil
}

func (s *Screen[T, D]) OpenDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialog.Open()
}

func (s *Screen[T, D]) CloseDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialog.Close()
}

func (s *Screen[T, D]) Dialog() workflow.DialogState[D] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialog.State()
}

func (s *Screen[T, D]) SetDraft(d D) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialog.SetDraft(d)
}

func (s *Screen[T, D]) EditDraft(fn func(*D)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialog.Edit(fn)
}

// SubmitDialog validates the open dialog's draft and, when it passes,
// creates the record. A failed submission leaves the dialog open with the
// draft as entered.
func (s *Screen[T, D]) SubmitDialog(ctx context.Context) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submit(ctx)
}

// Create opens the dialog with draft d and submits it in one step.
func (s *Screen[T, D]) Create(ctx context.Context, d D) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dialog.Open()
	if err := s.dialog.SetDraft(d); err != nil {
		var zero T
		return zero, err
	}
	return s.submit(ctx)
}

func (s *Screen[T, D]) submit(ctx context.Context) (T, error) {
	var created T
	err := s.dialog.Submit(func(d D) error {
		rec, err := s.commit(ctx, d)
		if err != nil {
			return err
		}
		created = rec
		return nil
	})
	return created, err
}

func (s *Screen[T, D]) commit(ctx context.Context, d D) (T, error) {
	var zero T
	loc := s.loc()

	if err := s.bp.Validate(s.bp.Normalize(d)); err != nil {
		s.rejected(ctx, loc, err)
		return zero, err
	}

	id, err := s.store.NextID(ctx)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", s.bp.Noun(), err)
	}
	rec := s.bp.Build(d, id, s.clock(), loc)
	if err := s.store.Append(ctx, rec); err != nil {
		return zero, fmt.Errorf("create %s: %w", s.bp.Noun(), err)
	}

	s.rec.Created(s.bp.Screen())
	s.notify(ctx, loc, "notify."+s.bp.Noun()+".created", domain.SeverityDefault)
	return rec, nil
}

func (s *Screen[T, D]) rejected(ctx context.Context, loc locale.Localizer, err error) {
	var missing *domain.MissingFieldsError
	var email *domain.InvalidEmailError
	switch {
	case errors.As(err, &missing):
		s.rec.ValidationFailed(s.bp.Screen(), "missing_fields")
		s.notify(ctx, loc, "notify.missing_fields", domain.SeverityDestructive)
	case errors.As(err, &email):
		s.rec.ValidationFailed(s.bp.Screen(), "invalid_email")
		s.notify(ctx, loc, "notify.invalid_email", domain.SeverityDestructive)
	}
}

// Edit is exposed by every list screen but does not modify records.
func (s *Screen[T, D]) Edit(_ context.Context, _ string) error {
	return domain.ErrEditUnsupported
}

// MarkForDeletion stages id, replacing any previously staged id.
func (s *Screen[T, D]) MarkForDeletion(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirm.Mark(id)
}

func (s *Screen[T, D]) PendingDeletion() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirm.Pending()
}

// CancelDeletion clears the staged id without touching the store.
func (s *Screen[T, D]) CancelDeletion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirm.Cancel()
}

// ConfirmDeletion removes the staged record and clears the staged id. It
// reports the id that was staged and whether a record was removed; a staged
// id that no longer exists is a no-op.
func (s *Screen[T, D]) ConfirmDeletion(ctx context.Context) (id string, removed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmDeletion(ctx)
}

// Delete stages id and confirms it in one step.
func (s *Screen[T, D]) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirm.Mark(id)
	_, removed, err := s.confirmDeletion(ctx)
	return removed, err
}

func (s *Screen[T, D]) confirmDeletion(ctx context.Context) (string, bool, error) {
	var removed bool
	id, _, err := s.confirm.Confirm(func(id string) error {
		ok, err := s.store.Remove(ctx, id)
		if err != nil {
			return fmt.Errorf("delete %s %s: %w", s.bp.Noun(), id, err)
		}
		removed = ok
		return nil
	})
	if err != nil || !removed {
		return id, false, err
	}

	s.rec.Deleted(s.bp.Screen())
	s.notify(ctx, s.loc(), "notify."+s.bp.Noun()+".deleted", domain.SeverityDefault)
	return id, true, nil
}

func (s *Screen[T, D]) notify(ctx context.Context, loc locale.Localizer, key string, sev domain.Severity) {
	s.notifier.Notify(ctx, domain.Notification{
		Title:       loc.T(key + ".title"),
		Description: loc.T(key + ".description"),
		Severity:    sev,
		Screen:      s.bp.Screen(),
		At:          s.clock(),
	})
}
