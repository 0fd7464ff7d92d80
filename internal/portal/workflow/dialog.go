// Package workflow holds the UI state machines shared by every screen: the
// create dialog and the delete confirmation.
package workflow

import "github.com/ngo-portal/portal-backend/internal/portal/domain"

// DialogState is the externally visible state of a create dialog.
type DialogState[D any] struct {
	Open  bool `json:"open"`
	Draft D    `json:"draft"`
}

// Dialog is the create-dialog state machine:
//
//	closed -> open (draft reset) -> submit -> open (failure, draft kept)
//	                                       -> closed (success, draft reset)
//
// Closing at any point discards the draft. Dialog is not safe for
// concurrent use; the owning screen serializes access.
type Dialog[D any] struct {
	open  bool
	draft D
	blank func() D
}

// NewDialog returns a closed dialog. blank produces an empty draft; nil
// means the zero value of D.
func NewDialog[D any](blank func() D) *Dialog[D] {
	if blank == nil {
		blank = func() D {
			var zero D
			return zero
		}
	}
	return &Dialog[D]{draft: blank(), blank: blank}
}

func (d *Dialog[D]) IsOpen() bool { return d.open }

// Open opens the dialog with a fresh draft.
func (d *Dialog[D]) Open() {
	d.open = true
	d.draft = d.blank()
}

// Close closes the dialog and discards the draft.
func (d *Dialog[D]) Close() {
	d.open = false
	d.draft = d.blank()
}

// Draft returns the current draft.
func (d *Dialog[D]) Draft() D { return d.draft }

// SetDraft replaces the draft of an open dialog.
func (d *Dialog[D]) SetDraft(draft D) error {
	if !d.open {
		return domain.ErrDialogClosed
	}
	d.draft = draft
	return nil
}

// Edit applies fn to the draft of an open dialog.
func (d *Dialog[D]) Edit(fn func(*D)) error {
	if !d.open {
		return domain.ErrDialogClosed
	}
	fn(&d.draft)
	return nil
}

// Submit runs commit against the draft. On failure the dialog stays open
// with the draft untouched; on success it closes and the draft is reset.
func (d *Dialog[D]) Submit(commit func(D) error) error {
	if !d.open {
		return domain.ErrDialogClosed
	}
	if err := commit(d.draft); err != nil {
		return err
	}
	d.Close()
	return nil
}

func (d *Dialog[D]) State() DialogState[D] {
	return DialogState[D]{Open: d.open, Draft: d.draft}
}
