package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type draft struct {
	Name  string
	Items []string
}

func TestDialog_StartsClosed(t *testing.T) {
	d := NewDialog[draft](nil)
	assert.False(t, d.IsOpen())
	assert.ErrorIs(t, d.SetDraft(draft{Name: "x"}), domain.ErrDialogClosed)
	assert.ErrorIs(t, d.Submit(func(draft) error { return nil }), domain.ErrDialogClosed)
}

func TestDialog_OpenResetsDraft(t *testing.T) {
	d := NewDialog[draft](nil)
	d.Open()
	require.NoError(t, d.SetDraft(draft{Name: "half typed"}))

	d.Open()
	assert.Equal(t, draft{}, d.Draft())
}

func TestDialog_FailedSubmitKeepsDraftAndStaysOpen(t *testing.T) {
	d := NewDialog[draft](nil)
	d.Open()
	require.NoError(t, d.SetDraft(draft{Name: "kept"}))

	boom := errors.New("boom")
	err := d.Submit(func(draft) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, d.IsOpen())
	assert.Equal(t, "kept", d.Draft().Name)
}

func TestDialog_SuccessfulSubmitClosesAndResets(t *testing.T) {
	d := NewDialog[draft](nil)
	d.Open()
	require.NoError(t, d.SetDraft(draft{Name: "done"}))

	var committed draft
	require.NoError(t, d.Submit(func(dr draft) error {
		committed = dr
		return nil
	}))
	assert.Equal(t, "done", committed.Name)
	assert.False(t, d.IsOpen())
	assert.Equal(t, draft{}, d.Draft())
}

func TestDialog_CloseDiscardsDraft(t *testing.T) {
	d := NewDialog(func() draft { return draft{Items: []string{}} })
	d.Open()
	require.NoError(t, d.Edit(func(dr *draft) { dr.Items = append(dr.Items, "a") }))

	d.Close()
	assert.False(t, d.IsOpen())
	assert.Equal(t, draft{Items: []string{}}, d.Draft())
	assert.ErrorIs(t, d.Edit(func(*draft) {}), domain.ErrDialogClosed)
}

func TestDialog_State(t *testing.T) {
	d := NewDialog[draft](nil)
	d.Open()
	require.NoError(t, d.SetDraft(draft{Name: "n"}))
	assert.Equal(t, DialogState[draft]{Open: true, Draft: draft{Name: "n"}}, d.State())
}

func TestConfirmation_MarkReplacesPending(t *testing.T) {
	var c Confirmation
	_, ok := c.Pending()
	assert.False(t, ok)

	c.Mark("1")
	c.Mark("2")
	id, ok := c.Pending()
	assert.True(t, ok)
	assert.Equal(t, "2", id)
}

func TestConfirmation_CancelHasNoSideEffect(t *testing.T) {
	var c Confirmation
	c.Mark("2")
	c.Cancel()

	called := false
	_, ok, err := c.Confirm(func(string) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, called)
}

func TestConfirmation_ConfirmRemovesAndClears(t *testing.T) {
	var c Confirmation
	c.Mark("2")

	var removed string
	id, ok, err := c.Confirm(func(id string) error {
		removed = id
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", id)
	assert.Equal(t, "2", removed)

	_, pending := c.Pending()
	assert.False(t, pending)
}

func TestConfirmation_ClearsEvenWhenRemoveFails(t *testing.T) {
	var c Confirmation
	c.Mark("9")

	_, ok, err := c.Confirm(func(string) error { return errors.New("store down") })
	assert.Error(t, err)
	assert.True(t, ok)
	_, pending := c.Pending()
	assert.False(t, pending)
}
