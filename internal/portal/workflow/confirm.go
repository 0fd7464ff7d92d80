package workflow

// Confirmation is the two-phase delete state machine:
//
//	idle -> pending(id) -> idle
//
// At most one id is pending; marking another replaces it.
type Confirmation struct {
	pending string
	has     bool
}

// Mark stages id for deletion.
func (c *Confirmation) Mark(id string) {
	c.pending = id
	c.has = true
}

// Pending returns the staged id, if any.
func (c *Confirmation) Pending() (string, bool) {
	return c.pending, c.has
}

// Confirm clears the pending id and hands it to remove. Nothing happens
// when no id is pending. The pending state is cleared even if remove fails.
func (c *Confirmation) Confirm(remove func(id string) error) (id string, ok bool, err error) {
	if !c.has {
		return "", false, nil
	}
	id = c.pending
	c.Cancel()
	return id, true, remove(id)
}

// Cancel clears the pending id without side effects.
func (c *Confirmation) Cancel() {
	c.pending = ""
	c.has = false
}
