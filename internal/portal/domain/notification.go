package domain

import "time"

// Severity distinguishes failure notifications from ordinary ones.
type Severity string

const (
	SeverityDefault     Severity = "default"
	SeverityDestructive Severity = "destructive"
)

// Notification is a transient, non-blocking message shown to the user.
type Notification struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Screen      string    `json:"screen,omitempty"`
	At          time.Time `json:"at"`
}

func (n Notification) Destructive() bool { return n.Severity == SeverityDestructive }
