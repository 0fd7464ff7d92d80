package service

// Recorder receives workflow outcomes for metrics.
type Recorder interface {
	Created(screen string)
	Deleted(screen string)
	ValidationFailed(screen, reason string)
}

type nopRecorder struct{}

func (nopRecorder) Created(string)                  {}
func (nopRecorder) Deleted(string)                  {}
func (nopRecorder) ValidationFailed(string, string) {}
