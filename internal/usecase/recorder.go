package usecase

import "time"

// Recorder receives domain measurements from the usecases.
type Recorder interface {
	OrderEvent(eventType string)
	Settlement(gateway, status string, elapsed time.Duration)
	AuthAttempt(action string, ok bool)
}

// NopRecorder discards every measurement.
type NopRecorder struct{}

func (NopRecorder) OrderEvent(string) {}
func (NopRecorder) Settlement(string, string, time.Duration) {}
func (NopRecorder) AuthAttempt(string, bool) {}
