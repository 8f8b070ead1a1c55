// Package notify is the boundary between the state core and whatever surface
// presents outcome messages to the user. Every session transition and every
// completed analysis emits exactly one notification.
package notify

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Notifier receives user-facing outcome messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to the structured log. It stands in for
// the client-side toast presentation.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) {
	log.Info().Str("notification", "success").Msg(msg)
}

func (LogNotifier) Error(msg string) {
	log.Info().Str("notification", "error").Msg(msg)
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu        sync.Mutex
	Successes []string
	Errors    []string
}

func (r *Recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Successes = append(r.Successes, msg)
}

func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, msg)
}

// Count returns the total number of recorded notifications.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Successes) + len(r.Errors)
}
