package core

import "fmt"

// QualityLog collects the diagnostics of one check, in order.
// It is rebuilt for every check and must not be shared between checks.
type QualityLog struct {
	messages  []string
	hasErrors bool
}

// Add records an informational message. It does not affect readiness.
func (q *QualityLog) Add(msg string) {
	q.messages = append(q.messages, msg)
}

// Errorf records a data error. Any recorded error makes the status not ready.
func (q *QualityLog) Errorf(format string, args ...any) {
	q.messages = append(q.messages, "ERROR: "+fmt.Sprintf(format, args...))
	q.hasErrors = true
}

// HasErrors reports whether any data error was recorded.
func (q *QualityLog) HasErrors() bool {
	return q.hasErrors
}

// Messages returns a copy of the recorded messages.
func (q *QualityLog) Messages() []string {
	if len(q.messages) == 0 {
		return nil
	}
	out := make([]string, len(q.messages))
	copy(out, q.messages)
	return out
}

// Status returns not ready with all messages if any error was recorded,
// ready otherwise.
func (q *QualityLog) Status() ProjectStatus {
	if q.hasErrors {
		return NotReady(q.Messages())
	}
	return ProjectStatus{Status: StatusReady, Messages: q.Messages()}
}
