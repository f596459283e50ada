// internal/notify/notify.go
package notify

import (
	"github.com/sirupsen/logrus"
)

// Notifier is the fire-and-forget toast surface. It is write-only: the
// core never reads back from it, and no call may fail.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier renders notifications as structured log lines. The
// browser-facing delivery (toast rendering) is owned by the frontend;
// server-side these are operator-visible breadcrumbs.
type LogNotifier struct {
	log *logrus.Entry
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{
		log: logrus.WithField("component", "notifier"),
	}
}

func (n *LogNotifier) Success(message string) {
	n.log.Info(message)
}

func (n *LogNotifier) Error(message string) {
	n.log.Warn(message)
}

// Fanout duplicates every notification to all sinks, in order.
type Fanout []Notifier

func (f Fanout) Success(message string) {
	for _, n := range f {
		n.Success(message)
	}
}

func (f Fanout) Error(message string) {
	for _, n := range f {
		n.Error(message)
	}
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	Successes []string
	Errors    []string
}

func (r *Recorder) Success(message string) {
	r.Successes = append(r.Successes, message)
}

func (r *Recorder) Error(message string) {
	r.Errors = append(r.Errors, message)
}
