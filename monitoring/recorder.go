// Package monitoring exports counters and gauges about the calling workflow.
// file: monitoring/recorder.go
package monitoring

// Snapshot is the shape of the shared state after an event.
type Snapshot struct {
	QueueLength   int
	Professionals int
	Connections   int
	Calling       bool
}

// Call outcomes.
const (
	OutcomeConfirmed = "confirmed"
	OutcomeAbandoned = "abandoned"
)

// Recorder receives observations from the event loop. Implementations must
// not block: they are called between events.
type Recorder interface {
	EventHandled(event, result string)
	CallEnded(outcome string)
	StateChanged(s Snapshot)
}

// Recorders fans observations out to several recorders.
type Recorders []Recorder

func (rs Recorders) EventHandled(event, result string) {
	for _, r := range rs {
		r.EventHandled(event, result)
	}
}

func (rs Recorders) CallEnded(outcome string) {
	for _, r := range rs {
		r.CallEnded(outcome)
	}
}

func (rs Recorders) StateChanged(s Snapshot) {
	for _, r := range rs {
		r.StateChanged(s)
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) EventHandled(string, string) {}
func (Nop) CallEnded(string)            {}
func (Nop) StateChanged(Snapshot)       {}
