package driver

import "time"

// Status is the state of one attribute in a batch.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusCached
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusWorking:
		return "rendering"
	case StatusDone:
		return "done"
	case StatusCached:
		return "cached"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Event reports progress on attribute Index of a RenderAll batch.
type Event struct {
	Index   int
	ID      string
	Status  Status
	Elapsed time.Duration
}

// Observer receives batch events. It is called from worker goroutines and
// must be safe for concurrent use.
type Observer func(Event)

// ChannelObserver forwards events to ch. The caller closes ch once
// RenderAll returns.
func ChannelObserver(ch chan<- Event) Observer {
	return func(ev Event) { ch <- ev }
}
