package events

// EventError is returned by the bus
type EventError string

func (e EventError) Error() string {
	return string(e)
}

const (
	ErrNilEvent       EventError = "event cannot be nil"
	ErrEmptyEventType EventError = "event type cannot be empty"
	ErrNilHandler     EventError = "handler cannot be nil"
	ErrBusClosed      EventError = "event bus closed"
)
