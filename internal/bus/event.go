package bus

import "time"

// Event is a domain event published on the bus. Session carries the
// connection session ID for "conn." events so consumers can discard
// notifications buffered from a superseded session; it is empty for
// events that are not session-scoped.
type Event struct {
	Kind      string
	Session   string
	Timestamp time.Time
	Payload   any
}
