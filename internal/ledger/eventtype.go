package ledger

import "fmt"

// EventType is one of the four attendance modes a session runs in. The
// enumeration order is load-bearing: it is the column order inside every
// date block of the grid.
type EventType int

const (
	AMTimeIn EventType = iota
	AMTimeOut
	PMTimeIn
	PMTimeOut
)

// BlockWidth is the number of columns one date occupies in the grid,
// one column per event type.
const BlockWidth = 4

var eventTypeLabels = [BlockWidth]string{
	"AM Time In",
	"AM Time Out",
	"PM Time In",
	"PM Time Out",
}

// Types returns all event types in enumeration order.
func Types() []EventType {
	return []EventType{AMTimeIn, AMTimeOut, PMTimeIn, PMTimeOut}
}

// Label returns the human-readable label used both in the ledger document
// and in the grid sub-header row.
func (e EventType) Label() string {
	return eventTypeLabels[e]
}

// Index is the event type's offset within a date block.
func (e EventType) Index() int {
	return int(e)
}

// TypeFromNumber maps the operator-facing mode number (1-4) to an event type.
func TypeFromNumber(n int) (EventType, error) {
	if n < 1 || n > BlockWidth {
		return 0, fmt.Errorf("invalid mode %d: must be between 1 and %d", n, BlockWidth)
	}
	return EventType(n - 1), nil
}

// TypeFromLabel resolves a stored mode label back to its event type.
func TypeFromLabel(label string) (EventType, error) {
	for _, e := range Types() {
		if e.Label() == label {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown event type label %q", label)
}
