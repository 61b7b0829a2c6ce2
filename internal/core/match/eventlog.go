package match

type EventKind string

const (
	KindGoal       EventKind = "goal"
	KindAction     EventKind = "action"
	KindCommentary EventKind = "commentary"
)

// BettingOption is one selectable proposition on an action event.
// Odds here are literal template odds, independent of the match 1X2 line.
type BettingOption struct {
	Label   string
	Odds    float64
	Outcome string
}

// Event is one entry in the match's append-only event log. Immutable once
// appended, except that action events receive a Resolved/Result patch
// exactly once when their linked bet settles.
type Event struct {
	ID          string
	Minute      int
	Kind        EventKind
	Description string
	ScoringTeam Outcome         // goals only
	Options     []BettingOption // action events only
	Resolved    bool
	Result      string
}

// AppendCommentary adds a flavor-text event. No betting semantics.
func (m *Match) AppendCommentary(description string) *Event {
	return m.append(&Event{
		Kind:        KindCommentary,
		Description: description,
	})
}

// AppendAction adds an action event carrying its betting options.
func (m *Match) AppendAction(description string, options []BettingOption) *Event {
	return m.append(&Event{
		Kind:        KindAction,
		Description: description,
		Options:     options,
	})
}

// EventByID looks up a log entry.
func (m *Match) EventByID(id string) (*Event, bool) {
	e, ok := m.byID[id]
	return e, ok
}

// ResolveEvent patches an action event with its outcome text.
// Returns false if the event is unknown or already resolved —
// events never un-resolve.
func (m *Match) ResolveEvent(id, result string) bool {
	e, ok := m.byID[id]
	if !ok || e.Resolved {
		return false
	}
	e.Resolved = true
	e.Result = result
	return true
}

// Events returns a copy of the event log in append order.
func (m *Match) Events() []Event {
	out := make([]Event, len(m.events))
	for i, e := range m.events {
		out[i] = *e
	}
	return out
}

// EventCount reports the log length without copying.
func (m *Match) EventCount() int { return len(m.events) }
