package match

import (
	"github.com/google/uuid"
)

// FullTime is the terminal clock value in simulated minutes.
const FullTime = 90

type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusLive       Status = "live"
	StatusFinished   Status = "finished"
)

// Outcome identifies one of the three full-match results.
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeDraw Outcome = "draw"
	OutcomeAway Outcome = "away"
)

// Odds holds decimal odds for the three outcomes.
type Odds struct {
	Home float64
	Draw float64
	Away float64
}

// Seed is the immutable description a session starts from — typically a
// lobby fixture with its pre-match odds.
type Seed struct {
	ID       string
	HomeTeam string
	AwayTeam string
	Odds     Odds
}

// Snapshot is a read-only copy of the live display state.
type Snapshot struct {
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
	Minute    int
	Status    Status
	Odds      Odds
}

// Match holds the mutable state of one simulated 90-minute contest:
// score, clock, displayed odds, and the append-only event log.
//
// Match is not safe for concurrent use. All mutation must happen on the
// owning session's goroutine (inside a Send closure).
type Match struct {
	homeTeam string
	awayTeam string

	initial Odds // session-start odds, never changed
	odds    Odds // currently displayed odds

	homeScore int
	awayScore int
	minute    int
	status    Status

	events []*Event
	byID   map[string]*Event

	lastGoalMinute int // -1 until the first goal
	lastGoalSide   Outcome
}

func New(seed Seed) *Match {
	return &Match{
		homeTeam:       seed.HomeTeam,
		awayTeam:       seed.AwayTeam,
		initial:        seed.Odds,
		odds:           seed.Odds,
		status:         StatusNotStarted,
		byID:           make(map[string]*Event),
		lastGoalMinute: -1,
	}
}

func (m *Match) HomeTeam() string  { return m.homeTeam }
func (m *Match) AwayTeam() string  { return m.awayTeam }
func (m *Match) HomeScore() int    { return m.homeScore }
func (m *Match) AwayScore() int    { return m.awayScore }
func (m *Match) Minute() int       { return m.minute }
func (m *Match) Status() Status    { return m.status }
func (m *Match) InitialOdds() Odds { return m.initial }
func (m *Match) CurrentOdds() Odds { return m.odds }

func (m *Match) TotalGoals() int { return m.homeScore + m.awayScore }
func (m *Match) ScoreDiff() int  { return m.homeScore - m.awayScore }

// TeamName returns the display name for a scoring side.
func (m *Match) TeamName(side Outcome) string {
	if side == OutcomeAway {
		return m.awayTeam
	}
	return m.homeTeam
}

// Begin moves the match from not-started to live with a zeroed clock.
func (m *Match) Begin() {
	m.status = StatusLive
	m.minute = 0
}

// AdvanceClock moves the clock forward one simulated minute.
// No-op unless the match is live; reaching full time finishes the match.
// Returns true when this call crossed into full time.
func (m *Match) AdvanceClock() bool {
	if m.status != StatusLive || m.minute >= FullTime {
		return false
	}
	m.minute++
	if m.minute >= FullTime {
		m.status = StatusFinished
		return true
	}
	return false
}

// Goal records a goal for a side: increments the score, remembers the
// momentum anchor, and appends a goal event to the log.
func (m *Match) Goal(side Outcome, description string) *Event {
	if side == OutcomeAway {
		m.awayScore++
	} else {
		m.homeScore++
	}
	m.lastGoalMinute = m.minute
	m.lastGoalSide = side

	return m.append(&Event{
		Kind:        KindGoal,
		Description: description,
		ScoringTeam: side,
	})
}

// LastGoal reports the most recent goal for the momentum window.
// ok is false before the first goal.
func (m *Match) LastGoal() (minute int, side Outcome, ok bool) {
	if m.lastGoalMinute < 0 {
		return 0, "", false
	}
	return m.lastGoalMinute, m.lastGoalSide, true
}

// SetOdds replaces the displayed odds. The caller is responsible for the
// hysteresis check — Match applies whatever it is given.
func (m *Match) SetOdds(o Odds) {
	m.odds = o
}

// Winner compares final scores. Only meaningful once the match finished.
func (m *Match) Winner() Outcome {
	switch {
	case m.homeScore > m.awayScore:
		return OutcomeHome
	case m.awayScore > m.homeScore:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// Snapshot copies the display state.
func (m *Match) Snapshot() Snapshot {
	return Snapshot{
		HomeTeam:  m.homeTeam,
		AwayTeam:  m.awayTeam,
		HomeScore: m.homeScore,
		AwayScore: m.awayScore,
		Minute:    m.minute,
		Status:    m.status,
		Odds:      m.odds,
	}
}

func (m *Match) append(e *Event) *Event {
	e.ID = uuid.NewString()
	e.Minute = m.minute
	m.events = append(m.events, e)
	m.byID[e.ID] = e
	return e
}
