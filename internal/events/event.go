package events

import "time"

// Event is the envelope that flows through the event bus.
// Every session output (match event, odds update, snapshot, settlement)
// is wrapped in one.
type Event struct {
	ID        string
	Type      EventType
	SessionID string
	Timestamp time.Time
	Payload   any
}

type EventType string

const (
	// Match simulation outputs
	EventMatchEvent EventType = "match_event"
	EventOddsUpdate EventType = "odds_update"
	EventSnapshot   EventType = "snapshot"

	// Action-betting window lifecycle
	EventWindowOpened EventType = "window_opened"
	EventWindowClosed EventType = "window_closed"

	// Ledger outputs
	EventBetPlaced       EventType = "bet_placed"
	EventBetSettled      EventType = "bet_settled"
	EventPowerUpGranted  EventType = "powerup_granted"
	EventSessionComplete EventType = "session_complete"

	// Fabricated crowd activity (presentation flavor only)
	EventCrowdActivity EventType = "crowd_activity"
)
