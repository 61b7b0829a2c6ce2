package fanout

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pitchside/pitchside/internal/events"
)

// Envelope is the wire format for events sent over the fanout WebSocket.
type Envelope struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	Timestamp time.Time       `json:"ts"`
	Payload   json.RawMessage `json:"payload"`
}

// MarshalEvent serializes an Event into a JSON-encoded Envelope.
func MarshalEvent(evt events.Event) ([]byte, error) {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	env := Envelope{
		Type:      string(evt.Type),
		ID:        evt.ID,
		SessionID: evt.SessionID,
		Timestamp: evt.Timestamp,
		Payload:   payload,
	}
	return json.Marshal(env)
}

// UnmarshalEvent deserializes a JSON Envelope back into a typed Event.
func UnmarshalEvent(data []byte) (events.Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return events.Event{}, fmt.Errorf("unmarshal envelope: %w", err)
	}

	evt := events.Event{
		ID:        env.ID,
		Type:      events.EventType(env.Type),
		SessionID: env.SessionID,
		Timestamp: env.Timestamp,
	}

	var err error
	switch evt.Type {
	case events.EventMatchEvent:
		var p events.MatchEventMsg
		err = json.Unmarshal(env.Payload, &p)
		evt.Payload = p
	case events.EventOddsUpdate:
		var p events.OddsMsg
		err = json.Unmarshal(env.Payload, &p)
		evt.Payload = p
	case events.EventSnapshot:
		var p events.SnapshotMsg
		err = json.Unmarshal(env.Payload, &p)
		evt.Payload = p
	case events.EventWindowOpened, events.EventWindowClosed:
		var p events.WindowMsg
		err = json.Unmarshal(env.Payload, &p)
		evt.Payload = p
	case events.EventBetPlaced:
		var p events.BetMsg
		err = json.Unmarshal(env.Payload, &p)
		evt.Payload = p
	case events.EventBetSettled:
		var p events.BetSettledMsg
		err = json.Unmarshal(env.Payload, &p)
		evt.Payload = p
	case events.EventPowerUpGranted:
		var p events.PowerUpMsg
		err = json.Unmarshal(env.Payload, &p)
		evt.Payload = p
	case events.EventCrowdActivity:
		var p events.CrowdMsg
		err = json.Unmarshal(env.Payload, &p)
		evt.Payload = p
	case events.EventSessionComplete:
		var p events.SessionCompleteMsg
		err = json.Unmarshal(env.Payload, &p)
		evt.Payload = p
	default:
		return evt, fmt.Errorf("unknown event type: %s", env.Type)
	}
	if err != nil {
		return evt, fmt.Errorf("unmarshal %s: %w", env.Type, err)
	}

	return evt, nil
}
