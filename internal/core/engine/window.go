package engine

import (
	"github.com/pitchside/pitchside/internal/core/match"
	"github.com/pitchside/pitchside/internal/events"
	"github.com/pitchside/pitchside/internal/telemetry"
)

// Window close reasons. Skip and timeout are equivalent to not placing a
// bet; all three resume the clock.
const (
	closeReasonBet     = "bet"
	closeReasonSkip    = "skip"
	closeReasonTimeout = "timeout"
)

// actionWindow is the short-lived per-action state machine:
// Idle -> Open(eventID, countdown) -> Closed. Only one window exists at a
// time — the paused clock cannot tick a second action event into being.
type actionWindow struct {
	eventID   string
	remaining int
	// gen distinguishes this window from any earlier one, so a stale
	// countdown timer from a closed window can never touch a new one.
	gen int
}

// openWindow pauses the clock and starts the countdown. Runs on the
// session goroutine.
func (s *Session) openWindow(ev *match.Event) {
	s.windowGen++
	s.paused = true
	s.window = &actionWindow{
		eventID:   ev.ID,
		remaining: s.gameplay.ActionWindowSeconds,
		gen:       s.windowGen,
	}
	telemetry.Metrics.WindowsOpened.Inc()
	s.publish(events.EventWindowOpened, events.WindowMsg{
		EventID:     ev.ID,
		SecondsLeft: s.window.remaining,
	})

	gen := s.windowGen
	s.after(s.cfg.TickInterval, func() { s.windowCountdown(gen) })
}

// windowCountdown decrements once per real second. Reaching zero closes
// the window with no bet and no penalty.
func (s *Session) windowCountdown(gen int) {
	if s.window == nil || s.window.gen != gen {
		return
	}
	s.window.remaining--
	if s.window.remaining <= 0 {
		telemetry.Metrics.WindowsTimedOut.Inc()
		s.closeWindow(closeReasonTimeout)
		return
	}
	s.after(s.cfg.TickInterval, func() { s.windowCountdown(gen) })
}

// closeWindow closes the open window and unconditionally resumes the
// clock. No-op when no window is open — a late countdown fire after a
// bet already closed the window must not disturb anything.
func (s *Session) closeWindow(reason string) {
	if s.window == nil {
		return
	}
	eventID := s.window.eventID
	s.window = nil
	s.paused = false

	s.publish(events.EventWindowClosed, events.WindowMsg{
		EventID: eventID,
		Reason:  reason,
	})
}
