package engine

import (
	"time"

	"github.com/pitchside/pitchside/internal/core/match"
	"github.com/pitchside/pitchside/internal/core/odds"
	"github.com/pitchside/pitchside/internal/events"
	"github.com/pitchside/pitchside/internal/telemetry"
)

// runClock drives the authoritative elapsed-time counter: one simulated
// second per TickInterval, delivered to the session goroutine.
func (s *Session) runClock() {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.Send(s.tick)
		}
	}
}

// tick advances the match by one simulated second. No-op while an action
// window holds the clock or once the match finished. Runs on the session
// goroutine.
func (s *Session) tick() {
	if s.paused || s.match.Status() != match.StatusLive {
		return
	}

	crossedFullTime := s.match.AdvanceClock()
	telemetry.Metrics.TicksTotal.Inc()
	minute := s.match.Minute()

	// Scripted milestones fire unconditionally, before any random draw,
	// to guarantee early-match narrative texture.
	if text, ok := s.gameplay.MilestoneText(minute); ok {
		ev := s.match.AppendCommentary(text)
		telemetry.Metrics.EventsTotal.WithLabelValues(string(match.KindCommentary)).Inc()
		s.publishMatchEvent(ev)
	}

	if crossedFullTime {
		s.finish()
		return
	}

	if minute%s.gameplay.OddsRefreshInterval == 0 {
		s.maybeRefreshOdds()
	}

	s.generate(minute)
	s.publishSnapshot()
}

// maybeRefreshOdds is the fixed-cadence recompute. Skipped — not queued —
// while a goal-triggered recompute is still in flight, so the periodic
// pass never interleaves with a score mutation.
func (s *Session) maybeRefreshOdds() {
	if s.goalRecomputes > 0 {
		telemetry.Metrics.OddsSkippedTotal.Inc()
		return
	}
	s.refreshOdds()
}

// refreshOdds projects new odds from current state and applies them only
// when the move clears the hysteresis band.
func (s *Session) refreshOdds() {
	if s.match.Status() != match.StatusLive {
		return
	}
	next := odds.Project(odds.FromMatch(s.match))
	if !odds.ShouldApply(s.match.CurrentOdds(), next) {
		return
	}
	s.match.SetOdds(next)
	telemetry.Metrics.OddsUpdatesTotal.Inc()
	s.publish(events.EventOddsUpdate, events.OddsMsg{
		Home: next.Home,
		Draw: next.Draw,
		Away: next.Away,
	})
}
