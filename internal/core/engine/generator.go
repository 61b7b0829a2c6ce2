package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pitchside/pitchside/internal/core/match"
	"github.com/pitchside/pitchside/internal/events"
	"github.com/pitchside/pitchside/internal/telemetry"
)

// generate decides, once per tick, whether a random event fires. The
// per-tick probability is time-banded: elevated at kickoff and in the
// run-in, lower through the middle of the match. Runs on the session
// goroutine.
func (s *Session) generate(minute int) {
	if s.rng.Float64() < s.gameplay.CrowdChance {
		s.publishCrowd()
	}

	if s.rng.Float64() >= s.gameplay.ProbabilityAt(minute) {
		return
	}

	switch s.drawKind() {
	case match.KindGoal:
		s.emitGoal()
	case match.KindAction:
		s.emitAction(minute)
	default:
		s.emitCommentary(minute)
	}
}

// drawKind picks the event type. Weights bias commentary > action > goal
// to keep goals rare and meaningful.
func (s *Session) drawKind() match.EventKind {
	w := s.gameplay.EventWeights
	r := s.rng.Float64() * (w.Commentary + w.Action + w.Goal)
	switch {
	case r < w.Commentary:
		return match.KindCommentary
	case r < w.Commentary+w.Action:
		return match.KindAction
	default:
		return match.KindGoal
	}
}

// emitGoal mutates the score for a uniformly random side and schedules —
// never synchronously performs — the odds recomputation, so the model
// runs against the settled new score rather than mid-mutation state.
func (s *Session) emitGoal() {
	side := match.OutcomeHome
	if s.rng.Intn(2) == 1 {
		side = match.OutcomeAway
	}

	template := pick(s.rng, s.gameplay.GoalTemplates)
	ev := s.match.Goal(side, fmt.Sprintf(template, s.match.TeamName(side)))
	telemetry.Metrics.EventsTotal.WithLabelValues(string(match.KindGoal)).Inc()
	s.publishMatchEvent(ev)

	// Guard set here, cleared after the recompute runs; the periodic
	// cadence skips while it is up.
	s.goalRecomputes++
	delay := time.Duration(s.gameplay.GoalRecomputeDelayMS) * time.Millisecond
	s.after(delay, func() {
		s.refreshOdds()
		s.goalRecomputes--
	})
}

// emitAction offers a context-eligible proposition and opens the betting
// window, pausing the clock. Falls back to commentary when nothing in the
// template library is eligible.
func (s *Session) emitAction(minute int) {
	eligible := s.gameplay.EligibleActions(minute, s.match.TotalGoals())
	if len(eligible) == 0 {
		s.emitCommentary(minute)
		return
	}
	tmpl := eligible[s.rng.Intn(len(eligible))]

	options := make([]match.BettingOption, len(tmpl.Options))
	for i, o := range tmpl.Options {
		options[i] = match.BettingOption{Label: o.Label, Odds: o.Odds, Outcome: o.Outcome}
	}

	ev := s.match.AppendAction(tmpl.Prompt, options)
	telemetry.Metrics.EventsTotal.WithLabelValues(string(match.KindAction)).Inc()
	s.publishMatchEvent(ev)
	s.openWindow(ev)
}

// emitCommentary appends flavor text from the current phase's pool.
func (s *Session) emitCommentary(minute int) {
	pool := s.gameplay.CommentaryPool(minute)
	if len(pool) == 0 {
		return
	}
	ev := s.match.AppendCommentary(pick(s.rng, pool))
	telemetry.Metrics.EventsTotal.WithLabelValues(string(match.KindCommentary)).Inc()
	s.publishMatchEvent(ev)
}

// publishCrowd emits a fabricated other-player notification. Nothing in
// the ledger or wallet backs it — presentation flavor only.
func (s *Session) publishCrowd() {
	if len(s.gameplay.CrowdPlayers) == 0 {
		return
	}

	action := "placed"
	if s.rng.Float64() < s.gameplay.CrowdWinChance {
		action = "won"
	}
	outcomes := []string{string(match.OutcomeHome), string(match.OutcomeDraw), string(match.OutcomeAway)}
	amount := decimal.NewFromInt(int64(5 + s.rng.Intn(40)*5))

	s.publish(events.EventCrowdActivity, events.CrowdMsg{
		Player:  pick(s.rng, s.gameplay.CrowdPlayers),
		Action:  action,
		Outcome: outcomes[s.rng.Intn(len(outcomes))],
		Amount:  amount.String(),
	})
}

func pick(rng *rand.Rand, pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rng.Intn(len(pool))]
}
