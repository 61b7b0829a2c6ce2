// Package odds implements the dynamic in-play odds model: a pure
// projection of the three outcome odds from elapsed time, score, and
// recent-goal momentum, always applied against the session-start line.
package odds

import (
	"math"

	"github.com/pitchside/pitchside/internal/core/match"
)

const (
	// Floors below which displayed odds never drop.
	MinSideOdds = 1.1
	MinDrawOdds = 1.8

	// Leader multiplier floors: the score-skew step alone never shrinks
	// the leading side below skewFloor; combined with time decay the
	// product is bounded by leaderFloor.
	skewFloor   = 0.4
	leaderFloor = 0.3

	// Per-goal-of-lead coefficients.
	skewLeaderStep  = 0.15
	skewTrailerStep = 0.25
	skewDrawStep    = 0.10

	// Time-decay coefficients, scaled by elapsed fraction of the match.
	decayLeaderStep  = 0.20
	decayTrailerStep = 0.30

	// Draw adjustments.
	highScoringDrawStep = 0.15 // per goal beyond 2
	lateLevelDrawFactor = 0.85
	lateLevelFromMinute = 75

	// Momentum window after a goal, in simulated minutes.
	MomentumWindow = 5
	momentumBoost  = 0.10

	// Hysteresis band: displayed odds only move when at least one
	// outcome shifts by this much.
	applyThreshold = 0.1
)

// Inputs is everything the projection reads. LastGoalMinute is -1 when no
// goal has been scored; otherwise LastGoalSide names the scoring side.
type Inputs struct {
	Initial        match.Odds
	Minute         int
	HomeScore      int
	AwayScore      int
	LastGoalMinute int
	LastGoalSide   match.Outcome
}

// FromMatch collects projection inputs from a live match.
func FromMatch(m *match.Match) Inputs {
	in := Inputs{
		Initial:        m.InitialOdds(),
		Minute:         m.Minute(),
		HomeScore:      m.HomeScore(),
		AwayScore:      m.AwayScore(),
		LastGoalMinute: -1,
	}
	if min, side, ok := m.LastGoal(); ok {
		in.LastGoalMinute = min
		in.LastGoalSide = side
	}
	return in
}

// Project recomputes the three outcome odds. Deterministic given its
// inputs; performs no mutation — the caller decides whether to apply the
// result (see ShouldApply).
func Project(in Inputs) match.Odds {
	diff := in.HomeScore - in.AwayScore
	total := in.HomeScore + in.AwayScore

	homeMult, drawMult, awayMult := 1.0, 1.0, 1.0

	// Score skew: the leading side shortens with lead size, the trailing
	// side lengthens, and a lopsided score makes a draw less likely.
	if diff != 0 {
		lead := float64(abs(diff))
		leaderMult := math.Max(1-skewLeaderStep*lead, skewFloor)
		trailerMult := 1 + skewTrailerStep*lead
		drawMult *= 1 + skewDrawStep*lead

		// Time decay: the less time remains, the harder a deficit is to
		// overturn — reinforce the leader and stretch the trailer.
		elapsed := float64(in.Minute) / float64(match.FullTime)
		leaderMult *= 1 - decayLeaderStep*lead*elapsed
		trailerMult *= 1 + decayTrailerStep*lead*elapsed
		leaderMult = math.Max(leaderMult, leaderFloor)

		if diff > 0 {
			homeMult *= leaderMult
			awayMult *= trailerMult
		} else {
			awayMult *= leaderMult
			homeMult *= trailerMult
		}
	}

	// High-scoring matches push the draw out further.
	if total >= 3 {
		drawMult *= 1 + highScoringDrawStep*float64(total-2)
	}

	// Level scores deep into the match shorten the draw.
	if diff == 0 && in.Minute > lateLevelFromMinute {
		drawMult *= lateLevelDrawFactor
	}

	// Momentum: a goal within the window biases toward the scoring side,
	// decaying linearly to zero as the window elapses.
	if in.LastGoalMinute >= 0 {
		since := in.Minute - in.LastGoalMinute
		if since >= 0 && since < MomentumWindow {
			decay := 1 - float64(since)/float64(MomentumWindow)
			boost := momentumBoost * decay
			if in.LastGoalSide == match.OutcomeHome {
				homeMult *= 1 - boost
				awayMult *= 1 + boost
			} else {
				awayMult *= 1 - boost
				homeMult *= 1 + boost
			}
		}
	}

	// Always against the original line — compounding against the
	// displayed odds would drift.
	return match.Odds{
		Home: round1(math.Max(in.Initial.Home*homeMult, MinSideOdds)),
		Draw: round1(math.Max(in.Initial.Draw*drawMult, MinDrawOdds)),
		Away: round1(math.Max(in.Initial.Away*awayMult, MinSideOdds)),
	}
}

// ShouldApply reports whether a projection differs enough from the
// displayed odds to be worth showing. Sub-threshold moves are dropped to
// prevent visual jitter.
func ShouldApply(current, next match.Odds) bool {
	return math.Abs(next.Home-current.Home) >= applyThreshold ||
		math.Abs(next.Draw-current.Draw) >= applyThreshold ||
		math.Abs(next.Away-current.Away) >= applyThreshold
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
