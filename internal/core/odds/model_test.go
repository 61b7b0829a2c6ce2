package odds

import (
	"testing"

	"github.com/pitchside/pitchside/internal/core/match"
)

func baseInputs() Inputs {
	return Inputs{
		Initial:        match.Odds{Home: 2.0, Draw: 3.2, Away: 3.5},
		LastGoalMinute: -1,
	}
}

func TestProjectIsDeterministic(t *testing.T) {
	in := baseInputs()
	in.Minute = 55
	in.HomeScore = 2
	in.AwayScore = 1
	in.LastGoalMinute = 53
	in.LastGoalSide = match.OutcomeHome

	a := Project(in)
	b := Project(in)
	if a != b {
		t.Errorf("Project not deterministic: %+v vs %+v", a, b)
	}
}

func TestFloorsHoldEverywhere(t *testing.T) {
	// Short initial odds plus a big lead is the worst case for the floors.
	in := Inputs{
		Initial:        match.Odds{Home: 1.2, Draw: 1.9, Away: 1.2},
		LastGoalMinute: -1,
	}
	for minute := 0; minute <= 90; minute += 5 {
		for home := 0; home <= 6; home++ {
			for away := 0; away <= 6; away++ {
				in.Minute = minute
				in.HomeScore = home
				in.AwayScore = away
				got := Project(in)
				if got.Home < MinSideOdds || got.Away < MinSideOdds {
					t.Fatalf("side odds below floor at t=%d %d-%d: %+v", minute, home, away, got)
				}
				if got.Draw < MinDrawOdds {
					t.Fatalf("draw odds below floor at t=%d %d-%d: %+v", minute, home, away, got)
				}
			}
		}
	}
}

func TestHomeGoalWithMomentumShortensHome(t *testing.T) {
	// Home goal at 40, recompute at 42 with the momentum window intact.
	in := baseInputs()
	in.Minute = 42
	in.HomeScore = 1
	in.LastGoalMinute = 40
	in.LastGoalSide = match.OutcomeHome

	got := Project(in)
	if got.Home >= 2.0 {
		t.Errorf("home odds should shorten below 2.0, got %.1f", got.Home)
	}
	if got.Away <= 3.5 {
		t.Errorf("away odds should lengthen above 3.5, got %.1f", got.Away)
	}
}

func TestMomentumDecaysToZero(t *testing.T) {
	in := baseInputs()
	in.HomeScore = 1
	in.LastGoalMinute = 40
	in.LastGoalSide = match.OutcomeHome

	in.Minute = 45 // window fully elapsed
	expired := Project(in)

	noGoalInfo := in
	noGoalInfo.LastGoalMinute = -1
	plain := Project(noGoalInfo)

	if expired != plain {
		t.Errorf("momentum should be gone after %d minutes: %+v vs %+v", MomentumWindow, expired, plain)
	}
}

func TestLateLevelScoreShortensDraw(t *testing.T) {
	in := baseInputs()
	in.Minute = 80

	got := Project(in)
	if got.Draw >= 3.2 {
		t.Errorf("level score at 80' should shorten the draw, got %.1f", got.Draw)
	}
	if got.Home != 2.0 || got.Away != 3.5 {
		t.Errorf("side odds should be untouched at level score: %+v", got)
	}
}

func TestHighScoringLengthensDraw(t *testing.T) {
	in := baseInputs()
	in.Minute = 50
	in.HomeScore = 2
	in.AwayScore = 2

	got := Project(in)
	if got.Draw <= 3.2 {
		t.Errorf("four goals should lengthen the draw, got %.1f", got.Draw)
	}
}

func TestLeadScalesTheSkew(t *testing.T) {
	in := baseInputs()
	in.Minute = 60
	in.HomeScore = 1
	oneUp := Project(in)

	in.HomeScore = 3
	threeUp := Project(in)

	if threeUp.Home >= oneUp.Home {
		t.Errorf("bigger lead should shorten the leader further: 1-0=%.1f 3-0=%.1f", oneUp.Home, threeUp.Home)
	}
	if threeUp.Away <= oneUp.Away {
		t.Errorf("bigger lead should lengthen the trailer further: 1-0=%.1f 3-0=%.1f", oneUp.Away, threeUp.Away)
	}
}

func TestShouldApplyHysteresis(t *testing.T) {
	current := match.Odds{Home: 2.0, Draw: 3.2, Away: 3.5}

	if ShouldApply(current, current) {
		t.Error("identical odds must not trigger an update")
	}
	if ShouldApply(current, match.Odds{Home: 2.05, Draw: 3.24, Away: 3.46}) {
		t.Error("sub-threshold moves must not trigger an update")
	}
	if !ShouldApply(current, match.Odds{Home: 2.1, Draw: 3.2, Away: 3.5}) {
		t.Error("a 0.1 move on one outcome must trigger an update")
	}
}

func TestFromProbsRespectsFloorsAndMargin(t *testing.T) {
	o := FromProbs(0.45, 0.25, 0.30, 1.06)

	if o.Home < MinSideOdds || o.Away < MinSideOdds || o.Draw < MinDrawOdds {
		t.Errorf("priced odds below floors: %+v", o)
	}

	sum := 1/o.Home + 1/o.Draw + 1/o.Away
	if sum < 1.0 || sum > 1.15 {
		t.Errorf("implied probability sum %.3f outside plausible overround band", sum)
	}

	h, d, a := RemoveVig3(o.Home, o.Draw, o.Away)
	if total := h + d + a; total < 0.999 || total > 1.001 {
		t.Errorf("vig-free probabilities should sum to 1, got %.4f", total)
	}
}
