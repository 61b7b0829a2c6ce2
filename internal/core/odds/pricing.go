package odds

import "github.com/pitchside/pitchside/internal/core/match"

// RemoveVig3 converts three-way decimal odds to fair probabilities
// by stripping the bookmaker's overround.
func RemoveVig3(a, b, c float64) (float64, float64, float64) {
	rawA := 1.0 / a
	rawB := 1.0 / b
	rawC := 1.0 / c
	total := rawA + rawB + rawC
	return rawA / total, rawB / total, rawC / total
}

// FromProbs prices a three-way market from outcome probabilities with the
// given overround (e.g. 1.06 for a 6% margin). Probabilities are
// normalized first; the resulting odds respect the display floors.
func FromProbs(home, draw, away, overround float64) match.Odds {
	total := home + draw + away
	if total <= 0 {
		return match.Odds{Home: 2.0, Draw: 3.2, Away: 3.5}
	}
	price := func(p, floor float64) float64 {
		o := 1.0 / (p / total * overround)
		if o < floor {
			o = floor
		}
		return round1(o)
	}
	return match.Odds{
		Home: price(home, MinSideOdds),
		Draw: price(draw, MinDrawOdds),
		Away: price(away, MinSideOdds),
	}
}
