package lobby

import (
	"testing"

	"github.com/pitchside/pitchside/internal/core/odds"
)

var pool = []string{
	"Thames United", "Northgate Rovers", "Harborview FC", "Crestfield Athletic",
	"Ironbridge City", "Seaburn Wanderers",
}

func TestFixtureTeamsAreDistinct(t *testing.T) {
	g := NewGenerator(pool, 42)
	for i := 0; i < 200; i++ {
		f := g.Fixture()
		if f.HomeTeam == f.AwayTeam {
			t.Fatalf("fixture %d pits %q against itself", i, f.HomeTeam)
		}
		if f.ID == "" {
			t.Fatal("fixture missing an ID")
		}
	}
}

func TestFixtureOddsArePlausible(t *testing.T) {
	g := NewGenerator(pool, 42)
	for i := 0; i < 200; i++ {
		f := g.Fixture()
		o := f.Odds
		if o.Home < odds.MinSideOdds || o.Away < odds.MinSideOdds || o.Draw < odds.MinDrawOdds {
			t.Fatalf("fixture %d priced below floors: %+v", i, o)
		}
		// Implied probabilities should carry roughly the configured margin.
		sum := 1/o.Home + 1/o.Draw + 1/o.Away
		if sum < 0.95 || sum > 1.20 {
			t.Fatalf("fixture %d implied sum %.3f out of band: %+v", i, sum, o)
		}
	}
}

func TestGeneratorIsReproducible(t *testing.T) {
	a := NewGenerator(pool, 7).Fixtures(5)
	b := NewGenerator(pool, 7).Fixtures(5)
	if len(a) != 5 || len(b) != 5 {
		t.Fatalf("page sizes %d/%d, want 5", len(a), len(b))
	}
	for i := range a {
		if a[i].HomeTeam != b[i].HomeTeam || a[i].AwayTeam != b[i].AwayTeam || a[i].Odds != b[i].Odds {
			t.Errorf("fixture %d differs across identical seeds: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSeedCarriesFixtureIdentity(t *testing.T) {
	f := NewGenerator(pool, 7).Fixture()
	seed := f.Seed()
	if seed.ID != f.ID || seed.HomeTeam != f.HomeTeam || seed.AwayTeam != f.AwayTeam || seed.Odds != f.Odds {
		t.Errorf("seed %+v does not mirror fixture %+v", seed, f)
	}
}
