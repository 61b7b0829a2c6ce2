// Package lobby fabricates the match browser: random fixtures between
// pool teams with plausible pre-match 1X2 lines. Lobby bets placed on a
// fixture settle with the full-match pass once that fixture is played.
package lobby

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/pitchside/pitchside/internal/core/match"
	"github.com/pitchside/pitchside/internal/core/odds"
)

const overround = 1.06

// Fixture is one browsable lobby entry.
type Fixture struct {
	ID       string
	HomeTeam string
	AwayTeam string
	Odds     match.Odds
	Kickoff  time.Time
}

// Seed converts a fixture into the immutable session seed — score and
// clock start from zero regardless of what the lobby displayed.
func (f Fixture) Seed() match.Seed {
	return match.Seed{
		ID:       f.ID,
		HomeTeam: f.HomeTeam,
		AwayTeam: f.AwayTeam,
		Odds:     f.Odds,
	}
}

// Generator produces random fixtures from a team pool.
// Takes an injectable random source so lobbies are reproducible in tests.
type Generator struct {
	rng   *rand.Rand
	teams []string
}

func NewGenerator(teams []string, seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		rng:   rand.New(rand.NewSource(seed)),
		teams: teams,
	}
}

// Fixture draws two distinct teams and prices a plausible 1X2 line:
// a mild home edge, draw probability in a realistic band, and a small
// bookmaker margin on top.
func (g *Generator) Fixture() Fixture {
	hi := g.rng.Intn(len(g.teams))
	ai := g.rng.Intn(len(g.teams) - 1)
	if ai >= hi {
		ai++
	}

	home := 0.25 + g.rng.Float64()*0.30 // 0.25–0.55
	draw := 0.20 + g.rng.Float64()*0.10 // 0.20–0.30
	away := 1 - home - draw

	return Fixture{
		ID:       uuid.NewString(),
		HomeTeam: g.teams[hi],
		AwayTeam: g.teams[ai],
		Odds:     odds.FromProbs(home, draw, away, overround),
		Kickoff:  time.Now().Add(time.Duration(1+g.rng.Intn(30)) * time.Minute),
	}
}

// Fixtures fills a lobby page.
func (g *Generator) Fixtures(n int) []Fixture {
	out := make([]Fixture, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Fixture())
	}
	return out
}
