package history

import (
	"path/filepath"
	"testing"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSummary(sessionID string) Summary {
	return Summary{
		SessionID:      sessionID,
		HomeTeam:       "Thames United",
		AwayTeam:       "Northgate Rovers",
		HomeScore:      2,
		AwayScore:      1,
		Winner:         "home",
		InitialBalance: "100",
		FinalBalance:   "90",
		Bets: []BetRecord{
			{BetID: "b-1", Type: "full-match", Outcome: "away", Odds: 3.0, Stake: "50", Won: false, Payout: "0"},
			{BetID: "b-2", Type: "full-match", Outcome: "home", Odds: 1.8, Stake: "50", Won: true, Payout: "90"},
			{BetID: "b-3", Type: "action", Outcome: "yes", Odds: 1.8, Stake: "10", Won: true, Payout: "36", PowerUpApplied: true},
		},
	}
}

func TestArchiveAndReadBack(t *testing.T) {
	s := openTest(t)

	if err := s.Archive(sampleSummary("sess-1")); err != nil {
		t.Fatal(err)
	}

	recent, err := s.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 {
		t.Fatalf("recent returned %d sessions, want 1", len(recent))
	}
	got := recent[0]
	if got.SessionID != "sess-1" || got.Winner != "home" || got.FinalBalance != "90" {
		t.Errorf("archived session %+v", got)
	}

	bets, err := s.Bets("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(bets) != 3 {
		t.Fatalf("archived %d bets, want 3", len(bets))
	}
	if bets[0].BetID != "b-1" || bets[0].Won {
		t.Errorf("first bet %+v", bets[0])
	}
	if !bets[2].PowerUpApplied || bets[2].Payout != "36" {
		t.Errorf("powered-up bet %+v", bets[2])
	}
}

func TestDuplicateSessionIDErrors(t *testing.T) {
	s := openTest(t)

	if err := s.Archive(sampleSummary("sess-1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Archive(sampleSummary("sess-1")); err == nil {
		t.Fatal("duplicate archive should fail")
	}

	// The failed transaction must not half-write the bets.
	bets, err := s.Bets("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(bets) != 3 {
		t.Errorf("duplicate archive leaked %d bets", len(bets)-3)
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	s := openTest(t)

	for _, id := range []string{"sess-1", "sess-2", "sess-3"} {
		sum := sampleSummary(id)
		sum.Bets = nil
		if err := s.Archive(sum); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := s.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("limit ignored: %d sessions", len(recent))
	}
	if recent[0].SessionID != "sess-3" || recent[1].SessionID != "sess-2" {
		t.Errorf("order %s, %s — want sess-3, sess-2", recent[0].SessionID, recent[1].SessionID)
	}
}

func TestBetsForUnknownSession(t *testing.T) {
	s := openTest(t)
	bets, err := s.Bets("missing")
	if err != nil {
		t.Fatal(err)
	}
	if len(bets) != 0 {
		t.Errorf("unknown session returned %d bets", len(bets))
	}
}
