package match

import "testing"

func testSeed() Seed {
	return Seed{
		ID:       "fx-1",
		HomeTeam: "Northbridge United",
		AwayTeam: "Eastvale Rovers",
		Odds:     Odds{Home: 2.0, Draw: 3.2, Away: 3.5},
	}
}

func TestClockLifecycle(t *testing.T) {
	m := New(testSeed())
	if m.Status() != StatusNotStarted {
		t.Fatalf("status %s, want not-started", m.Status())
	}

	if m.AdvanceClock() {
		t.Error("clock must not move before kickoff")
	}
	if m.Minute() != 0 {
		t.Errorf("minute moved before kickoff: %d", m.Minute())
	}

	m.Begin()
	if m.Status() != StatusLive {
		t.Fatalf("status %s, want live", m.Status())
	}

	for i := 1; i < FullTime; i++ {
		if m.AdvanceClock() {
			t.Fatalf("crossed full time early at minute %d", m.Minute())
		}
	}
	if m.Minute() != FullTime-1 {
		t.Fatalf("minute %d, want %d", m.Minute(), FullTime-1)
	}

	if !m.AdvanceClock() {
		t.Error("the tick into minute 90 must report full time")
	}
	if m.Status() != StatusFinished || m.Minute() != FullTime {
		t.Errorf("after full time: minute %d status %s", m.Minute(), m.Status())
	}

	if m.AdvanceClock() {
		t.Error("clock must freeze after full time")
	}
	if m.Minute() != FullTime {
		t.Errorf("minute advanced past full time: %d", m.Minute())
	}
}

func TestGoalUpdatesScoreAndMomentum(t *testing.T) {
	m := New(testSeed())
	m.Begin()
	for i := 0; i < 40; i++ {
		m.AdvanceClock()
	}

	if _, _, ok := m.LastGoal(); ok {
		t.Error("no goal recorded yet")
	}

	ev := m.Goal(OutcomeHome, "GOAL! Northbridge United strike!")
	if m.HomeScore() != 1 || m.AwayScore() != 0 {
		t.Errorf("score %d-%d, want 1-0", m.HomeScore(), m.AwayScore())
	}
	if ev.Kind != KindGoal || ev.Minute != 40 || ev.ScoringTeam != OutcomeHome {
		t.Errorf("goal event %+v", ev)
	}
	if ev.ID == "" {
		t.Error("event missing an ID")
	}

	minute, side, ok := m.LastGoal()
	if !ok || minute != 40 || side != OutcomeHome {
		t.Errorf("last goal (%d, %s, %v), want (40, home, true)", minute, side, ok)
	}

	m.Goal(OutcomeAway, "GOAL! Eastvale Rovers level it!")
	if m.TotalGoals() != 2 || m.ScoreDiff() != 0 {
		t.Errorf("totals after equalizer: goals=%d diff=%d", m.TotalGoals(), m.ScoreDiff())
	}
}

func TestWinner(t *testing.T) {
	m := New(testSeed())
	m.Begin()

	if m.Winner() != OutcomeDraw {
		t.Errorf("0-0 winner %s, want draw", m.Winner())
	}
	m.Goal(OutcomeHome, "goal")
	m.Goal(OutcomeHome, "goal")
	m.Goal(OutcomeAway, "goal")
	if m.Winner() != OutcomeHome {
		t.Errorf("2-1 winner %s, want home", m.Winner())
	}
}

func TestSetOddsLeavesInitialAlone(t *testing.T) {
	m := New(testSeed())
	m.SetOdds(Odds{Home: 1.4, Draw: 4.2, Away: 5.3})

	if m.CurrentOdds() != (Odds{Home: 1.4, Draw: 4.2, Away: 5.3}) {
		t.Errorf("current odds %+v", m.CurrentOdds())
	}
	if m.InitialOdds() != testSeed().Odds {
		t.Errorf("initial odds mutated: %+v", m.InitialOdds())
	}
}

func TestResolveEventOnce(t *testing.T) {
	m := New(testSeed())
	m.Begin()

	ev := m.AppendAction("Corner for the home side — will it convert?", []BettingOption{
		{Label: "Yes", Odds: 3.0, Outcome: "yes"},
		{Label: "No", Odds: 1.3, Outcome: "no"},
	})

	if !m.ResolveEvent(ev.ID, "Yes") {
		t.Fatal("first resolve should succeed")
	}
	if m.ResolveEvent(ev.ID, "No") {
		t.Error("events must never un-resolve")
	}

	got, ok := m.EventByID(ev.ID)
	if !ok || !got.Resolved || got.Result != "Yes" {
		t.Errorf("resolved event %+v", got)
	}

	if m.ResolveEvent("missing", "Yes") {
		t.Error("unknown event resolved")
	}
}

func TestEventLogIsAppendOrdered(t *testing.T) {
	m := New(testSeed())
	m.Begin()

	m.AppendCommentary("The fans are in full voice.")
	m.AdvanceClock()
	m.Goal(OutcomeAway, "GOAL! Against the run of play!")
	m.AdvanceClock()
	m.AppendCommentary("A scrappy spell in midfield.")

	log := m.Events()
	if len(log) != 3 || m.EventCount() != 3 {
		t.Fatalf("log length %d, want 3", len(log))
	}
	if log[0].Kind != KindCommentary || log[1].Kind != KindGoal || log[2].Kind != KindCommentary {
		t.Errorf("log order: %s %s %s", log[0].Kind, log[1].Kind, log[2].Kind)
	}
	if log[1].Minute != 1 || log[2].Minute != 2 {
		t.Errorf("event minutes %d %d, want 1 2", log[1].Minute, log[2].Minute)
	}

	// Events() hands back copies.
	log[0].Description = "tampered"
	if m.Events()[0].Description == "tampered" {
		t.Error("Events must return copies")
	}
}

func TestSnapshotCopiesState(t *testing.T) {
	m := New(testSeed())
	m.Begin()
	m.AdvanceClock()
	m.Goal(OutcomeHome, "goal")

	snap := m.Snapshot()
	if snap.HomeTeam != "Northbridge United" || snap.Minute != 1 || snap.HomeScore != 1 {
		t.Errorf("snapshot %+v", snap)
	}
	if snap.Status != StatusLive {
		t.Errorf("snapshot status %s", snap.Status)
	}
}
