package events

// BetOption is one selectable proposition on an action event.
type BetOption struct {
	Label   string  `json:"label"`
	Odds    float64 `json:"odds"`
	Outcome string  `json:"outcome"`
}

// MatchEventMsg is published on every append to the match's event log,
// and again when an action event is patched with its resolution.
type MatchEventMsg struct {
	EventID     string      `json:"event_id"`
	Minute      int         `json:"minute"`
	Kind        string      `json:"kind"` // "goal", "action", "commentary"
	Description string      `json:"description"`
	ScoringTeam string      `json:"scoring_team,omitempty"` // "home"/"away", goals only
	Options     []BetOption `json:"options,omitempty"`      // action events only
	Resolved    bool        `json:"resolved,omitempty"`
	Result      string      `json:"result,omitempty"`
}

// OddsMsg carries the three displayed outcome odds.
type OddsMsg struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// SnapshotMsg is the live match state for odds/score display.
type SnapshotMsg struct {
	HomeTeam  string  `json:"home_team"`
	AwayTeam  string  `json:"away_team"`
	HomeScore int     `json:"home_score"`
	AwayScore int     `json:"away_score"`
	Minute    int     `json:"minute"`
	Status    string  `json:"status"` // "not-started", "live", "finished"
	Odds      OddsMsg `json:"odds"`
}

// WindowMsg is published when an action-betting window opens or closes.
type WindowMsg struct {
	EventID     string `json:"event_id"`
	SecondsLeft int    `json:"seconds_left,omitempty"`
	Reason      string `json:"reason,omitempty"` // "bet", "skip", "timeout" on close
}

// BetMsg is published when a bet is accepted into the ledger.
// Monetary amounts travel as decimal strings.
type BetMsg struct {
	BetID   string  `json:"bet_id"`
	Type    string  `json:"type"` // "full-match", "action", "lobby"
	Outcome string  `json:"outcome"`
	Odds    float64 `json:"odds"`
	Stake   string  `json:"stake"`
	EventID string  `json:"event_id,omitempty"`
	Balance string  `json:"balance"`
}

// BetSettledMsg is published when a bet resolves.
type BetSettledMsg struct {
	BetID   string  `json:"bet_id"`
	Type    string  `json:"type"`
	Outcome string  `json:"outcome"`
	Odds    float64 `json:"odds"`
	Stake   string  `json:"stake"`
	Won     bool    `json:"won"`
	Payout  string  `json:"payout"`
	PowerUp bool    `json:"powerup_applied,omitempty"`
	Balance string  `json:"balance"`
}

// PowerUpMsg is published when a won action bet grants a payout multiplier.
type PowerUpMsg struct {
	PowerUpID  string `json:"powerup_id"`
	Multiplier int    `json:"multiplier"`
}

// CrowdMsg is a fabricated other-player notification. Cosmetic only —
// no ledger or wallet state backs it.
type CrowdMsg struct {
	Player  string `json:"player"`
	Action  string `json:"action"` // "placed" or "won"
	Outcome string `json:"outcome"`
	Amount  string `json:"amount"`
}

// BetSummary is one settled ledger entry in the final summary.
type BetSummary struct {
	BetID   string  `json:"bet_id"`
	Type    string  `json:"type"`
	Outcome string  `json:"outcome"`
	Odds    float64 `json:"odds"`
	Stake   string  `json:"stake"`
	Won     bool    `json:"won"`
	Payout  string  `json:"payout"`
	PowerUp bool    `json:"powerup_applied,omitempty"`
}

// SessionCompleteMsg is the terminal notification carrying the final match
// and the full bet ledger for summary rendering.
type SessionCompleteMsg struct {
	SessionID      string       `json:"session_id"`
	HomeTeam       string       `json:"home_team"`
	AwayTeam       string       `json:"away_team"`
	HomeScore      int          `json:"home_score"`
	AwayScore      int          `json:"away_score"`
	Winner         string       `json:"winner"` // "home", "draw", "away"
	InitialBalance string       `json:"initial_balance"`
	FinalBalance   string       `json:"final_balance"`
	Bets           []BetSummary `json:"bets"`
}
