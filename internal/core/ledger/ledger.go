// Package ledger tracks every placed bet and resolves each exactly once:
// action bets on their own fixed-delay timers, full-match and lobby bets
// against the final score when the clock completes.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pitchside/pitchside/internal/core/match"
)

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNoActivePowerUp    = errors.New("no active powerup")
	ErrBetAlreadyResolved = errors.New("bet already resolved")
	ErrBetNotFound        = errors.New("bet not found")
)

type BetType string

const (
	BetFullMatch BetType = "full-match"
	BetAction    BetType = "action"
	BetLobby     BetType = "lobby"
)

// Bet is one wager. Outcome, odds, and stake are frozen at placement;
// the resolution fields transition from unset to set exactly once.
type Bet struct {
	ID       string
	Type     BetType
	Outcome  string
	Odds     float64 // frozen at placement, not re-read from the live match
	Stake    decimal.Decimal
	PlacedAt time.Time
	EventID  string // linked action event, empty otherwise

	PowerUpApplied bool

	Resolved bool
	Won      bool
	Payout   decimal.Decimal
}

// PowerUp is the single at-most-one-active 2x payout modifier.
type PowerUp struct {
	ID         string
	Multiplier int64
	GrantedAt  time.Time
}

// Ledger owns the bet list, the wallet, and the single PowerUp slot.
// Not safe for concurrent use — all calls happen on the session goroutine.
type Ledger struct {
	wallet *Wallet
	bets   []*Bet
	byID   map[string]*Bet

	lastStake map[BetType]decimal.Decimal

	powerUp     *PowerUp
	classicMode bool

	settled bool // final settlement ran
}

func New(initialBalance decimal.Decimal, classicMode bool) *Ledger {
	return &Ledger{
		wallet:      NewWallet(initialBalance),
		byID:        make(map[string]*Bet),
		lastStake:   make(map[BetType]decimal.Decimal),
		classicMode: classicMode,
	}
}

func (l *Ledger) Balance() decimal.Decimal { return l.wallet.Balance() }

// Place validates and records a wager, debiting the wallet immediately.
// On rejection nothing is mutated.
func (l *Ledger) Place(betType BetType, outcome string, odds float64, stake decimal.Decimal, eventID string) (*Bet, error) {
	if err := l.wallet.Debit(stake); err != nil {
		return nil, err
	}

	bet := &Bet{
		ID:       uuid.NewString(),
		Type:     betType,
		Outcome:  outcome,
		Odds:     odds,
		Stake:    stake,
		PlacedAt: time.Now(),
		EventID:  eventID,
	}
	l.bets = append(l.bets, bet)
	l.byID[bet.ID] = bet
	l.lastStake[betType] = stake
	return bet, nil
}

// LastStake recalls the most recent stake for a bet category, for
// quick-stake prefill. ok is false before the first bet of that category.
func (l *Ledger) LastStake(betType BetType) (decimal.Decimal, bool) {
	s, ok := l.lastStake[betType]
	return s, ok
}

// GrantPowerUp fills the single PowerUp slot, replacing any existing one.
// Returns nil in classic mode.
func (l *Ledger) GrantPowerUp() *PowerUp {
	if l.classicMode {
		return nil
	}
	l.powerUp = &PowerUp{
		ID:         uuid.NewString(),
		Multiplier: 2,
		GrantedAt:  time.Now(),
	}
	return l.powerUp
}

// ActivePowerUp returns the held PowerUp, or nil.
func (l *Ledger) ActivePowerUp() *PowerUp { return l.powerUp }

// ApplyPowerUp attaches the held PowerUp to an unresolved bet and clears
// the slot atomically with the attach.
func (l *Ledger) ApplyPowerUp(betID string) error {
	if l.powerUp == nil {
		return ErrNoActivePowerUp
	}
	bet, ok := l.byID[betID]
	if !ok {
		return ErrBetNotFound
	}
	if bet.Resolved {
		return ErrBetAlreadyResolved
	}
	bet.PowerUpApplied = true
	l.powerUp = nil
	return nil
}

// ResolveAction settles an action bet with the given result. Payout is
// stake x frozen odds, doubled when a PowerUp was attached. A second call
// for the same bet returns ErrBetAlreadyResolved with no mutation.
func (l *Ledger) ResolveAction(betID string, won bool) (*Bet, error) {
	bet, ok := l.byID[betID]
	if !ok {
		return nil, ErrBetNotFound
	}
	if bet.Resolved {
		return nil, ErrBetAlreadyResolved
	}

	bet.Resolved = true
	bet.Won = won
	if won {
		payout := bet.Stake.Mul(decimal.NewFromFloat(bet.Odds))
		if bet.PowerUpApplied {
			payout = payout.Mul(decimal.NewFromInt(2))
		}
		bet.Payout = payout.Round(2)
		l.wallet.Credit(bet.Payout)
	} else {
		bet.Payout = decimal.Zero
	}
	return bet, nil
}

// SettleFinal resolves every unresolved full-match and lobby bet against
// the match winner. Runs exactly once — repeat calls return nil, and bets
// already resolved are never revisited.
func (l *Ledger) SettleFinal(winner match.Outcome) []*Bet {
	if l.settled {
		return nil
	}
	l.settled = true

	var settled []*Bet
	for _, bet := range l.bets {
		if bet.Resolved {
			continue
		}
		if bet.Type != BetFullMatch && bet.Type != BetLobby {
			continue
		}

		bet.Resolved = true
		bet.Won = bet.Outcome == string(winner)
		if bet.Won {
			bet.Payout = bet.Stake.Mul(decimal.NewFromFloat(bet.Odds)).Round(2)
			l.wallet.Credit(bet.Payout)
		} else {
			bet.Payout = decimal.Zero
		}
		settled = append(settled, bet)
	}
	return settled
}

// Settled reports whether the final settlement pass has run.
func (l *Ledger) Settled() bool { return l.settled }

// Bet looks up a single bet.
func (l *Ledger) Bet(betID string) (*Bet, bool) {
	b, ok := l.byID[betID]
	return b, ok
}

// Bets returns a copy of the ledger in placement order.
func (l *Ledger) Bets() []Bet {
	out := make([]Bet, len(l.bets))
	for i, b := range l.bets {
		out[i] = *b
	}
	return out
}

// Unresolved counts bets still awaiting resolution.
func (l *Ledger) Unresolved() int {
	n := 0
	for _, b := range l.bets {
		if !b.Resolved {
			n++
		}
	}
	return n
}
