package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pitchside/pitchside/internal/core/match"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestPlaceRejectsBadStakes(t *testing.T) {
	l := New(dec(100), false)

	if _, err := l.Place(BetFullMatch, "home", 2.0, decimal.Zero, ""); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero stake: got %v, want ErrInvalidAmount", err)
	}
	if _, err := l.Place(BetFullMatch, "home", 2.0, dec(-10), ""); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative stake: got %v, want ErrInvalidAmount", err)
	}
	if _, err := l.Place(BetFullMatch, "home", 2.0, dec(101), ""); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("oversized stake: got %v, want ErrInsufficientFunds", err)
	}

	if !l.Balance().Equal(dec(100)) {
		t.Errorf("rejected bets must not touch the wallet: balance %s", l.Balance())
	}
	if len(l.Bets()) != 0 {
		t.Errorf("rejected bets must not be recorded: %d bets", len(l.Bets()))
	}
}

func TestExactBalanceStakeThenEmptyWallet(t *testing.T) {
	l := New(dec(100), false)

	bet, err := l.Place(BetFullMatch, "home", 2.0, dec(100), "")
	if err != nil {
		t.Fatalf("stake equal to balance should be accepted: %v", err)
	}
	if !l.Balance().Equal(decimal.Zero) {
		t.Errorf("balance after full stake: %s, want 0", l.Balance())
	}
	if bet.Odds != 2.0 || !bet.Stake.Equal(dec(100)) {
		t.Errorf("bet not frozen at placement: %+v", bet)
	}

	if _, err := l.Place(BetFullMatch, "home", 2.0, dec(1), ""); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("empty wallet: got %v, want ErrInsufficientFunds", err)
	}
}

func TestFinalSettlementScenario(t *testing.T) {
	// 2-1 home win with one losing away bet and one winning home bet.
	l := New(dec(100), false)

	lose, err := l.Place(BetFullMatch, "away", 3.0, dec(50), "")
	if err != nil {
		t.Fatal(err)
	}
	win, err := l.Place(BetFullMatch, "home", 1.8, dec(50), "")
	if err != nil {
		t.Fatal(err)
	}
	if !l.Balance().Equal(decimal.Zero) {
		t.Fatalf("balance after two 50 stakes: %s", l.Balance())
	}

	settled := l.SettleFinal(match.OutcomeHome)
	if len(settled) != 2 {
		t.Fatalf("settled %d bets, want 2", len(settled))
	}

	loseBet, _ := l.Bet(lose.ID)
	if loseBet.Won || !loseBet.Payout.Equal(decimal.Zero) {
		t.Errorf("away bet should lose with zero payout: %+v", loseBet)
	}
	winBet, _ := l.Bet(win.ID)
	if !winBet.Won || !winBet.Payout.Equal(dec(90)) {
		t.Errorf("home bet should pay 90: %+v", winBet)
	}
	if !l.Balance().Equal(dec(90)) {
		t.Errorf("final balance %s, want 90", l.Balance())
	}

	if again := l.SettleFinal(match.OutcomeHome); again != nil {
		t.Errorf("second settlement pass must be a no-op, settled %d", len(again))
	}
	if !l.Balance().Equal(dec(90)) {
		t.Errorf("balance changed on repeated settlement: %s", l.Balance())
	}
}

func TestWalletConservation(t *testing.T) {
	l := New(dec(500), false)

	b1, _ := l.Place(BetAction, "Yes", 2.0, dec(40), "ev-1")
	b2, _ := l.Place(BetAction, "No", 1.5, dec(60), "ev-2")
	l.Place(BetFullMatch, "draw", 3.2, dec(100), "")

	l.ResolveAction(b1.ID, true)
	l.ResolveAction(b2.ID, false)
	l.SettleFinal(match.OutcomeDraw)

	var stakes, payouts decimal.Decimal
	for _, b := range l.Bets() {
		stakes = stakes.Add(b.Stake)
		payouts = payouts.Add(b.Payout)
	}
	want := dec(500).Sub(stakes).Add(payouts)
	if !l.Balance().Equal(want) {
		t.Errorf("balance %s, want initial - stakes + payouts = %s", l.Balance(), want)
	}

	// 40x2 + 0 + 100x3.2
	if !payouts.Equal(dec(400)) {
		t.Errorf("total payouts %s, want 400", payouts)
	}
}

func TestResolveActionExactlyOnce(t *testing.T) {
	l := New(dec(100), false)
	bet, _ := l.Place(BetAction, "Yes", 2.0, dec(10), "ev-1")

	resolved, err := l.ResolveAction(bet.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if !resolved.Payout.Equal(dec(20)) {
		t.Errorf("payout %s, want 20", resolved.Payout)
	}
	balance := l.Balance()

	if _, err := l.ResolveAction(bet.ID, true); !errors.Is(err, ErrBetAlreadyResolved) {
		t.Errorf("second resolve: got %v, want ErrBetAlreadyResolved", err)
	}
	if !l.Balance().Equal(balance) {
		t.Errorf("second resolve credited the wallet again: %s", l.Balance())
	}

	got, _ := l.Bet(bet.ID)
	if !got.Resolved || !got.Won || !got.Payout.Equal(dec(20)) {
		t.Errorf("resolved bet mutated after second call: %+v", got)
	}

	if _, err := l.ResolveAction("nope", true); !errors.Is(err, ErrBetNotFound) {
		t.Errorf("unknown bet: got %v, want ErrBetNotFound", err)
	}
}

func TestPowerUpSlotAndDoubling(t *testing.T) {
	l := New(dec(100), false)

	if err := l.ApplyPowerUp("any"); !errors.Is(err, ErrNoActivePowerUp) {
		t.Errorf("apply without grant: got %v, want ErrNoActivePowerUp", err)
	}

	first := l.GrantPowerUp()
	second := l.GrantPowerUp()
	if first == nil || second == nil {
		t.Fatal("grants returned nil outside classic mode")
	}
	if l.ActivePowerUp().ID != second.ID {
		t.Error("a new grant should replace the held powerup")
	}

	bet, _ := l.Place(BetAction, "Yes", 2.0, dec(10), "ev-1")
	if err := l.ApplyPowerUp(bet.ID); err != nil {
		t.Fatal(err)
	}
	if l.ActivePowerUp() != nil {
		t.Error("slot must clear when the powerup attaches")
	}
	if err := l.ApplyPowerUp(bet.ID); !errors.Is(err, ErrNoActivePowerUp) {
		t.Errorf("slot already consumed: got %v", err)
	}

	resolved, err := l.ResolveAction(bet.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if !resolved.Payout.Equal(dec(40)) {
		t.Errorf("doubled payout %s, want 40", resolved.Payout)
	}
}

func TestApplyPowerUpAfterResolve(t *testing.T) {
	l := New(dec(100), false)
	bet, _ := l.Place(BetAction, "Yes", 2.0, dec(10), "ev-1")
	l.ResolveAction(bet.ID, false)

	l.GrantPowerUp()
	if err := l.ApplyPowerUp(bet.ID); !errors.Is(err, ErrBetAlreadyResolved) {
		t.Errorf("apply to resolved bet: got %v, want ErrBetAlreadyResolved", err)
	}
	if l.ActivePowerUp() == nil {
		t.Error("failed apply must not consume the powerup")
	}
}

func TestClassicModeGrantsNothing(t *testing.T) {
	l := New(dec(100), true)
	if pu := l.GrantPowerUp(); pu != nil {
		t.Errorf("classic mode granted a powerup: %+v", pu)
	}
}

func TestSettleFinalSkipsActionBets(t *testing.T) {
	l := New(dec(100), false)
	action, _ := l.Place(BetAction, "Yes", 2.0, dec(10), "ev-1")

	settled := l.SettleFinal(match.OutcomeHome)
	if len(settled) != 0 {
		t.Errorf("final settlement touched action bets: %d", len(settled))
	}
	got, _ := l.Bet(action.ID)
	if got.Resolved {
		t.Error("unresolved action bet must survive final settlement untouched")
	}
	if l.Unresolved() != 1 {
		t.Errorf("unresolved count %d, want 1", l.Unresolved())
	}
}

func TestLastStakeRecall(t *testing.T) {
	l := New(dec(200), false)

	if _, ok := l.LastStake(BetAction); ok {
		t.Error("no stake recorded yet")
	}
	l.Place(BetAction, "Yes", 2.0, dec(25), "ev-1")
	l.Place(BetAction, "No", 1.5, dec(40), "ev-2")
	l.Place(BetFullMatch, "home", 2.0, dec(10), "")

	if s, ok := l.LastStake(BetAction); !ok || !s.Equal(dec(40)) {
		t.Errorf("action last stake %s, want 40", s)
	}
	if s, ok := l.LastStake(BetFullMatch); !ok || !s.Equal(dec(10)) {
		t.Errorf("full-match last stake %s, want 10", s)
	}
}
