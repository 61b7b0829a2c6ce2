// Package engine runs one live match session: the clock, the stochastic
// event generator, the action-betting window, and bet resolution, all
// mutating a single shared aggregate through one serialized goroutine.
package engine

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pitchside/pitchside/internal/config"
	"github.com/pitchside/pitchside/internal/core/ledger"
	"github.com/pitchside/pitchside/internal/core/match"
	"github.com/pitchside/pitchside/internal/events"
	"github.com/pitchside/pitchside/internal/telemetry"
)

var (
	// ErrSessionClosed is returned by API calls after Close or completion.
	ErrSessionClosed = errors.New("session closed")
	// ErrNoActionWindow rejects action bets outside an open window.
	ErrNoActionWindow = errors.New("no open action window for event")
)

// Config carries the session knobs the core consumes but does not own.
type Config struct {
	SessionID      string
	Gameplay       config.Gameplay
	ClassicMode    bool
	InitialBalance decimal.Decimal
	// TickInterval is the real duration of one simulated second. It also
	// paces the action-window countdown. Defaults to one second.
	TickInterval time.Duration
	// Seed makes the session's randomness reproducible. Zero seeds from
	// the wall clock.
	Seed int64
}

// Session is the single source of truth for one simulated match: the
// match state, event log, bet ledger, wallet, and PowerUp slot.
//
// All state mutations are serialized through an inbox channel — one
// goroutine drains it, so no mutexes are needed on any field. Clock
// ticks, countdowns, resolution timers, and API calls all enqueue
// closures; exactly one mutation is in flight at a time.
type Session struct {
	id       string
	cfg      Config
	gameplay config.Gameplay
	bus      *events.Bus
	rng      *rand.Rand

	match          *match.Match
	ledger         *ledger.Ledger
	initialBalance decimal.Decimal

	// paused stops the clock while an action window is open.
	paused    bool
	window    *actionWindow
	windowGen int

	// goalRecomputes counts goal-triggered odds recomputations still in
	// flight. Periodic recomputes are skipped, not queued, while nonzero.
	goalRecomputes int

	summary *events.SessionCompleteMsg

	ctx    context.Context
	cancel context.CancelFunc
	inbox  chan func()
	done   chan struct{}

	timerMu sync.Mutex
	closed  bool
	timers  map[*time.Timer]struct{}
}

// Start begins a session from a seed: score and clock at zero, status
// live, wallet at the configured balance. Events stream onto the bus.
func Start(cfg Config, seed match.Seed, bus *events.Bus) *Session {
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	rngSeed := cfg.Seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:             cfg.SessionID,
		cfg:            cfg,
		gameplay:       cfg.Gameplay,
		bus:            bus,
		rng:            rand.New(rand.NewSource(rngSeed)),
		match:          match.New(seed),
		ledger:         ledger.New(cfg.InitialBalance, cfg.ClassicMode),
		initialBalance: cfg.InitialBalance,
		ctx:            ctx,
		cancel:         cancel,
		inbox:          make(chan func(), 256),
		done:           make(chan struct{}),
		timers:         make(map[*time.Timer]struct{}),
	}

	s.match.Begin()
	telemetry.Metrics.ActiveSessions.Inc()
	telemetry.Metrics.WalletBalance.Set(balanceGauge(cfg.InitialBalance))

	go s.run()
	go s.runClock()

	s.Send(s.publishSnapshot)
	return s
}

// run is the session's event loop. All closures sent via Send execute
// here, one at a time, on this single goroutine. No locks needed.
func (s *Session) run() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case fn := <-s.inbox:
			fn()
		}
	}
}

// Send enqueues a closure to run on the session goroutine.
// Non-blocking: drops the closure if the inbox is full, preventing a
// stuck session from blocking timer goroutines.
func (s *Session) Send(fn func()) {
	select {
	case <-s.ctx.Done():
	case s.inbox <- fn:
	default:
		telemetry.Metrics.InboxOverflows.Inc()
		telemetry.Warnf("session %s: inbox full (cap=%d), dropping closure", s.id, cap(s.inbox))
	}
}

// call runs fn on the session goroutine and waits for it to complete.
// Returns false when the session shut down before fn could run.
func (s *Session) call(fn func()) bool {
	ran := make(chan struct{})
	select {
	case <-s.ctx.Done():
		return false
	case s.inbox <- func() { fn(); close(ran) }:
	}
	select {
	case <-s.ctx.Done():
		return false
	case <-ran:
		return true
	}
}

// after schedules fn on the session goroutine once d elapses. The timer
// is owned by the session and cancelled on Close.
func (s *Session) after(d time.Duration, fn func()) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.closed {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.timerMu.Lock()
		delete(s.timers, t)
		s.timerMu.Unlock()
		s.Send(fn)
	})
	s.timers[t] = struct{}{}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Done closes when the session-complete notification has been published.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close cancels the session: the clock, the window countdown, and every
// pending resolution timer. No state is mutated afterwards.
func (s *Session) Close() {
	s.timerMu.Lock()
	if s.closed {
		s.timerMu.Unlock()
		return
	}
	s.closed = true
	for t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.timerMu.Unlock()

	s.cancel()
	telemetry.Metrics.ActiveSessions.Dec()
}

// PlaceBet records a wager at frozen odds, debiting the stake
// immediately. Action bets must name the currently open window's event
// and close the window on success.
func (s *Session) PlaceBet(betType ledger.BetType, outcome string, betOdds float64, stake decimal.Decimal, eventID string) (string, error) {
	var (
		id  string
		err error
	)
	if !s.call(func() { id, err = s.placeBet(betType, outcome, betOdds, stake, eventID) }) {
		return "", ErrSessionClosed
	}
	return id, err
}

// ApplyPowerUp attaches the active PowerUp to an unresolved bet.
func (s *Session) ApplyPowerUp(betID string) error {
	var err error
	if !s.call(func() { err = s.ledger.ApplyPowerUp(betID) }) {
		return ErrSessionClosed
	}
	return err
}

// SkipActionWindow closes the open window without a bet and resumes the
// clock. Equivalent to letting the countdown expire. No-op when no
// window is open.
func (s *Session) SkipActionWindow() {
	s.Send(func() { s.closeWindow(closeReasonSkip) })
}

// Snapshot returns the current display state.
func (s *Session) Snapshot() (match.Snapshot, error) {
	var sn match.Snapshot
	if !s.call(func() { sn = s.match.Snapshot() }) {
		return match.Snapshot{}, ErrSessionClosed
	}
	return sn, nil
}

// Balance returns the current wallet balance.
func (s *Session) Balance() (decimal.Decimal, error) {
	var b decimal.Decimal
	if !s.call(func() { b = s.ledger.Balance() }) {
		return decimal.Zero, ErrSessionClosed
	}
	return b, nil
}

// LastStake recalls the previous stake for a bet category, for
// quick-stake prefill.
func (s *Session) LastStake(betType ledger.BetType) (decimal.Decimal, bool) {
	var (
		stake decimal.Decimal
		ok    bool
	)
	if !s.call(func() { stake, ok = s.ledger.LastStake(betType) }) {
		return decimal.Zero, false
	}
	return stake, ok
}

// Summary returns the final summary once the session completed.
func (s *Session) Summary() (events.SessionCompleteMsg, bool) {
	select {
	case <-s.done:
	default:
		return events.SessionCompleteMsg{}, false
	}
	if s.summary == nil {
		return events.SessionCompleteMsg{}, false
	}
	// done is closed after summary is built on the session goroutine;
	// the happens-before through the channel makes this read safe.
	return *s.summary, true
}

func (s *Session) placeBet(betType ledger.BetType, outcome string, betOdds float64, stake decimal.Decimal, eventID string) (string, error) {
	if betType == ledger.BetAction {
		if s.window == nil || s.window.eventID != eventID {
			return "", ErrNoActionWindow
		}
	}

	bet, err := s.ledger.Place(betType, outcome, betOdds, stake, eventID)
	if err != nil {
		telemetry.Metrics.BetsRejectedTotal.WithLabelValues(rejectionReason(err)).Inc()
		return "", err
	}

	telemetry.Metrics.BetsPlacedTotal.WithLabelValues(string(betType)).Inc()
	telemetry.Metrics.WalletBalance.Set(balanceGauge(s.ledger.Balance()))
	s.publish(events.EventBetPlaced, events.BetMsg{
		BetID:   bet.ID,
		Type:    string(bet.Type),
		Outcome: bet.Outcome,
		Odds:    bet.Odds,
		Stake:   bet.Stake.String(),
		EventID: bet.EventID,
		Balance: s.ledger.Balance().String(),
	})

	if betType == ledger.BetAction {
		s.closeWindow(closeReasonBet)
		delay := time.Duration(s.gameplay.ActionResolveSeconds) * time.Second
		s.after(delay, func() { s.resolveActionBet(bet.ID) })
	}
	return bet.ID, nil
}

// resolveActionBet settles an action bet with the fixed-probability coin
// flip, patches the linked match event, and may grant a PowerUp. A
// duplicate timer fire is a no-op — the ledger rejects the second resolve.
func (s *Session) resolveActionBet(betID string) {
	won := s.rng.Float64() < s.gameplay.ActionWinChance
	bet, err := s.ledger.ResolveAction(betID, won)
	if err != nil {
		return
	}

	if s.match.ResolveEvent(bet.EventID, s.actionResult(bet)) {
		if ev, ok := s.match.EventByID(bet.EventID); ok {
			s.publishMatchEvent(ev)
		}
	}

	if bet.Won && s.rng.Float64() < s.gameplay.PowerUpChance {
		if pu := s.ledger.GrantPowerUp(); pu != nil {
			telemetry.Metrics.PowerUpsGranted.Inc()
			s.publish(events.EventPowerUpGranted, events.PowerUpMsg{
				PowerUpID:  pu.ID,
				Multiplier: int(pu.Multiplier),
			})
		}
	}

	s.publishSettled(bet)
}

// actionResult builds the human-readable result patched onto the event:
// the winning option's label, or the logical complement for binary
// markets.
func (s *Session) actionResult(bet *ledger.Bet) string {
	ev, ok := s.match.EventByID(bet.EventID)
	if !ok {
		return ""
	}
	var chosen, other *match.BettingOption
	for i := range ev.Options {
		if ev.Options[i].Outcome == bet.Outcome {
			chosen = &ev.Options[i]
		} else if other == nil {
			other = &ev.Options[i]
		}
	}
	if chosen == nil {
		return ""
	}
	if bet.Won {
		return chosen.Label
	}
	if len(ev.Options) == 2 && other != nil {
		return other.Label
	}
	return "Not " + chosen.Label
}

// finish runs once when the clock reaches full time: settles every
// outstanding full-match and lobby bet against the final score, then
// publishes the session summary after a short user-facing delay.
func (s *Session) finish() {
	winner := s.match.Winner()
	for _, bet := range s.ledger.SettleFinal(winner) {
		s.publishSettled(bet)
	}
	s.publishSnapshot()

	s.summary = s.buildSummary(winner)
	delay := time.Duration(s.gameplay.SummaryDelaySeconds) * time.Second
	s.after(delay, func() {
		s.publish(events.EventSessionComplete, *s.summary)
		close(s.done)
	})
}

func (s *Session) buildSummary(winner match.Outcome) *events.SessionCompleteMsg {
	sum := &events.SessionCompleteMsg{
		SessionID:      s.id,
		HomeTeam:       s.match.HomeTeam(),
		AwayTeam:       s.match.AwayTeam(),
		HomeScore:      s.match.HomeScore(),
		AwayScore:      s.match.AwayScore(),
		Winner:         string(winner),
		InitialBalance: s.initialBalance.String(),
		FinalBalance:   s.ledger.Balance().String(),
	}
	for _, b := range s.ledger.Bets() {
		sum.Bets = append(sum.Bets, events.BetSummary{
			BetID:   b.ID,
			Type:    string(b.Type),
			Outcome: b.Outcome,
			Odds:    b.Odds,
			Stake:   b.Stake.String(),
			Won:     b.Won,
			Payout:  b.Payout.String(),
			PowerUp: b.PowerUpApplied,
		})
	}
	return sum
}

func (s *Session) publish(t events.EventType, payload any) {
	s.bus.Publish(events.Event{
		ID:        uuid.NewString(),
		Type:      t,
		SessionID: s.id,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func (s *Session) publishMatchEvent(ev *match.Event) {
	msg := events.MatchEventMsg{
		EventID:     ev.ID,
		Minute:      ev.Minute,
		Kind:        string(ev.Kind),
		Description: ev.Description,
		ScoringTeam: string(ev.ScoringTeam),
		Resolved:    ev.Resolved,
		Result:      ev.Result,
	}
	for _, o := range ev.Options {
		msg.Options = append(msg.Options, events.BetOption{
			Label:   o.Label,
			Odds:    o.Odds,
			Outcome: o.Outcome,
		})
	}
	s.publish(events.EventMatchEvent, msg)
}

func (s *Session) publishSnapshot() {
	sn := s.match.Snapshot()
	s.publish(events.EventSnapshot, events.SnapshotMsg{
		HomeTeam:  sn.HomeTeam,
		AwayTeam:  sn.AwayTeam,
		HomeScore: sn.HomeScore,
		AwayScore: sn.AwayScore,
		Minute:    sn.Minute,
		Status:    string(sn.Status),
		Odds:      events.OddsMsg{Home: sn.Odds.Home, Draw: sn.Odds.Draw, Away: sn.Odds.Away},
	})
}

func (s *Session) publishSettled(bet *ledger.Bet) {
	result := "lost"
	if bet.Won {
		result = "won"
	}
	telemetry.Metrics.BetsSettledTotal.WithLabelValues(string(bet.Type), result).Inc()
	telemetry.Metrics.WalletBalance.Set(balanceGauge(s.ledger.Balance()))

	s.publish(events.EventBetSettled, events.BetSettledMsg{
		BetID:   bet.ID,
		Type:    string(bet.Type),
		Outcome: bet.Outcome,
		Odds:    bet.Odds,
		Stake:   bet.Stake.String(),
		Won:     bet.Won,
		Payout:  bet.Payout.String(),
		PowerUp: bet.PowerUpApplied,
		Balance: s.ledger.Balance().String(),
	})
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "insufficient-funds"
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "invalid-amount"
	default:
		return "other"
	}
}

func balanceGauge(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
