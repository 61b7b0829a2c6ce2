// pitchside boots one full simulated betting session: picks a lobby
// fixture, runs the 90-minute match clock against the live-odds engine,
// streams events over the fanout WebSocket, and archives the summary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/pitchside/pitchside/internal/config"
	"github.com/pitchside/pitchside/internal/core/engine"
	"github.com/pitchside/pitchside/internal/core/history"
	"github.com/pitchside/pitchside/internal/core/lobby"
	"github.com/pitchside/pitchside/internal/events"
	"github.com/pitchside/pitchside/internal/fanout"
	"github.com/pitchside/pitchside/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	gameplay, err := config.LoadGameplay(cfg.GameplayPath)
	if err != nil {
		telemetry.Errorf("gameplay config: %v", err)
		os.Exit(1)
	}

	bus := events.NewBus()

	// ── Fanout + metrics HTTP server ───────────────────────────
	fanoutSrv := fanout.NewServer(bus)
	httpSrv := fanoutSrv.Start(cfg.FanoutPort)

	// ── History archive ────────────────────────────────────────
	store, err := history.Open(cfg.HistoryDBPath)
	if err != nil {
		telemetry.Errorf("history store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	bus.Subscribe(events.EventSessionComplete, func(e events.Event) error {
		sum, ok := e.Payload.(events.SessionCompleteMsg)
		if !ok {
			return nil
		}
		if err := store.Archive(summaryFromMsg(sum)); err != nil {
			telemetry.Warnf("history: archive failed: %v", err)
		}
		return nil
	})

	registerConsole(bus)

	// ── Lobby ──────────────────────────────────────────────────
	gen := lobby.NewGenerator(gameplay.Teams, 0)
	fixtures := gen.Fixtures(cfg.LobbySize)
	telemetry.Plainf("── Lobby ──")
	for i, f := range fixtures {
		telemetry.Plainf("  [%d] %s vs %s   %.1f / %.1f / %.1f",
			i+1, f.HomeTeam, f.AwayTeam, f.Odds.Home, f.Odds.Draw, f.Odds.Away)
	}
	fixture := fixtures[0]
	telemetry.Plainf("── Kickoff: %s vs %s ──", fixture.HomeTeam, fixture.AwayTeam)

	// ── Session ────────────────────────────────────────────────
	sess := engine.Start(engine.Config{
		Gameplay:       gameplay,
		ClassicMode:    cfg.ClassicMode,
		InitialBalance: decimal.NewFromFloat(cfg.InitialBalance),
		TickInterval:   cfg.TickInterval,
	}, fixture.Seed(), bus)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-sess.Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	if err := g.Wait(); err != nil {
		telemetry.Infof("shutting down: %v", err)
	}

	sess.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
}

// registerConsole prints the session stream to stderr — the stand-in for
// the out-of-scope presentation layer.
func registerConsole(bus *events.Bus) {
	bus.Subscribe(events.EventMatchEvent, func(e events.Event) error {
		if m, ok := e.Payload.(events.MatchEventMsg); ok && !m.Resolved {
			telemetry.Plainf("  %2d' [%s] %s", m.Minute, m.Kind, m.Description)
		}
		return nil
	})
	bus.Subscribe(events.EventOddsUpdate, func(e events.Event) error {
		if o, ok := e.Payload.(events.OddsMsg); ok {
			telemetry.Plainf("      odds → %.1f / %.1f / %.1f", o.Home, o.Draw, o.Away)
		}
		return nil
	})
	bus.Subscribe(events.EventWindowOpened, func(e events.Event) error {
		if w, ok := e.Payload.(events.WindowMsg); ok {
			telemetry.Plainf("      ⏸ betting window open (%ds)", w.SecondsLeft)
		}
		return nil
	})
	bus.Subscribe(events.EventWindowClosed, func(e events.Event) error {
		if w, ok := e.Payload.(events.WindowMsg); ok {
			telemetry.Plainf("      ▶ window closed (%s) — clock resumes", w.Reason)
		}
		return nil
	})
	bus.Subscribe(events.EventBetSettled, func(e events.Event) error {
		if b, ok := e.Payload.(events.BetSettledMsg); ok {
			verdict := "lost"
			if b.Won {
				verdict = fmt.Sprintf("won %s", b.Payout)
			}
			telemetry.Plainf("      bet %s on %q %s (balance %s)", b.Type, b.Outcome, verdict, b.Balance)
		}
		return nil
	})
	bus.Subscribe(events.EventCrowdActivity, func(e events.Event) error {
		if c, ok := e.Payload.(events.CrowdMsg); ok {
			telemetry.Plainf("      %s %s %s on %q", c.Player, c.Action, c.Amount, c.Outcome)
		}
		return nil
	})
	bus.Subscribe(events.EventSessionComplete, func(e events.Event) error {
		if s, ok := e.Payload.(events.SessionCompleteMsg); ok {
			telemetry.Plainf("── FULL TIME: %s %d – %d %s ──", s.HomeTeam, s.HomeScore, s.AwayScore, s.AwayTeam)
			telemetry.Plainf("   bets: %d   balance: %s → %s", len(s.Bets), s.InitialBalance, s.FinalBalance)
		}
		return nil
	})
}

func summaryFromMsg(m events.SessionCompleteMsg) history.Summary {
	sum := history.Summary{
		SessionID:      m.SessionID,
		HomeTeam:       m.HomeTeam,
		AwayTeam:       m.AwayTeam,
		HomeScore:      m.HomeScore,
		AwayScore:      m.AwayScore,
		Winner:         m.Winner,
		InitialBalance: m.InitialBalance,
		FinalBalance:   m.FinalBalance,
	}
	for _, b := range m.Bets {
		sum.Bets = append(sum.Bets, history.BetRecord{
			BetID:          b.BetID,
			Type:           b.Type,
			Outcome:        b.Outcome,
			Odds:           b.Odds,
			Stake:          b.Stake,
			Won:            b.Won,
			Payout:         b.Payout,
			PowerUpApplied: b.PowerUp,
		})
	}
	return sum
}
