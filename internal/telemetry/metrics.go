package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is the global metrics registry for the simulation engine.
// Collectors are registered on the default prometheus registry and
// served by the fanout HTTP server at /metrics.
var Metrics = struct {
	TicksTotal        prometheus.Counter
	EventsTotal       *prometheus.CounterVec
	OddsUpdatesTotal  prometheus.Counter
	OddsSkippedTotal  prometheus.Counter
	BetsPlacedTotal   *prometheus.CounterVec
	BetsRejectedTotal *prometheus.CounterVec
	BetsSettledTotal  *prometheus.CounterVec
	WindowsOpened     prometheus.Counter
	WindowsTimedOut   prometheus.Counter
	PowerUpsGranted   prometheus.Counter
	WalletBalance     prometheus.Gauge
	ActiveSessions    prometheus.Gauge
	InboxOverflows    prometheus.Counter
	FanoutClients     prometheus.Gauge
	FanoutDropped     prometheus.Counter
}{
	TicksTotal: promauto.NewCounter(prometheus.CounterOpts{
		Name: "pitchside_ticks_total",
		Help: "Simulated match seconds advanced.",
	}),
	EventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pitchside_match_events_total",
		Help: "Match events emitted, by kind.",
	}, []string{"kind"}),
	OddsUpdatesTotal: promauto.NewCounter(prometheus.CounterOpts{
		Name: "pitchside_odds_updates_total",
		Help: "Odds recomputations applied to the live match.",
	}),
	OddsSkippedTotal: promauto.NewCounter(prometheus.CounterOpts{
		Name: "pitchside_odds_skipped_total",
		Help: "Periodic odds recomputations skipped while a goal update was in flight.",
	}),
	BetsPlacedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pitchside_bets_placed_total",
		Help: "Bets accepted into the ledger, by type.",
	}, []string{"type"}),
	BetsRejectedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pitchside_bets_rejected_total",
		Help: "Bet placements rejected, by reason.",
	}, []string{"reason"}),
	BetsSettledTotal: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pitchside_bets_settled_total",
		Help: "Bets resolved, by type and result.",
	}, []string{"type", "result"}),
	WindowsOpened: promauto.NewCounter(prometheus.CounterOpts{
		Name: "pitchside_action_windows_opened_total",
		Help: "Action-betting windows opened.",
	}),
	WindowsTimedOut: promauto.NewCounter(prometheus.CounterOpts{
		Name: "pitchside_action_windows_timed_out_total",
		Help: "Action-betting windows closed by countdown expiry.",
	}),
	PowerUpsGranted: promauto.NewCounter(prometheus.CounterOpts{
		Name: "pitchside_powerups_granted_total",
		Help: "PowerUps granted after won action bets.",
	}),
	WalletBalance: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pitchside_wallet_balance",
		Help: "Current wallet balance of the active session.",
	}),
	ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pitchside_active_sessions",
		Help: "Match sessions currently running.",
	}),
	InboxOverflows: promauto.NewCounter(prometheus.CounterOpts{
		Name: "pitchside_session_inbox_overflows_total",
		Help: "Closures dropped because a session inbox was full.",
	}),
	FanoutClients: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pitchside_fanout_clients",
		Help: "WebSocket clients connected to the fanout server.",
	}),
	FanoutDropped: promauto.NewCounter(prometheus.CounterOpts{
		Name: "pitchside_fanout_dropped_total",
		Help: "Fanout messages dropped for slow clients.",
	}),
}
