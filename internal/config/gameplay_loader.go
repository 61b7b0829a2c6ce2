package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Gameplay holds every simulation tunable: event probabilities, timing,
// fixed win chances, and the template libraries for commentary, goals,
// and action-betting propositions. Loaded from YAML; anything a file
// leaves out keeps its built-in default.
type Gameplay struct {
	// Per-tick chance that a random event fires, banded by match phase.
	EventProbability ProbabilityBands `yaml:"event_probability"`

	// Relative weights for the event-kind draw once an event fires.
	EventWeights EventWeights `yaml:"event_weights"`

	// Scripted commentary at fixed early seconds, emitted unconditionally.
	Milestones []Milestone `yaml:"milestones"`

	// Action-betting window
	ActionWindowSeconds  int     `yaml:"action_window_seconds"`
	ActionResolveSeconds int     `yaml:"action_resolve_seconds"`
	ActionWinChance      float64 `yaml:"action_win_chance"`
	PowerUpChance        float64 `yaml:"powerup_chance"`

	// Odds recomputation
	OddsRefreshInterval  int `yaml:"odds_refresh_interval"`   // simulated seconds
	GoalRecomputeDelayMS int `yaml:"goal_recompute_delay_ms"` // real ms after a goal

	// Delay between final settlement and the session-complete signal.
	SummaryDelaySeconds int `yaml:"summary_delay_seconds"`

	// Fabricated crowd activity
	CrowdChance    float64  `yaml:"crowd_chance"` // per-tick notification chance
	CrowdWinChance float64  `yaml:"crowd_win_chance"`
	CrowdPlayers   []string `yaml:"crowd_players"`

	// Template libraries
	Commentary    CommentaryPools  `yaml:"commentary"`
	GoalTemplates []string         `yaml:"goal_templates"` // one %s verb slot for the team
	Actions       []ActionTemplate `yaml:"actions"`

	// Team pool for the lobby fixture generator.
	Teams []string `yaml:"teams"`
}

type ProbabilityBands struct {
	Early      float64 `yaml:"early"`
	Mid        float64 `yaml:"mid"`
	Late       float64 `yaml:"late"`
	EarlyUntil int     `yaml:"early_until"` // minute, exclusive
	LateFrom   int     `yaml:"late_from"`   // minute, inclusive
}

type EventWeights struct {
	Commentary float64 `yaml:"commentary"`
	Action     float64 `yaml:"action"`
	Goal       float64 `yaml:"goal"`
}

type Milestone struct {
	Minute int    `yaml:"minute"`
	Text   string `yaml:"text"`
}

type CommentaryPools struct {
	Early []string `yaml:"early"`
	Mid   []string `yaml:"mid"`
	Late  []string `yaml:"late"`
}

// ActionTemplate is one short betting proposition. Eligibility bounds are
// checked against the live match before the template is offered.
type ActionTemplate struct {
	Prompt        string         `yaml:"prompt"`
	Options       []ActionOption `yaml:"options"`
	MinMinute     int            `yaml:"min_minute"`      // offered only when minute > MinMinute
	MaxMinute     int            `yaml:"max_minute"`      // 0 = no upper bound; else minute < MaxMinute
	MaxTotalGoals int            `yaml:"max_total_goals"` // 0 = no cap; else total goals < cap
}

type ActionOption struct {
	Label   string  `yaml:"label"`
	Odds    float64 `yaml:"odds"`
	Outcome string  `yaml:"outcome"`
}

// LoadGameplay reads gameplay tunables from a YAML file layered over the
// defaults. An empty path returns the defaults unchanged.
func LoadGameplay(path string) (Gameplay, error) {
	g := DefaultGameplay()
	if path == "" {
		return g, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Gameplay{}, fmt.Errorf("read gameplay config: %w", err)
	}
	if err := yaml.Unmarshal(data, &g); err != nil {
		return Gameplay{}, fmt.Errorf("parse gameplay config: %w", err)
	}
	if err := g.validate(); err != nil {
		return Gameplay{}, fmt.Errorf("gameplay config %s: %w", path, err)
	}
	return g, nil
}

func (g Gameplay) validate() error {
	if g.ActionWindowSeconds <= 0 {
		return fmt.Errorf("action_window_seconds must be positive")
	}
	if g.ActionWinChance < 0 || g.ActionWinChance > 1 {
		return fmt.Errorf("action_win_chance must be in [0,1]")
	}
	if g.OddsRefreshInterval <= 0 {
		return fmt.Errorf("odds_refresh_interval must be positive")
	}
	if len(g.Teams) < 2 {
		return fmt.Errorf("at least two teams required")
	}
	for i, a := range g.Actions {
		if len(a.Options) < 2 {
			return fmt.Errorf("action %d (%q): needs at least two options", i, a.Prompt)
		}
		for _, o := range a.Options {
			if o.Odds < 1.01 {
				return fmt.Errorf("action %d (%q): odds %.2f below 1.01", i, a.Prompt, o.Odds)
			}
		}
	}
	return nil
}

// ProbabilityAt returns the per-tick event probability for a match minute.
func (g Gameplay) ProbabilityAt(minute int) float64 {
	switch {
	case minute < g.EventProbability.EarlyUntil:
		return g.EventProbability.Early
	case minute >= g.EventProbability.LateFrom:
		return g.EventProbability.Late
	default:
		return g.EventProbability.Mid
	}
}

// MilestoneText returns the scripted commentary for a minute, if any.
func (g Gameplay) MilestoneText(minute int) (string, bool) {
	for _, m := range g.Milestones {
		if m.Minute == minute {
			return m.Text, true
		}
	}
	return "", false
}

// CommentaryPool returns the flavor-text pool for a match minute.
func (g Gameplay) CommentaryPool(minute int) []string {
	switch {
	case minute < g.EventProbability.EarlyUntil:
		return g.Commentary.Early
	case minute >= g.EventProbability.LateFrom:
		return g.Commentary.Late
	default:
		return g.Commentary.Mid
	}
}

// EligibleActions filters the template library against match context.
func (g Gameplay) EligibleActions(minute, totalGoals int) []ActionTemplate {
	var out []ActionTemplate
	for _, a := range g.Actions {
		if minute <= a.MinMinute {
			continue
		}
		if a.MaxMinute > 0 && minute >= a.MaxMinute {
			continue
		}
		if a.MaxTotalGoals > 0 && totalGoals >= a.MaxTotalGoals {
			continue
		}
		out = append(out, a)
	}
	return out
}

// DefaultGameplay returns the built-in tunables. Values mirror the
// original interface: bursts of action at kickoff and in the run-in,
// goals rare, 15-second windows, 3-second action resolution.
func DefaultGameplay() Gameplay {
	return Gameplay{
		EventProbability: ProbabilityBands{
			Early:      0.35,
			Mid:        0.18,
			Late:       0.40,
			EarlyUntil: 15,
			LateFrom:   75,
		},
		EventWeights: EventWeights{
			Commentary: 0.55,
			Action:     0.30,
			Goal:       0.15,
		},
		Milestones: []Milestone{
			{Minute: 1, Text: "And we're underway! The crowd is on its feet."},
			{Minute: 3, Text: "Both sides feeling each other out in these opening exchanges."},
			{Minute: 8, Text: "The tempo is picking up — first real spell of pressure building."},
		},
		ActionWindowSeconds:  15,
		ActionResolveSeconds: 3,
		ActionWinChance:      0.60,
		PowerUpChance:        0.25,
		OddsRefreshInterval:  20,
		GoalRecomputeDelayMS: 500,
		SummaryDelaySeconds:  2,
		CrowdChance:          0.08,
		CrowdWinChance:       0.45,
		CrowdPlayers: []string{
			"LuckyLuka", "BetMaster88", "GoalRush", "TopCornerTom",
			"NervyNina", "StoppageTimeSam", "XgXpert", "CleanSheetCarl",
		},
		Commentary: CommentaryPools{
			Early: []string{
				"Tidy spell of possession in midfield.",
				"An early corner — nothing comes of it.",
				"High press from the visitors forces a hurried clearance.",
				"The full-backs are pushing up aggressively already.",
			},
			Mid: []string{
				"Play has settled into a rhythm through the middle third.",
				"A crunching tackle near the halfway line — play waved on.",
				"The manager is gesturing furiously from the touchline.",
				"Long diagonal switches the point of attack — good spell here.",
				"Shot from distance drifts just wide of the post!",
			},
			Late: []string{
				"Legs are tiring — space opening up all over the pitch.",
				"The fourth official checks the board — stoppage time looms.",
				"Desperate defending inside the box — scrambled clear!",
				"Everyone forward now, caution thrown to the wind.",
			},
		},
		GoalTemplates: []string{
			"GOAL! %s break the deadlock with a clinical finish!",
			"GOAL! A thunderous strike from the edge of the box for %s!",
			"GOAL! %s convert from close range after a goalmouth scramble!",
			"GOAL! A towering header puts one away for %s!",
		},
		Actions: []ActionTemplate{
			{
				Prompt: "Corner kick awarded — will it lead to a shot on target?",
				Options: []ActionOption{
					{Label: "Yes", Odds: 1.8, Outcome: "yes"},
					{Label: "No", Odds: 1.9, Outcome: "no"},
				},
			},
			{
				Prompt: "Free kick in a dangerous position — direct attempt on goal?",
				Options: []ActionOption{
					{Label: "On target", Odds: 2.1, Outcome: "yes"},
					{Label: "Off target or blocked", Odds: 1.6, Outcome: "no"},
				},
			},
			{
				Prompt: "Who scores the next goal?",
				Options: []ActionOption{
					{Label: "Home side", Odds: 2.4, Outcome: "home"},
					{Label: "Away side", Odds: 2.6, Outcome: "away"},
					{Label: "No more goals", Odds: 3.8, Outcome: "none"},
				},
				MinMinute:     15,
				MaxMinute:     80,
				MaxTotalGoals: 4,
			},
			{
				Prompt: "Booking incoming — will the referee reach for a card?",
				Options: []ActionOption{
					{Label: "Card shown", Odds: 2.0, Outcome: "yes"},
					{Label: "Play on", Odds: 1.7, Outcome: "no"},
				},
			},
			{
				Prompt: "Double substitution being prepared — both changes before the 75th?",
				Options: []ActionOption{
					{Label: "Yes", Odds: 1.9, Outcome: "yes"},
					{Label: "No", Odds: 1.8, Outcome: "no"},
				},
				MinMinute: 60,
			},
			{
				Prompt: "Penalty shout in the box — does the referee point to the spot?",
				Options: []ActionOption{
					{Label: "Penalty given", Odds: 3.2, Outcome: "yes"},
					{Label: "No penalty", Odds: 1.3, Outcome: "no"},
				},
			},
		},
		Teams: []string{
			"Thames United", "Northgate Rovers", "Harborview FC", "Crestfield Athletic",
			"Ironbridge City", "Seaburn Wanderers", "Oakmoor Town", "Kingsreach Albion",
			"Redvale County", "Westmarsh FC", "Stonebrook Rangers", "Eastcliff United",
		},
	}
}
