package statmath

import (
	"fmt"
	"sort"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
)

// AveragePoint is one step of the cumulative batting average trend
type AveragePoint struct {
	Date     string  `json:"date"`
	Opponent string  `json:"opponent"`
	Avg      float64 `json:"avg"`
}

// HomeRunPoint is one step of the cumulative home run trend
type HomeRunPoint struct {
	Date     string `json:"date"`
	Opponent string `json:"opponent"`
	HomeRuns int    `json:"home_runs"`
}

// RatePoint holds one game's strikeout and walk rates
type RatePoint struct {
	Date     string  `json:"date"`
	Opponent string  `json:"opponent"`
	KRate    float64 `json:"k_rate"`
	BBRate   float64 `json:"bb_rate"`
}

// NamedValue is a labelled chart value
type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// OpponentSplit aggregates a player's games against one opponent
type OpponentSplit struct {
	Opponent string                `json:"opponent"`
	Games    int                   `json:"games"`
	Avg      float64               `json:"avg"`
	HomeRuns int                   `json:"home_runs"`
	Totals   models.StatVector     `json:"totals"`
	Metrics  models.DerivedMetrics `json:"metrics"`
}

// ComparisonPoint compares one metric across two players
type ComparisonPoint struct {
	Metric  string  `json:"metric"`
	Player1 float64 `json:"player1"`
	Player2 float64 `json:"player2"`
}

// Insight is a short highlight about a player's season
type Insight struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Trends bundles the chart series for one player
type Trends struct {
	BattingAverage  []AveragePoint  `json:"batting_average"`
	HomeRuns        []HomeRunPoint  `json:"home_runs"`
	StrikeoutWalk   []RatePoint     `json:"strikeout_walk"`
	HitDistribution []NamedValue    `json:"hit_distribution"`
	ByOpponent      []OpponentSplit `json:"by_opponent"`
	AdvancedStats   []NamedValue    `json:"advanced_stats"`
	Insights        []Insight       `json:"insights"`
}

// BuildTrends computes every chart series for a player from its games
func BuildTrends(p *models.Player, games []models.Game) Trends {
	ordered := Chronological(games)
	return Trends{
		BattingAverage:  BattingAverageTrend(ordered),
		HomeRuns:        HomeRunTrend(ordered),
		StrikeoutWalk:   StrikeoutWalkRates(ordered),
		HitDistribution: HitDistribution(p.Totals),
		ByOpponent:      ByOpponent(ordered),
		AdvancedStats:   AdvancedStats(p.Totals),
		Insights:        Insights(p),
	}
}

// Chronological returns a copy of games ordered by game date, oldest first
func Chronological(games []models.Game) []models.Game {
	out := make([]models.Game, len(games))
	copy(out, games)
	sort.SliceStable(out, func(i, j int) bool {
		return DateBefore(out[i].Date, out[j].Date)
	})
	return out
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
}

// ParseDate reads a game date in any of the accepted layouts
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateBefore orders game dates, falling back to text order when a date does not parse
func DateBefore(a, b string) bool {
	ta, okA := ParseDate(a)
	tb, okB := ParseDate(b)
	if okA && okB {
		return ta.Before(tb)
	}
	return a < b
}

// BattingAverageTrend returns the running batting average after each game
func BattingAverageTrend(games []models.Game) []AveragePoint {
	points := make([]AveragePoint, 0, len(games))
	hits, atBats := 0, 0
	for _, g := range games {
		hits += g.Stats.Hits
		atBats += g.Stats.AtBats
		avg := 0.0
		if atBats > 0 {
			avg = Round(float64(hits)/float64(atBats), 3)
		}
		points = append(points, AveragePoint{Date: g.Date, Opponent: g.Opponent, Avg: avg})
	}
	return points
}

// HomeRunTrend returns the running home run total after each game
func HomeRunTrend(games []models.Game) []HomeRunPoint {
	points := make([]HomeRunPoint, 0, len(games))
	total := 0
	for _, g := range games {
		total += g.Stats.HomeRuns
		points = append(points, HomeRunPoint{Date: g.Date, Opponent: g.Opponent, HomeRuns: total})
	}
	return points
}

// StrikeoutWalkRates returns per-game K% and BB%, one decimal
func StrikeoutWalkRates(games []models.Game) []RatePoint {
	points := make([]RatePoint, 0, len(games))
	for _, g := range games {
		p := RatePoint{Date: g.Date, Opponent: g.Opponent}
		if pa := g.Stats.PlateAppearances; pa > 0 {
			p.KRate = Round(float64(g.Stats.Strikeouts)/float64(pa)*100, 1)
			p.BBRate = Round(float64(g.Stats.Walks)/float64(pa)*100, 1)
		}
		points = append(points, p)
	}
	return points
}

// HitDistribution breaks hits down by type, omitting empty types
func HitDistribution(v models.StatVector) []NamedValue {
	all := []NamedValue{
		{Name: "Singles", Value: float64(v.Singles)},
		{Name: "Doubles", Value: float64(v.Doubles)},
		{Name: "Triples", Value: float64(v.Triples)},
		{Name: "Home Runs", Value: float64(v.HomeRuns)},
	}
	out := make([]NamedValue, 0, len(all))
	for _, nv := range all {
		if nv.Value > 0 {
			out = append(out, nv)
		}
	}
	return out
}

// ByOpponent splits games per opponent, in order of first appearance
func ByOpponent(games []models.Game) []OpponentSplit {
	index := make(map[string]int)
	var splits []OpponentSplit
	for _, g := range games {
		i, ok := index[g.Opponent]
		if !ok {
			i = len(splits)
			index[g.Opponent] = i
			splits = append(splits, OpponentSplit{Opponent: g.Opponent})
		}
		splits[i].Games++
		splits[i].Totals = splits[i].Totals.Add(g.Stats)
	}

	for i := range splits {
		t := splits[i].Totals
		if t.AtBats > 0 {
			splits[i].Avg = Round(float64(t.Hits)/float64(t.AtBats), 3)
		}
		splits[i].HomeRuns = t.HomeRuns
		splits[i].Metrics = Compute(t)
	}
	return splits
}

// AdvancedStats scales the main rates by 1000 for a bar chart
func AdvancedStats(v models.StatVector) []NamedValue {
	m := Compute(v)
	return []NamedValue{
		{Name: "AVG", Value: Round(m.BattingAverage*1000, 0)},
		{Name: "OBP", Value: Round(m.OnBasePct*1000, 0)},
		{Name: "SLG", Value: Round(m.SluggingPct*1000, 0)},
		{Name: "OPS", Value: Round(m.OPS*1000, 0)},
		{Name: "ISO", Value: Round(m.IsolatedPower*1000, 0)},
		{Name: "BABIP", Value: Round(m.BABIP*1000, 0)},
	}
}

// Compare lines two players up on a shared scale
func Compare(a, b models.StatVector) []ComparisonPoint {
	ma, mb := Compute(a), Compute(b)
	return []ComparisonPoint{
		{Metric: "AVG", Player1: ma.BattingAverage * 1000, Player2: mb.BattingAverage * 1000},
		{Metric: "OBP", Player1: ma.OnBasePct * 1000, Player2: mb.OnBasePct * 1000},
		{Metric: "SLG", Player1: ma.SluggingPct * 1000, Player2: mb.SluggingPct * 1000},
		{Metric: "ISO", Player1: ma.IsolatedPower * 1000, Player2: mb.IsolatedPower * 1000},
		{Metric: "HR Rate", Player1: ma.HomeRunRate * 10, Player2: mb.HomeRunRate * 10},
		{Metric: "BB Rate", Player1: ma.WalkRate, Player2: mb.WalkRate},
	}
}

// Insights flags standout numbers in a player's season
func Insights(p *models.Player) []Insight {
	m := Compute(p.Totals)
	var out []Insight

	if m.BattingAverage >= 0.300 {
		out = append(out, Insight{Kind: "average", Text: fmt.Sprintf("Elite batting average of %s!", m.Display.BattingAverage)})
	}
	if m.OPS >= 0.900 {
		out = append(out, Insight{Kind: "ops", Text: fmt.Sprintf("Outstanding OPS of %s!", m.Display.OPS)})
	}
	if m.IsolatedPower >= 0.200 {
		out = append(out, Insight{Kind: "power", Text: fmt.Sprintf("Excellent power with ISO of %s!", m.Display.IsolatedPower)})
	}
	// no at-bats means no K% worth reporting
	if p.Totals.AtBats > 0 && m.StrikeoutRate < 15 {
		out = append(out, Insight{Kind: "discipline", Text: fmt.Sprintf("Great plate discipline with %s%% K rate!", m.Display.StrikeoutRate)})
	}
	if m.WalkRate > 10 {
		out = append(out, Insight{Kind: "eye", Text: fmt.Sprintf("Strong eye with %s%% walk rate!", m.Display.WalkRate)})
	}
	if p.Totals.StolenBases > 10 {
		out = append(out, Insight{Kind: "speed", Text: fmt.Sprintf("Speed threat with %d stolen bases!", p.Totals.StolenBases)})
	}
	return out
}
