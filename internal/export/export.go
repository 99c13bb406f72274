// Package export renders rosters and game logs as downloadable CSV sheets.
package export

import (
	"bytes"
	"encoding/csv"
	"regexp"
	"sort"
	"strconv"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/statmath"
)

// File names for the roster-wide exports
const (
	AllPlayersFilename = "All_Players_Stats.csv"
	AllGamesFilename   = "All_Games_Log.csv"
)

// missingJersey is shown for games whose player was deleted
const missingJersey = "N/A"

var whitespace = regexp.MustCompile(`\s+`)

// PlayerStatsFilename names a single player's stats sheet
func PlayerStatsFilename(p *models.Player) string {
	return whitespace.ReplaceAllString(p.Name, "_") + "_Stats.csv"
}

// PlayerGameLogFilename names a single player's game log
func PlayerGameLogFilename(p *models.Player) string {
	return whitespace.ReplaceAllString(p.Name, "_") + "_Game_Log.csv"
}

// sheet writes CSV records with free-form blank lines between sections
type sheet struct {
	buf bytes.Buffer
	w   *csv.Writer
}

func newSheet() *sheet {
	s := &sheet{}
	s.w = csv.NewWriter(&s.buf)
	return s
}

func (s *sheet) row(fields ...string) {
	s.w.Write(fields)
}

func (s *sheet) blank() {
	s.w.Flush()
	s.buf.WriteByte('\n')
}

func (s *sheet) bytes() ([]byte, error) {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return nil, err
	}
	return s.buf.Bytes(), nil
}

// gameColumns are the per-game counters included in game logs; SF and SH are left out
var gameColumns = models.StatFields[:15]

func gameCodes() []string {
	out := make([]string, len(gameColumns))
	for i, f := range gameColumns {
		out[i] = f.Code
	}
	return out
}

func gameValues(v models.StatVector) []string {
	vals := v.Values()
	out := make([]string, len(gameColumns))
	for i := range gameColumns {
		out[i] = strconv.Itoa(vals[i])
	}
	return out
}

// PlayerStats renders one player's season totals and headline rates
func PlayerStats(p *models.Player) ([]byte, error) {
	m := statmath.Compute(p.Totals)
	s := newSheet()

	s.row("Player Statistics Export")
	s.blank()
	s.row("Name", p.Name)
	s.row("Jersey Number", p.JerseyNumber)
	s.row("Position", p.Position)
	s.blank()

	s.row("Season Totals")
	s.row("Games Played", strconv.Itoa(p.GamesPlayed))
	vals := p.Totals.Values()
	for i, f := range gameColumns {
		s.row(f.Label, strconv.Itoa(vals[i]))
	}
	s.blank()

	s.row("Advanced Metrics")
	s.row("Batting Average", m.Display.BattingAverage)
	s.row("On-Base Percentage", m.Display.OnBasePct)
	s.row("Slugging Percentage", m.Display.SluggingPct)
	s.row("OPS", m.Display.OPS)

	return s.bytes()
}

// AllPlayers renders the roster as one row per player
func AllPlayers(players []models.Player) ([]byte, error) {
	s := newSheet()

	header := append([]string{"Name", "Jersey", "Position", "GP"}, gameCodes()...)
	s.row(append(header, "AVG", "OBP", "SLG", "OPS")...)

	for _, p := range players {
		m := statmath.Compute(p.Totals)
		rec := []string{p.Name, p.JerseyNumber, p.Position, strconv.Itoa(p.GamesPlayed)}
		rec = append(rec, gameValues(p.Totals)...)
		rec = append(rec, m.Display.BattingAverage, m.Display.OnBasePct, m.Display.SluggingPct, m.Display.OPS)
		s.row(rec...)
	}

	return s.bytes()
}

// PlayerGameLog renders one player's games, oldest first
func PlayerGameLog(p *models.Player, games []models.Game) ([]byte, error) {
	s := newSheet()

	s.row("Game Log - " + p.Name)
	s.blank()
	s.row(append([]string{"Date", "Opponent"}, gameCodes()...)...)

	for _, g := range statmath.Chronological(games) {
		if g.PlayerID != p.ID {
			continue
		}
		s.row(append([]string{g.Date, g.Opponent}, gameValues(g.Stats)...)...)
	}

	return s.bytes()
}

// AllGames renders every game, newest game date first. Games of deleted players
// show as "Unknown" with jersey "N/A".
func AllGames(players []models.Player, games []models.Game) ([]byte, error) {
	byID := make(map[string]*models.Player, len(players))
	for i := range players {
		byID[players[i].ID] = &players[i]
	}

	ordered := make([]models.Game, len(games))
	copy(ordered, games)
	sort.SliceStable(ordered, func(i, j int) bool {
		return statmath.DateBefore(ordered[j].Date, ordered[i].Date)
	})

	s := newSheet()
	s.row(append([]string{"Player Name", "Jersey", "Date", "Opponent"}, gameCodes()...)...)

	for _, g := range ordered {
		name, jersey := models.UnknownPlayer, missingJersey
		if p, ok := byID[g.PlayerID]; ok {
			name, jersey = p.Name, p.JerseyNumber
		}
		s.row(append([]string{name, jersey, g.Date, g.Opponent}, gameValues(g.Stats)...)...)
	}

	return s.bytes()
}
