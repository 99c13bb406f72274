package models

import (
	"fmt"
	"strings"
	"time"
)

// Player is one roster entry with its season totals
type Player struct {
	ID           string     `json:"id"`
	UserID       string     `json:"-"`
	Name         string     `json:"name"`
	JerseyNumber string     `json:"jersey_number"` // kept as text, "07" != "7"
	Position     string     `json:"position"`
	GamesPlayed  int        `json:"games_played"`
	Totals       StatVector `json:"totals"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Label renders the player as shown in game logs
func (p *Player) Label() string {
	if p == nil {
		return UnknownPlayer
	}
	return fmt.Sprintf("%s (#%s)", p.Name, p.JerseyNumber)
}

// MatchKey is the identity used to resolve spreadsheet rows to roster entries
func MatchKey(name, jersey string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "-" + strings.TrimSpace(jersey)
}

// Matches reports whether the player is identified by name and jersey
func (p *Player) Matches(name, jersey string) bool {
	return strings.ToLower(strings.TrimSpace(p.Name)) == strings.ToLower(strings.TrimSpace(name)) &&
		p.JerseyNumber == strings.TrimSpace(jersey)
}

// UnknownPlayer is rendered for games whose player no longer exists
const UnknownPlayer = "Unknown"

// Positions is the roster position enumeration
var Positions = []string{
	"Pitcher",
	"Catcher",
	"First Base",
	"Second Base",
	"Third Base",
	"Shortstop",
	"Left Field",
	"Center Field",
	"Right Field",
	"Designated Hitter",
}

// IsValidPosition reports whether pos is one of Positions
func IsValidPosition(pos string) bool {
	for _, p := range Positions {
		if p == pos {
			return true
		}
	}
	return false
}

// NewPlayerRequest is the body of an explicit roster addition
type NewPlayerRequest struct {
	Name         string `json:"name"`
	JerseyNumber string `json:"jersey_number"`
	Position     string `json:"position"`
}

// PlayerWithMetrics pairs a player with derived metrics of its totals
type PlayerWithMetrics struct {
	Player
	Metrics DerivedMetrics `json:"metrics"`
}
