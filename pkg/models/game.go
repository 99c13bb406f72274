package models

import "time"

// Game is one logged game performance for one player.
// Stats always hold one unit, regardless of the multiplier used at entry.
type Game struct {
	ID        string     `json:"id"`
	UserID    string     `json:"-"`
	PlayerID  string     `json:"player_id"`
	Date      string     `json:"date"`
	Opponent  string     `json:"opponent"`
	Stats     StatVector `json:"stats"`
	BatchID   string     `json:"batch_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsManual reports whether the game was entered by hand rather than imported
func (g *Game) IsManual() bool {
	return g.BatchID == ""
}

// GameEntry is a manual game submission
type GameEntry struct {
	PlayerID string     `json:"player_id"`
	Date     string     `json:"date"`
	Opponent string     `json:"opponent"`
	NumGames int        `json:"num_games"` // 0 is treated as 1
	Stats    StatVector `json:"stats"`
}

// GameEdit replaces a game's descriptive fields and stats
type GameEdit struct {
	Date     string     `json:"date"`
	Opponent string     `json:"opponent"`
	Stats    StatVector `json:"stats"`
}

// GameFilters narrows game listings
type GameFilters struct {
	PlayerID string
	BatchID  string
}

// GameLogEntry is a game with its resolved player label
type GameLogEntry struct {
	Game
	PlayerLabel string `json:"player_label"`
}

// BatchInfo summarizes one import batch
type BatchInfo struct {
	BatchID   string    `json:"batch_id"`
	GameCount int       `json:"game_count"`
	CreatedAt time.Time `json:"created_at"`
	Games     []Game    `json:"games"`
}

// UndoResult reports the effect of an undo
type UndoResult struct {
	GamesRemoved   int      `json:"games_removed"`
	PlayersUpdated int      `json:"players_updated"`
	Warnings       []string `json:"warnings,omitempty"`
}

// EditResult reports the effect of an edit
type EditResult struct {
	Game     Game       `json:"game"`
	Diff     StatVector `json:"diff"`
	Warnings []string   `json:"warnings,omitempty"`
}
