package models

import (
	"fmt"
	"strings"
)

// ImportRow is one parsed spreadsheet row
type ImportRow struct {
	Line         int // 1-based data row number, header excluded
	PlayerName   string
	JerseyNumber string
	Position     string
	Date         string
	Opponent     string
	Stats        StatVector
	Err          error // set when a counter failed to parse
}

// ImportSummary is the outcome of one batch import
type ImportSummary struct {
	BatchID      string   `json:"batch_id"`
	Imported     int      `json:"imported"`
	Failed       int      `json:"failed"`
	NewPlayers   int      `json:"new_players"`
	Errors       []string `json:"errors,omitempty"` // first few only
	MoreErrors   bool     `json:"more_errors"`
	FilterPlayer string   `json:"filter_player,omitempty"`
	Message      string   `json:"message"`
}

// MaxReportedErrors caps the row errors kept in an ImportSummary
const MaxReportedErrors = 3

// BuildMessage renders the human-readable import outcome
func (s *ImportSummary) BuildMessage() string {
	filterMsg := ""
	if s.FilterPlayer != "" {
		filterMsg = " for " + s.FilterPlayer
	}

	newPlayersMsg := ""
	if s.NewPlayers > 0 {
		plural := ""
		if s.NewPlayers > 1 {
			plural = "s"
		}
		newPlayersMsg = fmt.Sprintf(" (%d new player%s created)", s.NewPlayers, plural)
	}

	if s.Failed > 0 {
		more := ""
		if s.MoreErrors {
			more = "..."
		}
		return fmt.Sprintf("Imported %d games%s%s. %d errors: %s%s",
			s.Imported, filterMsg, newPlayersMsg, s.Failed, strings.Join(s.Errors, ", "), more)
	}

	return fmt.Sprintf("Successfully imported %d games%s%s!", s.Imported, filterMsg, newPlayersMsg)
}

// AddError records a row error, keeping only the first few messages
func (s *ImportSummary) AddError(msg string) {
	s.Failed++
	if len(s.Errors) < MaxReportedErrors {
		s.Errors = append(s.Errors, msg)
		return
	}
	s.MoreErrors = true
}
