// Package csvimport reads and writes the spreadsheet layout used for batch game imports.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/statmath"
)

// ErrNoHeader is returned when the input has no header line
var ErrNoHeader = errors.New("csv has no header row")

// Column spellings accepted for each descriptive field, in lookup order
var (
	PlayerNameColumns = []string{"Player Name", "PlayerName"}
	JerseyColumns     = []string{"Jersey Number", "JerseyNumber"}
	DateColumns       = []string{"Date", "date"}
	OpponentColumns   = []string{"Opponent", "opponent"}
	PositionColumns   = []string{"Position", "Pos"}
)

// layout maps fields to column indexes, resolved once from the header
type layout struct {
	name     []int
	jersey   []int
	date     []int
	opponent []int
	position []int
	stats    [models.NumStatFields]int // -1 when the column is absent
}

func newLayout(header []string) *layout {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	lookup := func(names []string) []int {
		var out []int
		for _, n := range names {
			if i, ok := index[n]; ok {
				out = append(out, i)
			}
		}
		return out
	}

	l := &layout{
		name:     lookup(PlayerNameColumns),
		jersey:   lookup(JerseyColumns),
		date:     lookup(DateColumns),
		opponent: lookup(OpponentColumns),
		position: lookup(PositionColumns),
	}
	for i, f := range models.StatFields {
		l.stats[i] = -1
		if idx, ok := index[f.Code]; ok {
			l.stats[i] = idx
		}
	}
	return l
}

// first returns the first non-empty value among the candidate columns
func first(record []string, cols []int) string {
	for _, c := range cols {
		if c < len(record) {
			if v := strings.TrimSpace(record[c]); v != "" {
				return v
			}
		}
	}
	return ""
}

func (l *layout) row(line int, record []string) models.ImportRow {
	row := models.ImportRow{
		Line:         line,
		PlayerName:   first(record, l.name),
		JerseyNumber: first(record, l.jersey),
		Date:         first(record, l.date),
		Opponent:     first(record, l.opponent),
		Position:     first(record, l.position),
	}

	raw := make(map[string]string, models.NumStatFields)
	for i, f := range models.StatFields {
		if c := l.stats[i]; c >= 0 && c < len(record) {
			raw[f.Code] = record[c]
		}
	}

	stats, err := statmath.ParseVector(raw)
	if err != nil {
		row.Err = err
		return row
	}
	row.Stats = stats
	return row
}

// Parse reads a spreadsheet with a header line into import rows.
// Headers are matched case-sensitively. Blank lines are skipped and cell values trimmed.
// A counter that fails to parse is recorded on its row rather than failing the file.
func Parse(r io.Reader) ([]models.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	l := newLayout(header)

	var rows []models.ImportRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, l.row(len(rows)+1, record))
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
