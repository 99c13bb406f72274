package csvimport

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
)

// Download file names
const (
	TemplateFilename = "baseball_stats_template.csv"
	SampleFilename   = "baseball_stats_sample.csv"
)

// Header is the column order written by Template and Sample
func Header() []string {
	h := []string{"Player Name", "Jersey Number", "Date", "Opponent"}
	for _, f := range models.StatFields {
		h = append(h, f.Code)
	}
	return h
}

// sampleLine is one canned game in StatFields order
type sampleLine struct {
	opponent string
	stats    [models.NumStatFields]int
}

var sampleLines = []sampleLine{
	{"Hawks", [models.NumStatFields]int{4, 4, 3, 1, 2, 0, 0, 2, 3, 0, 0, 0, 1, 0, 0, 0, 0}},
	{"Tigers", [models.NumStatFields]int{5, 4, 2, 1, 0, 0, 1, 2, 3, 1, 0, 1, 0, 0, 0, 0, 0}},
	{"Lions", [models.NumStatFields]int{3, 3, 1, 0, 1, 0, 0, 1, 1, 0, 0, 1, 2, 0, 1, 0, 0}},
	{"Bears", [models.NumStatFields]int{4, 3, 0, 0, 0, 0, 0, 0, 0, 1, 0, 2, 0, 0, 0, 0, 0}},
	{"Eagles", [models.NumStatFields]int{4, 4, 2, 2, 0, 0, 0, 1, 0, 0, 0, 1, 1, 0, 0, 0, 0}},
}

var templateFallback = [][]string{
	{"John Smith", "12", "2024-10-15", "Eagles", "4", "3", "2", "1", "1", "0", "0", "1", "2", "1", "0", "1", "0", "0", "0", "0", "0"},
	{"Jane Doe", "7", "2024-10-15", "Eagles", "3", "3", "1", "1", "0", "0", "0", "0", "1", "0", "0", "0", "1", "0", "0", "0", "0"},
}

var sampleFallback = [][]string{
	{"Mike Johnson", "5", "2024-10-20", "Hawks", "4", "4", "3", "1", "2", "0", "0", "2", "3", "0", "0", "0", "1", "0", "0", "0", "0"},
	{"Mike Johnson", "5", "2024-10-19", "Tigers", "5", "4", "2", "1", "0", "0", "1", "2", "3", "1", "0", "1", "0", "0", "0", "0", "0"},
	{"Sarah Davis", "12", "2024-10-20", "Hawks", "3", "3", "1", "0", "1", "0", "0", "1", "1", "0", "0", "1", "2", "0", "1", "0", "0"},
	{"Sarah Davis", "12", "2024-10-19", "Tigers", "4", "3", "0", "0", "0", "0", "0", "0", "0", "1", "0", "2", "0", "0", "0", "0", "0"},
}

// Template builds the import template: one line for each of the first three roster
// players, dated today and the two days before, or two example lines for an empty roster.
func Template(players []models.Player, now time.Time) ([]byte, error) {
	if len(players) == 0 {
		return write(templateFallback)
	}

	var records [][]string
	for i, p := range players {
		if i == 3 {
			break
		}
		records = append(records, record(p, daysAgo(now, i), sampleLines[i]))
	}
	return write(records)
}

// Sample builds five games for each of the first two roster players,
// or four example lines for an empty roster.
func Sample(players []models.Player, now time.Time) ([]byte, error) {
	if len(players) == 0 {
		return write(sampleFallback)
	}

	var records [][]string
	for i, p := range players {
		if i == 2 {
			break
		}
		for day, line := range sampleLines {
			records = append(records, record(p, daysAgo(now, day), line))
		}
	}
	return write(records)
}

func daysAgo(now time.Time, n int) string {
	return now.UTC().AddDate(0, 0, -n).Format("2006-01-02")
}

func record(p models.Player, date string, line sampleLine) []string {
	out := []string{p.Name, p.JerseyNumber, date, line.opponent}
	for _, v := range line.stats {
		out = append(out, strconv.Itoa(v))
	}
	return out
}

func write(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header()); err != nil {
		return nil, err
	}
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
