package statmath

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/shopspring/decimal"
)

// NumOrZero normalizes a raw counter input.
// Empty or whitespace-only input is 0; anything else must be a non-negative whole number.
func NumOrZero(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("not a whole number: %q", raw)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative value: %q", raw)
	}
	if !d.LessThanOrEqual(decimal.NewFromInt(maxCounter)) {
		return 0, fmt.Errorf("value too large: %q", raw)
	}

	return int(d.IntPart()), nil
}

// maxCounter bounds a single counter input
const maxCounter = 1_000_000

// ParseVector normalizes raw counters keyed by spreadsheet code (PA, AB, 1B, ...).
// Missing codes are zero.
func ParseVector(raw map[string]string) (models.StatVector, error) {
	var vals [models.NumStatFields]int
	for i, f := range models.StatFields {
		n, err := NumOrZero(raw[f.Code])
		if err != nil {
			return models.StatVector{}, fmt.Errorf("invalid value for %s: %w", f.Code, err)
		}
		vals[i] = n
	}
	return models.FromValues(vals), nil
}

// DecodeCounter normalizes one counter from a JSON request body.
// null and "" are 0; numbers may arrive bare or quoted.
func DecodeCounter(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		return 0, nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("not a number: %s", raw)
		}
		return NumOrZero(s)
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		return NumOrZero(string(raw))
	default:
		return 0, fmt.Errorf("not a number: %s", raw)
	}
}

// DecodeVector normalizes counters from a JSON object keyed by stat key (at_bats, hits, ...).
// Missing keys are zero; unknown keys are rejected.
func DecodeVector(raw map[string]json.RawMessage) (models.StatVector, error) {
	index := make(map[string]int, models.NumStatFields)
	for i, f := range models.StatFields {
		index[f.Key] = i
	}
	for key := range raw {
		if _, ok := index[key]; !ok {
			return models.StatVector{}, fmt.Errorf("unknown stat %q", key)
		}
	}

	var vals [models.NumStatFields]int
	for i, f := range models.StatFields {
		n, err := DecodeCounter(raw[f.Key])
		if err != nil {
			return models.StatVector{}, fmt.Errorf("invalid value for %s: %w", f.Code, err)
		}
		vals[i] = n
	}
	return models.FromValues(vals), nil
}
