package models

import "fmt"

// StatVector holds the seventeen batting counters shared by players and games
type StatVector struct {
	PlateAppearances int `json:"plate_appearances"`
	AtBats           int `json:"at_bats"`
	Hits             int `json:"hits"`
	Singles          int `json:"singles"`
	Doubles          int `json:"doubles"`
	Triples          int `json:"triples"`
	HomeRuns         int `json:"home_runs"`
	Runs             int `json:"runs"`
	RBIs             int `json:"rbis"`
	Walks            int `json:"walks"`
	HitByPitch       int `json:"hit_by_pitch"`
	Strikeouts       int `json:"strikeouts"`
	StolenBases      int `json:"stolen_bases"`
	CaughtStealing   int `json:"caught_stealing"`
	Errors           int `json:"errors"`
	SacrificeFlies   int `json:"sacrifice_flies"`
	SacrificeBunts   int `json:"sacrifice_bunts"`
}

// StatField describes one counter of a StatVector
type StatField struct {
	Code  string // spreadsheet column, e.g. "1B"
	Key   string // json key, e.g. "singles"
	Label string // display label, e.g. "Singles"
}

// StatFields lists the counters in StatVector order
var StatFields = [NumStatFields]StatField{
	{Code: "PA", Key: "plate_appearances", Label: "Plate Appearances"},
	{Code: "AB", Key: "at_bats", Label: "At Bats"},
	{Code: "H", Key: "hits", Label: "Hits"},
	{Code: "1B", Key: "singles", Label: "Singles"},
	{Code: "2B", Key: "doubles", Label: "Doubles"},
	{Code: "3B", Key: "triples", Label: "Triples"},
	{Code: "HR", Key: "home_runs", Label: "Home Runs"},
	{Code: "R", Key: "runs", Label: "Runs"},
	{Code: "RBI", Key: "rbis", Label: "RBIs"},
	{Code: "BB", Key: "walks", Label: "Walks"},
	{Code: "HBP", Key: "hit_by_pitch", Label: "Hit By Pitch"},
	{Code: "SO", Key: "strikeouts", Label: "Strikeouts"},
	{Code: "SB", Key: "stolen_bases", Label: "Stolen Bases"},
	{Code: "CS", Key: "caught_stealing", Label: "Caught Stealing"},
	{Code: "E", Key: "errors", Label: "Errors"},
	{Code: "SF", Key: "sacrifice_flies", Label: "Sacrifice Flies"},
	{Code: "SH", Key: "sacrifice_bunts", Label: "Sacrifice Bunts"},
}

// NumStatFields is the number of counters in a StatVector
const NumStatFields = 17

// Values returns the counters in StatFields order
func (v StatVector) Values() [NumStatFields]int {
	return [NumStatFields]int{
		v.PlateAppearances, v.AtBats, v.Hits, v.Singles, v.Doubles, v.Triples,
		v.HomeRuns, v.Runs, v.RBIs, v.Walks, v.HitByPitch, v.Strikeouts,
		v.StolenBases, v.CaughtStealing, v.Errors, v.SacrificeFlies, v.SacrificeBunts,
	}
}

// FromValues builds a StatVector from counters in StatFields order
func FromValues(vals [NumStatFields]int) StatVector {
	return StatVector{
		PlateAppearances: vals[0],
		AtBats:           vals[1],
		Hits:             vals[2],
		Singles:          vals[3],
		Doubles:          vals[4],
		Triples:          vals[5],
		HomeRuns:         vals[6],
		Runs:             vals[7],
		RBIs:             vals[8],
		Walks:            vals[9],
		HitByPitch:       vals[10],
		Strikeouts:       vals[11],
		StolenBases:      vals[12],
		CaughtStealing:   vals[13],
		Errors:           vals[14],
		SacrificeFlies:   vals[15],
		SacrificeBunts:   vals[16],
	}
}

// Pointers returns addressable counters in StatFields order
func (v *StatVector) Pointers() [NumStatFields]*int {
	return [NumStatFields]*int{
		&v.PlateAppearances, &v.AtBats, &v.Hits, &v.Singles, &v.Doubles, &v.Triples,
		&v.HomeRuns, &v.Runs, &v.RBIs, &v.Walks, &v.HitByPitch, &v.Strikeouts,
		&v.StolenBases, &v.CaughtStealing, &v.Errors, &v.SacrificeFlies, &v.SacrificeBunts,
	}
}

// Add returns v + o component-wise
func (v StatVector) Add(o StatVector) StatVector {
	a, b := v.Values(), o.Values()
	for i := range a {
		a[i] += b[i]
	}
	return FromValues(a)
}

// Sub returns v - o component-wise. The result may be negative; it is used for edit diffs.
func (v StatVector) Sub(o StatVector) StatVector {
	a, b := v.Values(), o.Values()
	for i := range a {
		a[i] -= b[i]
	}
	return FromValues(a)
}

// Scale returns v multiplied by n component-wise
func (v StatVector) Scale(n int) StatVector {
	a := v.Values()
	for i := range a {
		a[i] *= n
	}
	return FromValues(a)
}

// ClampedSub returns v - o with every component floored at zero
func (v StatVector) ClampedSub(o StatVector) StatVector {
	a, b := v.Values(), o.Values()
	for i := range a {
		a[i] = clamp(a[i] - b[i])
	}
	return FromValues(a)
}

// ClampedAdd returns v + d with every component floored at zero.
// d may carry negative components (an edit diff).
func (v StatVector) ClampedAdd(d StatVector) StatVector {
	a, b := v.Values(), d.Values()
	for i := range a {
		a[i] = clamp(a[i] + b[i])
	}
	return FromValues(a)
}

// IsZero reports whether every counter is zero
func (v StatVector) IsZero() bool {
	return v == StatVector{}
}

// Validate rejects negative counters
func (v StatVector) Validate() error {
	for i, val := range v.Values() {
		if val < 0 {
			return fmt.Errorf("%s cannot be negative (got %d)", StatFields[i].Code, val)
		}
	}
	return nil
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
