package statmath

import (
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/shopspring/decimal"
)

const (
	zeroRate    = "0.000"
	zeroPercent = "0.0"
)

// TotalBases = 1B + 2×2B + 3×3B + 4×HR
func TotalBases(v models.StatVector) int {
	return v.Singles + 2*v.Doubles + 3*v.Triples + 4*v.HomeRuns
}

// Compute derives rate statistics from a counter set.
// Every rate is zero when there are no at-bats.
func Compute(v models.StatVector) models.DerivedMetrics {
	m := models.DerivedMetrics{
		TotalBases: TotalBases(v),
	}

	if v.AtBats == 0 {
		m.Display = models.MetricsDisplay{
			BattingAverage: zeroRate,
			OnBasePct:      zeroRate,
			SluggingPct:    zeroRate,
			OPS:            zeroRate,
			IsolatedPower:  zeroRate,
			BABIP:          zeroRate,
			StrikeoutRate:  zeroPercent,
			WalkRate:       zeroPercent,
			HomeRunRate:    zeroPercent,
		}
		return m
	}

	ab := float64(v.AtBats)
	m.BattingAverage = float64(v.Hits) / ab

	// OBP = (H + BB + HBP) / (AB + BB + HBP + SF)
	if denom := v.AtBats + v.Walks + v.HitByPitch + v.SacrificeFlies; denom > 0 {
		m.OnBasePct = float64(v.Hits+v.Walks+v.HitByPitch) / float64(denom)
	}

	m.SluggingPct = float64(m.TotalBases) / ab
	m.OPS = m.OnBasePct + m.SluggingPct
	m.IsolatedPower = m.SluggingPct - m.BattingAverage

	// BABIP = (H - HR) / (AB - SO - HR + SF)
	if bip := v.AtBats - v.Strikeouts - v.HomeRuns + v.SacrificeFlies; bip > 0 {
		m.BABIP = float64(v.Hits-v.HomeRuns) / float64(bip)
	}

	if v.PlateAppearances > 0 {
		pa := float64(v.PlateAppearances)
		m.StrikeoutRate = float64(v.Strikeouts) / pa * 100
		m.WalkRate = float64(v.Walks) / pa * 100
	}
	m.HomeRunRate = float64(v.HomeRuns) / ab * 100

	m.Display = models.MetricsDisplay{
		BattingAverage: FormatRate(m.BattingAverage),
		OnBasePct:      FormatRate(m.OnBasePct),
		SluggingPct:    FormatRate(m.SluggingPct),
		OPS:            FormatRate(m.OPS),
		IsolatedPower:  FormatRate(m.IsolatedPower),
		BABIP:          FormatRate(m.BABIP),
		StrikeoutRate:  FormatPercent(m.StrikeoutRate),
		WalkRate:       FormatPercent(m.WalkRate),
		HomeRunRate:    FormatPercent(m.HomeRunRate),
	}
	return m
}

// FormatRate renders a rate with three decimals, e.g. 0.5 → "0.500"
func FormatRate(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(3)
}

// FormatPercent renders a percentage with one decimal, e.g. 33.333 → "33.3"
func FormatPercent(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(1)
}

// Round rounds x to the given number of decimal places, half away from zero
func Round(x float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return f
}
