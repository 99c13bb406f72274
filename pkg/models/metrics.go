package models

// DerivedMetrics holds rate statistics computed from a StatVector.
// Raw values feed charts; Display values are the formatted strings.
type DerivedMetrics struct {
	TotalBases     int            `json:"total_bases"`
	BattingAverage float64        `json:"batting_average"`
	OnBasePct      float64        `json:"on_base_percentage"`
	SluggingPct    float64        `json:"slugging_percentage"`
	OPS            float64        `json:"ops"`
	IsolatedPower  float64        `json:"isolated_power"`
	BABIP          float64        `json:"babip"`
	StrikeoutRate  float64        `json:"strikeout_rate"`
	WalkRate       float64        `json:"walk_rate"`
	HomeRunRate    float64        `json:"home_run_rate"`
	Display        MetricsDisplay `json:"display"`
}

// MetricsDisplay is DerivedMetrics formatted for display.
// Rates carry three decimals, percentages one.
type MetricsDisplay struct {
	BattingAverage string `json:"avg"`
	OnBasePct      string `json:"obp"`
	SluggingPct    string `json:"slg"`
	OPS            string `json:"ops"`
	IsolatedPower  string `json:"iso"`
	BABIP          string `json:"babip"`
	StrikeoutRate  string `json:"k_rate"`
	WalkRate       string `json:"bb_rate"`
	HomeRunRate    string `json:"hr_rate"`
}
