package profile

// Preset bundles the guard rails for one risk appetite. MinSpread is a
// funding-spread fraction per period; the percent fields are percents.
type Preset struct {
	MaxPositionSizePercent float64 `json:"maxPositionSizePercent"`
	DailyTargetPercent     float64 `json:"dailyTargetPercent"`
	MinSpread              float64 `json:"minSpread"`
	MaxLeverage            float64 `json:"maxLeverage"`
	StopLossPercent        float64 `json:"stopLossPercent"`
	DiversificationMin     int     `json:"diversificationMin"`
	RiskWeight             float64 `json:"riskWeight"`
}

// presets is the fixed preset table. Conservative trades small and
// spread out; aggressive concentrates capital and tolerates thin
// spreads.
var presets = map[RiskLevel]Preset{
	RiskConservative: {
		MaxPositionSizePercent: 20,
		DailyTargetPercent:     2.0,
		MinSpread:              0.05,
		MaxLeverage:            3,
		StopLossPercent:        2,
		DiversificationMin:     5,
		RiskWeight:             2.0,
	},
	RiskModerate: {
		MaxPositionSizePercent: 40,
		DailyTargetPercent:     1.0,
		MinSpread:              0.03,
		MaxLeverage:            5,
		StopLossPercent:        5,
		DiversificationMin:     3,
		RiskWeight:             1.0,
	},
	RiskAggressive: {
		MaxPositionSizePercent: 80,
		DailyTargetPercent:     0.5,
		MinSpread:              0.01,
		MaxLeverage:            10,
		StopLossPercent:        10,
		DiversificationMin:     1,
		RiskWeight:             0.5,
	},
}

// PresetFor returns the preset for a risk level. Unknown levels fall
// back to moderate so malformed data degrades instead of failing.
func PresetFor(level RiskLevel) Preset {
	if preset, ok := presets[level]; ok {
		return preset
	}
	return presets[RiskModerate]
}

// Levels returns the known risk levels in conservative-to-aggressive
// order for display.
func Levels() []RiskLevel {
	return []RiskLevel{RiskConservative, RiskModerate, RiskAggressive}
}
