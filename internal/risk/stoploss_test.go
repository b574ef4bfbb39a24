package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
)

func TestStopLossRecommendation(t *testing.T) {
	tests := []struct {
		name        string
		entry       float64
		level       profile.RiskLevel
		recommended float64
		percent     float64
	}{
		{"conservative sits at the tight bound", 100, profile.RiskConservative, 98, 2},
		{"moderate sits between the bounds", 100, profile.RiskModerate, 95, 5},
		{"aggressive sits at the loose bound", 100, profile.RiskAggressive, 90, 10},
		{"scales with the entry price", 42000, profile.RiskModerate, 39900, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels := StopLossRecommendation(tt.entry, tt.level)

			if !closeTo(levels.ConservativePrice, tt.entry*0.98) {
				t.Errorf("ConservativePrice = %.4f, want %.4f", levels.ConservativePrice, tt.entry*0.98)
			}
			if !closeTo(levels.RecommendedPrice, tt.recommended) {
				t.Errorf("RecommendedPrice = %.4f, want %.4f", levels.RecommendedPrice, tt.recommended)
			}
			if !closeTo(levels.AggressivePrice, tt.entry*0.90) {
				t.Errorf("AggressivePrice = %.4f, want %.4f", levels.AggressivePrice, tt.entry*0.90)
			}
			if levels.RecommendedPercent != tt.percent {
				t.Errorf("RecommendedPercent = %.1f, want %.1f", levels.RecommendedPercent, tt.percent)
			}
			if levels.Reasoning == "" {
				t.Error("Reasoning is empty")
			}
		})
	}
}

// TestShouldStopOut_LossBreach checks a loss past the preset stop
// triggers a stop-out.
func TestShouldStopOut_LossBreach(t *testing.T) {
	check := ShouldStopOut(-2.5, 0.04, profile.RiskConservative)

	assert.True(t, check.Stop)
	assert.Contains(t, check.Reason, "stop-loss")
}

// TestShouldStopOut_LossAtThresholdHolds checks the stop is strict: a
// loss exactly at the preset percent does not trigger.
func TestShouldStopOut_LossAtThresholdHolds(t *testing.T) {
	check := ShouldStopOut(-2.0, 0.04, profile.RiskConservative)

	assert.False(t, check.Stop)
	assert.Empty(t, check.Reason)
}

// TestShouldStopOut_SpreadInversion checks a deeply inverted spread
// triggers a stop-out even while the position shows no loss.
func TestShouldStopOut_SpreadInversion(t *testing.T) {
	check := ShouldStopOut(0.5, -0.03, profile.RiskModerate)

	assert.True(t, check.Stop)
	assert.Contains(t, check.Reason, "inverted")
}

// TestShouldStopOut_ShallowInversionTolerated checks a slightly negative
// spread inside the tolerance band is left alone.
func TestShouldStopOut_ShallowInversionTolerated(t *testing.T) {
	check := ShouldStopOut(0.5, -0.01, profile.RiskModerate)

	assert.False(t, check.Stop)
}

// TestShouldStopOut_LossReportedBeforeInversion checks the precedence
// when both rules fire: the loss is the reported reason.
func TestShouldStopOut_LossReportedBeforeInversion(t *testing.T) {
	check := ShouldStopOut(-11, -0.05, profile.RiskAggressive)

	assert.True(t, check.Stop)
	assert.Contains(t, check.Reason, "stop-loss")
	assert.NotContains(t, check.Reason, "inverted")
}

// TestShouldStopOut_HealthyPosition checks a profitable position with a
// positive spread is kept.
func TestShouldStopOut_HealthyPosition(t *testing.T) {
	check := ShouldStopOut(1.2, 0.04, profile.RiskConservative)

	assert.False(t, check.Stop)
	assert.Empty(t, check.Reason)
}
