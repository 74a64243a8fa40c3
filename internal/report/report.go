// Package report turns assessment output into the narrative commentary shown
// on the dashboard: per-station findings plus the per-chart insight text.
package report

import (
	"fmt"
	"sort"

	"github.com/gridaudit/gridaudit/internal/assess"
	"github.com/gridaudit/gridaudit/internal/derive"
)

// Finding levels, worst first in display order.
const (
	LevelCritical = "critical"
	LevelWarning  = "warning"
	LevelInfo     = "info"
	LevelOK       = "ok"
)

// Finding is one human-readable insight about a station. The UI displays
// these as cards; Detail is written in plain English for a non-specialist
// facilities audience.
type Finding struct {
	// Key is a stable machine-readable identifier (used for dedup/ordering).
	Key string `json:"key"`
	// Level is "ok" | "info" | "warning" | "critical".
	Level string `json:"level"`
	// Title is a short label for the card header.
	Title string `json:"title"`
	// Detail is the full explanation.
	Detail string `json:"detail"`
	// Value is an optional numeric value associated with this finding.
	Value *float64 `json:"value,omitempty"`
}

// degenerateWarnFraction is the share of degenerate rows above which the
// data-quality finding escalates from info to warning.
const degenerateWarnFraction = 0.01

// Findings derives the station's commentary from its assessments and
// derivation statistics. Output is ordered critical first, then warnings,
// then info, then ok.
func Findings(assessments []assess.Assessment, stats derive.Stats, skippedRows int) []Finding {
	var out []Finding

	allGood := true
	for _, a := range assessments {
		if a.Rating == assess.RatingGood {
			continue
		}
		allGood = false
		level := LevelWarning
		if a.Rating == assess.RatingPoor {
			level = LevelCritical
		}
		v := a.Value
		out = append(out, Finding{
			Key:    "metric_" + a.Metric,
			Level:  level,
			Title:  a.Name,
			Detail: fmt.Sprintf("%s averaged %s (range %s to %s). %s", a.Name, formatValue(a.Value, a.Unit), formatValue(a.Summary.Min, a.Unit), formatValue(a.Summary.Max, a.Unit), a.Recommendation),
			Value:  &v,
		})
	}

	if stats.NegativeLossRows > 0 {
		v := float64(stats.NegativeLossRows)
		out = append(out, Finding{
			Key:   "negative_harmonic_loss",
			Level: LevelWarning,
			Title: "Measurement Anomaly",
			Detail: fmt.Sprintf(
				"%d of %d intervals report apparent power below active power, so harmonic loss comes out negative and power factor above 1. That is physically impossible and points to a metering or channel-labeling problem; verify the CT/VT wiring on the logger before trusting the power figures.",
				stats.NegativeLossRows, stats.Rows),
			Value: &v,
		})
	}

	if deg := stats.Degenerate(); deg > 0 {
		level := LevelInfo
		if stats.Rows > 0 && float64(deg) > degenerateWarnFraction*float64(stats.Rows) {
			level = LevelWarning
		}
		v := float64(deg)
		out = append(out, Finding{
			Key:   "degenerate_rows",
			Level: level,
			Title: "Degenerate Intervals",
			Detail: fmt.Sprintf(
				"%d of %d intervals had a zero denominator (dead bus: %d, no load: %d, zero apparent power: %d). The affected derived values are reported as 0 by policy rather than left undefined.",
				deg, stats.Rows, stats.ZeroVoltageRows, stats.ZeroCurrentRows, stats.ZeroApparentRows),
			Value: &v,
		})
	}

	if skippedRows > 0 {
		v := float64(skippedRows)
		out = append(out, Finding{
			Key:    "skipped_rows",
			Level:  LevelInfo,
			Title:  "Unparsable Rows",
			Detail: fmt.Sprintf("%d rows in the export could not be parsed and were excluded from the analysis.", skippedRows),
			Value:  &v,
		})
	}

	if allGood && len(assessments) > 0 {
		out = append(out, Finding{
			Key:    "all_good",
			Level:  LevelOK,
			Title:  "Power Quality Nominal",
			Detail: "All assessed metrics are within their recommended limits for the audited period.",
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return levelRank(out[i].Level) < levelRank(out[j].Level)
	})
	return out
}

func levelRank(level string) int {
	switch level {
	case LevelCritical:
		return 0
	case LevelWarning:
		return 1
	case LevelInfo:
		return 2
	default:
		return 3
	}
}

func formatValue(v float64, unit string) string {
	switch unit {
	case "":
		return fmt.Sprintf("%.2f", v)
	case "%":
		return fmt.Sprintf("%.2f%%", v)
	default:
		return fmt.Sprintf("%.2f %s", v, unit)
	}
}

// chartInsights holds the standing commentary shown beneath each chart.
var chartInsights = map[string]string{
	"frequency":    "Frequency variations are monitored to ensure grid stability. Values should remain within the 49.5-50.5 Hz range.",
	"voltage_thd":  "Voltage THD should remain below 5% to ensure power quality. Higher values indicate harmonic distortion.",
	"voltage_ln":   "Voltage should remain within the 207-253 V range. Variations indicate load changes or grid issues.",
	"voltage_ll":   "Line-to-line voltage should remain within the 360-440 V range. Imbalances indicate phase loading issues.",
	"current":      "Current should be balanced across phases. Imbalances indicate uneven load distribution.",
	"current_thd":  "Current THD should remain below 8%. Higher values indicate harmonic distortion from non-linear loads.",
	"power_factor": "Power factor should be close to 1.0. Low values indicate reactive power consumption.",
	"active_power": "Active power shows real energy consumption. Patterns indicate load profiles and efficiency.",
}

// Insight returns the standing commentary for a chart ID, or "" when the
// chart has none.
func Insight(chartID string) string { return chartInsights[chartID] }
