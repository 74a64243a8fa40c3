// Package chart builds render-ready chart configurations from enriched
// station data. Rendering itself belongs to the presentation layer; this
// package only fixes the data contract: series, axis labels and the
// reference limit lines drawn on each chart.
package chart

import (
	"fmt"
	"time"

	"github.com/gridaudit/gridaudit/internal/dataset"
	"github.com/gridaudit/gridaudit/internal/derive"
)

const defaultHeight = 400

// Point is one time-series sample.
type Point struct {
	Time  time.Time `json:"t"`
	Value float64   `json:"v"`
}

// Series is one plotted line.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// ReferenceLine is a horizontal limit line with its annotation.
type ReferenceLine struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
	Color string  `json:"color"`
}

// Config describes one chart for the dashboard frontend.
type Config struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	XAxis          string          `json:"x_axis"`
	YAxis          string          `json:"y_axis"`
	Height         int             `json:"height"`
	Series         []Series        `json:"series"`
	ReferenceLines []ReferenceLine `json:"reference_lines,omitempty"`
}

// Build produces all charts for a station. The line-to-line voltage chart is
// included only when the export carried those columns.
func Build(stationName string, e derive.Enriched) []Config {
	charts := []Config{
		frequencyChart(stationName, e),
		voltageTHDChart(stationName, e),
		voltageLNChart(stationName, e),
	}
	if e.Table.HasLineToLine {
		charts = append(charts, voltageLLChart(stationName, e))
	}
	charts = append(charts,
		currentChart(stationName, e),
		currentTHDChart(stationName, e),
		powerFactorChart(stationName, e),
		activePowerChart(stationName, e),
	)
	return charts
}

func frequencyChart(name string, e derive.Enriched) Config {
	return Config{
		ID:     "frequency",
		Title:  fmt.Sprintf("%s Station - Frequency Analysis", name),
		XAxis:  "Time",
		YAxis:  "Frequency (Hz)",
		Height: defaultHeight,
		Series: []Series{
			rawSeries("Frequency (Hz)", "blue", e.Table, func(r *dataset.Record) float64 { return r.Frequency }),
		},
		ReferenceLines: []ReferenceLine{
			{50.5, "Upper Limit (50.5 Hz)", "red"},
			{49.5, "Lower Limit (49.5 Hz)", "red"},
		},
	}
}

func voltageTHDChart(name string, e derive.Enriched) Config {
	return Config{
		ID:     "voltage_thd",
		Title:  fmt.Sprintf("%s Station - Voltage THD Analysis", name),
		XAxis:  "Time",
		YAxis:  "Voltage THD (%)",
		Height: defaultHeight,
		Series: []Series{
			rawSeries("Vthd_AN (%)", "red", e.Table, func(r *dataset.Record) float64 { return r.VthdAN }),
			rawSeries("Vthd_BN (%)", "green", e.Table, func(r *dataset.Record) float64 { return r.VthdBN }),
			rawSeries("Vthd_CN (%)", "blue", e.Table, func(r *dataset.Record) float64 { return r.VthdCN }),
		},
		ReferenceLines: []ReferenceLine{{5, "Acceptable Limit (5%)", "orange"}},
	}
}

func voltageLNChart(name string, e derive.Enriched) Config {
	return Config{
		ID:     "voltage_ln",
		Title:  fmt.Sprintf("%s Station - Line-to-Neutral Voltage Analysis", name),
		XAxis:  "Time",
		YAxis:  "Voltage (V)",
		Height: defaultHeight,
		Series: []Series{
			rawSeries("Vrms_AN", "red", e.Table, func(r *dataset.Record) float64 { return r.VoltageAN }),
			rawSeries("Vrms_BN", "green", e.Table, func(r *dataset.Record) float64 { return r.VoltageBN }),
			rawSeries("Vrms_CN", "blue", e.Table, func(r *dataset.Record) float64 { return r.VoltageCN }),
		},
		ReferenceLines: []ReferenceLine{
			{253, "Upper Limit (253V)", "red"},
			{207, "Lower Limit (207V)", "red"},
		},
	}
}

func voltageLLChart(name string, e derive.Enriched) Config {
	return Config{
		ID:     "voltage_ll",
		Title:  fmt.Sprintf("%s Station - Line-to-Line Voltage Analysis", name),
		XAxis:  "Time",
		YAxis:  "Voltage (V)",
		Height: defaultHeight,
		Series: []Series{
			rawSeries("Vrms_AB", "purple", e.Table, func(r *dataset.Record) float64 { return r.VoltageAB }),
			rawSeries("Vrms_BC", "orange", e.Table, func(r *dataset.Record) float64 { return r.VoltageBC }),
			rawSeries("Vrms_CA", "brown", e.Table, func(r *dataset.Record) float64 { return r.VoltageCA }),
		},
		ReferenceLines: []ReferenceLine{
			{440, "Upper Limit (440V)", "red"},
			{360, "Lower Limit (360V)", "red"},
		},
	}
}

func currentChart(name string, e derive.Enriched) Config {
	return Config{
		ID:     "current",
		Title:  fmt.Sprintf("%s Station - Current Analysis", name),
		XAxis:  "Time",
		YAxis:  "Current (A)",
		Height: defaultHeight,
		Series: []Series{
			rawSeries("Irms_A", "red", e.Table, func(r *dataset.Record) float64 { return r.CurrentA }),
			rawSeries("Irms_B", "green", e.Table, func(r *dataset.Record) float64 { return r.CurrentB }),
			rawSeries("Irms_C", "blue", e.Table, func(r *dataset.Record) float64 { return r.CurrentC }),
		},
	}
}

func currentTHDChart(name string, e derive.Enriched) Config {
	return Config{
		ID:     "current_thd",
		Title:  fmt.Sprintf("%s Station - Current THD Analysis", name),
		XAxis:  "Time",
		YAxis:  "Current THD (%)",
		Height: defaultHeight,
		Series: []Series{
			rawSeries("Ithd_A (%)", "purple", e.Table, func(r *dataset.Record) float64 { return r.IthdA }),
			rawSeries("Ithd_B (%)", "orange", e.Table, func(r *dataset.Record) float64 { return r.IthdB }),
			rawSeries("Ithd_C (%)", "brown", e.Table, func(r *dataset.Record) float64 { return r.IthdC }),
		},
		ReferenceLines: []ReferenceLine{{8, "Acceptable Limit (8%)", "orange"}},
	}
}

func powerFactorChart(name string, e derive.Enriched) Config {
	series := make([]Point, len(e.Rows))
	for i := range e.Rows {
		series[i] = Point{Time: e.Table.Records[i].Timestamp, Value: e.Rows[i].SystemPF}
	}
	return Config{
		ID:     "power_factor",
		Title:  fmt.Sprintf("%s Station - Power Factor Analysis", name),
		XAxis:  "Time",
		YAxis:  "Power Factor",
		Height: defaultHeight,
		Series: []Series{{Name: "System PF", Color: "blue", Points: series}},
		ReferenceLines: []ReferenceLine{
			{0.9, "Recommended (0.9)", "orange"},
		},
	}
}

func activePowerChart(name string, e derive.Enriched) Config {
	// Power is plotted in kW.
	return Config{
		ID:     "active_power",
		Title:  fmt.Sprintf("%s Station - Active Power Analysis", name),
		XAxis:  "Time",
		YAxis:  "Power (kW)",
		Height: defaultHeight,
		Series: []Series{
			rawSeries("PowerP_Total (kW)", "red", e.Table, func(r *dataset.Record) float64 { return r.ActivePowerTotal / 1000 }),
		},
	}
}

func rawSeries(name, color string, t *dataset.Table, value func(*dataset.Record) float64) Series {
	points := make([]Point, len(t.Records))
	for i := range t.Records {
		points[i] = Point{Time: t.Records[i].Timestamp, Value: value(&t.Records[i])}
	}
	return Series{Name: name, Color: color, Points: points}
}
