package derive

import (
	"math"

	"github.com/gridaudit/gridaudit/internal/dataset"
)

// Row holds the derived columns for one measurement record.
type Row struct {
	// AvgVoltageLN is the mean of the three line-to-neutral phase voltages, V.
	AvgVoltageLN float64

	// VoltageImbalancePct is 100 * stddev / mean across the three phase
	// voltages. 0 when the mean voltage is 0 (dead bus).
	VoltageImbalancePct float64

	// CurrentImbalancePct is 100 * stddev / mean across the three phase
	// currents. 0 when the mean current is 0 (no load).
	CurrentImbalancePct float64

	// SystemPF is active over apparent power. 0 when apparent power is 0.
	// Not clamped: a value above 1 indicates P > S in the source data and the
	// row is counted in Stats.NegativeLossRows.
	SystemPF float64

	// HarmonicLossVA is apparent minus active power, VA. Signed: negative
	// values indicate a measurement or labeling anomaly and are counted in
	// Stats.NegativeLossRows, never hidden.
	HarmonicLossVA float64
}

// Stats counts the degenerate and anomalous rows encountered during
// enrichment. Substitution of defined values is local and never aborts; these
// counters exist so presentation can warn the user.
type Stats struct {
	Rows             int `json:"rows"`
	ZeroVoltageRows  int `json:"zero_voltage_rows"`
	ZeroCurrentRows  int `json:"zero_current_rows"`
	ZeroApparentRows int `json:"zero_apparent_rows"`

	// NegativeLossRows counts rows where apparent power is below active
	// power, i.e. harmonic loss is negative and the unclamped system power
	// factor exceeds 1.
	NegativeLossRows int `json:"negative_loss_rows"`
}

// Degenerate returns the number of rows where at least one derived metric
// needed its zero-denominator substitution.
func (s Stats) Degenerate() int {
	return s.ZeroVoltageRows + s.ZeroCurrentRows + s.ZeroApparentRows
}

// Enriched pairs a raw measurement table with its derived columns.
// Rows is parallel to Table.Records.
type Enriched struct {
	Table *dataset.Table
	Rows  []Row
	Stats Stats
}

// Enrich derives the audit columns for every record in t. The input table is
// not modified.
func Enrich(t *dataset.Table) Enriched {
	e := Enriched{
		Table: t,
		Rows:  make([]Row, len(t.Records)),
		Stats: Stats{Rows: len(t.Records)},
	}

	for i := range t.Records {
		rec := &t.Records[i]
		row := &e.Rows[i]

		avgV := mean3(rec.VoltageAN, rec.VoltageBN, rec.VoltageCN)
		row.AvgVoltageLN = avgV
		if avgV == 0 {
			e.Stats.ZeroVoltageRows++
		} else {
			row.VoltageImbalancePct = 100 * stddev3(rec.VoltageAN, rec.VoltageBN, rec.VoltageCN) / avgV
		}

		avgI := mean3(rec.CurrentA, rec.CurrentB, rec.CurrentC)
		if avgI == 0 {
			e.Stats.ZeroCurrentRows++
		} else {
			row.CurrentImbalancePct = 100 * stddev3(rec.CurrentA, rec.CurrentB, rec.CurrentC) / avgI
		}

		if rec.ApparentPowerTotal == 0 {
			e.Stats.ZeroApparentRows++
		} else {
			row.SystemPF = rec.ActivePowerTotal / rec.ApparentPowerTotal
		}

		row.HarmonicLossVA = rec.ApparentPowerTotal - rec.ActivePowerTotal
		if row.HarmonicLossVA < 0 {
			e.Stats.NegativeLossRows++
		}
	}

	return e
}

// Series extracts one derived or raw column as a float slice, for charting
// and distribution summaries. Known names are the assess metric identifiers.
func (e Enriched) Series(metric string) []float64 {
	out := make([]float64, len(e.Rows))
	switch metric {
	case "voltage_imbalance":
		for i := range e.Rows {
			out[i] = e.Rows[i].VoltageImbalancePct
		}
	case "current_imbalance":
		for i := range e.Rows {
			out[i] = e.Rows[i].CurrentImbalancePct
		}
	case "power_factor":
		for i := range e.Rows {
			out[i] = e.Rows[i].SystemPF
		}
	case "harmonic_loss":
		for i := range e.Rows {
			out[i] = e.Rows[i].HarmonicLossVA
		}
	case "voltage_ln":
		for i := range e.Rows {
			out[i] = e.Rows[i].AvgVoltageLN
		}
	case "frequency":
		for i := range e.Table.Records {
			out[i] = e.Table.Records[i].Frequency
		}
	case "voltage_thd":
		for i := range e.Table.Records {
			r := &e.Table.Records[i]
			out[i] = mean3(r.VthdAN, r.VthdBN, r.VthdCN)
		}
	case "current_thd":
		for i := range e.Table.Records {
			r := &e.Table.Records[i]
			out[i] = mean3(r.IthdA, r.IthdB, r.IthdC)
		}
	default:
		return nil
	}
	return out
}

func mean3(a, b, c float64) float64 {
	return (a + b + c) / 3
}

// stddev3 is the sample (n-1 divisor) standard deviation of three values.
// The same convention is used for both voltage and current imbalance.
func stddev3(a, b, c float64) float64 {
	m := mean3(a, b, c)
	da, db, dc := a-m, b-m, c-m
	return math.Sqrt((da*da + db*db + dc*dc) / 2)
}
