// Package promexport serves the station KPIs and derivation statistics in
// Prometheus text exposition format, so an existing monitoring stack can
// scrape the audit service alongside everything else.
package promexport

import (
	"log/slog"
	"net/http"
	"sort"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/gridaudit/gridaudit/internal/catalog"
)

// gauge describes one exported metric family and how to read its value from
// a station entry.
type gauge struct {
	name  string
	help  string
	value func(sd *catalog.StationData) float64
}

var gauges = []gauge{
	{"gridaudit_station_up", "1 when the station export loaded successfully.", func(sd *catalog.StationData) float64 {
		if sd.OK() {
			return 1
		}
		return 0
	}},
	{"gridaudit_station_rows", "Measurement rows in the station table.", func(sd *catalog.StationData) float64 {
		return float64(sd.Table.Len())
	}},
	{"gridaudit_station_degenerate_rows", "Rows where a derived metric needed its zero-denominator substitution.", func(sd *catalog.StationData) float64 {
		return float64(sd.Enriched.Stats.Degenerate())
	}},
	{"gridaudit_station_negative_loss_rows", "Rows where apparent power is below active power.", func(sd *catalog.StationData) float64 {
		return float64(sd.Enriched.Stats.NegativeLossRows)
	}},
	{"gridaudit_station_avg_power_kw", "Mean total active power, kW.", func(sd *catalog.StationData) float64 {
		return sd.KPIs.AvgPowerKW
	}},
	{"gridaudit_station_avg_power_factor", "Mean power factor.", func(sd *catalog.StationData) float64 {
		return sd.KPIs.AvgPF
	}},
	{"gridaudit_station_avg_voltage_volts", "Mean phase A line-to-neutral voltage, V.", func(sd *catalog.StationData) float64 {
		return sd.KPIs.AvgVoltage
	}},
	{"gridaudit_station_avg_current_amps", "Mean phase A current, A.", func(sd *catalog.StationData) float64 {
		return sd.KPIs.AvgCurrent
	}},
	{"gridaudit_station_avg_frequency_hz", "Mean supply frequency, Hz.", func(sd *catalog.StationData) float64 {
		return sd.KPIs.AvgFrequency
	}},
	{"gridaudit_station_avg_voltage_thd_pct", "Mean phase A voltage THD, percent.", func(sd *catalog.StationData) float64 {
		return sd.KPIs.AvgVthd
	}},
	{"gridaudit_station_avg_current_thd_pct", "Mean phase A current THD, percent.", func(sd *catalog.StationData) float64 {
		return sd.KPIs.AvgIthd
	}},
}

// Families builds one gauge MetricFamily per exported KPI, with a "station"
// label per configured station. Families are sorted by name so the exposition
// is stable across scrapes.
func Families(entries []*catalog.StationData) []*dto.MetricFamily {
	out := make([]*dto.MetricFamily, 0, len(gauges))
	for _, g := range gauges {
		mf := &dto.MetricFamily{
			Name: strPtr(g.name),
			Help: strPtr(g.help),
			Type: dto.MetricType_GAUGE.Enum(),
		}
		for _, sd := range entries {
			// The up gauge is always exported; the rest only make sense for
			// stations that loaded.
			if !sd.OK() && g.name != "gridaudit_station_up" {
				continue
			}
			mf.Metric = append(mf.Metric, &dto.Metric{
				Label: []*dto.LabelPair{{
					Name:  strPtr("station"),
					Value: strPtr(sd.Station.ID),
				}},
				Gauge: &dto.Gauge{Value: f64Ptr(g.value(sd))},
			})
		}
		if len(mf.Metric) > 0 {
			out = append(out, mf)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetName() < out[j].GetName() })
	return out
}

// Handler returns the GET /metrics handler encoding the current catalog state
// as Prometheus text exposition.
func Handler(cat *catalog.Catalog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		format := expfmt.NewFormat(expfmt.TypeTextPlain)
		w.Header().Set("Content-Type", string(format))
		enc := expfmt.NewEncoder(w, format)
		for _, mf := range Families(cat.List()) {
			if err := enc.Encode(mf); err != nil {
				slog.Error("promexport: encode family", "family", mf.GetName(), "err", err)
				return
			}
		}
	})
}

func strPtr(s string) *string { return &s }

func f64Ptr(v float64) *float64 { return &v }
