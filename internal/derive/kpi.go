package derive

// KPISummary holds the per-station headline numbers shown on the overview
// cards. All values are plain means over the table.
type KPISummary struct {
	AvgPowerKW   float64 `json:"avg_power_kw"`
	AvgPF        float64 `json:"avg_pf"`
	AvgVoltage   float64 `json:"avg_voltage_v"`
	AvgCurrent   float64 `json:"avg_current_a"`
	AvgFrequency float64 `json:"avg_frequency_hz"`
	AvgVthd      float64 `json:"avg_vthd_pct"`
	AvgIthd      float64 `json:"avg_ithd_pct"`
	DataPoints   int     `json:"data_points"`
}

// Summarize computes the station KPIs from an enriched table.
//
// AvgPF prefers the meter's own power factor column when present, falling
// back to the derived system power factor. Power is converted from W to kW
// for display. Voltage and current use phase A, matching the overview cards.
func Summarize(e Enriched) KPISummary {
	n := len(e.Table.Records)
	s := KPISummary{DataPoints: n}
	if n == 0 {
		return s
	}

	var power, pf, volt, curr, freq, vthd, ithd float64
	for i := range e.Table.Records {
		rec := &e.Table.Records[i]
		power += rec.ActivePowerTotal
		volt += rec.VoltageAN
		curr += rec.CurrentA
		freq += rec.Frequency
		vthd += rec.VthdAN
		ithd += rec.IthdA
		if e.Table.HasMeterPF {
			pf += rec.MeterPF
		} else {
			pf += e.Rows[i].SystemPF
		}
	}

	fn := float64(n)
	s.AvgPowerKW = power / fn / 1000
	s.AvgPF = pf / fn
	s.AvgVoltage = volt / fn
	s.AvgCurrent = curr / fn
	s.AvgFrequency = freq / fn
	s.AvgVthd = vthd / fn
	s.AvgIthd = ithd / fn
	return s
}
