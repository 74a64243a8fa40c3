package assess

// Nominal reference values for the deviation scales.
const (
	NominalFrequencyHz = 50.0
	NominalVoltageLN   = 230.0
)

func ptr(v float64) *float64 { return &v }

// DefaultScales returns the audit's reference threshold tables. Callers must
// not modify the returned scales; use Merge to apply overrides.
func DefaultScales() []Scale {
	return []Scale{
		{
			Metric:  "voltage_imbalance",
			Name:    "Voltage Imbalance",
			Unit:    "%",
			Bands:   []Band{{2, RatingGood}, {5, RatingAcceptable}},
			Default: RatingPoor,
			Recommendations: map[Rating]string{
				RatingGood:       "Phase voltages are well balanced. No action needed.",
				RatingAcceptable: "Voltage imbalance is within tolerable limits but above the 2% target. Review transformer tap settings and check for loose connections on the supply side.",
				RatingPoor:       "Voltage imbalance exceeds 5%, which accelerates motor heating and shortens equipment life. Investigate the upstream supply and redistribute single-phase loads across phases.",
			},
		},
		{
			Metric:  "current_imbalance",
			Name:    "Current Imbalance",
			Unit:    "%",
			Bands:   []Band{{10, RatingGood}, {20, RatingAcceptable}},
			Default: RatingPoor,
			Recommendations: map[Rating]string{
				RatingGood:       "Load is evenly distributed across the three phases.",
				RatingAcceptable: "Current imbalance is noticeable. Survey single-phase circuits and move loads from the heavily loaded phase to the lighter ones.",
				RatingPoor:       "Current imbalance exceeds 20%, indicating significantly uneven load distribution. Rebalance single-phase loads across phases to reduce neutral current and losses.",
			},
		},
		{
			Metric:         "power_factor",
			Name:           "System Power Factor",
			HigherIsBetter: true,
			Bands:          []Band{{0.95, RatingGood}, {0.85, RatingAcceptable}},
			Default:        RatingPoor,
			Recommendations: map[Rating]string{
				RatingGood:       "Power factor is excellent. Existing compensation is adequate.",
				RatingAcceptable: "Power factor is below the 0.95 target, indicating reactive power consumption. Consider capacitor banks or verify that existing compensation switches in under load.",
				RatingPoor:       "Power factor is below 0.85, drawing substantial reactive power and risking utility penalties. Install or repair power factor correction equipment sized for the reactive demand.",
			},
		},
		{
			Metric:  "voltage_thd",
			Name:    "Voltage THD",
			Unit:    "%",
			Bands:   []Band{{5, RatingGood}, {8, RatingAcceptable}},
			Default: RatingPoor,
			Recommendations: map[Rating]string{
				RatingGood:       "Voltage distortion is within the 5% limit.",
				RatingAcceptable: "Voltage THD is above the 5% limit. Identify the dominant harmonic sources and assess whether supply impedance changes during solar/grid transitions are contributing.",
				RatingPoor:       "Voltage THD exceeds 8%. Harmonic filtering is required; survey non-linear loads and inverter output quality before sensitive equipment is affected.",
			},
		},
		{
			Metric:  "current_thd",
			Name:    "Current THD",
			Unit:    "%",
			Bands:   []Band{{8, RatingGood}, {15, RatingAcceptable}},
			Default: RatingPoor,
			Recommendations: map[Rating]string{
				RatingGood:       "Current distortion is within the 8% limit.",
				RatingAcceptable: "Current THD is above the 8% limit, typical of non-linear loads dominating during low-load periods. Monitor during solar generation peaks and consider line reactors on drive circuits.",
				RatingPoor:       "Current THD is severe. Fit harmonic filters at the main distribution board and review inverter switching behaviour during source transitions.",
			},
		},
		{
			Metric:  "frequency",
			Name:    "Frequency",
			Unit:    "Hz",
			Nominal: ptr(NominalFrequencyHz),
			Bands:   []Band{{0.5, RatingGood}, {1.0, RatingAcceptable}},
			Default: RatingPoor,
			Recommendations: map[Rating]string{
				RatingGood:       "Frequency holds within the 49.5-50.5 Hz band. Grid supply is stable.",
				RatingAcceptable: "Frequency drifts outside the 49.5-50.5 Hz band. Check generator governor settings if running on backup power, or log grid events with the utility.",
				RatingPoor:       "Frequency deviates more than 1 Hz from nominal, which risks tripping protection relays. Investigate the supply source urgently.",
			},
		},
		{
			Metric:  "voltage_ln",
			Name:    "Line-to-Neutral Voltage",
			Unit:    "V",
			Nominal: ptr(NominalVoltageLN),
			Bands:   []Band{{23, RatingGood}, {34.5, RatingAcceptable}},
			Default: RatingPoor,
			Recommendations: map[Rating]string{
				RatingGood:       "Supply voltage stays within the 207-253 V band.",
				RatingAcceptable: "Mean voltage falls outside the 207-253 V band. Verify transformer tap position and record the time of day the excursions occur.",
				RatingPoor:       "Supply voltage is far outside statutory limits. Engage the utility; equipment damage is likely under sustained over- or under-voltage.",
			},
		},
	}
}
