package assess

import (
	"fmt"
	"math"
	"sort"
)

// Rating is the qualitative classification of one metric. Ordered: Good is
// best, Poor is worst.
type Rating string

const (
	RatingGood       Rating = "good"
	RatingAcceptable Rating = "acceptable"
	RatingPoor       Rating = "poor"
)

// Rank returns the rating's position in the order, 0 being best. Unknown
// ratings rank worst.
func (r Rating) Rank() int {
	switch r {
	case RatingGood:
		return 0
	case RatingAcceptable:
		return 1
	case RatingPoor:
		return 2
	default:
		return 3
	}
}

// Valid reports whether r is one of the three defined ratings.
func (r Rating) Valid() bool {
	return r == RatingGood || r == RatingAcceptable || r == RatingPoor
}

// Worst returns the worse of a and b.
func Worst(a, b Rating) Rating {
	if a.Rank() >= b.Rank() {
		return a
	}
	return b
}

// Band maps a boundary to a rating. For lower-is-better scales the boundary
// is an exclusive upper bound (value < boundary selects the band); for
// higher-is-better scales it is an inclusive lower bound (value >= boundary).
type Band struct {
	Boundary float64 `yaml:"boundary" json:"boundary"`
	Rating   Rating  `yaml:"rating" json:"rating"`
}

// Scale is the complete threshold table for one metric.
type Scale struct {
	// Metric is the stable identifier ("voltage_imbalance", "power_factor", ...).
	Metric string

	// Name is the human-readable metric label.
	Name string

	// Unit is the display unit ("%", "Hz", "V"); empty for dimensionless.
	Unit string

	// HigherIsBetter flips band semantics: bands are inclusive lower bounds
	// checked in descending order. Used for power factor.
	HigherIsBetter bool

	// Nominal, when non-nil, makes this a deviation scale: the classified
	// value is |v - *Nominal|. Used for frequency and line-to-neutral voltage,
	// whose acceptable ranges are symmetric around a nominal value.
	Nominal *float64

	// Bands are checked in order; the first match wins. Default applies when
	// no band matches.
	Bands   []Band
	Default Rating

	// Recommendations holds the advisory text per rating.
	Recommendations map[Rating]string
}

// Classify maps a metric value to its rating.
func (s Scale) Classify(v float64) Rating {
	if s.Nominal != nil {
		v = math.Abs(v - *s.Nominal)
	}
	for _, b := range s.Bands {
		if s.HigherIsBetter {
			if v >= b.Boundary {
				return b.Rating
			}
		} else if v < b.Boundary {
			return b.Rating
		}
	}
	return s.Default
}

// Summary is the distribution of one metric across a table.
type Summary struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// Summarize computes min/max/mean over values. Zero value for empty input.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{Min: values[0], Max: values[0]}
	var total float64
	for _, v := range values {
		total += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = total / float64(len(values))
	return s
}

// Assessment is the rating and recommendation for one (station, metric) pair.
// It is recomputed on each evaluation and never persisted.
type Assessment struct {
	Metric         string  `json:"metric"`
	Name           string  `json:"name"`
	Unit           string  `json:"unit,omitempty"`
	Value          float64 `json:"value"` // the mean, which is what gets rated
	Summary        Summary `json:"summary"`
	Rating         Rating  `json:"rating"`
	Recommendation string  `json:"recommendation"`
}

// Evaluate rates the metric's distribution summary. The mean is the rated
// value; min and max ride along for display.
func (s Scale) Evaluate(sum Summary) Assessment {
	rating := s.Classify(sum.Mean)
	return Assessment{
		Metric:         s.Metric,
		Name:           s.Name,
		Unit:           s.Unit,
		Value:          sum.Mean,
		Summary:        sum,
		Rating:         rating,
		Recommendation: s.Recommendations[rating],
	}
}

// EvaluateAll rates every scale whose metric has a non-empty series.
// series returns the per-row values for a metric identifier, or nil when the
// metric is unavailable. Output is sorted by metric name so results are
// deterministic regardless of scale order.
func EvaluateAll(scales []Scale, series func(metric string) []float64) []Assessment {
	out := make([]Assessment, 0, len(scales))
	for _, sc := range scales {
		vals := series(sc.Metric)
		if len(vals) == 0 {
			continue
		}
		out = append(out, sc.Evaluate(Summarize(vals)))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Metric < out[j].Metric })
	return out
}

// Overall returns the worst rating across assessments, or RatingGood when
// there are none.
func Overall(assessments []Assessment) Rating {
	overall := RatingGood
	for _, a := range assessments {
		overall = Worst(overall, a.Rating)
	}
	return overall
}

// ScaleConfig is the YAML-overridable part of a Scale.
type ScaleConfig struct {
	Bands   []Band `yaml:"bands"`
	Default Rating `yaml:"default"`
}

// Merge applies per-metric overrides to a copy of scales. Unknown metric
// names and invalid ratings are errors so a typo in the config file cannot
// silently leave the default thresholds active.
func Merge(scales []Scale, overrides map[string]ScaleConfig) ([]Scale, error) {
	byMetric := make(map[string]int, len(scales))
	out := make([]Scale, len(scales))
	for i, s := range scales {
		out[i] = s
		byMetric[s.Metric] = i
	}

	for metric, oc := range overrides {
		i, ok := byMetric[metric]
		if !ok {
			return nil, fmt.Errorf("assess: unknown metric %q in threshold overrides", metric)
		}
		if len(oc.Bands) == 0 {
			return nil, fmt.Errorf("assess: metric %q: override has no bands", metric)
		}
		for _, b := range oc.Bands {
			if !b.Rating.Valid() {
				return nil, fmt.Errorf("assess: metric %q: invalid rating %q", metric, b.Rating)
			}
		}
		def := oc.Default
		if def == "" {
			def = out[i].Default
		}
		if !def.Valid() {
			return nil, fmt.Errorf("assess: metric %q: invalid default rating %q", metric, def)
		}
		out[i].Bands = oc.Bands
		out[i].Default = def
	}
	return out, nil
}
