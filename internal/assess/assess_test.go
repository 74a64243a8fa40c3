package assess

import (
	"math"
	"testing"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func scaleFor(t *testing.T, metric string) Scale {
	t.Helper()
	for _, s := range DefaultScales() {
		if s.Metric == metric {
			return s
		}
	}
	t.Fatalf("no default scale for metric %q", metric)
	return Scale{}
}

func TestClassify_DefaultBands(t *testing.T) {
	tests := []struct {
		metric string
		value  float64
		want   Rating
	}{
		// Lower-is-better: boundary is an exclusive upper bound.
		{"voltage_imbalance", 0, RatingGood},
		{"voltage_imbalance", 1.99, RatingGood},
		{"voltage_imbalance", 2.0, RatingAcceptable}, // boundary belongs to the next band
		{"voltage_imbalance", 2.17, RatingAcceptable},
		{"voltage_imbalance", 4.99, RatingAcceptable},
		{"voltage_imbalance", 5.0, RatingPoor},
		{"voltage_imbalance", 12.0, RatingPoor},

		{"current_imbalance", 9.99, RatingGood},
		{"current_imbalance", 10.0, RatingAcceptable},
		{"current_imbalance", 20.0, RatingPoor},

		// Higher-is-better: boundary is an inclusive lower bound.
		{"power_factor", 1.0, RatingGood},
		{"power_factor", 0.95, RatingGood},
		{"power_factor", 0.9499, RatingAcceptable},
		{"power_factor", 0.9, RatingAcceptable},
		{"power_factor", 0.85, RatingAcceptable},
		{"power_factor", 0.8499, RatingPoor},
		{"power_factor", 0.4, RatingPoor},

		{"voltage_thd", 4.9, RatingGood},
		{"voltage_thd", 5.0, RatingAcceptable},
		{"voltage_thd", 8.0, RatingPoor},

		{"current_thd", 7.9, RatingGood},
		{"current_thd", 8.0, RatingAcceptable},
		{"current_thd", 15.0, RatingPoor},

		// Deviation scales classify |v - nominal|.
		{"frequency", 50.0, RatingGood},
		{"frequency", 50.49, RatingGood},
		{"frequency", 49.51, RatingGood},
		{"frequency", 50.5, RatingAcceptable},
		{"frequency", 49.4, RatingAcceptable},
		{"frequency", 51.0, RatingPoor},
		{"frequency", 48.9, RatingPoor},

		{"voltage_ln", 230, RatingGood},
		{"voltage_ln", 250, RatingGood},   // |250-230| = 20 < 23
		{"voltage_ln", 255, RatingAcceptable},
		{"voltage_ln", 200, RatingAcceptable},
		{"voltage_ln", 270, RatingPoor},
		{"voltage_ln", 190, RatingPoor},
	}

	for _, tc := range tests {
		sc := scaleFor(t, tc.metric)
		if got := sc.Classify(tc.value); got != tc.want {
			t.Errorf("Classify(%s, %v) = %q, want %q", tc.metric, tc.value, got, tc.want)
		}
	}
}

func TestClassify_OrderIndependent(t *testing.T) {
	// The rating for a (metric, value) pair must not depend on what else was
	// classified before it.
	sc := scaleFor(t, "power_factor")
	first := sc.Classify(0.9)
	sc.Classify(0.2)
	sc.Classify(1.0)
	if again := sc.Classify(0.9); again != first {
		t.Errorf("Classify changed between calls: %q then %q", first, again)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{3, 1, 2})
	if s.Min != 1 || s.Max != 3 || !almostEqual(s.Mean, 2, 1e-9) {
		t.Errorf("Summarize = %+v, want min 1 max 3 mean 2", s)
	}

	if z := Summarize(nil); z != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero value", z)
	}
}

func TestEvaluate_RatesTheMean(t *testing.T) {
	sc := scaleFor(t, "power_factor")
	a := sc.Evaluate(Summary{Min: 0.7, Max: 0.99, Mean: 0.9})

	if a.Rating != RatingAcceptable {
		t.Errorf("Rating = %q, want acceptable (0.9 in the 0.85-0.95 band)", a.Rating)
	}
	if a.Value != 0.9 {
		t.Errorf("Value = %v, want the mean 0.9", a.Value)
	}
	if a.Recommendation == "" {
		t.Error("Recommendation must not be empty")
	}
	if a.Recommendation != sc.Recommendations[RatingAcceptable] {
		t.Error("Recommendation must match the rating's text")
	}
}

func TestEvaluateAll_SortedAndSkipsMissing(t *testing.T) {
	series := func(metric string) []float64 {
		switch metric {
		case "power_factor":
			return []float64{0.9, 0.9}
		case "voltage_imbalance":
			return []float64{1.0}
		default:
			return nil // everything else unavailable
		}
	}

	got := EvaluateAll(DefaultScales(), series)
	if len(got) != 2 {
		t.Fatalf("assessments: got %d, want 2", len(got))
	}
	// Sorted by metric identifier.
	if got[0].Metric != "power_factor" || got[1].Metric != "voltage_imbalance" {
		t.Errorf("order: got [%s, %s]", got[0].Metric, got[1].Metric)
	}
}

func TestEvaluateAll_OrderOfScalesIrrelevant(t *testing.T) {
	series := func(metric string) []float64 {
		return []float64{1.0} // every metric gets the same series
	}

	scales := DefaultScales()
	forward := EvaluateAll(scales, series)

	reversed := make([]Scale, len(scales))
	for i, s := range scales {
		reversed[len(scales)-1-i] = s
	}
	backward := EvaluateAll(reversed, series)

	if len(forward) != len(backward) {
		t.Fatalf("lengths differ: %d vs %d", len(forward), len(backward))
	}
	for i := range forward {
		if forward[i] != backward[i] {
			t.Errorf("assessment %d differs by scale order: %+v vs %+v", i, forward[i], backward[i])
		}
	}
}

func TestWorstAndOverall(t *testing.T) {
	if Worst(RatingGood, RatingAcceptable) != RatingAcceptable {
		t.Error("Worst(good, acceptable) should be acceptable")
	}
	if Worst(RatingPoor, RatingAcceptable) != RatingPoor {
		t.Error("Worst(poor, acceptable) should be poor")
	}

	overall := Overall([]Assessment{
		{Rating: RatingGood},
		{Rating: RatingPoor},
		{Rating: RatingAcceptable},
	})
	if overall != RatingPoor {
		t.Errorf("Overall = %q, want poor", overall)
	}

	if Overall(nil) != RatingGood {
		t.Error("Overall(nil) should default to good")
	}
}

func TestMerge_AppliesOverride(t *testing.T) {
	out, err := Merge(DefaultScales(), map[string]ScaleConfig{
		"power_factor": {
			Bands:   []Band{{0.98, RatingGood}, {0.9, RatingAcceptable}},
			Default: RatingPoor,
		},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	var pf Scale
	for _, s := range out {
		if s.Metric == "power_factor" {
			pf = s
		}
	}
	if got := pf.Classify(0.95); got != RatingAcceptable {
		t.Errorf("overridden Classify(0.95) = %q, want acceptable", got)
	}
	if got := pf.Classify(0.99); got != RatingGood {
		t.Errorf("overridden Classify(0.99) = %q, want good", got)
	}
}

func TestMerge_DoesNotModifyDefaults(t *testing.T) {
	base := DefaultScales()
	_, err := Merge(base, map[string]ScaleConfig{
		"voltage_thd": {Bands: []Band{{1, RatingGood}}, Default: RatingPoor},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	for _, s := range base {
		if s.Metric == "voltage_thd" && len(s.Bands) != 2 {
			t.Error("Merge modified the input scales")
		}
	}
}

func TestMerge_Errors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]ScaleConfig
	}{
		{
			name:      "unknown metric",
			overrides: map[string]ScaleConfig{"no_such_metric": {Bands: []Band{{1, RatingGood}}}},
		},
		{
			name:      "empty bands",
			overrides: map[string]ScaleConfig{"power_factor": {}},
		},
		{
			name:      "invalid rating",
			overrides: map[string]ScaleConfig{"power_factor": {Bands: []Band{{0.9, Rating("great")}}}},
		},
		{
			name: "invalid default",
			overrides: map[string]ScaleConfig{"power_factor": {
				Bands:   []Band{{0.9, RatingGood}},
				Default: Rating("terrible"),
			}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Merge(DefaultScales(), tc.overrides); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestMerge_EmptyDefaultKeepsOriginal(t *testing.T) {
	out, err := Merge(DefaultScales(), map[string]ScaleConfig{
		"voltage_imbalance": {Bands: []Band{{3, RatingGood}, {6, RatingAcceptable}}},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	for _, s := range out {
		if s.Metric == "voltage_imbalance" {
			if got := s.Classify(10); got != RatingPoor {
				t.Errorf("Classify(10) = %q, want the retained default poor", got)
			}
		}
	}
}

func TestRatingRank(t *testing.T) {
	if !(RatingGood.Rank() < RatingAcceptable.Rank() && RatingAcceptable.Rank() < RatingPoor.Rank()) {
		t.Error("rating order must be good < acceptable < poor")
	}
	if Rating("bogus").Rank() <= RatingPoor.Rank() {
		t.Error("unknown ratings must rank worst")
	}
}
