package simulation

// Metric names recorded for every (condition, metric) column in the
// aggregated results. The order here is the canonical column order.
const (
	MetricAbove          = "above"
	MetricBelow          = "below"
	MetricError          = "error"
	MetricAboveThreshold = "above_threshold"
	MetricBelowThreshold = "below_threshold"
	MetricThresholdError = "threshold_error"
)

// Metrics lists the comparison metrics in canonical order.
var Metrics = []string{
	MetricAbove,
	MetricBelow,
	MetricError,
	MetricAboveThreshold,
	MetricBelowThreshold,
	MetricThresholdError,
}

// Comparison holds the outcome of matching one simulated condition against
// its reference at a single success threshold. If the trajectories never
// reached the comparison threshold, Reached is false and the metric values
// are meaningless.
type Comparison struct {
	Reached        bool    `json:"reached"`
	Above          float64 `json:"above"`
	Below          float64 `json:"below"`
	Error          float64 `json:"error"`
	AboveThreshold float64 `json:"above_threshold"`
	BelowThreshold float64 `json:"below_threshold"`
	ThresholdError float64 `json:"threshold_error"`
}

// MultiComparison holds outcomes evaluated at a ladder of success
// thresholds. All slices are indexed by threshold position and have equal
// length.
type MultiComparison struct {
	Reached        []bool    `json:"reached"`
	Above          []float64 `json:"above"`
	Below          []float64 `json:"below"`
	Error          []float64 `json:"error"`
	AboveThreshold []float64 `json:"above_threshold"`
	BelowThreshold []float64 `json:"below_threshold"`
	ThresholdError []float64 `json:"threshold_error"`
}

// AnyReached reports whether any threshold position reached comparison.
func (m *MultiComparison) AnyReached() bool {
	for _, r := range m.Reached {
		if r {
			return true
		}
	}
	return false
}

// At returns the single-threshold view of position i.
func (m *MultiComparison) At(i int) Comparison {
	return Comparison{
		Reached:        m.Reached[i],
		Above:          m.Above[i],
		Below:          m.Below[i],
		Error:          m.Error[i],
		AboveThreshold: m.AboveThreshold[i],
		BelowThreshold: m.BelowThreshold[i],
		ThresholdError: m.ThresholdError[i],
	}
}

// Result is the comparison outcome for one environmental condition. Exactly
// one of Simple or Multi is set; which one depends on how the external
// runner evaluated the unit.
type Result struct {
	Simple *Comparison      `json:"simple,omitempty"`
	Multi  *MultiComparison `json:"multi,omitempty"`
}
