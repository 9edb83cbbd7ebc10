package sweep

import (
	"math"
	"testing"
)

func TestLinearSamplerRowsAndBounds(t *testing.T) {
	lower := []float64{-1, 0, 5}
	upper := []float64{1, 0.5, 5} // last dimension zero-width

	for _, n := range []int{1, 10, 257} {
		s := LinearSampler{Lower: lower, Upper: upper, Seed: 42}
		rows, err := s.Sample(n)
		if err != nil {
			t.Fatalf("Sample(%d): %v", n, err)
		}
		if len(rows) != n {
			t.Fatalf("expected %d rows, got %d", n, len(rows))
		}
		for i, row := range rows {
			if len(row) != len(lower) {
				t.Fatalf("row %d has %d columns, want %d", i, len(row), len(lower))
			}
			for j, v := range row {
				if v < lower[j] || v > upper[j] {
					t.Errorf("rows[%d][%d] = %g outside [%g, %g]", i, j, v, lower[j], upper[j])
				}
			}
		}
	}
}

func TestLinearSamplerSpaceFilling(t *testing.T) {
	// A Latin hypercube stratifies each dimension into n equal bins with
	// exactly one sample per bin.
	const n = 64
	lower := []float64{0, -10}
	upper := []float64{1, 10}

	rows, err := LinearSampler{Lower: lower, Upper: upper, Seed: 7}.Sample(n)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}

	for j := range lower {
		binWidth := (upper[j] - lower[j]) / n
		occupied := make([]bool, n)
		for _, row := range rows {
			bin := int((row[j] - lower[j]) / binWidth)
			if bin == n {
				bin = n - 1
			}
			if occupied[bin] {
				t.Fatalf("dimension %d: bin %d occupied twice", j, bin)
			}
			occupied[bin] = true
		}
	}
}

func TestLogSamplerExponentiates(t *testing.T) {
	// Bounds are exponents; samples must land in [10^lower, 10^upper].
	lower := []float64{-2, 0}
	upper := []float64{0, 2}

	rows, err := LogSampler{Lower: lower, Upper: upper, Seed: 3}.Sample(50)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	for i, row := range rows {
		for j, v := range row {
			lo := math.Pow(10, lower[j])
			hi := math.Pow(10, upper[j])
			if v < lo || v > hi {
				t.Errorf("rows[%d][%d] = %g outside [%g, %g]", i, j, v, lo, hi)
			}
		}
	}
}

func TestLogSamplerCustomBase(t *testing.T) {
	rows, err := LogSampler{Lower: []float64{1}, Upper: []float64{2}, Base: 2, Seed: 1}.Sample(20)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	for i, row := range rows {
		if row[0] < 2 || row[0] > 4 {
			t.Errorf("rows[%d][0] = %g outside [2, 4]", i, row[0])
		}
	}
}

func TestSamplerErrors(t *testing.T) {
	testCases := []struct {
		name    string
		lower   []float64
		upper   []float64
		n       int
		logBase float64
	}{
		{"upper_below_lower", []float64{0, 1}, []float64{1, 0}, 10, 0},
		{"zero_count", []float64{0}, []float64{1}, 0, 0},
		{"negative_count", []float64{0}, []float64{1}, -5, 0},
		{"length_mismatch", []float64{0, 1}, []float64{1}, 10, 0},
		{"empty_bounds", nil, nil, 10, 0},
		{"negative_log_base", []float64{0}, []float64{1}, 10, -2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.logBase == 0 {
				if _, err := (LinearSampler{Lower: tc.lower, Upper: tc.upper}).Sample(tc.n); err == nil {
					t.Error("LinearSampler: expected error")
				}
			}
			if _, err := (LogSampler{Lower: tc.lower, Upper: tc.upper, Base: tc.logBase}).Sample(tc.n); err == nil {
				t.Error("LogSampler: expected error")
			}
		})
	}
}

func TestSamplerDeterministicForSeed(t *testing.T) {
	s := LinearSampler{Lower: []float64{0}, Upper: []float64{1}, Seed: 99}
	a, err := s.Sample(16)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Sample(16)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i][0] != b[i][0] {
			t.Fatalf("row %d differs between identical samplers: %g vs %g", i, a[i][0], b[i][0])
		}
	}
}
