package sweep

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"
)

// Sampler draws a set of points covering a bounded box in parameter space.
type Sampler interface {
	// Sample returns exactly n rows, each componentwise within the
	// sampler's closed bounds.
	Sample(n int) ([][]float64, error)
}

// LinearSampler draws a Latin hypercube design directly in the given
// coordinate space. The design is space-filling: each dimension is
// stratified into n equal bins with exactly one sample per bin.
type LinearSampler struct {
	Lower []float64
	Upper []float64
	Seed  uint64
}

// Sample draws n points within [Lower, Upper].
func (s LinearSampler) Sample(n int) ([][]float64, error) {
	return latinHypercube(s.Lower, s.Upper, n, s.Seed)
}

// LogSampler draws uniformly in the given (already log-transformed) bounds
// and exponentiates against Base, so callers pass bounds expressed as
// exponents and receive Base**x.
type LogSampler struct {
	Lower []float64
	Upper []float64
	Base  float64 // logarithmic base; 0 means 10
	Seed  uint64
}

// Sample draws n points and returns Base raised to each sampled exponent.
func (s LogSampler) Sample(n int) ([][]float64, error) {
	base := s.Base
	if base == 0 {
		base = 10
	}
	if base <= 0 {
		return nil, fmt.Errorf("log base must be positive, got %g", base)
	}
	rows, err := latinHypercube(s.Lower, s.Upper, n, s.Seed)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		for j, v := range row {
			row[j] = math.Pow(base, v)
		}
	}
	return rows, nil
}

func latinHypercube(lower, upper []float64, n int, seed uint64) ([][]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("sample count must be positive, got %d", n)
	}
	if len(lower) == 0 || len(lower) != len(upper) {
		return nil, fmt.Errorf("bound vectors must be non-empty and equal length, got %d and %d", len(lower), len(upper))
	}
	bounds := make([]r1.Interval, len(lower))
	for i := range lower {
		if upper[i] < lower[i] {
			return nil, fmt.Errorf("dimension %d: upper bound %g below lower bound %g", i, upper[i], lower[i])
		}
		bounds[i] = r1.Interval{Min: lower[i], Max: upper[i]}
	}

	if seed == 0 {
		seed = 1
	}
	src := rand.NewPCG(seed, seed)
	lh := samplemv.LatinHypercube{Q: distmv.NewUniform(bounds, src), Src: src}

	batch := mat.NewDense(n, len(lower), nil)
	lh.Sample(batch)

	rows := make([][]float64, n)
	for i := range rows {
		row := make([]float64, len(lower))
		// Clamp against floating-point drift at the box faces.
		for j := range row {
			v := batch.At(i, j)
			row[j] = math.Min(math.Max(v, lower[j]), upper[j])
		}
		rows[i] = row
	}
	return rows, nil
}
