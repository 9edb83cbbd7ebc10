// Package sweep samples bounded regions of model parameter space, builds
// the resulting job sets, and aggregates their heterogeneous, partially
// failing results into a queryable table.
package sweep

import "fmt"

// Bounds defines a closed hyper-rectangle about a base point, typically in
// log10 coordinates: [base-delta-pad, base+delta+pad] per dimension.
type Bounds struct {
	Base  []float64 `json:"base"`
	Delta []float64 `json:"delta"`
	Pad   float64   `json:"pad"`
}

// NewBounds builds bounds about base with a scalar delta broadcast across
// all dimensions.
func NewBounds(base []float64, delta, pad float64) Bounds {
	d := make([]float64, len(base))
	for i := range d {
		d[i] = delta
	}
	return Bounds{Base: base, Delta: d, Pad: pad}
}

// Validate checks that the rectangle is well formed and non-empty.
func (b Bounds) Validate() error {
	if len(b.Base) == 0 {
		return fmt.Errorf("bounds have no dimensions")
	}
	if len(b.Delta) != len(b.Base) {
		return fmt.Errorf("delta has %d dimensions, base has %d", len(b.Delta), len(b.Base))
	}
	for i, d := range b.Delta {
		if d+b.Pad < 0 {
			return fmt.Errorf("dimension %d: delta+pad = %g is negative, rectangle is empty", i, d+b.Pad)
		}
	}
	return nil
}

// Lower returns the componentwise lower bound.
func (b Bounds) Lower() []float64 {
	lo := make([]float64, len(b.Base))
	for i := range lo {
		lo[i] = b.Base[i] - b.Delta[i] - b.Pad
	}
	return lo
}

// Upper returns the componentwise upper bound.
func (b Bounds) Upper() []float64 {
	hi := make([]float64, len(b.Base))
	for i := range hi {
		hi[i] = b.Base[i] + b.Delta[i] + b.Pad
	}
	return hi
}
