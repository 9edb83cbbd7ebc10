package sweep

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sbernasek/promoters/internal/simulation"
)

// Key addresses one results column by environmental condition and
// comparison metric.
type Key struct {
	Condition string `json:"condition"`
	Metric    string `json:"metric"`
}

// Table holds aggregated sweep results: one row per completed unit in
// ascending unit index, columns keyed by (condition, metric). Failed units
// are absent as rows entirely; comparisons that never reached threshold
// are present with NaN values, so the table stays rectangular.
type Table struct {
	Units   []int       `json:"units"`
	Columns []Key       `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// metricOrder maps each metric name to its canonical column position.
var metricOrder = func() map[string]int {
	m := make(map[string]int, len(simulation.Metrics))
	for i, name := range simulation.Metrics {
		m[name] = i
	}
	return m
}()

// newTable assembles a table from per-unit rows. Column order is
// conditions sorted alphabetically, metrics in canonical order within each
// condition. Units whose row map is nil contribute nothing.
func newTable(rows map[int]map[Key]float64) *Table {
	condSet := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			condSet[k.Condition] = true
		}
	}
	conditions := make([]string, 0, len(condSet))
	for c := range condSet {
		conditions = append(conditions, c)
	}
	sort.Strings(conditions)

	t := &Table{}
	for _, c := range conditions {
		for _, m := range simulation.Metrics {
			t.Columns = append(t.Columns, Key{Condition: c, Metric: m})
		}
	}

	units := make([]int, 0, len(rows))
	for i := range rows {
		units = append(units, i)
	}
	sort.Ints(units)
	t.Units = units

	t.Values = make([][]float64, len(units))
	for ri, unit := range units {
		row := make([]float64, len(t.Columns))
		for ci, k := range t.Columns {
			v, ok := rows[unit][k]
			if !ok {
				v = math.NaN()
			}
			row[ci] = v
		}
		t.Values[ri] = row
	}
	return t
}

// Conditions returns the distinct conditions in column order.
func (t *Table) Conditions() []string {
	var out []string
	seen := make(map[string]bool)
	for _, k := range t.Columns {
		if !seen[k.Condition] {
			seen[k.Condition] = true
			out = append(out, k.Condition)
		}
	}
	return out
}

// Lookup returns the value at (unit row r, condition, metric).
func (t *Table) Lookup(r int, condition, metric string) (float64, error) {
	for ci, k := range t.Columns {
		if k.Condition == condition && k.Metric == metric {
			return t.Values[r][ci], nil
		}
	}
	return 0, fmt.Errorf("no column (%s, %s)", condition, metric)
}

// Slice is a single-level view of the table: one labelled column group
// with the metric or condition dimension fixed. Row order matches the
// source table.
type Slice struct {
	Units  []int
	Labels []string
	Values [][]float64
}

// SliceByMetric fixes metric and returns a table indexed by unit and
// condition.
func (t *Table) SliceByMetric(metric string) *Slice {
	s := &Slice{Units: t.Units, Labels: t.Conditions()}
	cols := make([]int, 0, len(s.Labels))
	for ci, k := range t.Columns {
		if k.Metric == metric {
			cols = append(cols, ci)
		}
	}
	s.Values = t.project(cols)
	return s
}

// SliceByCondition fixes condition and returns a table indexed by unit and
// metric.
func (t *Table) SliceByCondition(condition string) *Slice {
	s := &Slice{Units: t.Units, Labels: simulation.Metrics}
	cols := make([]int, 0, len(simulation.Metrics))
	for ci, k := range t.Columns {
		if k.Condition == condition {
			cols = append(cols, ci)
		}
	}
	s.Values = t.project(cols)
	return s
}

func (t *Table) project(cols []int) [][]float64 {
	out := make([][]float64, len(t.Values))
	for ri, row := range t.Values {
		projected := make([]float64, len(cols))
		for i, ci := range cols {
			projected[i] = row[ci]
		}
		out[ri] = projected
	}
	return out
}

// Column returns the values under one label.
func (s *Slice) Column(label string) ([]float64, error) {
	for li, l := range s.Labels {
		if l == label {
			out := make([]float64, len(s.Values))
			for ri, row := range s.Values {
				out[ri] = row[li]
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("no column %q", label)
}

// Relative subtracts the baseline column row-wise from every column,
// returning a new slice. NaN propagates, so units where either side is
// sentineled stay sentineled.
func (s *Slice) Relative(baseline string) (*Slice, error) {
	base, err := s.Column(baseline)
	if err != nil {
		return nil, err
	}
	out := &Slice{Units: s.Units, Labels: s.Labels, Values: make([][]float64, len(s.Values))}
	for ri, row := range s.Values {
		adjusted := make([]float64, len(row))
		for ci, v := range row {
			adjusted[ci] = v - base[ri]
		}
		out.Values[ri] = adjusted
	}
	return out, nil
}

// Summary returns the mean and standard deviation of one column, ignoring
// NaN sentinels. Both are NaN when the column has no finite values.
func (s *Slice) Summary(label string) (mean, stddev float64, err error) {
	col, err := s.Column(label)
	if err != nil {
		return 0, 0, err
	}
	finite := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return math.NaN(), math.NaN(), nil
	}
	return stat.Mean(finite, nil), math.Sqrt(stat.Variance(finite, nil)), nil
}
