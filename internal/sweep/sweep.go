package sweep

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/sbernasek/promoters/internal/batch"
	"github.com/sbernasek/promoters/internal/simulation"
)

// DescriptorFile is the persisted sweep descriptor inside the sweep
// directory, alongside the batch descriptor.
const DescriptorFile = "sweep.json"

// DefaultThresholdOffset selects the third-from-last threshold position of
// a multi-threshold comparison.
const DefaultThresholdOffset = 3

// Config specifies a new parameter sweep.
type Config struct {
	Family  string          // model family registry name
	Mode    simulation.Mode // promoters or repressors
	Samples int             // number of parameter-space samples
	Delta   float64         // log-deviation about the family base point
	Pad     float64         // extra padding added to delta
	LogBase float64         // logarithmic sampling base; 0 means 10
	Seed    uint64          // sampler seed; 0 means 1

	// ThresholdOffset picks the threshold slot of multi-threshold
	// comparisons, counted from the end. 0 means DefaultThresholdOffset.
	ThresholdOffset int

	Run simulation.RunConfig
}

// Sweep is a parameter sweep of one model family: a job set over a sampled
// region of parameter space plus, after aggregation, the results table and
// completion mask.
type Sweep struct {
	Bounds          Bounds          `json:"bounds"`
	Family          string          `json:"family"`
	Mode            simulation.Mode `json:"mode"`
	LogBase         float64         `json:"log_base"`
	Seed            uint64          `json:"seed"`
	ThresholdOffset int             `json:"threshold_offset"`

	Batch *batch.Batch `json:"-"`

	// Results and Completed are populated by Aggregate or loaded from the
	// results store; both are nil/empty until then.
	Results   *Table `json:"-"`
	Completed []bool `json:"-"`

	registry *simulation.Registry
}

// New samples the parameter space of the configured model family and
// returns an unbuilt sweep over the sampled matrix.
func New(cfg Config, reg *simulation.Registry) (*Sweep, error) {
	fam, err := reg.Get(cfg.Family)
	if err != nil {
		return nil, err
	}
	if cfg.Samples < 1 {
		return nil, fmt.Errorf("sample count must be positive, got %d", cfg.Samples)
	}
	mode := cfg.Mode
	if mode == "" {
		mode = simulation.ModePromoters
	}

	bounds := NewBounds(fam.Base, cfg.Delta, cfg.Pad)
	if err := bounds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bounds: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	sampler := LogSampler{
		Lower: bounds.Lower(),
		Upper: bounds.Upper(),
		Base:  cfg.LogBase,
		Seed:  seed,
	}
	params, err := sampler.Sample(cfg.Samples)
	if err != nil {
		return nil, fmt.Errorf("sample parameter space: %w", err)
	}

	offset := cfg.ThresholdOffset
	if offset == 0 {
		offset = DefaultThresholdOffset
	}

	b := batch.New(cfg.Family, params, fam.Labels)
	b.Run = cfg.Run

	return &Sweep{
		Bounds:          bounds,
		Family:          cfg.Family,
		Mode:            mode,
		LogBase:         cfg.LogBase,
		Seed:            seed,
		ThresholdOffset: offset,
		Batch:           b,
		registry:        reg,
	}, nil
}

// N returns the number of jobs in the sweep.
func (s *Sweep) N() int { return s.Batch.N() }

// Build materializes the sweep's job set under dest and persists both the
// batch and sweep descriptors.
func (s *Sweep) Build(dest string, chunkSize int) error {
	fam, err := s.registry.Get(s.Family)
	if err != nil {
		return err
	}
	builder := func(index int, params []float64) (*simulation.Unit, error) {
		model, err := fam.Build(params, s.Mode)
		if err != nil {
			return nil, err
		}
		return &simulation.Unit{Index: index, Model: model, Config: s.Batch.Run}, nil
	}
	if err := s.Batch.Build(dest, chunkSize, builder); err != nil {
		return err
	}
	return s.saveDescriptor()
}

func (s *Sweep) saveDescriptor() error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sweep descriptor: %w", err)
	}
	path := filepath.Join(s.Batch.Path(), DescriptorFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sweep descriptor: %w", err)
	}
	return nil
}

// Load reconstructs a sweep from path. Previously saved results and
// completion data are loaded if the results store exists; their absence is
// not an error.
func Load(path string, reg *simulation.Registry) (*Sweep, error) {
	b, err := batch.Load(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(path, DescriptorFile))
	if err != nil {
		return nil, fmt.Errorf("read sweep descriptor: %w", err)
	}
	var s Sweep
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse sweep descriptor: %w", err)
	}
	s.Batch = b
	s.registry = reg

	storePath := filepath.Join(path, StoreFile)
	if _, err := os.Stat(storePath); err == nil {
		store, err := OpenStore(storePath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		s.Results, s.Completed, err = store.Load()
		if err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// Aggregate scans every unit, parses its comparison outcomes, and rebuilds
// the results table and completion mask. A unit contributes a row iff it
// has an outcome object at all, even if every comparison within it failed
// to reach threshold; units with no outcome are marked incomplete and
// excluded. Aggregate always terminates and never fails on partial
// results.
func (s *Sweep) Aggregate() error {
	n := s.N()
	completed := make([]bool, n)
	rows := make(map[int]map[Key]float64, n)

	for i := 0; i < n; i++ {
		unit, err := s.Batch.Unit(i)
		if err != nil {
			// Unreadable units are indistinguishable from never-run ones
			// at aggregation time; record the gap and move on.
			log.Printf("WARNING: unit %d unreadable, marking incomplete: %v", i, err)
			continue
		}
		row := parseOutcome(unit.Outcome, s.ThresholdOffset)
		if row == nil {
			continue
		}
		completed[i] = true
		rows[i] = row
	}

	s.Completed = completed
	s.Results = newTable(rows)
	return nil
}

// parseOutcome flattens one unit's per-condition comparison outcomes into
// (condition, metric) values. It returns nil when the unit has no outcome
// object. Comparisons that never reached threshold produce NaN for all six
// metrics; the keys are still present so the results table stays
// rectangular across units.
func parseOutcome(outcome map[string]simulation.Result, offset int) map[Key]float64 {
	if outcome == nil {
		return nil
	}
	row := make(map[Key]float64, len(outcome)*len(simulation.Metrics))
	for condition, result := range outcome {
		c := flatten(result, offset)
		record := func(metric string, v float64) {
			row[Key{Condition: condition, Metric: metric}] = v
		}
		if c == nil {
			for _, metric := range simulation.Metrics {
				record(metric, math.NaN())
			}
			continue
		}
		record(simulation.MetricAbove, c.Above)
		record(simulation.MetricBelow, c.Below)
		record(simulation.MetricError, c.Error)
		record(simulation.MetricAboveThreshold, c.AboveThreshold)
		record(simulation.MetricBelowThreshold, c.BelowThreshold)
		record(simulation.MetricThresholdError, c.ThresholdError)
	}
	return row
}

// flatten reduces a comparison result to a single-threshold view, or nil
// when its values must be sentineled. For multi-threshold comparisons the
// slot offset-from-end is selected, clamped to the ladder on both sides;
// as long as any threshold reached comparison the selected slot's values
// are recorded verbatim, even when that slot itself did not reach. Only a
// ladder where no threshold reached is sentineled.
func flatten(result simulation.Result, offset int) *simulation.Comparison {
	switch {
	case result.Multi != nil:
		m := result.Multi
		if !m.AnyReached() {
			return nil
		}
		idx := len(m.Reached) - offset
		if idx < 0 {
			idx = 0
		}
		if idx >= len(m.Reached) {
			idx = len(m.Reached) - 1
		}
		c := m.At(idx)
		return &c
	case result.Simple != nil:
		if !result.Simple.Reached {
			return nil
		}
		return result.Simple
	default:
		return nil
	}
}

// PercentComplete returns the fraction of units that produced an outcome.
func (s *Sweep) PercentComplete() float64 {
	if len(s.Completed) == 0 {
		return 0
	}
	var done int
	for _, c := range s.Completed {
		if c {
			done++
		}
	}
	return float64(done) / float64(len(s.Completed))
}

// Save persists the results table and completion mask to the sweep's
// results store. It is a no-op when Aggregate has not run.
func (s *Sweep) Save() error {
	if s.Results == nil {
		return nil
	}
	store, err := OpenStore(filepath.Join(s.Batch.Path(), StoreFile))
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(s.Results, s.Completed)
}
