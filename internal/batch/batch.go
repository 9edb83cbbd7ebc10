// Package batch builds and reloads on-disk job sets: one independent
// simulation unit per sampled parameter vector, partitioned into chunk
// manifests an external scheduler can run in parallel.
package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sbernasek/promoters/internal/simulation"
)

// DescriptorFile is the persisted batch descriptor inside the batch
// directory.
const DescriptorFile = "batch.json"

// ErrDirExists is returned when Build would collide with an existing
// directory. The tree is never overwritten or merged into.
var ErrDirExists = errors.New("batch directory already exists")

// timeNow stamps new batch directories; overridden in tests.
var timeNow = time.Now

// UnitBuilder constructs the simulation unit for one sample index. It is
// the narrow contract to the external engine: the batch records where the
// unit lives but never interprets its content.
type UnitBuilder func(index int, params []float64) (*simulation.Unit, error)

// Batch is a collection of independent simulation jobs built from a fixed
// sample matrix. The matrix is produced once at construction and is the
// sole source of truth for job count.
type Batch struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Labels    []string             `json:"labels,omitempty"`
	Params    [][]float64          `json:"parameters"`
	UnitPaths []string             `json:"unit_paths,omitempty"`
	ChunkSize int                  `json:"chunk_size,omitempty"`
	Run       simulation.RunConfig `json:"run_config"`

	// path anchors the batch to its on-disk location. It is set by Build
	// or Load and deliberately not serialized: a descriptor moved to a new
	// location must re-anchor to wherever it was loaded from.
	path string
}

// New creates an unbuilt batch over the given sample matrix.
func New(name string, params [][]float64, labels []string) *Batch {
	return &Batch{
		ID:     uuid.New().String(),
		Name:   name,
		Labels: labels,
		Params: params,
	}
}

// N returns the number of jobs in the batch.
func (b *Batch) N() int { return len(b.Params) }

// Path returns the batch directory, or "" if the batch has not been built
// or loaded.
func (b *Batch) Path() string { return b.path }

// Build materializes the batch under dest: a fresh timestamped directory
// with simulations/, batches/, log/ and scripts/ subdirectories, one
// serialized unit per sample row, the chunk manifest, a local run script
// and the batch descriptor. Directory creation is the first mutating step,
// so a later failure leaves an identifiable partial tree rather than a
// silently half-built one.
func (b *Batch) Build(dest string, chunkSize int, build UnitBuilder) error {
	if chunkSize < 1 {
		return fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if build == nil {
		return errors.New("unit builder is required")
	}

	name := fmt.Sprintf("%s_%s", b.Name, timeNow().Format("060102_150405"))
	path := filepath.Join(dest, name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrDirExists, path)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create batch directory: %w", err)
	}
	for _, sub := range []string{SimulationsDir, ChunksDir, LogsDir, ScriptsDir} {
		if err := os.Mkdir(filepath.Join(path, sub), 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", sub, err)
		}
	}
	b.path = path
	b.ChunkSize = chunkSize

	b.UnitPaths = make([]string, b.N())
	for i, params := range b.Params {
		unit, err := build(i, params)
		if err != nil {
			return fmt.Errorf("build unit %d: %w", i, err)
		}
		rel := filepath.Join(SimulationsDir, strconv.Itoa(i))
		if err := unit.Save(filepath.Join(path, rel)); err != nil {
			return fmt.Errorf("save unit %d: %w", i, err)
		}
		b.UnitPaths[i] = rel
	}

	if err := b.saveDescriptor(); err != nil {
		return err
	}
	if _, err := WriteChunks(path, b.UnitPaths, chunkSize); err != nil {
		return err
	}
	if err := writeRunScript(path, b.Run); err != nil {
		return err
	}

	log.Printf("built batch %s: %d units in %d chunk(s) at %s",
		b.ID, b.N(), (b.N()+chunkSize-1)/chunkSize, path)
	return nil
}

func (b *Batch) saveDescriptor() error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal batch descriptor: %w", err)
	}
	if err := os.WriteFile(filepath.Join(b.path, DescriptorFile), data, 0o644); err != nil {
		return fmt.Errorf("write batch descriptor: %w", err)
	}
	return nil
}

// Load reconstructs a batch from its persisted descriptor, re-anchoring it
// to path regardless of where the descriptor was originally written.
func Load(path string) (*Batch, error) {
	data, err := os.ReadFile(filepath.Join(path, DescriptorFile))
	if err != nil {
		return nil, fmt.Errorf("read batch descriptor: %w", err)
	}
	var b Batch
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse batch descriptor: %w", err)
	}
	b.path = path
	return &b, nil
}

// Unit loads the serialized unit at index i.
func (b *Batch) Unit(i int) (*simulation.Unit, error) {
	if i < 0 || i >= len(b.UnitPaths) {
		return nil, fmt.Errorf("unit index %d out of range [0,%d)", i, len(b.UnitPaths))
	}
	return simulation.LoadUnit(filepath.Join(b.path, b.UnitPaths[i]))
}

// Apply loads each unit in index order and applies fn, returning an
// index-keyed map of the results. It is a sequential convenience for
// post-hoc analysis, not a parallel executor.
func Apply[T any](b *Batch, fn func(*simulation.Unit) (T, error)) (map[int]T, error) {
	out := make(map[int]T, b.N())
	for i := range b.UnitPaths {
		unit, err := b.Unit(i)
		if err != nil {
			return nil, fmt.Errorf("load unit %d: %w", i, err)
		}
		v, err := fn(unit)
		if err != nil {
			return nil, fmt.Errorf("apply to unit %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
