// Command sweep samples the parameter space of a model family and builds
// the corresponding batch of simulation jobs on disk, ready for an
// external scheduler to run chunk by chunk.
package main

import (
	"flag"
	"log"
	"strings"

	"github.com/sbernasek/promoters/internal/simulation"
	"github.com/sbernasek/promoters/internal/sweep"
)

func main() {
	dir := flag.String("dir", ".", "Destination directory for the sweep")
	model := flag.String("model", "linear", "Model family")
	mode := flag.String("mode", string(simulation.ModePromoters), "Perturbation mode: promoters or repressors")
	samples := flag.Int("samples", 1000, "Number of parameter-space samples")
	chunkSize := flag.Int("batch-size", 25, "Number of simulations per chunk")
	delta := flag.Float64("delta", 0.5, "Log-deviation about the family base point")
	pad := flag.Float64("pad", 0.1, "Extra padding added to delta")
	seed := flag.Uint64("seed", 1, "Sampler seed")
	trajectories := flag.Int("trajectories", 5000, "Stochastic trajectories per simulation")
	saveAll := flag.Bool("save-all", false, "Save simulation trajectories")
	deviations := flag.Bool("deviations", false, "Use deviation variables")
	comparison := flag.String("comparison", "empirical", "Comparison type passed to the runner")
	flag.Parse()

	reg := simulation.DefaultRegistry()

	s, err := sweep.New(sweep.Config{
		Family:  *model,
		Mode:    simulation.Mode(*mode),
		Samples: *samples,
		Delta:   *delta,
		Pad:     *pad,
		Seed:    *seed,
		Run: simulation.RunConfig{
			Trajectories: *trajectories,
			SaveAll:      *saveAll,
			Deviations:   *deviations,
			Comparison:   *comparison,
		},
	}, reg)
	if err != nil {
		log.Printf("known model families: %s", strings.Join(reg.List(), ", "))
		log.Fatalf("Failed to configure sweep: %v", err)
	}

	if err := s.Build(*dir, *chunkSize); err != nil {
		log.Fatalf("Failed to build sweep: %v", err)
	}

	log.Printf("sweep built at %s", s.Batch.Path())
}
