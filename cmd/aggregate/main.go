// Command aggregate scans a built sweep for completed simulation results,
// compiles the results table and completion mask, persists them to the
// sweep's results store, and prints per-condition error summaries.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/sbernasek/promoters/internal/simulation"
	"github.com/sbernasek/promoters/internal/sweep"
)

func main() {
	path := flag.String("path", "", "Path to a built sweep directory")
	flag.Parse()

	if *path == "" {
		log.Fatal("sweep path is required")
	}

	s, err := sweep.Load(*path, simulation.DefaultRegistry())
	if err != nil {
		log.Fatalf("Failed to load sweep: %v", err)
	}

	if err := s.Aggregate(); err != nil {
		log.Fatalf("Failed to aggregate results: %v", err)
	}
	if err := s.Save(); err != nil {
		log.Fatalf("Failed to save results: %v", err)
	}

	log.Printf("aggregated %d units, %.1f%% complete", s.N(), 100*s.PercentComplete())

	errors := s.Results.SliceByMetric(simulation.MetricError)
	for _, condition := range errors.Labels {
		mean, stddev, err := errors.Summary(condition)
		if err != nil {
			log.Fatalf("Failed to summarise condition %q: %v", condition, err)
		}
		fmt.Printf("%-12s error mean=%.4g stddev=%.4g\n", condition, mean, stddev)
	}
}
