package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Fixed subdirectory names inside a batch tree.
const (
	SimulationsDir = "simulations"
	ChunksDir      = "batches"
	LogsDir        = "log"
	ScriptsDir     = "scripts"
)

// IndexFile is the ordered list of chunk files, one relative path per line.
const IndexFile = "index.txt"

// WriteChunks partitions unitPaths into contiguous chunks of at most size
// entries and writes the manifest under root: one file per chunk in
// batches/, a per-chunk log directory under log/, and batches/index.txt
// listing the chunk files in ascending chunk-id order. Unit i lands in
// chunk i/size. An empty unitPaths slice produces an empty index file.
// Returns the chunk file paths relative to root.
func WriteChunks(root string, unitPaths []string, size int) ([]string, error) {
	if size < 1 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}

	indexPath := filepath.Join(root, ChunksDir, IndexFile)
	index, err := os.Create(indexPath)
	if err != nil {
		return nil, fmt.Errorf("create chunk index: %w", err)
	}
	defer index.Close()

	var chunkPaths []string
	var chunk *os.File

	finalize := func(path string) error {
		if err := chunk.Close(); err != nil {
			return fmt.Errorf("close chunk file: %w", err)
		}
		// Chunk files are inputs to external workers; mark them
		// world-readable and stop writing to them.
		return os.Chmod(path, 0o755)
	}

	for i, unitPath := range unitPaths {
		id := i / size

		if i%size == 0 {
			rel := filepath.Join(ChunksDir, strconv.Itoa(id)+".txt")
			abs := filepath.Join(root, rel)

			chunk, err = os.Create(abs)
			if err != nil {
				return nil, fmt.Errorf("create chunk %d: %w", id, err)
			}
			if _, err := fmt.Fprintln(index, rel); err != nil {
				return nil, fmt.Errorf("append chunk %d to index: %w", id, err)
			}
			if err := os.Mkdir(filepath.Join(root, LogsDir, strconv.Itoa(id)), 0o755); err != nil {
				return nil, fmt.Errorf("create log directory for chunk %d: %w", id, err)
			}
			chunkPaths = append(chunkPaths, rel)
		}

		if _, err := fmt.Fprintln(chunk, unitPath); err != nil {
			return nil, fmt.Errorf("append unit %d to chunk %d: %w", i, id, err)
		}

		if i%size == size-1 || i == len(unitPaths)-1 {
			if err := finalize(filepath.Join(root, chunkPaths[len(chunkPaths)-1])); err != nil {
				return nil, err
			}
		}
	}

	if err := index.Close(); err != nil {
		return nil, fmt.Errorf("close chunk index: %w", err)
	}
	if err := os.Chmod(indexPath, 0o755); err != nil {
		return nil, fmt.Errorf("chmod chunk index: %w", err)
	}
	return chunkPaths, nil
}
