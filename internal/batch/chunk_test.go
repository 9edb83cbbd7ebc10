package batch

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func chunkRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, sub := range []string{ChunksDir, LogsDir} {
		if err := os.Mkdir(filepath.Join(root, sub), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", sub, err)
		}
	}
	return root
}

func unitPaths(n int) []string {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join(SimulationsDir, strconv.Itoa(i))
	}
	return paths
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	trimmed := strings.TrimSuffix(string(data), "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func TestWriteChunks(t *testing.T) {
	testCases := []struct {
		name       string
		n          int
		size       int
		wantChunks []int // units per chunk
	}{
		{"exact_multiple", 6, 3, []int{3, 3}},
		{"short_last_chunk", 4, 3, []int{3, 1}},
		{"size_exceeds_n", 2, 10, []int{2}},
		{"single_unit", 1, 1, []int{1}},
		{"empty", 0, 5, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := chunkRoot(t)
			paths := unitPaths(tc.n)

			chunks, err := WriteChunks(root, paths, tc.size)
			if err != nil {
				t.Fatalf("WriteChunks: %v", err)
			}
			if len(chunks) != len(tc.wantChunks) {
				t.Fatalf("expected %d chunks, got %d", len(tc.wantChunks), len(chunks))
			}

			index := readLines(t, filepath.Join(root, ChunksDir, IndexFile))
			if len(index) != len(chunks) {
				t.Fatalf("index lists %d chunks, expected %d", len(index), len(chunks))
			}

			// Every unit index appears exactly once, in ascending order.
			var seen []string
			for ci, rel := range chunks {
				if index[ci] != rel {
					t.Errorf("index line %d = %q, want %q", ci, index[ci], rel)
				}
				lines := readLines(t, filepath.Join(root, rel))
				if len(lines) != tc.wantChunks[ci] {
					t.Errorf("chunk %d holds %d units, want %d", ci, len(lines), tc.wantChunks[ci])
				}
				seen = append(seen, lines...)

				if _, err := os.Stat(filepath.Join(root, LogsDir, strconv.Itoa(ci))); err != nil {
					t.Errorf("missing log directory for chunk %d: %v", ci, err)
				}
			}
			if len(seen) != tc.n {
				t.Fatalf("chunks cover %d units, want %d", len(seen), tc.n)
			}
			for i, p := range seen {
				if p != paths[i] {
					t.Errorf("position %d holds %q, want %q", i, p, paths[i])
				}
			}
		})
	}
}

func TestWriteChunksScenario(t *testing.T) {
	// N=4, size=3 must produce chunks [0 1 2] and [3].
	root := chunkRoot(t)
	chunks, err := WriteChunks(root, unitPaths(4), 3)
	if err != nil {
		t.Fatalf("WriteChunks: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	first := readLines(t, filepath.Join(root, chunks[0]))
	second := readLines(t, filepath.Join(root, chunks[1]))
	if len(first) != 3 || len(second) != 1 {
		t.Fatalf("expected chunk sizes 3 and 1, got %d and %d", len(first), len(second))
	}
	if second[0] != filepath.Join(SimulationsDir, "3") {
		t.Errorf("last chunk holds %q, want simulations/3", second[0])
	}
}

func TestWriteChunksInvalidSize(t *testing.T) {
	root := chunkRoot(t)
	if _, err := WriteChunks(root, unitPaths(3), 0); err == nil {
		t.Fatal("expected error for zero chunk size")
	}
	if _, err := WriteChunks(root, unitPaths(3), -1); err == nil {
		t.Fatal("expected error for negative chunk size")
	}
}

func TestWriteChunksEmptyIndex(t *testing.T) {
	root := chunkRoot(t)
	chunks, err := WriteChunks(root, nil, 5)
	if err != nil {
		t.Fatalf("WriteChunks with no units: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
	data, err := os.ReadFile(filepath.Join(root, ChunksDir, IndexFile))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty index file, got %q", data)
	}
}
