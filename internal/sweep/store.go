package sweep

import (
	"database/sql"
	"fmt"
	"math"

	_ "modernc.org/sqlite"

	"github.com/sbernasek/promoters/internal/simulation"
)

// StoreFile is the results store filename inside the sweep directory.
const StoreFile = "results.db"

// Store persists the aggregated results table and completion mask beside
// the sweep descriptor, in two logical tables: "results" and "completed".
// NaN sentinels are stored as SQL NULL.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if necessary) the results store at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results store: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			unit       INTEGER NOT NULL,
			condition  TEXT NOT NULL,
			metric     TEXT NOT NULL,
			value      DOUBLE,
			PRIMARY KEY (unit, condition, metric)
		);
		CREATE TABLE IF NOT EXISTS completed (
			unit       INTEGER PRIMARY KEY,
			done       INTEGER NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialise results store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save replaces the store contents with the given table and mask.
func (s *Store) Save(t *Table, completed []bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM results`); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM completed`); err != nil {
		return fmt.Errorf("clear completed: %w", err)
	}

	insert, err := tx.Prepare(`INSERT INTO results (unit, condition, metric, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare results insert: %w", err)
	}
	defer insert.Close()

	for ri, unit := range t.Units {
		for ci, k := range t.Columns {
			var value interface{}
			if v := t.Values[ri][ci]; !math.IsNaN(v) {
				value = v
			}
			if _, err := insert.Exec(unit, k.Condition, k.Metric, value); err != nil {
				return fmt.Errorf("insert result for unit %d: %w", unit, err)
			}
		}
	}

	for unit, done := range completed {
		if _, err := tx.Exec(`INSERT INTO completed (unit, done) VALUES (?, ?)`, unit, done); err != nil {
			return fmt.Errorf("insert completion for unit %d: %w", unit, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Load reads the results table and completion mask back. An empty store
// yields nil results and a nil mask, not an error.
func (s *Store) Load() (*Table, []bool, error) {
	rows, err := s.db.Query(`SELECT unit, condition, metric, value FROM results ORDER BY unit`)
	if err != nil {
		return nil, nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	byUnit := make(map[int]map[Key]float64)
	for rows.Next() {
		var unit int
		var condition, metric string
		var value sql.NullFloat64
		if err := rows.Scan(&unit, &condition, &metric, &value); err != nil {
			return nil, nil, fmt.Errorf("scan result row: %w", err)
		}
		v := math.NaN()
		if value.Valid {
			v = value.Float64
		}
		if byUnit[unit] == nil {
			byUnit[unit] = make(map[Key]float64, len(simulation.Metrics))
		}
		byUnit[unit][Key{Condition: condition, Metric: metric}] = v
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate results: %w", err)
	}

	mask, err := s.loadCompleted()
	if err != nil {
		return nil, nil, err
	}
	if len(byUnit) == 0 && mask == nil {
		return nil, nil, nil
	}
	return newTable(byUnit), mask, nil
}

func (s *Store) loadCompleted() ([]bool, error) {
	rows, err := s.db.Query(`SELECT unit, done FROM completed`)
	if err != nil {
		return nil, fmt.Errorf("query completed: %w", err)
	}
	defer rows.Close()

	byUnit := make(map[int]bool)
	maxUnit := -1
	for rows.Next() {
		var unit int
		var done bool
		if err := rows.Scan(&unit, &done); err != nil {
			return nil, fmt.Errorf("scan completed row: %w", err)
		}
		byUnit[unit] = done
		if unit > maxUnit {
			maxUnit = unit
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completed: %w", err)
	}
	if maxUnit < 0 {
		return nil, nil
	}

	mask := make([]bool, maxUnit+1)
	for u, done := range byUnit {
		mask[u] = done
	}
	return mask, nil
}
