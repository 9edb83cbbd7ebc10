package sweep

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), StoreFile))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)

	table := newTable(map[int]map[Key]float64{
		0: {
			{Condition: "normal", Metric: "error"}: 1.5,
			{Condition: "normal", Metric: "above"}: math.NaN(),
		},
		3: {
			{Condition: "normal", Metric: "error"}: 2.5,
		},
	})
	completed := []bool{true, false, false, true}

	require.NoError(t, store.Save(table, completed))

	loaded, mask, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, table.Units, loaded.Units)
	assert.Equal(t, table.Columns, loaded.Columns)
	require.Len(t, loaded.Values, len(table.Values))
	for ri := range table.Values {
		for ci := range table.Values[ri] {
			want := table.Values[ri][ci]
			got := loaded.Values[ri][ci]
			if math.IsNaN(want) {
				assert.True(t, math.IsNaN(got), "row %d col %d: want NaN, got %g", ri, ci, got)
			} else {
				assert.Equal(t, want, got, "row %d col %d", ri, ci)
			}
		}
	}
	assert.Equal(t, completed, mask)
}

func TestStoreLoadEmpty(t *testing.T) {
	store := openTestStore(t)

	table, mask, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, table)
	assert.Nil(t, mask)
}

func TestStoreSaveReplaces(t *testing.T) {
	store := openTestStore(t)

	first := newTable(map[int]map[Key]float64{
		0: {{Condition: "normal", Metric: "error"}: 1.0},
		1: {{Condition: "normal", Metric: "error"}: 2.0},
	})
	require.NoError(t, store.Save(first, []bool{true, true}))

	second := newTable(map[int]map[Key]float64{
		1: {{Condition: "normal", Metric: "error"}: 9.0},
	})
	require.NoError(t, store.Save(second, []bool{false, true}))

	loaded, mask, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, []int{1}, loaded.Units)
	v, err := loaded.Lookup(0, "normal", "error")
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)
	assert.Equal(t, []bool{false, true}, mask)
}
