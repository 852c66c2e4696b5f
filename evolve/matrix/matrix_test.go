package matrix_test

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/baldhumanity/neuroevo-go/evolve/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fromRows builds a matrix from literal rows.
func fromRows(t *testing.T, rows [][]float64) *matrix.Matrix {
	t.Helper()
	m, err := matrix.FromRecord(matrix.Record{Rows: len(rows), Cols: len(rows[0]), Data: rows})
	require.NoError(t, err)
	return m
}

func TestNew_ZeroFilled(t *testing.T) {
	m, err := matrix.New(2, 3)
	require.NoError(t, err)
	r, c := m.Shape()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0}, m.ToVector())
}

func TestNew_InvalidDimensions(t *testing.T) {
	_, err := matrix.New(0, 3)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.New(2, -1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.FromVector(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestFromVector_ColumnMatrix(t *testing.T) {
	values := []float64{1, 2, 3}
	m, err := matrix.FromVector(values)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 1, m.Cols())
	values[0] = 99
	assert.Equal(t, []float64{1, 2, 3}, m.ToVector())
}

func TestAtSet_Bounds(t *testing.T) {
	m, _ := matrix.New(2, 2)
	require.NoError(t, m.Set(1, 0, 4))
	v, err := m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
	_, err = m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrIndexOutOfBounds)
	require.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrIndexOutOfBounds)
}

func TestMultiply_Shape(t *testing.T) {
	a := fromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	b := fromRows(t, [][]float64{{7, 8}, {9, 10}, {11, 12}})
	p, err := matrix.Multiply(a, b)
	require.NoError(t, err)
	r, c := p.Shape()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, []float64{58, 64, 139, 154}, p.ToVector())
}

func TestMultiply_DimensionMismatch(t *testing.T) {
	a, _ := matrix.New(2, 3)
	b, _ := matrix.New(2, 3)
	_, err := matrix.Multiply(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestAdd_Succeeds(t *testing.T) {
	a := fromRows(t, [][]float64{{1, 2}, {3, 4}})
	b := fromRows(t, [][]float64{{4, 3}, {2, 1}})
	sum, err := matrix.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 5, 5, 5}, sum.ToVector())
	// operands untouched
	assert.Equal(t, []float64{1, 2, 3, 4}, a.ToVector())
}

func TestAdd_DimensionMismatch(t *testing.T) {
	a, _ := matrix.New(2, 2)
	b, _ := matrix.New(3, 2)
	_, err := matrix.Add(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestScalarOps(t *testing.T) {
	a := fromRows(t, [][]float64{{1, -2}})
	assert.Equal(t, []float64{3, -6}, matrix.Scale(a, 3).ToVector())
	assert.Equal(t, []float64{1.5, -1.5}, matrix.AddScalar(a, 0.5).ToVector())
	assert.Equal(t, []float64{1, -2}, a.ToVector())
}

func TestMapAndApply(t *testing.T) {
	a := fromRows(t, [][]float64{{1, 2}, {3, 4}})
	idx := matrix.Map(a, func(_ float64, r, c int) float64 { return float64(r*10 + c) })
	assert.Equal(t, []float64{0, 1, 10, 11}, idx.ToVector())
	assert.Equal(t, []float64{1, 2, 3, 4}, a.ToVector(), "Map must not mutate its input")

	same := a.Apply(func(v float64, _, _ int) float64 { return v * v })
	assert.Same(t, a, same)
	assert.Equal(t, []float64{1, 4, 9, 16}, a.ToVector())
}

func TestRandomize_Range(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m, _ := matrix.New(20, 20)
	m.Randomize(rng)
	for _, v := range m.ToVector() {
		assert.GreaterOrEqual(t, v, -1.0)
		assert.Less(t, v, 1.0)
	}
}

func TestCrossover_CellsFromEitherParent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a, _ := matrix.New(10, 10)
	b, _ := matrix.New(10, 10)
	a.Randomize(rng)
	b.Randomize(rng)

	child, err := matrix.Crossover(a, b, matrix.DefaultCrossoverBias, rng)
	require.NoError(t, err)

	av, bv, cv := a.ToVector(), b.ToVector(), child.ToVector()
	fromA, fromB := 0, 0
	for i := range cv {
		switch cv[i] {
		case av[i]:
			fromA++
		case bv[i]:
			fromB++
		default:
			t.Fatalf("cell %d = %v is from neither parent", i, cv[i])
		}
	}
	// per-cell coin flip, not one shared choice
	assert.Positive(t, fromA)
	assert.Positive(t, fromB)
}

func TestCrossover_FreshStorage(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := fromRows(t, [][]float64{{1, 1}})
	b := fromRows(t, [][]float64{{2, 2}})
	child, err := matrix.Crossover(a, b, 1, rng)
	require.NoError(t, err)
	require.NoError(t, child.Set(0, 0, 42))
	v, _ := a.At(0, 0)
	assert.Equal(t, 1.0, v)
}

func TestCrossover_DimensionMismatch(t *testing.T) {
	a, _ := matrix.New(2, 2)
	b, _ := matrix.New(2, 3)
	_, err := matrix.Crossover(a, b, 0.5, rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestMutate_ZeroRateUnchanged(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a, _ := matrix.New(6, 4)
	a.Randomize(rng)
	out := a.Mutate(0, matrix.DefaultMutationPower, rng)
	assert.True(t, a.Equal(out))
}

func TestMutate_FullRateBoundedPerturbation(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a, _ := matrix.New(6, 4)
	a.Randomize(rng)
	before := a.ToVector()

	out := a.Mutate(1, matrix.DefaultMutationPower, rng)
	after := out.ToVector()
	changed := 0
	for i := range before {
		d := math.Abs(after[i] - before[i])
		assert.LessOrEqual(t, d, matrix.DefaultMutationPower)
		if d > 0 {
			changed++
		}
	}
	assert.Positive(t, changed)
	assert.Equal(t, before, a.ToVector(), "Mutate returns a copy")
}

func TestRecord_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	a, _ := matrix.New(3, 2)
	a.Randomize(rng)

	raw, err := json.Marshal(a.Record())
	require.NoError(t, err)
	var rec matrix.Record
	require.NoError(t, json.Unmarshal(raw, &rec))
	b, err := matrix.FromRecord(rec)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestFromRecord_RaggedData(t *testing.T) {
	_, err := matrix.FromRecord(matrix.Record{Rows: 2, Cols: 2, Data: [][]float64{{1, 2}, {3}}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.FromRecord(matrix.Record{Rows: 2, Cols: 2, Data: [][]float64{{1, 2}}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
