package sequence

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/pulseq/errors"
	"github.com/wippyai/pulseq/section"
)

// compress mirrors the exporter: store the derivative and replace every run
// of n >= 2 equal values by value, value, n-2.
func compress(shape []float64) []float64 {
	deriv := make([]float64, len(shape))
	prev := 0.0
	for i, v := range shape {
		deriv[i] = v - prev
		prev = v
	}

	var out []float64
	for i := 0; i < len(deriv); {
		j := i
		for j < len(deriv) && deriv[j] == deriv[i] {
			j++
		}
		if n := j - i; n >= 2 {
			out = append(out, deriv[i], deriv[i], float64(n-2))
		} else {
			out = append(out, deriv[i])
		}
		i = j
	}
	return out
}

func integrate(deriv []float64) []float64 {
	out := make([]float64, len(deriv))
	var acc float64
	for i, d := range deriv {
		acc += d
		out[i] = acc
	}
	return out
}

func kindOf(t *testing.T, err error) errors.Kind {
	t.Helper()
	var e *errors.Error
	require.True(t, stderrors.As(err, &e), "error %v is not *errors.Error", err)
	return e.Kind
}

func TestDecompress_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		deriv []float64
	}{
		{"constant", []float64{1, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{"ramp", []float64{1, 1, 1, 1, 1, 1, 1, 1}},
		{"trapezoid", []float64{1, 1, 1, 0, 0, 0, 0, -1, -1, -1}},
		{"run of two", []float64{2, 2, 5, 3, 3, 3}},
		{"alternating runs", []float64{0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 0, -1, -1}},
		{"no runs", []float64{4, -3, 2, -1, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := integrate(tt.deriv)
			compressed := compress(want)

			got, err := decompressRLE(compressed, len(want))
			require.NoError(t, err)
			assert.Equal(t, want, got)

			if len(compressed) != len(want) {
				got, err = Decompress(compressed, len(want))
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestDecompress_Identity(t *testing.T) {
	samples := []float64{0, 3, 1, 0, 2}

	got, err := Decompress(samples, len(samples))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3, 1, 0, 2}, got)
}

func TestDecompressRLE_NoRunIntegrates(t *testing.T) {
	got, err := decompressRLE([]float64{0, 3, 1, 0, 2}, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3, 4, 4, 6}, got)
}

func TestDecompressRLE_ExporterBlockPulse(t *testing.T) {
	// 100 sample block pulse as written by the exporter.
	got, err := decompressRLE([]float64{1, 0, 0, 97}, 100)
	require.NoError(t, err)
	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, 1.0, v, "sample %d", i)
	}
}

func TestDecompressRLE_LockoutAfterRun(t *testing.T) {
	// The count 2 must not pair with the following 2.
	got, err := decompressRLE([]float64{1, 1, 2, 2, 2}, 6)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 6, 8}, got)
}

func TestDecompressRLE_Errors(t *testing.T) {
	tests := []struct {
		name     string
		samples  []float64
		expected int
		kind     errors.Kind
	}{
		{"fractional count", []float64{1, 1, 1.5}, 4, errors.KindRleCountIsNotInteger},
		{"negative count", []float64{1, 1, -1}, 4, errors.KindRleCountIsNotInteger},
		{"nan count", []float64{1, 1, math.NaN()}, 4, errors.KindRleCountIsNotInteger},
		{"too few", []float64{1, 1, 1}, 10, errors.KindWrongDecompressedCount},
		{"too many", []float64{1, 1, 100}, 10, errors.KindWrongDecompressedCount},
		{"infinite count", []float64{1, 1, math.Inf(1)}, 10, errors.KindRleCountIsNotInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decompressRLE(tt.samples, tt.expected)
			require.Error(t, err)
			assert.Equal(t, tt.kind, kindOf(t, err))
		})
	}
}

func TestDecompress_RleCountIndex(t *testing.T) {
	_, err := Decompress([]float64{0.5, 0.5, 2.5}, 6)
	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, 2, e.Index)
	assert.Equal(t, 2.5, e.Value)
}

func TestDecompressRLE_HugeDeclaredCount(t *testing.T) {
	_, err := decompressRLE([]float64{1, 2, 3}, 4000000000)
	require.Error(t, err)
	assert.Equal(t, errors.KindWrongDecompressedCount, kindOf(t, err))

	_, err = NewShapeStore(section.Shapes{
		{ID: 9, NumSamples: 4000000000, Samples: []float64{0, 0, 1e300}},
	}, true)
	require.Error(t, err)
	assert.Equal(t, errors.KindWrongDecompressedCount, kindOf(t, err))
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name  string
		shape []float64
		time  []float64
		want  []float64
	}{
		{"empty", nil, nil, []float64{}},
		{"first boundary zero", []float64{5, 5}, []float64{0, 2}, []float64{5, 5}},
		{"leading hold", []float64{0, 10}, []float64{1, 3}, []float64{0, 2.5, 7.5}},
		{"unit steps", []float64{1, 2, 3}, []float64{1, 2, 3}, []float64{1, 1.5, 2.5}},
		{"single sample", []float64{4}, []float64{3}, []float64{4, 4, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.shape, tt.time)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand_LengthLaw(t *testing.T) {
	times := [][]float64{
		{0, 1, 2, 3},
		{2, 5, 6, 20},
		{10},
		{1, 100, 101},
	}
	for _, time := range times {
		shape := make([]float64, len(time))
		for i := range shape {
			shape[i] = float64(i * i)
		}
		got, err := Expand(shape, time)
		require.NoError(t, err)
		assert.Len(t, got, int(time[len(time)-1]))
	}
}

func TestExpand_Errors(t *testing.T) {
	tests := []struct {
		name  string
		shape []float64
		time  []float64
		kind  errors.Kind
	}{
		{"length mismatch", []float64{1, 2}, []float64{1}, errors.KindTimeShapeMismatch},
		{"fractional boundary", []float64{1, 2}, []float64{1, 2.5}, errors.KindTimeShapeNonInteger},
		{"repeated boundary", []float64{1, 2, 3}, []float64{1, 2, 2}, errors.KindTimeShapeNonIncreasing},
		{"decreasing boundary", []float64{1, 2, 3}, []float64{1, 3, 2}, errors.KindTimeShapeNonIncreasing},
		{"negative start", []float64{1, 2}, []float64{-1, 2}, errors.KindTimeShapeNonIncreasing},
		{"boundary beyond int range", []float64{1, 2}, []float64{0, 1e15}, errors.KindTimeShapeNonInteger},
		{"huge boundary", []float64{1, 2}, []float64{0, 1e300}, errors.KindTimeShapeNonInteger},
		{"nan boundary", []float64{1, 2}, []float64{0, math.NaN()}, errors.KindTimeShapeNonInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.shape, tt.time)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.Equal(t, tt.kind, kindOf(t, err))
		})
	}
}

func TestShapeStore(t *testing.T) {
	store, err := NewShapeStore(section.Shapes{
		{ID: 1, NumSamples: 3, Samples: []float64{0, 10, 20}},
		{ID: 2, NumSamples: 3, Samples: []float64{1, 2, 4}},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	a, err := store.Get(1, 0)
	require.NoError(t, err)
	b, err := store.Get(1, 0)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, []float64{0, 10, 20}, a.Samples)

	expanded, err := store.Get(1, 2)
	require.NoError(t, err)
	assert.NotSame(t, a, expanded)
	assert.Equal(t, []float64{0, 5, 12.5, 17.5}, expanded.Samples)

	again, err := store.Get(1, 2)
	require.NoError(t, err)
	assert.Same(t, expanded, again)

	time, err := store.Time(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 4}, time.Samples)

	none, err := store.Time(0)
	require.NoError(t, err)
	assert.Nil(t, none)

	assert.Equal(t, 2, store.hits)
	assert.Equal(t, 3, store.misses)
}

func TestShapeStore_Errors(t *testing.T) {
	_, err := NewShapeStore(section.Shapes{{ID: 0, NumSamples: 1, Samples: []float64{1}}}, false)
	assert.Equal(t, errors.KindShapeIndexZero, kindOf(t, err))

	_, err = NewShapeStore(section.Shapes{{ID: 3, NumSamples: 5, Samples: []float64{1, 1}}}, false)
	assert.Equal(t, errors.KindWrongDecompressedCount, kindOf(t, err))

	store, err := NewShapeStore(section.Shapes{{ID: 1, NumSamples: 2, Samples: []float64{1, 2}}}, false)
	require.NoError(t, err)

	_, err = store.Get(9, 0)
	assert.Equal(t, errors.KindShapeNotFound, kindOf(t, err))

	_, err = store.Get(1, 9)
	assert.Equal(t, errors.KindShapeNotFound, kindOf(t, err))

	_, err = store.Get(0, 0)
	assert.Equal(t, errors.KindShapeIndexZero, kindOf(t, err))
}

func TestShapeStore_AlwaysCompressed(t *testing.T) {
	shapes := section.Shapes{{ID: 1, NumSamples: 3, Samples: []float64{1, 1, 1}}}

	store, err := NewShapeStore(shapes, true)
	require.NoError(t, err)
	sh, err := store.Get(1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, sh.Samples)

	store, err = NewShapeStore(shapes, false)
	require.NoError(t, err)
	sh, err = store.Get(1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, sh.Samples)
}
