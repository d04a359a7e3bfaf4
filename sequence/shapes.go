package sequence

import (
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/pulseq/errors"
	"github.com/wippyai/pulseq/section"
)

// Decompress returns the uncompressed samples of a stored shape. A shape
// that already has the expected length is returned as is; anything else is
// decoded as a run-length compressed derivative.
func Decompress(samples []float64, expected int) ([]float64, error) {
	if len(samples) == expected {
		return samples, nil
	}
	return decompressRLE(samples, expected)
}

// decompressRLE decodes the exporter's compression: the shape is stored as
// its derivative, and two equal consecutive values are followed by the
// number of additional repetitions. After a run the history is cleared so
// that a count can never pair up with the following value.
func decompressRLE(samples []float64, expected int) ([]float64, error) {
	// expected is read from the file and is not trusted for allocation.
	deriv := make([]float64, 0, min(expected, len(samples)))
	a, b := math.NaN(), math.NaN()

	for i, v := range samples {
		if a == b {
			if v < 0 || v != math.Trunc(v) || math.IsInf(v, 0) {
				return nil, errors.RleCountIsNotInteger(i, v)
			}
			if total := float64(len(deriv)) + v; total > float64(expected) {
				return nil, errors.WrongDecompressedCount(int(math.Min(total, math.MaxInt32)), expected)
			}
			for n := 0; n < int(v); n++ {
				deriv = append(deriv, b)
			}
			a, b = math.NaN(), math.NaN()
			continue
		}
		deriv = append(deriv, v)
		a, b = b, v
	}

	if len(deriv) != expected {
		return nil, errors.WrongDecompressedCount(len(deriv), expected)
	}

	out := make([]float64, len(deriv))
	var acc float64
	for i, d := range deriv {
		acc += d
		out[i] = acc
	}
	return out, nil
}

const (
	// maxTimeBoundary bounds time shape values so that they convert to int
	// exactly on every platform.
	maxTimeBoundary = math.MaxInt32

	maxExpandPrealloc = 1 << 16
)

// Expand resamples a non-uniformly sampled shape onto the raster. time holds
// cumulative raster boundaries; the first segment holds shape[0] and each
// following segment is linearly interpolated at the raster midpoints. The
// result has last(time) samples.
func Expand(shape, time []float64) ([]float64, error) {
	if len(shape) != len(time) {
		return nil, errors.TimeShapeMismatch(len(shape), len(time))
	}
	if len(time) == 0 {
		return []float64{}, nil
	}

	prev := 0.0
	for i, t := range time {
		if math.IsInf(t, 0) || t != math.Trunc(t) || t > maxTimeBoundary {
			return nil, errors.TimeShapeNonInteger(i, t)
		}
		if t < 0 || (i > 0 && t <= prev) {
			return nil, errors.TimeShapeNonIncreasing(i, t)
		}
		prev = t
	}

	out := make([]float64, 0, min(int(time[len(time)-1]), maxExpandPrealloc))
	for k := 0; k < int(time[0]); k++ {
		out = append(out, shape[0])
	}
	for i := 1; i < len(time); i++ {
		n := int(time[i] - time[i-1])
		lo, hi := shape[i-1], shape[i]
		for k := 0; k < n; k++ {
			out = append(out, lo+(hi-lo)*(float64(k)+0.5)/float64(n))
		}
	}
	return out, nil
}

type shapeKey struct {
	shape uint32
	time  uint32
}

// ShapeStore decompresses every declared shape once and hands out shared,
// memoized handles. Expanded shapes are cached per (shape, time) pair.
type ShapeStore struct {
	raw    map[uint32][]float64
	memo   map[shapeKey]*Shape
	hits   int
	misses int
}

// NewShapeStore decompresses all shapes. With alwaysCompressed set, which is
// the case for pre-1.4 files, the run-length decoder runs even when the
// stored length already matches.
func NewShapeStore(shapes section.Shapes, alwaysCompressed bool) (*ShapeStore, error) {
	s := &ShapeStore{
		raw:  make(map[uint32][]float64, len(shapes)),
		memo: make(map[shapeKey]*Shape),
	}
	for _, sh := range shapes {
		if sh.ID == 0 {
			return nil, errors.ShapeIndexZero()
		}
		var (
			samples []float64
			err     error
		)
		if alwaysCompressed {
			samples, err = decompressRLE(sh.Samples, int(sh.NumSamples))
		} else {
			samples, err = Decompress(sh.Samples, int(sh.NumSamples))
		}
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.ID = sh.ID
			}
			return nil, err
		}
		s.raw[sh.ID] = samples
	}
	return s, nil
}

// Get returns the shape with the given id, expanded with the time shape
// when timeID is non-zero. Repeated calls return the same handle.
func (s *ShapeStore) Get(shapeID, timeID uint32) (*Shape, error) {
	key := shapeKey{shape: shapeID, time: timeID}
	if sh, ok := s.memo[key]; ok {
		s.hits++
		return sh, nil
	}
	s.misses++

	samples, err := s.lookup(shapeID)
	if err != nil {
		return nil, err
	}
	if timeID != 0 {
		time, err := s.lookup(timeID)
		if err != nil {
			return nil, err
		}
		if samples, err = Expand(samples, time); err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.ID = timeID
			}
			return nil, err
		}
	}

	sh := &Shape{Samples: samples}
	s.memo[key] = sh
	return sh, nil
}

// Time returns the raw time shape handle, or nil for id 0.
func (s *ShapeStore) Time(timeID uint32) (*Shape, error) {
	if timeID == 0 {
		return nil, nil
	}
	return s.Get(timeID, 0)
}

func (s *ShapeStore) lookup(id uint32) ([]float64, error) {
	if id == 0 {
		return nil, errors.ShapeIndexZero()
	}
	samples, ok := s.raw[id]
	if !ok {
		return nil, errors.ShapeNotFound(id)
	}
	return samples, nil
}

// Len returns the number of declared shapes.
func (s *ShapeStore) Len() int {
	return len(s.raw)
}

func (s *ShapeStore) logStats() {
	Logger().Debug("shape store",
		zap.Int("shapes", len(s.raw)),
		zap.Int("handles", len(s.memo)),
		zap.Int("hits", s.hits),
		zap.Int("misses", s.misses))
}
