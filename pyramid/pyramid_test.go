package pyramid

import (
	"math"
	"testing"

	"github.com/grailbio/genomepyramid/tilegeom"
)

type captureSink struct {
	values map[int][]float32
	nans   map[int][]float32
}

func newCaptureSink() *captureSink {
	return &captureSink{values: map[int][]float32{}, nans: map[int][]float32{}}
}

func (s *captureSink) WriteChunk(level int, pos int64, values []float32, nanCounts []float32) error {
	if int64(len(s.values[level])) != pos {
		panic("out-of-order write")
	}
	s.values[level] = append(s.values[level], values...)
	s.nans[level] = append(s.nans[level], nanCounts...)
	return nil
}

func sumFloat32(a []float32) float64 {
	var s float64
	for _, v := range a {
		if !math.IsNaN(float64(v)) {
			s += float64(v)
		}
	}
	return s
}

func TestPyramidSumAndNaNConservation(t *testing.T) {
	const totalLength = 10000
	geom, err := tilegeom.New(totalLength, 100)
	if err != nil {
		t.Fatal(err)
	}
	sink := newCaptureSink()
	b, err := New(geom, 2, 4, sink) // zoomStep=2, chunkShift=4 -> C = 100*16=1600, multiple of 4. OK
	if err != nil {
		t.Fatal(err)
	}

	values := make([]float64, totalLength)
	flags := make([]bool, totalLength)
	for i := range values {
		if i%37 == 0 {
			flags[i] = true
			values[i] = math.NaN()
		} else {
			values[i] = float64(i % 5)
		}
	}

	// Push in irregular chunks to exercise partial-buffer cascading.
	for i := 0; i < len(values); {
		step := 777
		if i+step > len(values) {
			step = len(values) - i
		}
		if err := b.Push(values[i:i+step], flags[i:i+step]); err != nil {
			t.Fatal(err)
		}
		i += step
	}
	if err := b.Finish(); err != nil {
		t.Fatal(err)
	}

	levels := b.Levels()
	if len(levels) < 2 {
		t.Fatalf("expected at least 2 retained levels, got %v", levels)
	}
	for i := 0; i+1 < len(levels); i++ {
		lo, hi := levels[i], levels[i+1]
		sumLo := sumFloat32(sink.values[lo])
		sumHi := sumFloat32(sink.values[hi])
		if math.Abs(sumLo-sumHi) > 1e-6 {
			t.Errorf("sum conservation violated between level %d (%v) and %d (%v)", lo, sumLo, hi, sumHi)
		}
		nanLo := sumFloat32(sink.nans[lo])
		nanHi := sumFloat32(sink.nans[hi])
		if math.Abs(nanLo-nanHi) > 1e-6 {
			t.Errorf("NaN conservation violated between level %d (%v) and %d (%v)", lo, nanLo, hi, nanHi)
		}
	}

	wantNaNCount := 0
	for _, f := range flags {
		if f {
			wantNaNCount++
		}
	}
	if got := sumFloat32(sink.nans[levels[0]]); int(got) != wantNaNCount {
		t.Errorf("level 0 NaN count = %v, want %d", got, wantNaNCount)
	}

	for _, z := range levels {
		want := int64(math.Ceil(float64(totalLength) / math.Pow(2, float64(z))))
		if got := int64(len(sink.values[z])); got != want {
			t.Errorf("level %d length = %d, want %d", z, got, want)
		}
	}
}

func TestChunkSizeMustBeMultipleOfStride(t *testing.T) {
	geom, err := tilegeom.New(10000, 100)
	if err != nil {
		t.Fatal(err)
	}
	// chunkShift=0 -> C = tile_size = 100, zoomStep=3 -> stride 8; 100 % 8 != 0.
	if _, err := New(geom, 3, 0, newCaptureSink()); err == nil {
		t.Errorf("expected chunk-size validation error")
	}
}
