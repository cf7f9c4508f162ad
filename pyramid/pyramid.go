// Package pyramid implements the streaming dense-array pyramid builder
// (component C3): the heart of the 1-D signal aggregator. It buffers pushed
// values per retained zoom level, flushes full chunks to a LevelSink, and
// cascades each flushed chunk into the next coarser retained level by
// bucketed summation (spec §4.3).
package pyramid

import (
	"math"

	"github.com/grailbio/base/log"
	"github.com/grailbio/genomepyramid/genome"
	"github.com/grailbio/genomepyramid/tilegeom"
)

// LevelSink receives flushed, aggregated chunks for one retained zoom
// level. densestore.Writer implements this to persist D_z and N_z.
type LevelSink interface {
	// WriteChunk appends values (D_z) and nanCounts (N_z) starting at
	// position pos in level z's output arrays.
	WriteChunk(level int, pos int64, values []float32, nanCounts []float32) error
}

// Builder streams values into a dense pyramid. It is single-threaded and
// synchronous, per spec §5: Push and Finish never suspend.
type Builder struct {
	geom      *tilegeom.Geometry
	zoomStep  int
	chunkSize int64
	sink      LevelSink

	levels     []int             // retained levels: 0, zoomStep, 2*zoomStep, ...
	buffers    map[int][]float64 // pending values per level
	nanBuffers map[int][]float64 // pending NaN-indicator sums per level (0/1 at level 0)
	pos        map[int]int64     // write cursor per level
}

// New constructs a Builder. chunkShift sets the chunk size C = tile_size *
// 2^chunkShift (spec §4.3); C must be a multiple of 2^zoomStep.
func New(geom *tilegeom.Geometry, zoomStep int, chunkShift uint, sink LevelSink) (*Builder, error) {
	if zoomStep <= 0 {
		return nil, genome.NewError(genome.ErrInvalidGeometry, "zoom_step must be positive, got %d", zoomStep)
	}
	chunkSize := geom.TileSize() << chunkShift
	stride := int64(1) << uint(zoomStep)
	if chunkSize%stride != 0 {
		return nil, genome.NewError(genome.ErrInvalidGeometry,
			"chunk size %d is not a multiple of 2^zoom_step (%d)", chunkSize, stride)
	}
	var levels []int
	for z := 0; z <= geom.MaxZoom(); z += zoomStep {
		levels = append(levels, z)
	}
	return &Builder{
		geom:       geom,
		zoomStep:   zoomStep,
		chunkSize:  chunkSize,
		sink:       sink,
		levels:     levels,
		buffers:    make(map[int][]float64, len(levels)),
		nanBuffers: make(map[int][]float64, len(levels)),
		pos:        make(map[int]int64, len(levels)),
	}, nil
}

// Levels returns the retained zoom levels, finest (level 0) first (0, s, 2s,
// ... up to the largest multiple of s not exceeding max_zoom).
func (b *Builder) Levels() []int {
	return append([]int(nil), b.levels...)
}

// Pos returns the current write cursor for a retained level.
func (b *Builder) Pos(level int) int64 { return b.pos[level] }

// Push appends values and their parallel NaN flags to level 0, in
// monotonically increasing global coordinate order (spec §4.3 ordering
// guarantee), and drains any buffer that has reached a full chunk.
func (b *Builder) Push(values []float64, nanFlags []bool) error {
	if len(values) != len(nanFlags) {
		return genome.NewError(genome.ErrInvalidGeometry, "push: %d values but %d nan flags", len(values), len(nanFlags))
	}
	nan := make([]float64, len(values))
	for i, f := range nanFlags {
		if f {
			nan[i] = 1
		}
	}
	b.buffers[0] = append(b.buffers[0], values...)
	b.nanBuffers[0] = append(b.nanBuffers[0], nan...)
	return b.cascade(false)
}

// Finish flushes every remaining buffered value, relaxing the flush
// threshold to "any remaining values" (spec §4.3 Flush protocol). After
// Finish returns, pos[z] == ceil(total_length/2^z) for every retained level
// that received a contiguous push covering the full assembly.
func (b *Builder) Finish() error {
	return b.cascade(true)
}

// cascade drains buffers level by level, finest level (0) first, so that a
// chunk flushed from level z is visible to level z+zoomStep's drain within
// the same call (spec §4.3 step 3: "Repeat the same cascade for level s,
// then 2s, etc., each cascading into the next retained level").
func (b *Builder) cascade(flushAll bool) error {
	for _, z := range b.levels {
		for {
			buf := b.buffers[z]
			n := int64(len(buf))
			if flushAll {
				if n == 0 {
					break
				}
			} else if n < b.chunkSize {
				break
			}
			take := b.chunkSize
			if take > n {
				take = n
			}
			values := buf[:take]
			nanBuf := b.nanBuffers[z][:take]

			if err := b.sink.WriteChunk(z, b.pos[z], toFloat32(values), toFloat32(nanBuf)); err != nil {
				return err
			}
			log.Debug.Printf("pyramid: flushed level %d [%d,%d)", z, b.pos[z], b.pos[z]+take)
			b.pos[z] += take

			nextZ := z + b.zoomStep
			if nextZ <= b.geom.MaxZoom() {
				stride := 1 << uint(b.zoomStep)
				b.buffers[nextZ] = append(b.buffers[nextZ], aggregate(values, stride, true)...)
				b.nanBuffers[nextZ] = append(b.nanBuffers[nextZ], aggregate(nanBuf, stride, false)...)
			}

			b.buffers[z] = append([]float64(nil), buf[take:]...)
			b.nanBuffers[z] = append([]float64(nil), b.nanBuffers[z][take:]...)
		}
	}
	return nil
}

// aggregate performs the bucketed summation of spec §4.3: the result has
// length ceil(len(a)/bucket), and element k is the sum of a[k*bucket ..
// min((k+1)*bucket, len(a))). When nanSafe is true (the data pyramid), NaN
// values are treated as 0 so a run of missing data does not poison every
// coarser level above it; the NaN-count pyramid itself never contains NaN
// and does not need this.
func aggregate(a []float64, bucket int, nanSafe bool) []float64 {
	if len(a) == 0 {
		return nil
	}
	n := (len(a) + bucket - 1) / bucket
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		lo := k * bucket
		hi := lo + bucket
		if hi > len(a) {
			hi = len(a)
		}
		var sum float64
		for _, v := range a[lo:hi] {
			if nanSafe && math.IsNaN(v) {
				continue
			}
			sum += v
		}
		out[k] = sum
	}
	return out
}

func toFloat32(a []float64) []float32 {
	out := make([]float32, len(a))
	for i, v := range a {
		out[i] = float32(v)
	}
	return out
}
