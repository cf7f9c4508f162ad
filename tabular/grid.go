package tabular

import (
	"sort"

	"github.com/grailbio/genomepyramid/interval"
)

// bucketKey identifies one grid cell: a zoom level plus one (1-D) or two
// (2-D) tile indices. TileY is -1 for the 1-D case.
type bucketKey struct {
	Zoom  int
	TileX int64
	TileY int64
}

// ranged is implemented by the row kinds this package stores; Grid clips
// query boxes against whichever axis a row type exposes.
type ranged interface {
	rangeStart() int64
	rangeEnd() int64
}

// bucket holds the rows assigned to one grid cell, sorted by their range's
// start coordinate so a query's upper bound can be found by binary search
// (interval.SearchPosTypes) instead of a linear scan, the same trick
// interval.UnionScanner uses to avoid rescanning from the beginning on every
// call.
type bucket struct {
	rowIdx []int               // indices into the owning store's row slice
	starts []interval.PosType  // rowIdx[i]'s range start, ascending
}

func newBucket(rows []ranged, idx []int) *bucket {
	sort.Slice(idx, func(a, b int) bool {
		return rows[idx[a]].rangeStart() < rows[idx[b]].rangeStart()
	})
	starts := make([]interval.PosType, len(idx))
	for i, id := range idx {
		starts[i] = interval.PosType(rows[id].rangeStart())
	}
	return &bucket{rowIdx: idx, starts: starts}
}

// query returns the indices (into rows) of this bucket's rows whose range
// overlaps the half-open [qStart, qEnd) query box. Rows are returned in
// ascending range-start order.
func (b *bucket) query(rows []ranged, qStart, qEnd int64) []int {
	// Every candidate row must start before qEnd; since starts is sorted,
	// that cuts the scan off at a single binary-searched index instead of
	// walking every row in the bucket.
	cut := interval.SearchPosTypes(b.starts, interval.PosType(qEnd))
	var out []int
	for i := 0; i < int(cut); i++ {
		id := b.rowIdx[i]
		if rows[id].rangeEnd() > qStart {
			out = append(out, id)
		}
	}
	return out
}

// grid maps a bucket key to the rows placed in it. It is built once after
// every row has been assigned a zoom by placer1d/placer2d.
type grid struct {
	buckets map[bucketKey]*bucket
}

// buildGrid indexes rows under every bucket key keysOf(i) reports for row i;
// a row whose footprint spans several tiles at its assigned zoom is
// retrievable from any of them, matching how placer1d/placer2d reason about
// tile overlap.
func buildGrid(rows []ranged, keysOf func(i int) []bucketKey) *grid {
	byKey := make(map[bucketKey][]int)
	for i := range rows {
		for _, k := range keysOf(i) {
			byKey[k] = append(byKey[k], i)
		}
	}
	g := &grid{buckets: make(map[bucketKey]*bucket, len(byKey))}
	for k, idx := range byKey {
		g.buckets[k] = newBucket(rows, idx)
	}
	return g
}

// queryTile returns the row indices placed in exactly one grid cell whose
// range overlaps [qStart, qEnd).
func (g *grid) queryTile(rows []ranged, key bucketKey, qStart, qEnd int64) []int {
	b, ok := g.buckets[key]
	if !ok {
		return nil
	}
	return b.query(rows, qStart, qEnd)
}
