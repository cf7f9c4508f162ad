// Package placer2d implements the importance-ranked 2-D tile placer
// (component C7): unlike placer1d's per-tile top-K sweep, every entry
// is assigned independently to the coarsest zoom at which its rectangular
// footprint does not push any overlapped tile over the per-tile cap (spec
// §4.7).
package placer2d

import (
	"sort"

	"github.com/grailbio/genomepyramid/genome"
	"github.com/grailbio/genomepyramid/tilegeom"
)

// occKey identifies one tile's occupancy counter at a given zoom.
type occKey struct {
	z    int
	i, j int64
}

// Result reports the outcome of a placement pass. Entries that do not fit
// at any zoom are culled rather than placed; per the Open Question in
// spec.md §9 this is intentional, but it is never silent: DroppedCount
// tells the caller how many were culled so it can log or surface the
// figure.
type Result struct {
	DroppedCount int
}

// Place assigns every entry in entries to the coarsest zoom at which it
// fits, or culls it if none fits. entries is sorted in place by descending
// importance (ties broken by ingestion order, spec §4.6's tie-break rule,
// reused here since §4.7 does not define its own). Entries that are culled
// retain AssignedZoom == -1.
func Place(geom *tilegeom.Geometry, entries []*genome.PairEntry, maxPerTile int) (Result, error) {
	if maxPerTile <= 0 {
		return Result{}, genome.NewError(genome.ErrInvalidGeometry, "max_per_tile must be positive, got %d", maxPerTile)
	}
	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].Importance != entries[b].Importance {
			return entries[a].Importance > entries[b].Importance
		}
		return entries[a].IngestOrder() < entries[b].IngestOrder()
	})

	occupancy := make(map[occKey]int)
	var result Result

	for _, e := range entries {
		e.AssignedZoom = -1
		placed := false
		for z := 0; z <= geom.MaxZoom(); z++ {
			w := geom.TileWidth(z)
			iLo, iHi := tileRange(e.GX0, e.GX1, w, geom.NumTiles(z))
			jLo, jHi := tileRange(e.GY0, e.GY1, w, geom.NumTiles(z))

			fits := true
			for i := iLo; i <= iHi && fits; i++ {
				for j := jLo; j <= jHi; j++ {
					if occupancy[occKey{z, i, j}] >= maxPerTile {
						fits = false
						break
					}
				}
			}
			if !fits {
				continue
			}
			for i := iLo; i <= iHi; i++ {
				for j := jLo; j <= jHi; j++ {
					occupancy[occKey{z, i, j}]++
				}
			}
			e.AssignedZoom = z
			placed = true
			break
		}
		if !placed {
			result.DroppedCount++
		}
	}
	return result, nil
}

// tileRange returns the half-open-consistent [lo, hi] tile index span a
// [start, end) footprint covers at tile width w, clamped to the valid tile
// range for the zoom (spec §3: a footprint touching a tile boundary
// belongs to the tile on the left, so the upper bound is computed from
// end-1, matching placer1d's interpretation of the same rule).
func tileRange(start, end, w, numTiles int64) (lo, hi int64) {
	lo = start / w
	hi = lo
	if end > start {
		hi = (end - 1) / w
	}
	if lo < 0 {
		lo = 0
	}
	if hi >= numTiles {
		hi = numTiles - 1
	}
	return lo, hi
}
