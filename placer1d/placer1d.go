// Package placer1d implements the importance-ranked 1-D tile placer
// (component C6): for every zoom level and tile, keep at most K entries of
// greatest importance whose footprint overlaps that tile (spec §4.6).
package placer1d

import (
	"sort"

	"github.com/grailbio/genomepyramid/genome"
	"github.com/grailbio/genomepyramid/tilegeom"
)

// Place assigns every entry in entries to exactly one zoom level in
// [0, geom.MaxZoom()], honoring the per-tile cap maxPerTile (K). entries is
// sorted in place by descending importance (ties broken by ingestion order,
// spec §4.6 tie-break rule) and every entry's AssignedZoom field is set.
// Place never drops an entry: termination is guaranteed because MaxZoom is
// finite and each zoom pass either emits or skips every remaining entry
// (spec §4.6).
func Place(geom *tilegeom.Geometry, entries []*genome.IntervalEntry, maxPerTile int) error {
	if maxPerTile <= 0 {
		return genome.NewError(genome.ErrInvalidGeometry, "max_per_tile must be positive, got %d", maxPerTile)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Importance != entries[j].Importance {
			return entries[i].Importance > entries[j].Importance
		}
		return entries[i].IngestOrder() < entries[j].IngestOrder()
	})

	remaining := entries
	for z := 0; z <= geom.MaxZoom() && len(remaining) > 0; z++ {
		w := geom.TileWidth(z)
		numTiles := geom.NumTiles(z)

		// Bucket the entries still unplaced as of the start of this zoom
		// pass by every tile they overlap, preserving the descending-
		// importance order established above. This is the same candidate
		// set spec §4.6's pseudocode computes for tile t, just gathered in
		// one pass instead of rescanning `remaining` once per tile.
		var tileOrder []int64
		buckets := make(map[int64][]*genome.IntervalEntry)
		for _, e := range remaining {
			firstTile := e.GlobalStart / w
			lastTile := e.GlobalStart / w
			if e.GlobalEnd > e.GlobalStart {
				lastTile = (e.GlobalEnd - 1) / w
			}
			if firstTile < 0 {
				firstTile = 0
			}
			if lastTile >= numTiles {
				lastTile = numTiles - 1
			}
			for t := firstTile; t <= lastTile; t++ {
				if len(buckets[t]) == 0 {
					tileOrder = append(tileOrder, t)
				}
				buckets[t] = append(buckets[t], e)
			}
		}
		sort.Slice(tileOrder, func(i, j int) bool { return tileOrder[i] < tileOrder[j] })

		// Walk tiles in increasing index order, exactly as spec §4.6
		// describes: each tile's top-K picks are removed from the pool
		// before the next tile's candidates are considered, so an entry
		// spanning several tiles is only ever placed once, via whichever
		// of its tiles is processed first.
		picked := make(map[*genome.IntervalEntry]bool)
		for _, t := range tileOrder {
			var available []*genome.IntervalEntry
			for _, e := range buckets[t] {
				if !picked[e] {
					available = append(available, e)
				}
			}
			limit := maxPerTile
			if limit > len(available) {
				limit = len(available)
			}
			for _, e := range available[:limit] {
				picked[e] = true
			}
		}

		if len(picked) == 0 {
			continue
		}
		next := remaining[:0:0]
		for _, e := range remaining {
			if picked[e] {
				e.AssignedZoom = z
			} else {
				next = append(next, e)
			}
		}
		remaining = next
	}
	return nil
}
