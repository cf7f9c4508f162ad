package tabular

// tileRange returns the inclusive [lo, hi] tile index span a [start, end)
// footprint covers at tile width w, clamped to the zoom's valid tile range
// (spec §3: a footprint touching a tile boundary belongs to the tile on the
// left). This mirrors placer1d/placer2d's own tile-overlap computation so
// the grid index agrees with how entries were placed.
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
