// Package tabular implements the tabular output store (component C5): a row
// store for placed interval/pair entries plus a grid spatial index so a
// tile server can fetch just the rows that land in one zoom/tile bucket.
package tabular

// TilesetInfo is the scalar description stored in every tabular file's
// recordio trailer, mirroring densestore.Metadata's role for the dense
// path.
type TilesetInfo struct {
	Assembly   string
	ChromNames []string
	ChromSizes []int64
	TileSize   int64
	ZoomStep   int
	MaxZoom    int
	MaxWidth   int64
}
