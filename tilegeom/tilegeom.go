// Package tilegeom derives the tile pyramid geometry (component C2): the
// number of zoom levels and the width of a tile at each one. It is a pure
// function of (total_length, tile_size); see spec §3.
package tilegeom

import (
	"math"

	"github.com/grailbio/genomepyramid/genome"
)

// Geometry is immutable once constructed.
type Geometry struct {
	totalLength int64
	tileSize    int64
	maxZoom     int
	maxWidth    int64
}

// New derives a Geometry from the assembly's total length and the
// configured tile size.
//
//	max_zoom  = ceil(log2(total_length / tile_size))
//	max_width = tile_size * 2^max_zoom
func New(totalLength, tileSize int64) (*Geometry, error) {
	if tileSize <= 0 {
		return nil, genome.NewError(genome.ErrInvalidGeometry, "tile_size must be positive, got %d", tileSize)
	}
	if totalLength <= 0 {
		return nil, genome.NewError(genome.ErrInvalidGeometry, "total_length must be positive, got %d", totalLength)
	}
	ratio := float64(totalLength) / float64(tileSize)
	maxZoom := 0
	if ratio > 1 {
		maxZoom = int(math.Ceil(math.Log2(ratio)))
	}
	maxWidth := tileSize << uint(maxZoom)
	return &Geometry{
		totalLength: totalLength,
		tileSize:    tileSize,
		maxZoom:     maxZoom,
		maxWidth:    maxWidth,
	}, nil
}

// MaxZoom is the finest (highest-numbered) zoom level.
func (g *Geometry) MaxZoom() int { return g.maxZoom }

// MaxWidth is the width, in base pairs, of the single tile at zoom 0.
func (g *Geometry) MaxWidth() int64 { return g.maxWidth }

// TileSize is the width of a tile at the finest zoom level (max_zoom).
func (g *Geometry) TileSize() int64 { return g.tileSize }

// TotalLength is the assembly's total length in base pairs.
func (g *Geometry) TotalLength() int64 { return g.totalLength }

// TileWidth returns tile_size * 2^(max_zoom - z) for z in [0, max_zoom].
// Zoom 0 is coarsest (one tile spans MaxWidth); max_zoom is finest (one tile
// spans TileSize).
func (g *Geometry) TileWidth(z int) int64 {
	return g.tileSize << uint(g.maxZoom-z)
}

// NumTiles returns the number of tiles along one axis at zoom z:
// ceil(max_width / tile_width(z)), which is always exactly 2^z.
func (g *Geometry) NumTiles(z int) int64 {
	return int64(1) << uint(z)
}

// TileIndex returns the tile index t such that a global position p falls in
// [t*w, (t+1)*w) at zoom z, per the half-open boundary rule of spec §4.6: a
// footprint touching t*w belongs to tile t.
func (g *Geometry) TileIndex(z int, p int64) int64 {
	return p / g.TileWidth(z)
}
