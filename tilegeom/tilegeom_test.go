package tilegeom

import "testing"

func TestNewInvalid(t *testing.T) {
	if _, err := New(0, 1024); err == nil {
		t.Errorf("expected error for zero total_length")
	}
	if _, err := New(100, 0); err == nil {
		t.Errorf("expected error for zero tile_size")
	}
	if _, err := New(-5, 1024); err == nil {
		t.Errorf("expected error for negative total_length")
	}
}

// Concrete scenario 1 from spec §8: total_length=3,100,000,000,
// tile_size=1024 -> max_zoom=22, max_width=4,294,967,296.
func TestGeometryScenario(t *testing.T) {
	g, err := New(3100000000, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if g.MaxZoom() != 22 {
		t.Errorf("max_zoom = %d, want 22", g.MaxZoom())
	}
	if g.MaxWidth() != 4294967296 {
		t.Errorf("max_width = %d, want 4294967296", g.MaxWidth())
	}
}

func TestTileWidthBounds(t *testing.T) {
	g, err := New(3100000000, 1024)
	if err != nil {
		t.Fatal(err)
	}
	for z := 0; z <= g.MaxZoom(); z++ {
		w := g.TileWidth(z)
		if w < g.TileSize() || w > g.MaxWidth() {
			t.Errorf("zoom %d: tile_width=%d out of [%d,%d]", z, w, g.TileSize(), g.MaxWidth())
		}
	}
	if g.TileWidth(g.MaxZoom()) != g.TileSize() {
		t.Errorf("tile_width(max_zoom) = %d, want %d", g.TileWidth(g.MaxZoom()), g.TileSize())
	}
	if g.MaxWidth() < g.TotalLength() {
		t.Errorf("max_width %d < total_length %d", g.MaxWidth(), g.TotalLength())
	}
}

func TestTileIndexBoundaryRule(t *testing.T) {
	g, err := New(10000, 100)
	if err != nil {
		t.Fatal(err)
	}
	w := g.TileWidth(g.MaxZoom())
	// A footprint that touches t*w belongs to tile t (half-open from the left).
	if idx := g.TileIndex(g.MaxZoom(), w); idx != 1 {
		t.Errorf("TileIndex(w) = %d, want 1", idx)
	}
	if idx := g.TileIndex(g.MaxZoom(), w-1); idx != 0 {
		t.Errorf("TileIndex(w-1) = %d, want 0", idx)
	}
}
