package placer1d

import (
	"testing"

	"github.com/grailbio/genomepyramid/genome"
	"github.com/grailbio/genomepyramid/tilegeom"
)

func mkEntry(start, end int64, importance float64, order int) *genome.IntervalEntry {
	e := &genome.IntervalEntry{GlobalStart: start, GlobalEnd: end, Importance: importance}
	e.SetIngestOrder(order)
	return e
}

// Every tile at every zoom must hold at most maxPerTile entries, and every
// entry must land on exactly one zoom (spec §8: Tile cap invariant).
func checkCapInvariant(t *testing.T, geom *tilegeom.Geometry, entries []*genome.IntervalEntry, maxPerTile int) {
	t.Helper()
	for z := 0; z <= geom.MaxZoom(); z++ {
		w := geom.TileWidth(z)
		counts := map[int64]int{}
		for _, e := range entries {
			if e.AssignedZoom != z {
				continue
			}
			first := e.GlobalStart / w
			last := first
			if e.GlobalEnd > e.GlobalStart {
				last = (e.GlobalEnd - 1) / w
			}
			for tile := first; tile <= last; tile++ {
				counts[tile]++
			}
		}
		for tile, c := range counts {
			if c > maxPerTile {
				t.Errorf("zoom %d tile %d: %d entries placed, cap is %d", z, tile, c, maxPerTile)
			}
		}
	}
}

func TestTileCapInvariant(t *testing.T) {
	geom, err := tilegeom.New(10000, 100)
	if err != nil {
		t.Fatal(err)
	}
	var entries []*genome.IntervalEntry
	for i := 0; i < 500; i++ {
		start := int64(i * 17 % 9900)
		entries = append(entries, mkEntry(start, start+5, float64(i%23), i))
	}
	if err := Place(geom, entries, 3); err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.AssignedZoom < 0 || e.AssignedZoom > geom.MaxZoom() {
			t.Errorf("entry [%d,%d) got invalid AssignedZoom %d", e.GlobalStart, e.GlobalEnd, e.AssignedZoom)
		}
	}
	checkCapInvariant(t, geom, entries, 3)
}

// Concrete scenario from spec §8: K=2, three equal-footprint entries at the
// same coordinates with importance 3, 2, 1. placer1d sweeps zoom 0 (coarsest)
// first, so the two most important are kept there; the third overflows the
// zoom-0 tile cap and must migrate to a finer zoom.
func TestImportanceOverflowMigratesToFinerZoom(t *testing.T) {
	geom, err := tilegeom.New(10000, 100)
	if err != nil {
		t.Fatal(err)
	}
	e1 := mkEntry(500, 510, 3, 0)
	e2 := mkEntry(500, 510, 2, 1)
	e3 := mkEntry(500, 510, 1, 2)
	entries := []*genome.IntervalEntry{e3, e2, e1} // deliberately out of importance order
	if err := Place(geom, entries, 2); err != nil {
		t.Fatal(err)
	}
	if e1.AssignedZoom != 0 || e2.AssignedZoom != 0 {
		t.Errorf("expected the two most important entries at zoom 0, got %d and %d",
			e1.AssignedZoom, e2.AssignedZoom)
	}
	if e3.AssignedZoom <= 0 {
		t.Errorf("expected the least important entry to migrate to a finer zoom, got %d", e3.AssignedZoom)
	}
	checkCapInvariant(t, geom, []*genome.IntervalEntry{e1, e2, e3}, 2)
}

func TestInvalidMaxPerTileRejected(t *testing.T) {
	geom, err := tilegeom.New(10000, 100)
	if err != nil {
		t.Fatal(err)
	}
	if err := Place(geom, nil, 0); genome.KindOf(err) != genome.ErrInvalidGeometry {
		t.Errorf("expected ErrInvalidGeometry for max_per_tile=0, got %v", err)
	}
}
