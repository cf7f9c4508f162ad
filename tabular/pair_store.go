package tabular

import (
	"bytes"
	"encoding/gob"

	"github.com/golang/snappy"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/genomepyramid/genome"
	"github.com/grailbio/genomepyramid/tilegeom"
)

// PairRow is the 2-D tabular row shape from spec §4 Data Model: (id,
// zoom_level, importance, from_x, to_x, from_y, to_y, chrom_offset, uid,
// fields).
type PairRow struct {
	ID          uint64
	ZoomLevel   int
	Importance  float64
	FromX       int64
	ToX         int64
	FromY       int64
	ToY         int64
	ChromOffset int64
	UID         uint64
	Fields      []string
}

// rangeStart/rangeEnd expose the X axis to grid's bucket index; the Y axis
// is clipped separately by PairStore.QueryTile since a grid bucket is keyed
// on both tile axes already and only needs a cheap linear re-check, not a
// second binary search.
func (r *PairRow) rangeStart() int64 { return r.FromX }
func (r *PairRow) rangeEnd() int64   { return r.ToX }

// PairStore holds every placed 2-D entry plus the 4-branch grid index built
// over it (one bucket per (zoom, tileX, tileY), per spec §4.5's "2-branch or
// 4-branch tree" spatial index).
type PairStore struct {
	Info TilesetInfo
	Rows []PairRow

	g *grid
}

// NewPairStore builds a store from entries already placed by
// placer2d.Place. Entries culled by placer2d (AssignedZoom == -1) are
// excluded, not stored: per spec §9 they are intentionally dropped, and a
// store should not claim zoom-level placement for an entry that has none.
func NewPairStore(geom *tilegeom.Geometry, info TilesetInfo, entries []*genome.PairEntry) *PairStore {
	rows := make([]PairRow, 0, len(entries))
	for i, e := range entries {
		if e.AssignedZoom < 0 {
			continue
		}
		rows = append(rows, PairRow{
			ID:          uint64(i),
			ZoomLevel:   e.AssignedZoom,
			Importance:  e.Importance,
			FromX:       e.GX0,
			ToX:         e.GX1,
			FromY:       e.GY0,
			ToY:         e.GY1,
			ChromOffset: e.ChromOffset,
			UID:         e.UID,
			Fields:      e.RawFields,
		})
	}
	s := &PairStore{Info: info, Rows: rows}
	s.buildIndex(geom)
	return s
}

func (s *PairStore) buildIndex(geom *tilegeom.Geometry) {
	asRanged := make([]ranged, len(s.Rows))
	for i := range s.Rows {
		asRanged[i] = &s.Rows[i]
	}
	s.g = buildGrid(asRanged, func(i int) []bucketKey {
		row := s.Rows[i]
		w := geom.TileWidth(row.ZoomLevel)
		numTiles := geom.NumTiles(row.ZoomLevel)
		xLo, xHi := tileRange(row.FromX, row.ToX, w, numTiles)
		yLo, yHi := tileRange(row.FromY, row.ToY, w, numTiles)
		keys := make([]bucketKey, 0, (xHi-xLo+1)*(yHi-yLo+1))
		for x := xLo; x <= xHi; x++ {
			for y := yLo; y <= yHi; y++ {
				keys = append(keys, bucketKey{Zoom: row.ZoomLevel, TileX: x, TileY: y})
			}
		}
		return keys
	})
}

// QueryTile returns the rows placed in tile (zoom, tileX, tileY) whose
// rectangle overlaps the query box [qx0,qx1) x [qy0,qy1). The grid bucket
// lookup and X-axis clip come from the shared grid machinery; the Y-axis
// clip is a linear pass, cheap because a single tile's bucket already holds
// only the rows that overlap that tile on both axes.
func (s *PairStore) QueryTile(zoom int, tileX, tileY int64, qx0, qx1, qy0, qy1 int64) []PairRow {
	asRanged := make([]ranged, len(s.Rows))
	for i := range s.Rows {
		asRanged[i] = &s.Rows[i]
	}
	idx := s.g.queryTile(asRanged, bucketKey{Zoom: zoom, TileX: tileX, TileY: tileY}, qx0, qx1)
	out := make([]PairRow, 0, len(idx))
	for _, id := range idx {
		row := s.Rows[id]
		if row.ToY > qy0 && row.FromY < qy1 {
			out = append(out, row)
		}
	}
	return out
}

// pairBatch is one recordio record: every row placed in one
// (zoom, tileX, tileY) bucket.
type pairBatch struct {
	Zoom       int
	TileX      int64
	TileY      int64
	Rows       []pairRowMeta
	FieldsBlob []byte
}

type pairRowMeta struct {
	ID          uint64
	Importance  float64
	FromX, ToX  int64
	FromY, ToY  int64
	ChromOffset int64
	UID         uint64
}

const pairVersionHeaderKey = "genomepyramid-pair-version"
const pairVersionValue = "v1"

// WriteTo persists the store to path as a recordio file: one record per
// (zoom, tileX, tileY) bucket plus a tileset_info trailer.
func (s *PairStore) WriteTo(path string) error {
	ctx := vcontext.Background()
	out, err := file.Create(ctx, path)
	if err != nil {
		return genome.WrapError(genome.ErrIoFailure, err, "tabular: create %s", path)
	}
	rio := recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{MaxFlushParallelism: 1})
	rio.AddHeader(pairVersionHeaderKey, pairVersionValue)
	rio.AddHeader(recordio.KeyTrailer, true)

	for key, b := range s.g.buckets {
		batch := pairBatch{Zoom: key.Zoom, TileX: key.TileX, TileY: key.TileY}
		fields := make([][]string, len(b.rowIdx))
		for i, id := range b.rowIdx {
			row := s.Rows[id]
			batch.Rows = append(batch.Rows, pairRowMeta{
				ID: row.ID, Importance: row.Importance,
				FromX: row.FromX, ToX: row.ToX, FromY: row.FromY, ToY: row.ToY,
				ChromOffset: row.ChromOffset, UID: row.UID,
			})
			fields[i] = row.Fields
		}
		var fieldsBuf bytes.Buffer
		if err := gob.NewEncoder(&fieldsBuf).Encode(fields); err != nil {
			return genome.WrapError(genome.ErrIoFailure, err, "tabular: encode fields blob")
		}
		batch.FieldsBlob = snappy.Encode(nil, fieldsBuf.Bytes())

		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(&batch); err != nil {
			return genome.WrapError(genome.ErrIoFailure, err, "tabular: encode batch")
		}
		rio.Append(buf.Bytes())
	}

	var trailerBuf bytes.Buffer
	if err := gob.NewEncoder(&trailerBuf).Encode(&s.Info); err != nil {
		return genome.WrapError(genome.ErrIoFailure, err, "tabular: encode tileset_info")
	}
	rio.SetTrailer(trailerBuf.Bytes())
	if err := rio.Finish(); err != nil {
		return genome.WrapError(genome.ErrIoFailure, err, "tabular: finish recordio stream")
	}
	return out.Close(ctx)
}

// ReadPairStore reopens a file written by PairStore.WriteTo.
func ReadPairStore(path string) (*TilesetInfo, []PairRow, error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, genome.WrapError(genome.ErrIoFailure, err, "tabular: open %s", path)
	}
	defer in.Close(ctx)
	scanner := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})

	found := false
	for _, kv := range scanner.Header() {
		if kv.Key == pairVersionHeaderKey {
			found = true
			break
		}
	}
	if !found {
		return nil, nil, genome.NewError(genome.ErrIoFailure, "tabular: %s: missing version header", path)
	}

	var rows []PairRow
	for scanner.Scan() {
		raw := scanner.Get().([]byte)
		var batch pairBatch
		if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&batch); err != nil {
			return nil, nil, genome.WrapError(genome.ErrIoFailure, err, "tabular: decode batch")
		}
		fieldsRaw, err := snappy.Decode(nil, batch.FieldsBlob)
		if err != nil {
			return nil, nil, genome.WrapError(genome.ErrIoFailure, err, "tabular: decompress fields blob")
		}
		var fields [][]string
		if err := gob.NewDecoder(bytes.NewReader(fieldsRaw)).Decode(&fields); err != nil {
			return nil, nil, genome.WrapError(genome.ErrIoFailure, err, "tabular: decode fields blob")
		}
		for i, m := range batch.Rows {
			rows = append(rows, PairRow{
				ID: m.ID, ZoomLevel: batch.Zoom, Importance: m.Importance,
				FromX: m.FromX, ToX: m.ToX, FromY: m.FromY, ToY: m.ToY,
				ChromOffset: m.ChromOffset, UID: m.UID, Fields: fields[i],
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, genome.WrapError(genome.ErrIoFailure, err, "tabular: scan")
	}

	var info TilesetInfo
	if err := gob.NewDecoder(bytes.NewReader(scanner.Trailer())).Decode(&info); err != nil {
		return nil, nil, genome.WrapError(genome.ErrIoFailure, err, "tabular: decode tileset_info")
	}
	return &info, rows, nil
}
