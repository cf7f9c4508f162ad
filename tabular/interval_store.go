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

// IntervalRow is the 1-D tabular row shape from spec §4 Data Model: (id,
// zoom_level, importance, start, end, chrom_offset, uid, fields).
type IntervalRow struct {
	ID          uint64
	ZoomLevel   int
	Importance  float64
	Start       int64
	End         int64
	ChromOffset int64
	UID         uint64
	Fields      []string
}

func (r *IntervalRow) rangeStart() int64 { return r.Start }
func (r *IntervalRow) rangeEnd() int64   { return r.End }

// IntervalStore holds every placed 1-D entry plus the grid index built over
// it, ready to answer tile queries or to be persisted.
type IntervalStore struct {
	Info TilesetInfo
	Rows []IntervalRow

	g *grid
}

// NewIntervalStore builds a store from entries already placed by
// placer1d.Place (every entry must have AssignedZoom >= 0).
func NewIntervalStore(geom *tilegeom.Geometry, info TilesetInfo, entries []*genome.IntervalEntry) (*IntervalStore, error) {
	rows := make([]IntervalRow, len(entries))
	for i, e := range entries {
		if e.AssignedZoom < 0 {
			return nil, genome.NewError(genome.ErrInvalidGeometry, "interval entry %d was never placed", i)
		}
		rows[i] = IntervalRow{
			ID:          uint64(i),
			ZoomLevel:   e.AssignedZoom,
			Importance:  e.Importance,
			Start:       e.GlobalStart,
			End:         e.GlobalEnd,
			ChromOffset: e.ChromOffset,
			UID:         e.UID,
			Fields:      e.RawFields,
		}
	}
	s := &IntervalStore{Info: info, Rows: rows}
	s.buildIndex(geom)
	return s, nil
}

func (s *IntervalStore) buildIndex(geom *tilegeom.Geometry) {
	asRanged := make([]ranged, len(s.Rows))
	for i := range s.Rows {
		asRanged[i] = &s.Rows[i]
	}
	s.g = buildGrid(asRanged, func(i int) []bucketKey {
		row := s.Rows[i]
		w := geom.TileWidth(row.ZoomLevel)
		lo, hi := tileRange(row.Start, row.End, w, geom.NumTiles(row.ZoomLevel))
		keys := make([]bucketKey, 0, hi-lo+1)
		for t := lo; t <= hi; t++ {
			keys = append(keys, bucketKey{Zoom: row.ZoomLevel, TileX: t, TileY: -1})
		}
		return keys
	})
}

// QueryTile returns the rows placed in tile (zoom, tileX) whose footprint
// overlaps [qStart, qEnd).
func (s *IntervalStore) QueryTile(zoom int, tileX int64, qStart, qEnd int64) []IntervalRow {
	asRanged := make([]ranged, len(s.Rows))
	for i := range s.Rows {
		asRanged[i] = &s.Rows[i]
	}
	idx := s.g.queryTile(asRanged, bucketKey{Zoom: zoom, TileX: tileX, TileY: -1}, qStart, qEnd)
	out := make([]IntervalRow, len(idx))
	for i, id := range idx {
		out[i] = s.Rows[id]
	}
	return out
}

// intervalBatch is one recordio record: every row placed in one (zoom,
// tileX) bucket, with the raw-fields columns pulled out into their own
// snappy-compressed blob (spec SPEC_FULL.md §4.5 — fast random-access
// decompression of just the user columns, without touching the numeric
// columns used for filtering).
type intervalBatch struct {
	Zoom       int
	TileX      int64
	Rows       []intervalRowMeta
	FieldsBlob []byte
}

type intervalRowMeta struct {
	ID          uint64
	Importance  float64
	Start, End  int64
	ChromOffset int64
	UID         uint64
}

const intervalVersionHeaderKey = "genomepyramid-interval-version"
const intervalVersionValue = "v1"

// WriteTo persists the store to path as a recordio file: one record per
// (zoom, tileX) bucket plus a tileset_info trailer.
func (s *IntervalStore) WriteTo(path string) error {
	ctx := vcontext.Background()
	out, err := file.Create(ctx, path)
	if err != nil {
		return genome.WrapError(genome.ErrIoFailure, err, "tabular: create %s", path)
	}
	rio := recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{MaxFlushParallelism: 1})
	rio.AddHeader(intervalVersionHeaderKey, intervalVersionValue)
	rio.AddHeader(recordio.KeyTrailer, true)

	for key, b := range s.g.buckets {
		batch := intervalBatch{Zoom: key.Zoom, TileX: key.TileX}
		fields := make([][]string, len(b.rowIdx))
		for i, id := range b.rowIdx {
			row := s.Rows[id]
			batch.Rows = append(batch.Rows, intervalRowMeta{
				ID: row.ID, Importance: row.Importance, Start: row.Start, End: row.End,
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

// ReadIntervalStore reopens a file written by IntervalStore.WriteTo.
func ReadIntervalStore(path string) (*TilesetInfo, []IntervalRow, error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, genome.WrapError(genome.ErrIoFailure, err, "tabular: open %s", path)
	}
	defer in.Close(ctx)
	scanner := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})

	found := false
	for _, kv := range scanner.Header() {
		if kv.Key == intervalVersionHeaderKey {
			found = true
			break
		}
	}
	if !found {
		return nil, nil, genome.NewError(genome.ErrIoFailure, "tabular: %s: missing version header", path)
	}

	var rows []IntervalRow
	for scanner.Scan() {
		raw := scanner.Get().([]byte)
		var batch intervalBatch
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
			rows = append(rows, IntervalRow{
				ID: m.ID, ZoomLevel: batch.Zoom, Importance: m.Importance,
				Start: m.Start, End: m.End, ChromOffset: m.ChromOffset, UID: m.UID,
				Fields: fields[i],
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
