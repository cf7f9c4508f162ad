// Package densestore persists a dense-array pyramid (component C4) to a
// recordio file: one record per flushed chunk, plus a gob-encoded trailer
// holding the scalar metadata needed to reopen and query the pyramid. A
// Writer implements pyramid.LevelSink directly, so pyramid.Builder can push
// straight into it with no intermediate buffering layer, mirroring how
// fusionWriter in the teacher repo hands candidates straight to a recordio
// writer as they are produced.
package densestore

import (
	"bytes"
	"encoding/gob"

	"github.com/dgryski/go-farm"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/genomepyramid/genome"
	"github.com/klauspost/compress/flate"
)

const (
	versionHeaderKey = "genomepyramid-dense-version"
	versionValue     = "v1"
)

// Metadata is the scalar description of a dense pyramid, stored in the
// recordio trailer exactly like fusionFileHeader in the teacher's
// cmd/bio-fusion/io.go.
type Metadata struct {
	Assembly    string
	ChromNames  []string
	ChromSizes  []int64
	TileSize    int64
	MaxZoom     int
	ZoomStep    int
	ChunkShift  uint
	Levels      []int
	LevelLength map[int]int64 // total # of values written per retained level
}

// chunkRecord is the on-disk shape of one WriteChunk call: the value and
// NaN-count arrays are each gob-encoded then flate-compressed independently,
// since they compress very differently (counts are mostly zero).
type chunkRecord struct {
	Level        int
	Pos          int64
	NumValues    int
	ValuesBlob   []byte
	NaNCountBlob []byte
	Checksum     uint64 // farm hash over ValuesBlob++NaNCountBlob, checked on read
}

func compressFloats(v []float32) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if err := gob.NewEncoder(zw).Encode(v); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressFloats(b []byte) ([]float32, error) {
	zr := flate.NewReader(bytes.NewReader(b))
	defer zr.Close()
	var v []float32
	if err := gob.NewDecoder(zr).Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func checksumOf(a, b []byte) uint64 {
	return farm.Hash64(append(append([]byte(nil), a...), b...))
}

// Writer streams chunks of a dense pyramid to a recordio file. It
// implements pyramid.LevelSink.
type Writer struct {
	out  file.File
	rio  recordio.Writer
	meta Metadata
}

// Create opens path for writing and returns a Writer primed with meta.
// Per spec §5, flush parallelism is pinned to 1: the pyramid builder is
// itself single-threaded and synchronous, and there is nothing to gain from
// recordio's async flush fan-in here.
func Create(path string, meta Metadata) (*Writer, error) {
	ctx := vcontext.Background()
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, genome.WrapError(genome.ErrIoFailure, err, "densestore: create %s", path)
	}
	rio := recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{
		MaxFlushParallelism: 1,
	})
	rio.AddHeader(versionHeaderKey, versionValue)
	rio.AddHeader(recordio.KeyTrailer, true)
	if meta.LevelLength == nil {
		meta.LevelLength = map[int]int64{}
	}
	return &Writer{out: out, rio: rio, meta: meta}, nil
}

// WriteChunk implements pyramid.LevelSink.
func (w *Writer) WriteChunk(level int, pos int64, values []float32, nanCounts []float32) error {
	valuesBlob, err := compressFloats(values)
	if err != nil {
		return genome.WrapError(genome.ErrIoFailure, err, "densestore: compress values for level %d", level)
	}
	nanBlob, err := compressFloats(nanCounts)
	if err != nil {
		return genome.WrapError(genome.ErrIoFailure, err, "densestore: compress nan counts for level %d", level)
	}
	rec := chunkRecord{
		Level:        level,
		Pos:          pos,
		NumValues:    len(values),
		ValuesBlob:   valuesBlob,
		NaNCountBlob: nanBlob,
		Checksum:     checksumOf(valuesBlob, nanBlob),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&rec); err != nil {
		return genome.WrapError(genome.ErrIoFailure, err, "densestore: encode chunk record")
	}
	w.rio.Append(buf.Bytes())
	w.meta.LevelLength[level] = pos + int64(len(values))
	return nil
}

// Close finalizes the trailer and flushes the recordio stream to storage.
func (w *Writer) Close() error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&w.meta); err != nil {
		return genome.WrapError(genome.ErrIoFailure, err, "densestore: encode metadata trailer")
	}
	w.rio.SetTrailer(buf.Bytes())
	if err := w.rio.Finish(); err != nil {
		return genome.WrapError(genome.ErrIoFailure, err, "densestore: finish recordio stream")
	}
	ctx := vcontext.Background()
	if err := w.out.Close(ctx); err != nil {
		return genome.WrapError(genome.ErrIoFailure, err, "densestore: close output")
	}
	return nil
}

// Reader reads back a dense pyramid written by Writer.
type Reader struct {
	in      file.File
	scanner recordio.Scanner
	meta    Metadata

	cur chunkRecord
}

// Open opens path for reading and decodes its trailer metadata.
func Open(path string) (*Reader, error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, genome.WrapError(genome.ErrIoFailure, err, "densestore: open %s", path)
	}
	scanner := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})
	found := false
	for _, kv := range scanner.Header() {
		if kv.Key == versionHeaderKey {
			found = true
			break
		}
	}
	if !found {
		return nil, genome.NewError(genome.ErrIoFailure, "densestore: %s: missing version header, not a dense pyramid file", path)
	}
	var meta Metadata
	if err := gob.NewDecoder(bytes.NewReader(scanner.Trailer())).Decode(&meta); err != nil {
		return nil, genome.WrapError(genome.ErrIoFailure, err, "densestore: decode metadata trailer")
	}
	return &Reader{in: in, scanner: scanner, meta: meta}, nil
}

// Metadata returns the scalar description stored when the file was written.
func (r *Reader) Metadata() Metadata { return r.meta }

// Scan advances to the next chunk record. It returns false at EOF or error;
// call Err to distinguish the two.
func (r *Reader) Scan() bool {
	if !r.scanner.Scan() {
		return false
	}
	raw := r.scanner.Get().([]byte)
	var rec chunkRecord
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&rec); err != nil {
		return false
	}
	r.cur = rec
	return true
}

// Err reports any error encountered during Scan.
func (r *Reader) Err() error {
	if err := r.scanner.Err(); err != nil {
		return genome.WrapError(genome.ErrIoFailure, err, "densestore: scan")
	}
	return nil
}

// Chunk decodes and returns the current record's level, start position, and
// value/NaN-count arrays. It verifies the stored checksum before
// decompressing.
func (r *Reader) Chunk() (level int, pos int64, values []float32, nanCounts []float32, err error) {
	rec := r.cur
	if checksumOf(rec.ValuesBlob, rec.NaNCountBlob) != rec.Checksum {
		return 0, 0, nil, nil, genome.NewError(genome.ErrIoFailure, "densestore: checksum mismatch at level %d pos %d", rec.Level, rec.Pos)
	}
	values, err = decompressFloats(rec.ValuesBlob)
	if err != nil {
		return 0, 0, nil, nil, genome.WrapError(genome.ErrIoFailure, err, "densestore: decompress values")
	}
	nanCounts, err = decompressFloats(rec.NaNCountBlob)
	if err != nil {
		return 0, 0, nil, nil, genome.WrapError(genome.ErrIoFailure, err, "densestore: decompress nan counts")
	}
	return rec.Level, rec.Pos, values, nanCounts, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	ctx := vcontext.Background()
	return r.in.Close(ctx)
}
