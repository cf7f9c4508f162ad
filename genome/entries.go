package genome

import "blainsmith.com/go/seahash"

// IntervalEntry is the 1-D entry shape consumed by placer1d and persisted by
// tabular. It replaces the dynamically-typed record dicts of the original
// tool (spec Design Note, §9) with an explicit tagged struct.
type IntervalEntry struct {
	UID          uint64
	GlobalStart  int64
	GlobalEnd    int64
	ChromOffset  int64
	Importance   float64
	RawFields    []string
	AssignedZoom int // -1 until placed
	// ingestOrder breaks importance ties deterministically (spec §4.6).
	ingestOrder int
}

// PairEntry is the 2-D analogue consumed by placer2d.
type PairEntry struct {
	UID          uint64
	GX0, GX1     int64
	GY0, GY1     int64
	ChromOffset  int64
	Importance   float64
	RawFields    []string
	AssignedZoom int
	ingestOrder  int
}

// IngestOrder reports the order in which this entry was read from its
// adapter, used only to break importance ties (spec §4.6 tie-break rule).
func (e *IntervalEntry) IngestOrder() int { return e.ingestOrder }

// SetIngestOrder is called exactly once by an adapter as it emits entries.
func (e *IntervalEntry) SetIngestOrder(n int) { e.ingestOrder = n }

// IngestOrder reports the order in which this entry was read from its
// adapter.
func (e *PairEntry) IngestOrder() int { return e.ingestOrder }

// SetIngestOrder is called exactly once by an adapter as it emits entries.
func (e *PairEntry) SetIngestOrder(n int) { e.ingestOrder = n }

// HashUID derives an opaque, stable identifier from the raw fields of a
// record plus its global coordinates. Using a content hash instead of a
// monotonic counter keeps two separate runs over the same input
// byte-identical modulo ordering of equal-importance records (the
// Idempotence property, spec §8): a counter would depend on ingestion
// concurrency or retry behavior that the hash does not.
func HashUID(globalStart, globalEnd int64, rawFields []string) uint64 {
	h := seahash.New()
	var scratch [8]byte
	putInt64 := func(v int64) {
		for i := 0; i < 8; i++ {
			scratch[i] = byte(v >> (8 * i))
		}
		h.Write(scratch[:])
	}
	putInt64(globalStart)
	putInt64(globalEnd)
	for _, f := range rawFields {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
