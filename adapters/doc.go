// Package adapters implements the input adapters (component C8): the
// signal, bedgraph, interval (BED), and paired-interval (BEDPE) readers
// that translate raw input into the push/entry shapes the rest of the
// pipeline consumes. Malformed records are reported as
// genome.ErrMalformedRecord carrying the offending raw line and its 0-based
// record index, per spec §4.8 and §7.
package adapters
