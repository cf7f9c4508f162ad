package adapters

import (
	"math"

	"github.com/grailbio/base/log"
	"github.com/grailbio/genomepyramid/assembly"
	"github.com/grailbio/genomepyramid/genome"
)

// PushSink receives the dense values produced by SignalAdapter, in the same
// shape pyramid.Builder.Push accepts. Depending on the narrow interface
// instead of the pyramid package directly keeps the adapter decoupled from
// the pyramid builder's internals, the same collaborator boundary spec §1
// draws around the signal-file reader itself.
type PushSink interface {
	Push(values []float64, nanFlags []bool) error
}

// SignalSource is the external collaborator that actually decodes a binary
// indexed signal file (e.g. bigWig); out of scope per spec §1, so the
// adapter is handed an already-opened handle satisfying this interface.
type SignalSource interface {
	// HasChrom reports whether chrom has any data in the underlying file.
	HasChrom(chrom string) bool
	// ReadWindow returns up to length consecutive values starting at the
	// local (within-chromosome) offset. It may return fewer than length
	// values only at the end of the chromosome.
	ReadWindow(chrom string, offset, length int64) ([]float64, error)
}

// SignalAdapter reads a dense signal source chromosome by chromosome, in
// assembly order, and pushes windows of up to chunkSize values to sink.
// Missing chromosomes produce all-NaN windows of the chromosome's declared
// length (spec §4.8); there is no padding between chromosomes (spec §9
// Design Notes: "no gap padding between chromosomes").
type SignalAdapter struct {
	Assembly  *assembly.Assembly
	Source    SignalSource
	ChunkSize int64
	// Chromosome restricts processing to a single chromosome (--chromosome),
	// or is empty to process every chromosome in assembly order.
	Chromosome string
}

// Run streams the whole configured source through sink.Push.
func (a *SignalAdapter) Run(sink PushSink) error {
	names := a.Assembly.ChromNames()
	if a.Chromosome != "" {
		found := false
		for _, n := range names {
			if n == a.Chromosome {
				found = true
				break
			}
		}
		if !found {
			return genome.NewError(genome.ErrUnknownChromosome, "%q", a.Chromosome)
		}
		names = []string{a.Chromosome}
	}
	for _, chrom := range names {
		size, err := a.Assembly.Size(chrom)
		if err != nil {
			return err
		}
		present := a.Source.HasChrom(chrom)
		var counter int64
		for counter < size {
			remaining := a.ChunkSize
			if remaining > size-counter {
				remaining = size - counter
			}
			var values []float64
			if !present {
				values = make([]float64, remaining)
				for i := range values {
					values[i] = math.NaN()
				}
			} else {
				values, err = a.Source.ReadWindow(chrom, counter, remaining)
				if err != nil {
					return genome.WrapError(genome.ErrIoFailure, err, "signal adapter: %s[%d:%d]", chrom, counter, counter+remaining)
				}
			}
			flags := make([]bool, len(values))
			for i, v := range values {
				flags[i] = math.IsNaN(v)
			}
			if err := sink.Push(values, flags); err != nil {
				return err
			}
			counter += int64(len(values))
			log.Debug.Printf("signal adapter: %s advanced to %d/%d", chrom, counter, size)
		}
	}
	return nil
}
