// Package assembly implements the chromosome order and coordinate model
// (component C1): an ordered list of chromosomes, cumulative offsets, and
// the local<->global position mapping the rest of the core builds on.
package assembly

import (
	"github.com/grailbio/genomepyramid/genome"
)

// Chrom is one chromosome's name and length, as loaded from a two-column
// sizes file or an assembly catalog (the assemblycat package, an external
// collaborator per spec §1).
type Chrom struct {
	Name   string
	Length int64
}

// Assembly is immutable after New returns (spec §3 Lifecycles).
type Assembly struct {
	name   string
	chroms []Chrom
	cum    []int64 // cum[i] = sum of lengths of chroms[0:i]; len(cum) == len(chroms)+1
	index  map[string]int
}

// New builds an Assembly from an ordered chromosome list. The order given is
// the order used for cumulative offsets and is preserved by ChromNames.
func New(name string, chroms []Chrom) (*Assembly, error) {
	if len(chroms) == 0 {
		return nil, genome.NewError(genome.ErrInvalidGeometry, "assembly %q has no chromosomes", name)
	}
	a := &Assembly{
		name:   name,
		chroms: append([]Chrom(nil), chroms...),
		cum:    make([]int64, len(chroms)+1),
		index:  make(map[string]int, len(chroms)),
	}
	var total int64
	for i, c := range a.chroms {
		if c.Length < 0 {
			return nil, genome.NewError(genome.ErrInvalidGeometry, "chromosome %q has negative length %d", c.Name, c.Length)
		}
		if _, dup := a.index[c.Name]; dup {
			return nil, genome.NewError(genome.ErrInvalidGeometry, "duplicate chromosome name %q", c.Name)
		}
		a.index[c.Name] = i
		a.cum[i] = total
		total += c.Length
	}
	a.cum[len(chroms)] = total
	return a, nil
}

// Name returns the assembly's name (e.g. "hg19", or the sizes-file path it
// was derived from).
func (a *Assembly) Name() string { return a.name }

// ChromNames returns the ordered chromosome names.
func (a *Assembly) ChromNames() []string {
	names := make([]string, len(a.chroms))
	for i, c := range a.chroms {
		names[i] = c.Name
	}
	return names
}

// ChromSizes returns the ordered chromosome lengths, aligned with
// ChromNames.
func (a *Assembly) ChromSizes() []int64 {
	sizes := make([]int64, len(a.chroms))
	for i, c := range a.chroms {
		sizes[i] = c.Length
	}
	return sizes
}

// Size returns the length of chrom, or an UnknownChromosome error.
func (a *Assembly) Size(chrom string) (int64, error) {
	i, ok := a.index[chrom]
	if !ok {
		return 0, genome.NewError(genome.ErrUnknownChromosome, "%q", chrom)
	}
	return a.chroms[i].Length, nil
}

// Cum returns the cumulative offset of chrom, i.e. cum(chrom) = sum of the
// lengths of every chromosome preceding it in assembly order.
func (a *Assembly) Cum(chrom string) (int64, error) {
	i, ok := a.index[chrom]
	if !ok {
		return 0, genome.NewError(genome.ErrUnknownChromosome, "%q", chrom)
	}
	return a.cum[i], nil
}

// Index returns chrom's 0-based position in assembly order.
func (a *Assembly) Index(chrom string) (int, error) {
	i, ok := a.index[chrom]
	if !ok {
		return 0, genome.NewError(genome.ErrUnknownChromosome, "%q", chrom)
	}
	return i, nil
}

// Global maps a (chrom, pos) pair to a global linear-genome coordinate:
// global(chrom, pos) = cum[index(chrom)] + pos.
func (a *Assembly) Global(chrom string, pos int64) (int64, error) {
	i, ok := a.index[chrom]
	if !ok {
		return 0, genome.NewError(genome.ErrUnknownChromosome, "%q", chrom)
	}
	if pos > a.chroms[i].Length {
		return 0, genome.NewError(genome.ErrCoordinateOutOfRange, "%s:%d exceeds length %d", chrom, pos, a.chroms[i].Length)
	}
	return a.cum[i] + pos, nil
}

// Local is the inverse of Global: given a global coordinate, it returns the
// owning chromosome name and the local (within-chromosome) position.
func (a *Assembly) Local(g int64) (chrom string, pos int64, err error) {
	if g < 0 || g > a.cum[len(a.cum)-1] {
		return "", 0, genome.NewError(genome.ErrCoordinateOutOfRange, "global position %d outside assembly", g)
	}
	// Binary search for the chromosome whose [cum[i], cum[i+1]) contains g.
	lo, hi := 0, len(a.chroms)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if a.cum[mid] <= g {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return a.chroms[lo].Name, g - a.cum[lo], nil
}

// TotalLength is cum[N], the sum of every chromosome's length.
func (a *Assembly) TotalLength() int64 {
	return a.cum[len(a.cum)-1]
}
