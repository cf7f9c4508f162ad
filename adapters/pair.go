package adapters

import (
	"bufio"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/grailbio/genomepyramid/assembly"
	"github.com/grailbio/genomepyramid/genome"
)

// PairOpts configures PairAdapter's column layout and importance rule. Both
// triples default to BEDPE's first six columns.
type PairOpts struct {
	HasHeader                 bool
	Chr1Col, From1Col, To1Col int // 1-based
	Chr2Col, From2Col, To2Col int

	ImportanceMode ImportanceMode
	ImportanceCol  int
	Seed           int64
}

// PairAdapter reads BEDPE-style records, two (chrom, from, to) triples per
// line, and produces genome.PairEntry values for placer2d (spec §4.8). The
// default importance is max(xspan, yspan).
type PairAdapter struct {
	Assembly *assembly.Assembly
	Opts     PairOpts
}

func (a *PairAdapter) maxCol() int {
	m := a.Opts.Chr1Col
	for _, c := range []int{a.Opts.From1Col, a.Opts.To1Col, a.Opts.Chr2Col, a.Opts.From2Col, a.Opts.To2Col} {
		if c > m {
			m = c
		}
	}
	return m
}

// Run reads every record from r and returns the resulting entries in
// ingest order.
func (a *PairAdapter) Run(r io.Reader) ([]*genome.PairEntry, error) {
	rng := rand.New(rand.NewSource(a.Opts.Seed))
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var entries []*genome.PairEntry
	lineIdx := 0
	firstLine := true
	ingestOrder := 0
	maxCol := a.maxCol()
	for scanner.Scan() {
		line := scanner.Text()
		if a.Opts.HasHeader && lineIdx == 0 {
			lineIdx++
			continue
		}
		if strings.TrimSpace(line) == "" {
			lineIdx++
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < maxCol {
			return nil, malformedHeaderGuess(line, lineIdx, !a.Opts.HasHeader && firstLine)
		}

		from1, err1 := strconv.ParseInt(parts[a.Opts.From1Col-1], 10, 64)
		to1, err2 := strconv.ParseInt(parts[a.Opts.To1Col-1], 10, 64)
		from2, err3 := strconv.ParseInt(parts[a.Opts.From2Col-1], 10, 64)
		to2, err4 := strconv.ParseInt(parts[a.Opts.To2Col-1], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return nil, malformedHeaderGuess(line, lineIdx, !a.Opts.HasHeader && firstLine)
		}
		firstLine = false
		lineIdx++

		cum1, err := a.Assembly.Cum(parts[a.Opts.Chr1Col-1])
		if err != nil {
			return nil, err
		}
		cum2, err := a.Assembly.Cum(parts[a.Opts.Chr2Col-1])
		if err != nil {
			return nil, err
		}
		gx0, gx1 := cum1+from1, cum1+to1
		gy0, gy1 := cum2+from2, cum2+to2

		xspan := float64(gx1 - gx0)
		yspan := float64(gy1 - gy0)
		importance, err := deriveImportance(a.Opts.ImportanceMode, a.Opts.ImportanceCol, parts, math.Max(xspan, yspan), rng)
		if err != nil {
			return nil, genome.WrapError(genome.ErrMalformedRecord, err, "line %d: %q", lineIdx-1, line)
		}

		e := &genome.PairEntry{
			UID:         genome.HashUID(gx0, gy1, parts),
			GX0:         gx0,
			GX1:         gx1,
			GY0:         gy0,
			GY1:         gy1,
			ChromOffset: gx0 - from1,
			Importance:  importance,
			RawFields:   append([]string(nil), parts...),
		}
		e.SetIngestOrder(ingestOrder)
		ingestOrder++
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, genome.WrapError(genome.ErrIoFailure, err, "pair adapter: scan")
	}
	return entries, nil
}

// DefaultPairOpts returns the BEDPE column layout of spec §6's default
// flags: --chr1-col 1 --from1-col 2 --to1-col 3 --chr2-col 4 --from2-col 5
// --to2-col 6.
func DefaultPairOpts() PairOpts {
	return PairOpts{
		Chr1Col: 1, From1Col: 2, To1Col: 3,
		Chr2Col: 4, From2Col: 5, To2Col: 6,
	}
}
