package adapters

import (
	"bufio"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/grailbio/genomepyramid/assembly"
	"github.com/grailbio/genomepyramid/genome"
)

// ImportanceMode selects how IntervalAdapter and PairAdapter derive an
// entry's importance score, per the CLI's --importance-column contract
// (spec §6): absent -> span length, literal "random" -> a uniform draw,
// else a 1-based column index.
type ImportanceMode int

const (
	ImportanceSpan ImportanceMode = iota
	ImportanceRandom
	ImportanceColumn
)

// IntervalOpts configures IntervalAdapter.
type IntervalOpts struct {
	HasHeader      bool
	Chromosome     string // restrict output to this chromosome; "" for none
	ImportanceMode ImportanceMode
	ImportanceCol  int   // 1-based, used when ImportanceMode == ImportanceColumn
	Seed           int64 // used when ImportanceMode == ImportanceRandom
}

// IntervalAdapter reads BED-style (chrom, start, end, ...fields) records
// and produces genome.IntervalEntry values for placer1d (spec §4.8).
type IntervalAdapter struct {
	Assembly *assembly.Assembly
	Opts     IntervalOpts
}

// Run reads every record from r, returning the entries that survive any
// --chromosome restriction, in ingest order.
func (a *IntervalAdapter) Run(r io.Reader) ([]*genome.IntervalEntry, error) {
	rng := rand.New(rand.NewSource(a.Opts.Seed))
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var entries []*genome.IntervalEntry
	lineIdx := 0
	firstLine := true
	ingestOrder := 0
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
		if len(parts) < 3 {
			return nil, malformedHeaderGuess(line, lineIdx, !a.Opts.HasHeader && firstLine)
		}
		chrom := parts[0]
		start, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, malformedHeaderGuess(line, lineIdx, !a.Opts.HasHeader && firstLine)
		}
		end, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return nil, malformedHeaderGuess(line, lineIdx, !a.Opts.HasHeader && firstLine)
		}
		firstLine = false
		lineIdx++

		if a.Opts.Chromosome != "" && chrom != a.Opts.Chromosome {
			continue
		}

		cum, err := a.Assembly.Cum(chrom)
		if err != nil {
			return nil, err
		}
		globalStart := cum + start
		globalEnd := cum + end

		importance, err := deriveImportance(a.Opts.ImportanceMode, a.Opts.ImportanceCol, parts, float64(end-start), rng)
		if err != nil {
			return nil, genome.WrapError(genome.ErrMalformedRecord, err, "line %d: %q", lineIdx-1, line)
		}

		e := &genome.IntervalEntry{
			UID:         genome.HashUID(globalStart, globalEnd, parts),
			GlobalStart: globalStart,
			GlobalEnd:   globalEnd,
			ChromOffset: globalStart - start,
			Importance:  importance,
			RawFields:   append([]string(nil), parts...),
		}
		e.SetIngestOrder(ingestOrder)
		ingestOrder++
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, genome.WrapError(genome.ErrIoFailure, err, "interval adapter: scan")
	}
	return entries, nil
}

// deriveImportance implements the --importance-column contract shared by
// IntervalAdapter and PairAdapter.
func deriveImportance(mode ImportanceMode, col int, parts []string, spanFallback float64, rng *rand.Rand) (float64, error) {
	switch mode {
	case ImportanceRandom:
		return rng.Float64(), nil
	case ImportanceColumn:
		if col < 1 || col > len(parts) {
			return 0, genome.NewError(genome.ErrMalformedRecord, "importance column %d out of range", col)
		}
		v, err := strconv.ParseFloat(parts[col-1], 64)
		if err != nil {
			return 0, err
		}
		return v, nil
	default:
		return spanFallback, nil
	}
}

func malformedHeaderGuess(line string, lineIdx int, suspectHeader bool) error {
	if suspectHeader {
		return genome.NewError(genome.ErrMalformedRecord,
			"line %d: could not parse coordinates; if this file has a header row, pass --has-header: %q", lineIdx, line)
	}
	return genome.NewError(genome.ErrMalformedRecord, "line %d: %q", lineIdx, line)
}
