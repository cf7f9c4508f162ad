package adapters

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/grailbio/genomepyramid/assembly"
	"github.com/grailbio/genomepyramid/genome"
)

// Method selects the bedgraph adapter's bucket-overlap aggregation
// strategy. Per spec §9 Design Notes, "average" is parsed but never
// exercised by the source this engine was derived from; v1 implements sum
// only and surfaces ErrUnimplemented if average is selected.
type Method int

const (
	MethodSum Method = iota
	MethodAverage
)

// Transform is applied to every parsed value before it is replicated across
// its record's span.
type Transform int

const (
	TransformNone Transform = iota
	TransformExp2
)

// BedgraphOpts configures BedgraphAdapter's column layout and value
// handling, mirroring the CLI flags of spec §6.
type BedgraphOpts struct {
	ChromCol  int // 1-based
	FromCol   int
	ToCol     int
	ValueCol  int
	HasHeader bool
	NanValue  string
	Transform Transform
	Method    Method
}

// BedgraphAdapter reads sparse (chrom, from, to, value) records and emits a
// per-base dense stream via Run, filling the gaps between records with NaN
// runs (spec §4.8, scenario 4 of §8).
type BedgraphAdapter struct {
	Assembly *assembly.Assembly
	Opts     BedgraphOpts
}

// Run reads every record from r and pushes the resulting dense stream to
// sink in chunkSize-sized calls.
func (a *BedgraphAdapter) Run(r io.Reader, chunkSize int64, sink PushSink) error {
	if a.Opts.Method == MethodAverage {
		return genome.NewError(genome.ErrUnimplemented, "bedgraph: method=average is not implemented in v1")
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var values, nanFlags []float64
	var curGenomePos int64
	lineIdx := 0

	flush := func(force bool) error {
		for int64(len(values)) >= chunkSize || (force && len(values) > 0) {
			take := chunkSize
			if take > int64(len(values)) {
				take = int64(len(values))
			}
			flags := make([]bool, take)
			for i, nf := range nanFlags[:take] {
				flags[i] = nf != 0
			}
			if err := sink.Push(append([]float64(nil), values[:take]...), flags); err != nil {
				return err
			}
			values = values[take:]
			nanFlags = nanFlags[take:]
		}
		return nil
	}

	firstLine := true
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
		maxCol := a.Opts.ChromCol
		for _, c := range []int{a.Opts.FromCol, a.Opts.ToCol, a.Opts.ValueCol} {
			if c > maxCol {
				maxCol = c
			}
		}
		if len(parts) < maxCol {
			return malformedHeaderGuess(line, lineIdx, !a.Opts.HasHeader && firstLine)
		}

		from, err := strconv.ParseInt(parts[a.Opts.FromCol-1], 10, 64)
		if err != nil {
			return malformedHeaderGuess(line, lineIdx, !a.Opts.HasHeader && firstLine)
		}
		to, err := strconv.ParseInt(parts[a.Opts.ToCol-1], 10, 64)
		if err != nil {
			return malformedHeaderGuess(line, lineIdx, !a.Opts.HasHeader && firstLine)
		}
		firstLine = false

		cum, err := a.Assembly.Cum(parts[a.Opts.ChromCol-1])
		if err != nil {
			return err
		}
		startGenomePos := cum + from

		// distance is the span of positions strictly between the last
		// filled position and this record's start (spec §4.8's "gap - 1"
		// NaN run, counting from the next position to fill rather than the
		// last one filled: scenario 4 of spec §8 requires a run of exactly
		// 10 NaNs between records ending at 10 and starting at 20).
		if distance := startGenomePos - curGenomePos; distance > 0 {
			n := int(distance)
			values = append(values, nanRun(n)...)
			nanFlags = append(nanFlags, oneRun(n)...)
			curGenomePos += int64(n)
		}

		rawValue := parts[a.Opts.ValueCol-1]
		isNanSentinel := a.Opts.NanValue != "" && rawValue == a.Opts.NanValue
		var value float64
		var nanFlag float64
		if isNanSentinel {
			value = math.NaN()
			nanFlag = 1
		} else {
			v, err := strconv.ParseFloat(rawValue, 64)
			if err != nil {
				return malformedHeaderGuess(line, lineIdx, false)
			}
			if a.Opts.Transform == TransformExp2 {
				v = math.Exp2(v)
			}
			value = v
		}

		span := int(to - from)
		if span < 0 {
			return malformedHeaderGuess(line, lineIdx, false)
		}
		for i := 0; i < span; i++ {
			values = append(values, value)
			nanFlags = append(nanFlags, nanFlag)
		}
		curGenomePos += int64(span)

		if err := flush(false); err != nil {
			return err
		}
		lineIdx++
	}
	if err := scanner.Err(); err != nil {
		return genome.WrapError(genome.ErrIoFailure, err, "bedgraph adapter: scan")
	}
	return flush(true)
}

func nanRun(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func oneRun(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}
