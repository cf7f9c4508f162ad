// Package assemblycat is the external collaborator spec §1 assumes but
// leaves out of scope: loading chromosome-sizes from either a named
// standard assembly catalog or a two-column sizes file, and handing the
// result to assembly.New. It is given a small concrete implementation here
// so the pipeline is runnable end to end, but it never claims to replace a
// real genome assembly service (SPEC_FULL.md §6).
package assemblycat

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/genomepyramid/assembly"
	"github.com/grailbio/genomepyramid/genome"
)

// catalog is a tiny embedded set of well-known assemblies, enough to
// demonstrate the collaborator boundary the CLI's --assembly flag crosses
// without claiming to replace a real catalog service (analogous in spirit
// to negspy's chromInfo tables in the original tool, but hand-curated and
// far smaller).
var catalog = map[string][]assembly.Chrom{
	"hg19": {
		{Name: "chr1", Length: 249250621},
		{Name: "chr2", Length: 243199373},
		{Name: "chr3", Length: 198022430},
		{Name: "chr4", Length: 191154276},
		{Name: "chr5", Length: 180915260},
		{Name: "chr6", Length: 171115067},
		{Name: "chr7", Length: 159138663},
		{Name: "chr8", Length: 146364022},
		{Name: "chr9", Length: 141213431},
		{Name: "chr10", Length: 135534747},
		{Name: "chr11", Length: 135006516},
		{Name: "chr12", Length: 133851895},
		{Name: "chr13", Length: 115169878},
		{Name: "chr14", Length: 107349540},
		{Name: "chr15", Length: 102531392},
		{Name: "chr16", Length: 90354753},
		{Name: "chr17", Length: 81195210},
		{Name: "chr18", Length: 78077248},
		{Name: "chr19", Length: 59128983},
		{Name: "chr20", Length: 63025520},
		{Name: "chr21", Length: 48129895},
		{Name: "chr22", Length: 51304566},
		{Name: "chrX", Length: 155270560},
		{Name: "chrY", Length: 59373566},
	},
	"hg38": {
		{Name: "chr1", Length: 248956422},
		{Name: "chr2", Length: 242193529},
		{Name: "chr3", Length: 198295559},
		{Name: "chr4", Length: 190214555},
		{Name: "chr5", Length: 181538259},
		{Name: "chr6", Length: 170805979},
		{Name: "chr7", Length: 159345973},
		{Name: "chr8", Length: 145138636},
		{Name: "chr9", Length: 138394717},
		{Name: "chr10", Length: 133797422},
		{Name: "chr11", Length: 135086622},
		{Name: "chr12", Length: 133275309},
		{Name: "chr13", Length: 114364328},
		{Name: "chr14", Length: 107043718},
		{Name: "chr15", Length: 101991189},
		{Name: "chr16", Length: 90338345},
		{Name: "chr17", Length: 83257441},
		{Name: "chr18", Length: 80373285},
		{Name: "chr19", Length: 58617616},
		{Name: "chr20", Length: 64444167},
		{Name: "chr21", Length: 46709983},
		{Name: "chr22", Length: 50818468},
		{Name: "chrX", Length: 156040895},
		{Name: "chrY", Length: 57227415},
	},
	"mm10": {
		{Name: "chr1", Length: 195471971},
		{Name: "chr2", Length: 182113224},
		{Name: "chr3", Length: 160039680},
		{Name: "chr4", Length: 156508116},
		{Name: "chr5", Length: 151834684},
		{Name: "chr6", Length: 149736546},
		{Name: "chr7", Length: 145441459},
		{Name: "chr8", Length: 129401213},
		{Name: "chr9", Length: 124595110},
		{Name: "chr10", Length: 130694993},
		{Name: "chr11", Length: 122082543},
		{Name: "chr12", Length: 120129022},
		{Name: "chr13", Length: 120421639},
		{Name: "chr14", Length: 124902244},
		{Name: "chr15", Length: 104043685},
		{Name: "chr16", Length: 98207768},
		{Name: "chr17", Length: 94987271},
		{Name: "chr18", Length: 90702639},
		{Name: "chr19", Length: 61431566},
		{Name: "chrX", Length: 171031299},
		{Name: "chrY", Length: 91744698},
	},
}

// Lookup returns the assembly registered under name, or UnknownAssembly.
func Lookup(name string) (*assembly.Assembly, error) {
	chroms, ok := catalog[name]
	if !ok {
		return nil, genome.NewError(genome.ErrUnknownAssembly, "%q", name)
	}
	return assembly.New(name, chroms)
}

// LoadSizesFile parses a two-column (name, length) sizes file, one
// chromosome per line, in file order, and builds an Assembly named after
// the file path.
func LoadSizesFile(path string) (*assembly.Assembly, error) {
	ctx := vcontext.Background()
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, genome.WrapError(genome.ErrIoFailure, err, "assemblycat: open %s", path)
	}
	defer f.Close(ctx)
	chroms, err := parseSizes(f.Reader(ctx))
	if err != nil {
		return nil, err
	}
	return assembly.New(path, chroms)
}

func parseSizes(r io.Reader) ([]assembly.Chrom, error) {
	scanner := bufio.NewScanner(r)
	var chroms []assembly.Chrom
	lineIdx := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineIdx++
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			return nil, genome.NewError(genome.ErrMalformedRecord, "chromsizes line %d: expected \"name\\tlength\": %q", lineIdx, line)
		}
		length, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, genome.WrapError(genome.ErrMalformedRecord, err, "chromsizes line %d: %q", lineIdx, line)
		}
		chroms = append(chroms, assembly.Chrom{Name: parts[0], Length: length})
	}
	if err := scanner.Err(); err != nil {
		return nil, genome.WrapError(genome.ErrIoFailure, err, "assemblycat: scan")
	}
	if len(chroms) == 0 {
		return nil, genome.NewError(genome.ErrMalformedRecord, "chromsizes file has no chromosomes")
	}
	return chroms, nil
}
