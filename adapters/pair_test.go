package adapters

import (
	"strings"
	"testing"

	"github.com/grailbio/genomepyramid/assembly"
)

func TestPairAdapterDefaultImportanceIsMaxSpan(t *testing.T) {
	asm := mustAssembly(t, assembly.Chrom{Name: "chr1", Length: 1000})
	a := &PairAdapter{Assembly: asm, Opts: DefaultPairOpts()}
	// xspan = 10-0 = 10, yspan = 100-50 = 50
	entries, err := a.Run(strings.NewReader("chr1\t0\t10\tchr1\t50\t100\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Importance != 50 {
		t.Fatalf("expected importance 50 (max span), got %+v", entries)
	}
}

func TestPairAdapterCustomColumns(t *testing.T) {
	asm := mustAssembly(t, assembly.Chrom{Name: "chr1", Length: 1000})
	opts := DefaultPairOpts()
	opts.ImportanceMode = ImportanceColumn
	opts.ImportanceCol = 7
	a := &PairAdapter{Assembly: asm, Opts: opts}
	entries, err := a.Run(strings.NewReader("chr1\t0\t10\tchr1\t50\t100\t42\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Importance != 42 {
		t.Fatalf("expected importance 42 from column 7, got %+v", entries)
	}
}
