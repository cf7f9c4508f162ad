package adapters

import (
	"strings"
	"testing"

	"github.com/grailbio/genomepyramid/assembly"
)

// TestBedfileNoChromosomeLimit is spec §8 scenario 2: records on chr1 and
// chr14 are both emitted when no --chromosome restriction is set.
func TestBedfileNoChromosomeLimit(t *testing.T) {
	asm := mustAssembly(t,
		assembly.Chrom{Name: "chr1", Length: 1000},
		assembly.Chrom{Name: "chr14", Length: 1000},
	)
	a := &IntervalAdapter{Assembly: asm}
	in := "chr1\t0\t10\nchr14\t5\t15\n"
	entries, err := a.Run(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

// TestBedfileChromosomeLimit is spec §8 scenario 3: --chromosome chr14
// restricts every emitted entry to chr14.
func TestBedfileChromosomeLimit(t *testing.T) {
	asm := mustAssembly(t,
		assembly.Chrom{Name: "chr1", Length: 1000},
		assembly.Chrom{Name: "chr14", Length: 1000},
	)
	a := &IntervalAdapter{Assembly: asm, Opts: IntervalOpts{Chromosome: "chr14"}}
	in := "chr1\t0\t10\nchr14\t5\t15\nchr14\t20\t30\n"
	entries, err := a.Run(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries restricted to chr14, got %d", len(entries))
	}
	cum, err := asm.Cum("chr14")
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.GlobalStart < cum {
			t.Errorf("entry %+v falls outside chr14's range", e)
		}
	}
}

func TestIntervalAdapterSpanImportance(t *testing.T) {
	asm := mustAssembly(t, assembly.Chrom{Name: "chr1", Length: 1000})
	a := &IntervalAdapter{Assembly: asm}
	entries, err := a.Run(strings.NewReader("chr1\t10\t25\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Importance != 15 {
		t.Fatalf("expected importance 15 (span), got %+v", entries)
	}
}

func TestIntervalAdapterMalformedRecordNamesHeaderSuspicion(t *testing.T) {
	asm := mustAssembly(t, assembly.Chrom{Name: "chr1", Length: 1000})
	a := &IntervalAdapter{Assembly: asm}
	_, err := a.Run(strings.NewReader("chrom\tstart\tend\nchr1\t0\t10\n"))
	if err == nil {
		t.Fatal("expected a malformed-record error on the unparsable header-shaped first line")
	}
	if !strings.Contains(err.Error(), "has-header") {
		t.Errorf("expected the error to name the suspected missing-header condition, got: %v", err)
	}
}
