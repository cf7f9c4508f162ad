package assemblycat

import (
	"strings"
	"testing"

	"github.com/grailbio/genomepyramid/genome"
)

func TestLookupKnownAssembly(t *testing.T) {
	a, err := Lookup("hg19")
	if err != nil {
		t.Fatal(err)
	}
	if a.TotalLength() <= 0 {
		t.Errorf("expected a positive total length for hg19")
	}
	if _, err := a.Size("chr1"); err != nil {
		t.Errorf("expected hg19 to contain chr1: %v", err)
	}
}

func TestLookupUnknownAssembly(t *testing.T) {
	_, err := Lookup("not-a-real-assembly")
	if genome.KindOf(err) != genome.ErrUnknownAssembly {
		t.Fatalf("expected ErrUnknownAssembly, got %v", err)
	}
}

func TestParseSizes(t *testing.T) {
	chroms, err := parseSizes(strings.NewReader("chr1\t100\nchr2\t200\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(chroms) != 2 || chroms[0].Name != "chr1" || chroms[0].Length != 100 {
		t.Fatalf("unexpected chroms: %+v", chroms)
	}
}

func TestParseSizesMalformed(t *testing.T) {
	if _, err := parseSizes(strings.NewReader("chr1\tnotanumber\n")); genome.KindOf(err) != genome.ErrMalformedRecord {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}
