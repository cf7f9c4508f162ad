package main

import (
	"context"
	"encoding/gob"
	"path/filepath"
	"testing"

	"github.com/grailbio/genomepyramid/outsink"
)

func TestLoadGobSignalSourceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signal.gob")
	data := map[string][]float64{"chr1": {1, 2, 3, 4}}

	w, err := outsink.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := gob.NewEncoder(w.Writer(context.Background())).Encode(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(context.Background()); err != nil {
		t.Fatal(err)
	}

	src, err := loadGobSignalSource(path)
	if err != nil {
		t.Fatal(err)
	}
	if !src.HasChrom("chr1") || src.HasChrom("chr2") {
		t.Fatalf("unexpected HasChrom result")
	}
	got, err := src.ReadWindow("chr1", 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("unexpected window: %v", got)
	}
}
