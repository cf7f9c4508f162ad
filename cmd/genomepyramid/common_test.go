package main

import (
	"testing"

	"github.com/grailbio/genomepyramid/adapters"
)

func TestParseImportanceFlag(t *testing.T) {
	cases := []struct {
		raw      string
		wantMode adapters.ImportanceMode
		wantCol  int
	}{
		{"", adapters.ImportanceSpan, 0},
		{"random", adapters.ImportanceRandom, 0},
		{"7", adapters.ImportanceColumn, 7},
		{"not-a-number", adapters.ImportanceSpan, 0},
	}
	for _, c := range cases {
		mode, col := parseImportanceFlag(c.raw)
		if mode != c.wantMode || col != c.wantCol {
			t.Errorf("parseImportanceFlag(%q) = (%v, %d), want (%v, %d)", c.raw, mode, col, c.wantMode, c.wantCol)
		}
	}
}
