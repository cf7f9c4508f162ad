// Package outsink opens paths the same way the teacher's command-line tools
// do: through github.com/grailbio/base/file, so "s3://bucket/key" and a plain
// local path are interchangeable and Create truncates (not appends to) the
// destination, mirroring file.Create's use throughout cmd/bio-fusion and
// cmd/bio-bam-sort. The CLI opens its --input-file through Open; the
// --output-file is created by densestore.Create or the tabular stores'
// WriteTo, which call file.Create themselves.
package outsink

import (
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/genomepyramid/genome"
)

// Create truncates (or creates) path for writing and returns the open
// file.File, exactly as file.Create already behaves, wrapping any failure
// as a genome.ErrIoFailure.
func Create(path string) (file.File, error) {
	ctx := vcontext.Background()
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, genome.WrapError(genome.ErrIoFailure, err, "outsink: create %s", path)
	}
	return out, nil
}

// Open opens path for reading, for the CLI's input arguments that are
// themselves paths (e.g. --input-file) rather than stdin.
func Open(path string) (file.File, error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, genome.WrapError(genome.ErrIoFailure, err, "outsink: open %s", path)
	}
	return in, nil
}

// IsRemote reports whether path carries a URL scheme ("://", as in
// s3://bucket/key) rather than being a local filesystem path. Any scheme
// counts; file.Create/file.Open handle the actual scheme dispatch
// internally.
func IsRemote(path string) bool {
	return strings.Contains(path, "://")
}
