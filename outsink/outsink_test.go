package outsink

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"
)

func TestCreateThenOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")

	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Writer(context.Background()).Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(context.Background()); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close(context.Background())
	got, err := ioutil.ReadAll(r.Reader(context.Background()))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Fatalf("expected %q, got %q", "hello", got)
	}
}

func TestCreateTruncatesExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")

	w, _ := Create(path)
	w.Writer(context.Background()).Write([]byte("first-longer-content"))
	w.Close(context.Background())

	w2, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w2.Writer(context.Background()).Write([]byte("hi"))
	w2.Close(context.Background())

	r, _ := Open(path)
	defer r.Close(context.Background())
	got, _ := ioutil.ReadAll(r.Reader(context.Background()))
	if string(got) != "hi" {
		t.Fatalf("expected truncated content %q, got %q", "hi", got)
	}
}

func TestIsRemote(t *testing.T) {
	if !IsRemote("s3://bucket/key") {
		t.Errorf("expected s3:// path to be remote")
	}
	if IsRemote("/local/path") {
		t.Errorf("expected local path to not be remote")
	}
}
