package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchiveSortedAndReadable(t *testing.T) {
	data, err := Archive(FromMap(map[string]string{
		"styles.css": "body{}",
		"index.html": "<html></html>",
		"README.md":  "# Site",
	}))
	if err != nil {
		t.Fatalf("Archive() error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error: %v", err)
	}
	want := []string{"README.md", "index.html", "styles.css"}
	if len(zr.File) != len(want) {
		t.Fatalf("entries = %d, want %d", len(zr.File), len(want))
	}
	for i, f := range zr.File {
		if f.Name != want[i] {
			t.Errorf("entry %d = %q, want %q", i, f.Name, want[i])
		}
	}

	rc, err := zr.File[1].Open()
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "<html></html>" {
		t.Fatalf("index.html = %q", body)
	}
}

func TestArchiveDeterministic(t *testing.T) {
	files := map[string]string{"a.html": "a", "b.html": "b", "c.css": "c"}
	first, err := Archive(FromMap(files))
	if err != nil {
		t.Fatalf("Archive() error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Archive(FromMap(files))
		if err != nil {
			t.Fatalf("Archive() error: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("archive bytes differ between runs")
		}
	}
}
