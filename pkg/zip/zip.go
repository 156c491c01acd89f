package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"
)

// modTime is stamped on every entry so identical inputs give identical archives.
var modTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

type File struct {
	Name string
	Data []byte
}

// FromMap converts a name → content map into archive entries.
func FromMap(files map[string]string) []File {
	out := make([]File, 0, len(files))
	for name, content := range files {
		out = append(out, File{Name: name, Data: []byte(content)})
	}
	return out
}

// Write packs files into w as a zip archive, sorted by name.
func Write(w io.Writer, files []File) error {
	sorted := append([]File(nil), files...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	zw := zip.NewWriter(w)
	for _, f := range sorted {
		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: modTime,
		})
		if err != nil {
			return fmt.Errorf("zip: create %s: %w", f.Name, err)
		}
		if _, err := entry.Write(f.Data); err != nil {
			return fmt.Errorf("zip: write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("zip: close: %w", err)
	}
	return nil
}

// Archive is Write into memory.
func Archive(files []File) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, files); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
