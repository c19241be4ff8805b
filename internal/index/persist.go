// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// flatFile is the gob-encoded on-disk form of a Flat index.
type flatFile struct {
	Dim     int
	IDs     []string
	Vectors [][]float32
}

// Save writes the index to indexPath (gob) and, when mappingPath is
// non-empty, a human-inspectable position-to-paper-id JSON sidecar next to
// it. Both writes go through temp files so a crash never leaves a truncated
// index behind.
func (f *Flat) Save(indexPath, mappingPath string) error {
	if err := writeAtomic(indexPath, func(w *os.File) error {
		return gob.NewEncoder(w).Encode(flatFile{Dim: f.dim, IDs: f.ids, Vectors: f.vectors})
	}); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}

	if mappingPath == "" {
		return nil
	}

	data, err := json.MarshalIndent(f.Mapping(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding mapping: %w", err)
	}
	if err := writeAtomic(mappingPath, func(w *os.File) error {
		_, werr := w.Write(data)
		return werr
	}); err != nil {
		return fmt.Errorf("writing mapping: %w", err)
	}
	return nil
}

// Load reads a gob-encoded index from indexPath.
func Load(indexPath string) (*Flat, error) {
	file, err := os.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	defer file.Close()

	var ff flatFile
	if err := gob.NewDecoder(file).Decode(&ff); err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}
	if ff.Dim <= 0 || len(ff.IDs) != len(ff.Vectors) {
		return nil, fmt.Errorf("index file %s is malformed", indexPath)
	}
	for i, vec := range ff.Vectors {
		if len(vec) != ff.Dim {
			return nil, fmt.Errorf("index file %s: vector %d has dimension %d, want %d",
				indexPath, i, len(vec), ff.Dim)
		}
	}

	return &Flat{dim: ff.Dim, ids: ff.IDs, vectors: ff.Vectors}, nil
}

func writeAtomic(path string, write func(*os.File) error) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
