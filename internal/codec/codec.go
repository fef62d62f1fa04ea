// Package codec serializes topology snapshots to and from structured text
// formats. Codecs only ever see the Snapshot exchange shape; rebuilding a
// live topology from a parsed snapshot is the caller's job.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"netsim/internal/domain"
)

// Importer parses snapshot data from an external format.
type Importer interface {
	Parse(r io.Reader) (*domain.Snapshot, error)
	Format() string
}

// Exporter writes snapshot data in an external format.
type Exporter interface {
	Export(snap *domain.Snapshot, w io.Writer) error
	Format() string
}

// Codec handles both directions of one format.
type Codec interface {
	Importer
	Exporter
}

// ForPath selects a codec from a file extension (.json, .yaml, .yml).
func ForPath(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONCodec(), nil
	case ".yaml", ".yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("no codec for file %q (supported: .json, .yaml, .yml)", path)
	}
}
