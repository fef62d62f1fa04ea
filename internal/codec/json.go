package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"netsim/internal/domain"
)

// JSONCodec handles JSON import/export.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier.
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a snapshot from JSON. Malformed input fails with
// ErrInvalidFormat.
func (c *JSONCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: parse JSON: %v", domain.ErrInvalidFormat, err)
	}
	return &snap, nil
}

// Export writes a snapshot as indented JSON.
func (c *JSONCodec) Export(snap *domain.Snapshot, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
