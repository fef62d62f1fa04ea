package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"netsim/internal/domain"
)

// YAMLCodec handles YAML import/export.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier.
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse imports a snapshot from YAML. Malformed input fails with
// ErrInvalidFormat.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: parse YAML: %v", domain.ErrInvalidFormat, err)
	}
	return &snap, nil
}

// Export writes a snapshot as YAML.
func (c *YAMLCodec) Export(snap *domain.Snapshot, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	return nil
}
