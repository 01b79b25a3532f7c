package surface

import (
	"encoding/json"
	"io"

	"github.com/orbitrank/orbitrank/pkg/manifest"
)

// JSONRenderer marshals the manifest to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, m *manifest.Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
