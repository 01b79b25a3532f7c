// Package surface defines output rendering interfaces for orbitrank
// results. Implementations handle different output targets: terminal,
// JSON, and the git-config-style rankfile.
package surface

import (
	"io"

	"github.com/orbitrank/orbitrank/pkg/manifest"
)

// Renderer produces formatted output from a ranking manifest.
type Renderer interface {
	// Render writes the formatted manifest to the writer.
	Render(w io.Writer, m *manifest.Manifest) error
}

// ByFormat returns the renderer for a format name ("text", "json" or
// "rankfile"), defaulting to the terminal renderer.
func ByFormat(format string) Renderer {
	switch format {
	case "json":
		return &JSONRenderer{}
	case "rankfile":
		return &RankfileRenderer{}
	default:
		return &TerminalRenderer{}
	}
}
