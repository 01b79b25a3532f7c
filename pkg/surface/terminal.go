package surface

import (
	"fmt"
	"io"
	"os"

	"github.com/orbitrank/orbitrank/pkg/manifest"
	"github.com/orbitrank/orbitrank/pkg/ranking"
)

// TerminalRenderer renders a manifest as colored terminal output.
type TerminalRenderer struct {
	// TopN caps the ranked-node table; zero means the default of 10.
	TopN int
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func coherenceColor(m *manifest.Manifest) string {
	if noColor() {
		return ""
	}
	// At the floor means "at or below minimum acceptable coherence".
	if m.Center.Coherence <= ranking.CoherenceFloor {
		return colorYellow
	}
	return colorGreen
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, m *manifest.Manifest) error {
	fmt.Fprintf(w, "%s\n\n", bold(fmt.Sprintf("orbitrank: network %s, center %s", m.Network, m.Center.Node)))

	topN := r.TopN
	if topN <= 0 {
		topN = 10
	}
	top := m.Top(topN)

	fmt.Fprintln(w, "Ranked nodes:")
	for i, nr := range top {
		layerName := m.Layers[nr.Layer]
		fmt.Fprintf(w, "  %2d. %-24s rank %.4f  %s\n",
			i+1, bold(nr.Name), nr.Rank,
			dim(fmt.Sprintf("layer %d (%s), cluster %s", nr.Layer, layerName, nr.Cluster)))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Coherence: %s", colored(fmt.Sprintf("%.3f", m.Center.Coherence), coherenceColor(m)))
	if m.Center.Coherence <= ranking.CoherenceFloor {
		fmt.Fprintf(w, " %s", dim("(at minimum acceptable floor)"))
	}
	fmt.Fprintln(w)

	if !m.Converged {
		fmt.Fprintln(w, dim("warning: a ranking pass hit its iteration cap before converging"))
	}

	return nil
}
