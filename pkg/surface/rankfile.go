package surface

import (
	"fmt"
	"io"
	"sort"

	"github.com/orbitrank/orbitrank/pkg/manifest"
)

// RankfileRenderer writes the manifest in git-config syntax, the format
// consumed by tooling that reads rankings out of a checkout. Sections
// are emitted in deterministic order so repeated exports of the same
// manifest are byte-identical apart from the timestamp header.
type RankfileRenderer struct{}

func (r *RankfileRenderer) Render(w io.Writer, m *manifest.Manifest) error {
	fmt.Fprintf(w, "# orbitrank ranking configuration\n")
	fmt.Fprintf(w, "# Generated: %s\n", m.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(w, "# Schema: %s\n", m.Schema)
	fmt.Fprintf(w, "# Coherence: %.3f\n", m.Center.Coherence)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "[network]\n")
	fmt.Fprintf(w, "\tname = %s\n", m.Network)
	fmt.Fprintf(w, "\tcenter = %s\n", m.Center.Node)
	fmt.Fprintf(w, "\trank = %.6f\n", m.Center.Rank)
	fmt.Fprintf(w, "\tcoherence = %g\n", m.Center.Coherence)
	fmt.Fprintln(w)

	clusterNames := make([]string, 0, len(m.Clusters))
	for name := range m.Clusters {
		clusterNames = append(clusterNames, name)
	}
	sort.Strings(clusterNames)

	for _, name := range clusterNames {
		c := m.Clusters[name]
		fmt.Fprintf(w, "[cluster %q]\n", name)
		fmt.Fprintf(w, "\trank = %.6f\n", c.Rank)
		fmt.Fprintf(w, "\tlayer = %d\n", c.Layer)
		if c.URI != "" {
			fmt.Fprintf(w, "\turi = %s\n", c.URI)
		}
		if c.Mode != "" {
			fmt.Fprintf(w, "\tmode = %s\n", c.Mode)
		}
		fmt.Fprintln(w)
	}

	groupNames := make([]string, 0, len(m.Groups))
	for name := range m.Groups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	for _, group := range groupNames {
		for _, n := range m.Groups[group] {
			fmt.Fprintf(w, "[node %q]\n", n.Name)
			fmt.Fprintf(w, "\trank = %.6f\n", n.Rank)
			fmt.Fprintf(w, "\tlayer = %d\n", n.Layer)
			fmt.Fprintf(w, "\tcluster = %s\n", group)
			if n.Path != "" {
				fmt.Fprintf(w, "\tpath = %s\n", n.Path)
			}
			if n.URI != "" {
				fmt.Fprintf(w, "\tremote = %s\n", n.URI)
			}
			fmt.Fprintln(w)
		}
	}

	return nil
}
