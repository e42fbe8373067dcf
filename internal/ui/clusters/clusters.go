// Package clusters renders the cluster selection screen.
package clusters

import (
	"fmt"
	"strings"

	"github.com/vertti/lazy-ecs/internal/aws"
	"github.com/vertti/lazy-ecs/internal/ui/shared"
)

// State holds the cluster list plus selection.
type State struct {
	Clusters []aws.Cluster
	Selected int
	Viewport shared.Viewport
}

// Render draws the cluster table.
func Render(st *State) string {
	title := shared.TitleStyle.Render("Clusters")

	if len(st.Clusters) == 0 {
		return title + "\n\n" + shared.DimStyle.Render("No clusters found")
	}

	shared.EnsureVisible(st.Selected, len(st.Clusters), &st.Viewport)
	start, end := shared.GetVisibleRange(len(st.Clusters), st.Viewport)

	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString(shared.HeaderStyle.Render(fmt.Sprintf("%-32s %-10s %-8s %-8s %-8s",
		"CLUSTER", "STATUS", "RUN", "PEND", "SERV")) + "\n")
	for i := start; i < end; i++ {
		cl := st.Clusters[i]
		row := fmt.Sprintf("%-32s %-10s %-8d %-8d %-8d",
			shared.Truncate(cl.Name, 32),
			cl.Status,
			cl.RunningTasks,
			cl.PendingTasks,
			cl.ActiveServices,
		)
		if i == st.Selected {
			row = shared.HighlightRow(row)
		}
		b.WriteString(row + "\n")
	}
	b.WriteString(fmt.Sprintf("\nShowing %d-%d of %d clusters", start+1, end, len(st.Clusters)))
	return b.String()
}
