// Package containers renders the container list, the configured container
// detail and the log views.
package containers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vertti/lazy-ecs/internal/aws"
	"github.com/vertti/lazy-ecs/internal/events"
	"github.com/vertti/lazy-ecs/internal/ui/shared"
)

// State holds the containers of one task plus selection.
type State struct {
	TaskID     string
	Containers []aws.TaskContainer
	Definition *aws.TaskDefinition
	Selected   int
	Viewport   shared.Viewport
}

// Render draws the container table of a task.
func Render(st *State) string {
	title := shared.TitleStyle.Render(fmt.Sprintf("Containers - %s", st.TaskID))

	if len(st.Containers) == 0 {
		return title + "\n\n" + shared.DimStyle.Render("No containers in this task")
	}

	shared.EnsureVisible(st.Selected, len(st.Containers), &st.Viewport)
	start, end := shared.GetVisibleRange(len(st.Containers), st.Viewport)

	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString(shared.HeaderStyle.Render(fmt.Sprintf("%-24s %-10s %-10s %-40s",
		"CONTAINER", "STATUS", "HEALTH", "IMAGE")) + "\n")
	for i := start; i < end; i++ {
		c := st.Containers[i]
		row := fmt.Sprintf("%-24s %-10s %-10s %-40s",
			shared.Truncate(c.Name, 24),
			c.LastStatus,
			c.Health,
			shared.Truncate(c.Image, 40),
		)
		if i == st.Selected {
			row = shared.HighlightRow(row)
		}
		b.WriteString(row + "\n")
	}
	b.WriteString(fmt.Sprintf("\nShowing %d-%d of %d containers", start+1, end, len(st.Containers)))
	return b.String()
}

// RenderDetail draws the configured state of one container from its task
// definition: resources, environment, secret references, ports and mounts.
func RenderDetail(spec *aws.ContainerSpec) string {
	var b strings.Builder
	b.WriteString(shared.TitleStyle.Render(fmt.Sprintf("Container - %s", spec.Name)) + "\n\n")
	b.WriteString(fmt.Sprintf("Image:   %s\n", spec.Image))

	if spec.CPU > 0 || spec.Memory > 0 || spec.MemoryReservation > 0 {
		parts := []string{}
		if spec.CPU > 0 {
			parts = append(parts, fmt.Sprintf("%d CPU units", spec.CPU))
		}
		if spec.Memory > 0 {
			parts = append(parts, fmt.Sprintf("%d MB hard", spec.Memory))
		}
		if spec.MemoryReservation > 0 {
			parts = append(parts, fmt.Sprintf("%d MB soft", spec.MemoryReservation))
		}
		b.WriteString("Limits:  " + strings.Join(parts, ", ") + "\n")
	}
	if len(spec.EntryPoint) > 0 {
		b.WriteString(fmt.Sprintf("Entry:   %s\n", strings.Join(spec.EntryPoint, " ")))
	}
	if len(spec.Command) > 0 {
		b.WriteString(fmt.Sprintf("Command: %s\n", strings.Join(spec.Command, " ")))
	}

	if len(spec.Ports) > 0 {
		b.WriteString("\n" + shared.TitleStyle.Render("Ports") + "\n")
		for _, p := range spec.Ports {
			if p.HostPort > 0 && p.HostPort != p.ContainerPort {
				b.WriteString(fmt.Sprintf(" - %d -> %d/%s\n", p.HostPort, p.ContainerPort, p.Protocol))
			} else {
				b.WriteString(fmt.Sprintf(" - %d/%s\n", p.ContainerPort, p.Protocol))
			}
		}
	}

	if len(spec.Environment) > 0 {
		b.WriteString("\n" + shared.TitleStyle.Render("Environment") + "\n")
		for _, key := range sortedKeys(spec.Environment) {
			b.WriteString(fmt.Sprintf(" - %s=%s\n", key, spec.Environment[key]))
		}
	}

	// Secret values are never fetched; only the reference is shown.
	if len(spec.Secrets) > 0 {
		b.WriteString("\n" + shared.TitleStyle.Render("Secrets") + "\n")
		for _, key := range sortedKeys(spec.Secrets) {
			b.WriteString(fmt.Sprintf(" - %s <- %s\n", key, spec.Secrets[key]))
		}
	}

	if len(spec.Mounts) > 0 {
		b.WriteString("\n" + shared.TitleStyle.Render("Volumes") + "\n")
		for _, m := range spec.Mounts {
			mode := "rw"
			if m.ReadOnly {
				mode = "ro"
			}
			host := m.HostPath
			if host == "" {
				host = m.SourceVolume
			}
			b.WriteString(fmt.Sprintf(" - %s -> %s (%s)\n", host, m.ContainerPath, mode))
		}
	}

	if spec.LogGroup != "" {
		b.WriteString("\n" + shared.TitleStyle.Render("Logging") + "\n")
		b.WriteString(fmt.Sprintf(" - awslogs group %s, prefix %s\n", spec.LogGroup, spec.LogStreamPrefix))
	}

	return b.String()
}

// RenderLogs draws fetched log lines oldest first, tagging lines that match
// known failure signatures.
func RenderLogs(containerName string, lines []aws.LogLine, filter string) string {
	title := fmt.Sprintf("Logs - %s", containerName)
	if filter != "" {
		title += fmt.Sprintf(" (filter: %s)", filter)
	}
	header := shared.TitleStyle.Render(title)

	if len(lines) == 0 {
		msg := "No log lines found"
		if filter != "" {
			msg = "No log lines match the filter"
		}
		return header + "\n\n" + shared.DimStyle.Render(msg)
	}

	var b strings.Builder
	b.WriteString(header + "\n\n")
	for _, line := range lines {
		marker := "  "
		if events.ClassifyMessage(line.Message) != events.CategoryNone {
			marker = "❗"
		}
		b.WriteString(fmt.Sprintf("%s %s  %s\n",
			marker,
			line.Timestamp.Format("15:04:05"),
			line.Message,
		))
	}
	return b.String()
}

// RenderComparison draws the diff between two task definition revisions.
func RenderComparison(source, target string, changes []aws.Change) string {
	title := shared.TitleStyle.Render(fmt.Sprintf("Revision diff - %s vs %s", source, target))
	if len(changes) == 0 {
		return title + "\n\n" + shared.DimStyle.Render("No differences between these revisions")
	}

	var b strings.Builder
	b.WriteString(title + "\n\n")
	for _, ch := range changes {
		b.WriteString(" - " + aws.FormatChange(ch) + "\n")
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
