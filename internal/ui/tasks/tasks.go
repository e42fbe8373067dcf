// Package tasks renders the task list, task history and task detail screens.
package tasks

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vertti/lazy-ecs/internal/aws"
	"github.com/vertti/lazy-ecs/internal/events"
	"github.com/vertti/lazy-ecs/internal/ui/shared"
)

// State holds the task list of one service plus selection.
type State struct {
	Cluster  string
	Service  string
	Tasks    []aws.Task
	History  bool
	Selected int
	Viewport shared.Viewport
}

// now is swapped out in tests to keep the AGE column deterministic.
var now = time.Now

// SortForDisplay orders tasks so stale revisions surface first, newest
// created within each group.
func SortForDisplay(tasks []aws.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].IsDesired != tasks[j].IsDesired {
			return !tasks[i].IsDesired
		}
		ci, cj := tasks[i].CreatedAt, tasks[j].CreatedAt
		if ci == nil || cj == nil {
			return cj == nil && ci != nil
		}
		return ci.After(*cj)
	})
}

// SortHistory orders a task history newest first by creation time.
func SortHistory(tasks []aws.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		ci, cj := tasks[i].CreatedAt, tasks[j].CreatedAt
		if ci == nil || cj == nil {
			return cj == nil && ci != nil
		}
		return ci.After(*cj)
	})
}

// Render draws the task table. History mode adds the stop explanation column.
func Render(st *State) string {
	what := "Tasks"
	if st.History {
		what = "Task History"
	}
	title := shared.TitleStyle.Render(fmt.Sprintf("%s - %s/%s", what, st.Cluster, st.Service))

	if len(st.Tasks) == 0 {
		return title + "\n\n" + shared.DimStyle.Render("No tasks found for this service")
	}

	shared.EnsureVisible(st.Selected, len(st.Tasks), &st.Viewport)
	start, end := shared.GetVisibleRange(len(st.Tasks), st.Viewport)

	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString(shared.HeaderStyle.Render(fmt.Sprintf("%-10s %-24s %-4s %-10s %-10s %-8s",
		"TASK", "REVISION", "", "STATUS", "HEALTH", "AGE")) + "\n")
	for i := start; i < end; i++ {
		task := st.Tasks[i]
		row := fmt.Sprintf("%-10s %-24s %-4s %-10s %-10s %-8s",
			aws.ShortTaskID(task.ARN),
			shared.Truncate(task.Family+":"+task.Revision, 24),
			revisionMarker(task),
			task.Status,
			task.Health,
			shared.FormatAge(task.CreatedAt, now()),
		)
		if i == st.Selected {
			row = shared.HighlightRow(row)
		}
		b.WriteString(row + "\n")
		if st.History && task.Status == "STOPPED" {
			b.WriteString("    " + explain(task) + "\n")
		}
	}
	b.WriteString(fmt.Sprintf("\nShowing %d-%d of %d tasks", start+1, end, len(st.Tasks)))
	return b.String()
}

func revisionMarker(task aws.Task) string {
	if task.IsDesired {
		return "✓"
	}
	return "✗"
}

func explain(task aws.Task) string {
	outcome := events.TaskOutcome{
		LastStatus:    task.Status,
		StopCode:      task.StopCode,
		StoppedReason: task.StoppedReason,
	}
	for _, c := range task.Containers {
		outcome.Containers = append(outcome.Containers, events.ContainerExit{
			Name:     c.Name,
			ExitCode: c.ExitCode,
			Reason:   c.Reason,
		})
	}
	return events.AnalyzeTaskFailure(outcome)
}

// RenderDetail draws the full metadata view of one task.
func RenderDetail(task *aws.Task, networkMode string) string {
	var b strings.Builder
	b.WriteString(shared.TitleStyle.Render(fmt.Sprintf("Task - %s", aws.ShortTaskID(task.ARN))) + "\n\n")

	revision := task.Family + ":" + task.Revision
	if task.IsDesired {
		revision += " (desired)"
	} else {
		revision += " (stale)"
	}

	b.WriteString(fmt.Sprintf("Definition:  %s\n", revision))
	b.WriteString(fmt.Sprintf("Status:      %s (desired %s)\n", task.Status, task.DesiredStatus))
	if task.Health != "" {
		b.WriteString(fmt.Sprintf("Health:      %s\n", task.Health))
	}
	b.WriteString(fmt.Sprintf("Launch type: %s", task.LaunchType))
	if task.PlatformVersion != "" {
		b.WriteString(fmt.Sprintf(" (platform %s)", task.PlatformVersion))
	}
	b.WriteString("\n")
	if task.CPU != "" || task.Memory != "" {
		b.WriteString(fmt.Sprintf("Resources:   %s CPU / %s MB\n", task.CPU, task.Memory))
	}
	if networkMode != "" {
		b.WriteString(fmt.Sprintf("Network:     %s\n", networkMode))
	}
	if task.AvailabilityZone != "" {
		b.WriteString(fmt.Sprintf("Zone:        %s\n", task.AvailabilityZone))
	}
	b.WriteString(fmt.Sprintf("Created:     %s\n", shared.FormatTime(task.CreatedAt)))
	if task.StartedAt != nil {
		b.WriteString(fmt.Sprintf("Started:     %s\n", shared.FormatTime(task.StartedAt)))
	}
	if task.StoppedAt != nil {
		b.WriteString(fmt.Sprintf("Stopped:     %s\n", shared.FormatTime(task.StoppedAt)))
		b.WriteString(explain(*task) + "\n")
	}

	if len(task.Containers) > 0 {
		b.WriteString("\n" + shared.TitleStyle.Render("Containers") + "\n")
		for _, c := range task.Containers {
			line := fmt.Sprintf(" - %s  %s  %s", c.Name, c.LastStatus, shared.Truncate(c.Image, 50))
			if c.ExitCode != nil {
				line += fmt.Sprintf("  (exit %d)", *c.ExitCode)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
