// Package services renders the service selection screen, the service actions
// menu and the supporting event/metric views.
package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vertti/lazy-ecs/internal/aws"
	"github.com/vertti/lazy-ecs/internal/events"
	"github.com/vertti/lazy-ecs/internal/status"
	"github.com/vertti/lazy-ecs/internal/ui/shared"
)

// State holds the service list of one cluster plus selection.
type State struct {
	Cluster  string
	Services []aws.Service
	Selected int
	Viewport shared.Viewport
}

// Action is one entry of the service actions menu.
type Action int

const (
	ActionShowEvents Action = iota
	ActionShowMetrics
	ActionOpenConsole
	ActionForceDeployment
)

// Actions lists the menu entries in display order.
var Actions = []Action{ActionShowEvents, ActionShowMetrics, ActionOpenConsole, ActionForceDeployment}

func (a Action) String() string {
	switch a {
	case ActionShowEvents:
		return "Show recent events"
	case ActionShowMetrics:
		return "Show CPU/memory metrics"
	case ActionOpenConsole:
		return "Open in AWS console"
	case ActionForceDeployment:
		return "Force new deployment"
	default:
		return "unknown"
	}
}

// SortForDisplay orders services so the ones needing attention surface first:
// anything not healthy before healthy, then by name.
func SortForDisplay(services []aws.Service) {
	sort.SliceStable(services, func(i, j int) bool {
		hi := status.Classify(services[i].Running, services[i].Desired, services[i].Pending) == status.Healthy
		hj := status.Classify(services[j].Running, services[j].Desired, services[j].Pending) == status.Healthy
		if hi != hj {
			return !hi
		}
		return services[i].Name < services[j].Name
	})
}

// Render draws the service table with a health column.
func Render(st *State) string {
	title := shared.TitleStyle.Render(fmt.Sprintf("Services - %s", st.Cluster))

	if len(st.Services) == 0 {
		return title + "\n\n" + shared.DimStyle.Render("No services found in this cluster")
	}

	shared.EnsureVisible(st.Selected, len(st.Services), &st.Viewport)
	start, end := shared.GetVisibleRange(len(st.Services), st.Viewport)

	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString(shared.HeaderStyle.Render(fmt.Sprintf("%-3s %-28s %-14s %-14s %-10s %-22s",
		"", "SERVICE", "HEALTH", "TASKS", "LAUNCH", "TASK DEF")) + "\n")
	for i := start; i < end; i++ {
		svc := st.Services[i]
		health := status.Classify(svc.Running, svc.Desired, svc.Pending)
		row := fmt.Sprintf("%-3s %-28s %-14s %-14s %-10s %-22s",
			health.Icon,
			shared.Truncate(svc.Name, 28),
			health.Label,
			status.FormatCounts(svc.Running, svc.Desired, svc.Pending),
			shared.Truncate(svc.LaunchType, 10),
			shared.Truncate(aws.ExtractNameFromARN(svc.TaskDefinition), 22),
		)
		if i == st.Selected {
			row = shared.HighlightRow(row)
		}
		b.WriteString(row + "\n")
	}
	b.WriteString(fmt.Sprintf("\nShowing %d-%d of %d services", start+1, end, len(st.Services)))

	// Rollout summary for the selected service.
	if st.Selected < len(st.Services) {
		svc := st.Services[st.Selected]
		if len(svc.Deployments) > 0 {
			b.WriteString("\n\n" + shared.TitleStyle.Render("Deployments") + "\n")
			for _, dep := range svc.Deployments {
				b.WriteString(fmt.Sprintf(" - %s %s since %s\n",
					dep.Status,
					status.FormatCounts(dep.Running, dep.Desired, dep.Pending),
					shared.FormatTime(dep.CreatedAt),
				))
			}
		}
	}
	return b.String()
}

// RenderActions draws the actions menu for the selected service.
func RenderActions(serviceName string, selected int) string {
	var b strings.Builder
	b.WriteString(shared.TitleStyle.Render(fmt.Sprintf("Service - %s", serviceName)) + "\n\n")
	for i, action := range Actions {
		row := fmt.Sprintf("  %s", action)
		if i == selected {
			row = shared.HighlightRow(row)
		}
		b.WriteString(row + "\n")
	}
	return b.String()
}

// RenderEvents draws an aggregated event sequence, each record bucketed with
// a category marker.
func RenderEvents(serviceName string, records []events.Record) string {
	title := shared.TitleStyle.Render(fmt.Sprintf("Events - %s", serviceName))
	if len(records) == 0 {
		return title + "\n\n" + shared.DimStyle.Render("No recent events")
	}

	var b strings.Builder
	b.WriteString(title + "\n\n")
	for _, rec := range records {
		when := "-"
		if !rec.Timestamp.IsZero() {
			when = rec.Timestamp.Format("2006-01-02 15:04:05")
		}
		b.WriteString(fmt.Sprintf("%s %s  %s\n",
			eventIcon(events.CategorizeServiceEvent(rec.Message)),
			when,
			rec.Message,
		))
	}
	return b.String()
}

func eventIcon(t events.EventType) string {
	switch t {
	case events.EventFailure:
		return "❌"
	case events.EventDeployment:
		return "🚀"
	case events.EventScaling:
		return "📈"
	default:
		return "ℹ️"
	}
}

// RenderMetrics draws CPU/memory utilization statistics for a service.
// A nil metrics argument means CloudWatch had no datapoints.
func RenderMetrics(serviceName string, metrics *aws.ServiceMetrics) string {
	title := shared.TitleStyle.Render(fmt.Sprintf("Metrics - %s (last hour)", serviceName))
	if metrics == nil {
		return title + "\n\n" + shared.DimStyle.Render("No metric datapoints available yet")
	}

	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString(shared.HeaderStyle.Render(fmt.Sprintf("%-10s %-10s %-10s %-10s %-10s",
		"METRIC", "CURRENT", "AVERAGE", "MAX", "MIN")) + "\n")
	b.WriteString(metricRow("CPU", metrics.CPU))
	b.WriteString(metricRow("Memory", metrics.Memory))
	return b.String()
}

func metricRow(name string, s aws.MetricStatistics) string {
	return fmt.Sprintf("%-10s %-10s %-10s %-10s %-10s\n",
		name,
		formatPercent(s.Current),
		formatPercent(s.Average),
		formatPercent(s.Maximum),
		formatPercent(s.Minimum),
	)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
