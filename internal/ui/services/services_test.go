package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vertti/lazy-ecs/internal/aws"
	"github.com/vertti/lazy-ecs/internal/events"
	"github.com/vertti/lazy-ecs/internal/ui/shared"
)

func TestSortForDisplayUnhealthyFirst(t *testing.T) {
	svcs := []aws.Service{
		{Name: "zeta", Desired: 2, Running: 2},
		{Name: "beta", Desired: 3, Running: 1},
		{Name: "alpha", Desired: 2, Running: 2},
		{Name: "gamma", Desired: 1, Running: 2},
	}

	SortForDisplay(svcs)

	names := make([]string, len(svcs))
	for i, s := range svcs {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"beta", "gamma", "alpha", "zeta"}, names)
}

func TestRenderShowsHealthAndCounts(t *testing.T) {
	st := &State{
		Cluster: "demo",
		Services: []aws.Service{
			{Name: "web", Desired: 3, Running: 2, Pending: 1, LaunchType: "FARGATE",
				TaskDefinition: "arn:aws:ecs:eu-west-1:123:task-definition/web:7"},
		},
		Viewport: shared.Viewport{Height: 10},
	}

	out := Render(st)

	assert.Contains(t, out, "Services - demo")
	assert.Contains(t, out, "⚠️")
	assert.Contains(t, out, "SCALING")
	assert.Contains(t, out, "(2/3, 1 pending)")
	assert.Contains(t, out, "web:7")
}

func TestRenderShowsDeploymentRollout(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	st := &State{
		Cluster: "demo",
		Services: []aws.Service{{
			Name: "web", Desired: 3, Running: 3,
			Deployments: []aws.Deployment{
				{Status: "PRIMARY", Desired: 3, Running: 1, Pending: 2, CreatedAt: &created},
				{Status: "ACTIVE", Desired: 3, Running: 2},
			},
		}},
		Viewport: shared.Viewport{Height: 10},
	}

	out := Render(st)

	assert.Contains(t, out, "Deployments")
	assert.Contains(t, out, "PRIMARY (1/3, 2 pending) since 2026-08-01 12:00:00")
	assert.Contains(t, out, "ACTIVE (2/3) since -")
}

func TestRenderEmptyState(t *testing.T) {
	st := &State{Cluster: "demo", Viewport: shared.Viewport{Height: 10}}
	assert.Contains(t, Render(st), "No services found")
}

func TestRenderActionsListsAllEntries(t *testing.T) {
	out := RenderActions("web", 0)

	assert.Contains(t, out, "Show recent events")
	assert.Contains(t, out, "Show CPU/memory metrics")
	assert.Contains(t, out, "Open in AWS console")
	assert.Contains(t, out, "Force new deployment")
}

func TestRenderEventsBucketsMessages(t *testing.T) {
	now := time.Now()
	out := RenderEvents("web", []events.Record{
		{Timestamp: now, Source: events.SourceService, Message: "service web has started 2 tasks"},
		{Timestamp: now, Source: events.SourceService, Message: "service web was unable to place a task"},
		{Timestamp: now, Source: events.SourceService, Message: "service web has reached a steady state"},
	})

	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[2], "🚀")
	assert.Contains(t, lines[3], "❌")
	assert.Contains(t, lines[4], "📈")
}

func TestRenderMetrics(t *testing.T) {
	out := RenderMetrics("web", &aws.ServiceMetrics{
		CPU:    aws.MetricStatistics{Current: 42.5, Average: 38.1, Maximum: 61.0, Minimum: 12.3},
		Memory: aws.MetricStatistics{Current: 70.0, Average: 68.4, Maximum: 72.8, Minimum: 65.1},
	})

	assert.Contains(t, out, "42.5%")
	assert.Contains(t, out, "72.8%")

	assert.Contains(t, RenderMetrics("web", nil), "No metric datapoints")
}
