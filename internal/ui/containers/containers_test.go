package containers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vertti/lazy-ecs/internal/aws"
	"github.com/vertti/lazy-ecs/internal/ui/shared"
)

func TestRenderListsContainers(t *testing.T) {
	st := &State{
		TaskID: "aaaa1111",
		Containers: []aws.TaskContainer{
			{Name: "web", LastStatus: "RUNNING", Health: "HEALTHY", Image: "nginx:1.25"},
			{Name: "sidecar", LastStatus: "RUNNING", Image: "envoy:1.30"},
		},
		Viewport: shared.Viewport{Height: 10},
	}

	out := Render(st)

	assert.Contains(t, out, "Containers - aaaa1111")
	assert.Contains(t, out, "nginx:1.25")
	assert.Contains(t, out, "sidecar")
	assert.Contains(t, out, "Showing 1-2 of 2 containers")
}

func TestRenderDetailShowsConfiguredState(t *testing.T) {
	spec := &aws.ContainerSpec{
		Name:              "web",
		Image:             "nginx:1.25",
		CPU:               128,
		Memory:            512,
		MemoryReservation: 256,
		Command:           []string{"nginx", "-g", "daemon off;"},
		Environment:       map[string]string{"PORT": "8080", "ENV": "prod"},
		Secrets:           map[string]string{"DB_PASS": "arn:aws:ssm:eu-west-1:123:parameter/db-pass"},
		Ports:             []aws.PortMapping{{ContainerPort: 8080, Protocol: "tcp"}},
		Mounts: []aws.VolumeMount{
			{SourceVolume: "data", ContainerPath: "/data", HostPath: "/var/data", ReadOnly: true},
		},
		LogGroup:        "/ecs/web",
		LogStreamPrefix: "ecs",
	}

	out := RenderDetail(spec)

	assert.Contains(t, out, "128 CPU units, 512 MB hard, 256 MB soft")
	assert.Contains(t, out, "ENV=prod")
	assert.Contains(t, out, "DB_PASS <- arn:aws:ssm:eu-west-1:123:parameter/db-pass")
	assert.NotContains(t, out, "hunter2", "secret values are never shown")
	assert.Contains(t, out, "8080/tcp")
	assert.Contains(t, out, "/var/data -> /data (ro)")
	assert.Contains(t, out, "awslogs group /ecs/web")
}

func TestRenderLogsTagsFailureLines(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	out := RenderLogs("web", []aws.LogLine{
		{Timestamp: at, Message: "listening on :8080"},
		{Timestamp: at.Add(time.Second), Message: "worker oom-killed, restarting"},
	}, "")

	assert.Contains(t, out, "listening on :8080")
	assert.Contains(t, out, "❗")
}

func TestRenderLogsEmptyStates(t *testing.T) {
	assert.Contains(t, RenderLogs("web", nil, ""), "No log lines found")
	assert.Contains(t, RenderLogs("web", nil, "ERROR"), "No log lines match the filter")
}

func TestRenderComparison(t *testing.T) {
	out := RenderComparison("web:6", "web:7", []aws.Change{
		{Kind: "image_changed", Container: "web", Detail: "nginx:1.24 -> nginx:1.25"},
	})
	assert.Contains(t, out, "web:6 vs web:7")
	assert.Contains(t, out, "image_changed [web]: nginx:1.24 -> nginx:1.25")

	assert.Contains(t, RenderComparison("web:7", "web:7", nil), "No differences")
}
