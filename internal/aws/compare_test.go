package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareTaskDefinitionsNoChanges(t *testing.T) {
	td := TaskDefinition{
		CPU:    "256",
		Memory: "512",
		Containers: []ContainerSpec{{
			Name:        "web",
			Image:       "nginx:1.25",
			Environment: map[string]string{"PORT": "8080"},
		}},
	}
	assert.Empty(t, CompareTaskDefinitions(td, td))
}

func TestCompareTaskDefinitionsImageAndResources(t *testing.T) {
	source := TaskDefinition{
		CPU:    "256",
		Memory: "512",
		Containers: []ContainerSpec{{Name: "web", Image: "nginx:1.24", CPU: 128, Memory: 256}},
	}
	target := TaskDefinition{
		CPU:    "512",
		Memory: "1024",
		Containers: []ContainerSpec{{Name: "web", Image: "nginx:1.25", CPU: 256, Memory: 256}},
	}

	changes := CompareTaskDefinitions(source, target)

	kinds := make([]string, len(changes))
	for i, ch := range changes {
		kinds[i] = ch.Kind
	}
	assert.Equal(t, []string{
		"task_cpu_changed",
		"task_memory_changed",
		"image_changed",
		"container_cpu_changed",
	}, kinds)
	assert.Equal(t, "nginx:1.24 -> nginx:1.25", changes[2].Detail)
	assert.Equal(t, "web", changes[2].Container)
}

func TestCompareTaskDefinitionsEnvironment(t *testing.T) {
	source := TaskDefinition{Containers: []ContainerSpec{{
		Name:        "web",
		Environment: map[string]string{"A": "1", "B": "2", "GONE": "x"},
	}}}
	target := TaskDefinition{Containers: []ContainerSpec{{
		Name:        "web",
		Environment: map[string]string{"A": "1", "B": "3", "NEW": "y"},
	}}}

	changes := CompareTaskDefinitions(source, target)

	require.Len(t, changes, 3)
	assert.Equal(t, Change{Kind: "env_changed", Container: "web", Detail: "B: 2 -> 3"}, changes[0])
	assert.Equal(t, Change{Kind: "env_removed", Container: "web", Detail: "GONE"}, changes[1])
	assert.Equal(t, Change{Kind: "env_added", Container: "web", Detail: "NEW"}, changes[2])
}

func TestCompareTaskDefinitionsSecretsReportKeysOnly(t *testing.T) {
	source := TaskDefinition{Containers: []ContainerSpec{{
		Name:    "web",
		Secrets: map[string]string{"DB_PASS": "arn:aws:ssm:eu-west-1:123:parameter/db-pass"},
	}}}
	target := TaskDefinition{Containers: []ContainerSpec{{
		Name:    "web",
		Secrets: map[string]string{"API_KEY": "arn:aws:ssm:eu-west-1:123:parameter/api-key"},
	}}}

	changes := CompareTaskDefinitions(source, target)

	require.Len(t, changes, 2)
	assert.Equal(t, "secret_removed", changes[0].Kind)
	assert.Equal(t, "DB_PASS", changes[0].Detail)
	assert.Equal(t, "secret_added", changes[1].Kind)
	assert.Equal(t, "API_KEY", changes[1].Detail)
}

func TestCompareTaskDefinitionsIgnoresContainersInOnlyOneRevision(t *testing.T) {
	source := TaskDefinition{Containers: []ContainerSpec{
		{Name: "web", Image: "nginx:1.25"},
		{Name: "sidecar", Image: "envoy:1.30"},
	}}
	target := TaskDefinition{Containers: []ContainerSpec{
		{Name: "web", Image: "nginx:1.25"},
	}}

	assert.Empty(t, CompareTaskDefinitions(source, target))
}

func TestCompareTaskDefinitionsPortsAndCommand(t *testing.T) {
	source := TaskDefinition{Containers: []ContainerSpec{{
		Name:    "web",
		Ports:   []PortMapping{{ContainerPort: 80, Protocol: "tcp"}},
		Command: []string{"serve"},
	}}}
	target := TaskDefinition{Containers: []ContainerSpec{{
		Name:    "web",
		Ports:   []PortMapping{{ContainerPort: 8080, Protocol: "tcp"}},
		Command: []string{"serve", "--debug"},
	}}}

	changes := CompareTaskDefinitions(source, target)

	require.Len(t, changes, 2)
	assert.Equal(t, "ports_changed", changes[0].Kind)
	assert.Equal(t, "command_changed", changes[1].Kind)
}

func TestFormatChange(t *testing.T) {
	assert.Equal(t, "image_changed [web]: a -> b",
		FormatChange(Change{Kind: "image_changed", Container: "web", Detail: "a -> b"}))
	assert.Equal(t, "task_cpu_changed: 256 -> 512",
		FormatChange(Change{Kind: "task_cpu_changed", Detail: "256 -> 512"}))
}
