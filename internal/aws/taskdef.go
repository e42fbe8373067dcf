package aws

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// PortMapping is a container port exposed by a task definition.
type PortMapping struct {
	ContainerPort int32
	HostPort      int32
	Protocol      string
}

// VolumeMount joins a container mount point with the task definition volume
// it refers to, host path resolved when the volume is host-backed.
type VolumeMount struct {
	SourceVolume  string
	ContainerPath string
	HostPath      string
	ReadOnly      bool
}

// ContainerSpec is the configured (not runtime) state of one container in a
// task definition. Secret values are never fetched; Secrets maps the
// variable name to the valueFrom reference only.
type ContainerSpec struct {
	Name              string
	Image             string
	CPU               int32
	Memory            int32
	MemoryReservation int32
	Command           []string
	EntryPoint        []string
	Environment       map[string]string
	Secrets           map[string]string
	Ports             []PortMapping
	Mounts            []VolumeMount
	LogGroup          string
	LogStreamPrefix   string
}

// TaskDefinition is a normalized task definition revision.
type TaskDefinition struct {
	ARN         string
	Family      string
	Revision    string
	CPU         string
	Memory      string
	NetworkMode string
	Containers  []ContainerSpec
}

// GetTaskDefinition describes and normalizes one task definition revision.
func (c *Client) GetTaskDefinition(ctx context.Context, taskDefARN string) (*TaskDefinition, error) {
	ctx, cancel := ensureTimeout(ctx, 15*time.Second)
	defer cancel()

	out, err := c.ECS.DescribeTaskDefinition(ctx, &ecs.DescribeTaskDefinitionInput{
		TaskDefinition: &taskDefARN,
	})
	if err != nil {
		return nil, fetchErr("task definition", taskDefARN, err)
	}
	if out.TaskDefinition == nil {
		return nil, fetchErr("task definition", taskDefARN, errNotFound)
	}
	td := newTaskDefinition(out.TaskDefinition)
	return &td, nil
}

// ListTaskDefinitionRevisions returns up to limit revision ARNs of a family,
// newest first.
func (c *Client) ListTaskDefinitionRevisions(ctx context.Context, family string, limit int) ([]string, error) {
	ctx, cancel := ensureTimeout(ctx, 15*time.Second)
	defer cancel()

	out, err := c.ECS.ListTaskDefinitions(ctx, &ecs.ListTaskDefinitionsInput{
		FamilyPrefix: &family,
		Sort:         types.SortOrderDesc,
	})
	if err != nil {
		return nil, fetchErr("task definition revisions", family, err)
	}
	arns := out.TaskDefinitionArns
	if limit > 0 && len(arns) > limit {
		arns = arns[:limit]
	}
	return arns, nil
}

func newTaskDefinition(td *types.TaskDefinition) TaskDefinition {
	arn := getString(td.TaskDefinitionArn)
	family, revision := ParseFamilyRevision(arn)

	def := TaskDefinition{
		ARN:         arn,
		Family:      family,
		Revision:    revision,
		CPU:         getString(td.Cpu),
		Memory:      getString(td.Memory),
		NetworkMode: string(td.NetworkMode),
	}

	volumeHostPaths := make(map[string]string)
	for _, vol := range td.Volumes {
		hostPath := ""
		if vol.Host != nil {
			hostPath = getString(vol.Host.SourcePath)
		}
		volumeHostPaths[getString(vol.Name)] = hostPath
	}

	for _, cd := range td.ContainerDefinitions {
		def.Containers = append(def.Containers, newContainerSpec(cd, volumeHostPaths))
	}
	return def
}

func newContainerSpec(cd types.ContainerDefinition, volumeHostPaths map[string]string) ContainerSpec {
	spec := ContainerSpec{
		Name:              getString(cd.Name),
		Image:             getString(cd.Image),
		CPU:               cd.Cpu,
		Memory:            getInt32(cd.Memory),
		MemoryReservation: getInt32(cd.MemoryReservation),
		Command:           cd.Command,
		EntryPoint:        cd.EntryPoint,
		Environment:       make(map[string]string, len(cd.Environment)),
		Secrets:           make(map[string]string, len(cd.Secrets)),
	}

	for _, env := range cd.Environment {
		spec.Environment[getString(env.Name)] = getString(env.Value)
	}
	for _, sec := range cd.Secrets {
		spec.Secrets[getString(sec.Name)] = getString(sec.ValueFrom)
	}
	for _, pm := range cd.PortMappings {
		spec.Ports = append(spec.Ports, PortMapping{
			ContainerPort: getInt32(pm.ContainerPort),
			HostPort:      getInt32(pm.HostPort),
			Protocol:      string(pm.Protocol),
		})
	}
	for _, mp := range cd.MountPoints {
		source := getString(mp.SourceVolume)
		spec.Mounts = append(spec.Mounts, VolumeMount{
			SourceVolume:  source,
			ContainerPath: getString(mp.ContainerPath),
			HostPath:      volumeHostPaths[source],
			ReadOnly:      getBool(mp.ReadOnly),
		})
	}

	if cd.LogConfiguration != nil && cd.LogConfiguration.LogDriver == types.LogDriverAwslogs {
		opts := cd.LogConfiguration.Options
		spec.LogGroup = opts["awslogs-group"]
		spec.LogStreamPrefix = opts["awslogs-stream-prefix"]
		if spec.LogStreamPrefix == "" {
			spec.LogStreamPrefix = "ecs"
		}
	}

	return spec
}

// FindContainer returns the container spec with the given name, or nil.
func (td *TaskDefinition) FindContainer(name string) *ContainerSpec {
	for i := range td.Containers {
		if td.Containers[i].Name == name {
			return &td.Containers[i]
		}
	}
	return nil
}

func getInt32(v *int32) int32 {
	if v == nil {
		return 0
	}
	return *v
}

func getBool(v *bool) bool {
	if v == nil {
		return false
	}
	return *v
}
