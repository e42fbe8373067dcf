package aws

import (
	"context"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTaskDefinitionNormalizes(t *testing.T) {
	fake := &fakeECS{
		describeTaskDefinition: func(in *ecs.DescribeTaskDefinitionInput) (*ecs.DescribeTaskDefinitionOutput, error) {
			return &ecs.DescribeTaskDefinitionOutput{TaskDefinition: &types.TaskDefinition{
				TaskDefinitionArn: sdkaws.String("arn:aws:ecs:eu-west-1:123:task-definition/web:7"),
				Cpu:               sdkaws.String("256"),
				Memory:            sdkaws.String("512"),
				NetworkMode:       types.NetworkModeAwsvpc,
				Volumes: []types.Volume{{
					Name: sdkaws.String("data"),
					Host: &types.HostVolumeProperties{SourcePath: sdkaws.String("/var/data")},
				}},
				ContainerDefinitions: []types.ContainerDefinition{{
					Name:   sdkaws.String("web"),
					Image:  sdkaws.String("nginx:1.25"),
					Cpu:    128,
					Memory: sdkaws.Int32(256),
					Environment: []types.KeyValuePair{
						{Name: sdkaws.String("PORT"), Value: sdkaws.String("8080")},
					},
					Secrets: []types.Secret{
						{Name: sdkaws.String("DB_PASS"), ValueFrom: sdkaws.String("arn:aws:ssm:eu-west-1:123:parameter/db-pass")},
					},
					PortMappings: []types.PortMapping{
						{ContainerPort: sdkaws.Int32(8080), Protocol: types.TransportProtocolTcp},
					},
					MountPoints: []types.MountPoint{
						{SourceVolume: sdkaws.String("data"), ContainerPath: sdkaws.String("/data"), ReadOnly: sdkaws.Bool(true)},
					},
					LogConfiguration: &types.LogConfiguration{
						LogDriver: types.LogDriverAwslogs,
						Options:   map[string]string{"awslogs-group": "/ecs/web"},
					},
				}},
			}}, nil
		},
	}

	c := &Client{ECS: fake}
	td, err := c.GetTaskDefinition(context.Background(), "arn:aws:ecs:eu-west-1:123:task-definition/web:7")

	require.NoError(t, err)
	assert.Equal(t, "web", td.Family)
	assert.Equal(t, "7", td.Revision)
	assert.Equal(t, "awsvpc", td.NetworkMode)
	require.Len(t, td.Containers, 1)

	ctn := td.Containers[0]
	assert.Equal(t, "nginx:1.25", ctn.Image)
	assert.EqualValues(t, 128, ctn.CPU)
	assert.EqualValues(t, 256, ctn.Memory)
	assert.Equal(t, map[string]string{"PORT": "8080"}, ctn.Environment)
	assert.Equal(t, "arn:aws:ssm:eu-west-1:123:parameter/db-pass", ctn.Secrets["DB_PASS"],
		"secrets carry the valueFrom reference, never the value")
	require.Len(t, ctn.Mounts, 1)
	assert.Equal(t, "/var/data", ctn.Mounts[0].HostPath)
	assert.True(t, ctn.Mounts[0].ReadOnly)
	assert.Equal(t, "/ecs/web", ctn.LogGroup)
	assert.Equal(t, "ecs", ctn.LogStreamPrefix, "awslogs prefix defaults when unset")
}

func TestGetTaskDefinitionSkipsNonAwslogsDriver(t *testing.T) {
	fake := &fakeECS{
		describeTaskDefinition: func(in *ecs.DescribeTaskDefinitionInput) (*ecs.DescribeTaskDefinitionOutput, error) {
			return &ecs.DescribeTaskDefinitionOutput{TaskDefinition: &types.TaskDefinition{
				TaskDefinitionArn: sdkaws.String("arn:aws:ecs:eu-west-1:123:task-definition/web:7"),
				ContainerDefinitions: []types.ContainerDefinition{{
					Name: sdkaws.String("web"),
					LogConfiguration: &types.LogConfiguration{
						LogDriver: types.LogDriverSplunk,
						Options:   map[string]string{"splunk-url": "https://splunk"},
					},
				}},
			}}, nil
		},
	}

	c := &Client{ECS: fake}
	td, err := c.GetTaskDefinition(context.Background(), "web:7")

	require.NoError(t, err)
	assert.Empty(t, td.Containers[0].LogGroup)
}

func TestListTaskDefinitionRevisions(t *testing.T) {
	var got *ecs.ListTaskDefinitionsInput
	fake := &fakeECS{
		listTaskDefinitions: func(in *ecs.ListTaskDefinitionsInput) (*ecs.ListTaskDefinitionsOutput, error) {
			got = in
			return &ecs.ListTaskDefinitionsOutput{TaskDefinitionArns: []string{
				"arn:aws:ecs:eu-west-1:123:task-definition/web:7",
				"arn:aws:ecs:eu-west-1:123:task-definition/web:6",
				"arn:aws:ecs:eu-west-1:123:task-definition/web:5",
			}}, nil
		},
	}

	c := &Client{ECS: fake}
	arns, err := c.ListTaskDefinitionRevisions(context.Background(), "web", 2)

	require.NoError(t, err)
	assert.Equal(t, "web", *got.FamilyPrefix)
	assert.Equal(t, types.SortOrderDesc, got.Sort)
	require.Len(t, arns, 2)
	assert.Equal(t, "arn:aws:ecs:eu-west-1:123:task-definition/web:7", arns[0])
}

func TestFindContainer(t *testing.T) {
	td := &TaskDefinition{Containers: []ContainerSpec{{Name: "web"}, {Name: "sidecar"}}}

	require.NotNil(t, td.FindContainer("sidecar"))
	assert.Equal(t, "sidecar", td.FindContainer("sidecar").Name)
	assert.Nil(t, td.FindContainer("nope"))
}
