package aws

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// ECS describe_services accepts at most 10 services, describe_tasks at most
// 100 tasks per call.
const (
	describeServicesBatchSize = 10
	describeTasksBatchSize    = 100
)

// Cluster is a simplified ECS cluster summary.
type Cluster struct {
	Name           string
	ARN            string
	Status         string
	RunningTasks   int32
	PendingTasks   int32
	ActiveServices int32
}

// Deployment captures a deployment rollout for a service.
type Deployment struct {
	Status    string
	Desired   int32
	Running   int32
	Pending   int32
	CreatedAt *time.Time
}

// ServiceEvent is one entry of a service's recent event log.
type ServiceEvent struct {
	ID        string
	CreatedAt *time.Time
	Message   string
}

// Service is an ECS service with the counts the health classifier needs.
type Service struct {
	Name           string
	ARN            string
	Status         string
	TaskDefinition string
	LaunchType     string
	Desired        int32
	Running        int32
	Pending        int32
	Deployments    []Deployment
	Events         []ServiceEvent
}

// TaskContainer is the runtime state of one container in a task.
type TaskContainer struct {
	Name       string
	Image      string
	LastStatus string
	Health     string
	ExitCode   *int32
	Reason     string
}

// Task is a running or stopped instance of a task definition.
type Task struct {
	ARN               string
	ID                string
	Family            string
	Revision          string
	TaskDefinitionARN string
	IsDesired         bool
	Status            string
	DesiredStatus     string
	Health            string
	LaunchType        string
	PlatformVersion   string
	CPU               string
	Memory            string
	AvailabilityZone  string
	StopCode          string
	StoppedReason     string
	CreatedAt         *time.Time
	StartedAt         *time.Time
	StoppedAt         *time.Time
	Containers        []TaskContainer
}

// ListClusters returns every cluster in the account/region, following
// pagination so callers never see tokens.
func (c *Client) ListClusters(ctx context.Context) ([]Cluster, error) {
	ctx, cancel := ensureTimeout(ctx, 15*time.Second)
	defer cancel()

	var clusters []Cluster
	var nextToken *string
	for {
		out, err := c.ECS.ListClusters(ctx, &ecs.ListClustersInput{NextToken: nextToken})
		if err != nil {
			return nil, fetchErr("clusters", "", err)
		}
		if len(out.ClusterArns) > 0 {
			desc, err := c.ECS.DescribeClusters(ctx, &ecs.DescribeClustersInput{
				Clusters: out.ClusterArns,
			})
			if err != nil {
				return nil, fetchErr("clusters", "", err)
			}
			for _, cl := range desc.Clusters {
				clusters = append(clusters, Cluster{
					Name:           getString(cl.ClusterName),
					ARN:            getString(cl.ClusterArn),
					Status:         getString(cl.Status),
					RunningTasks:   cl.RunningTasksCount,
					PendingTasks:   cl.PendingTasksCount,
					ActiveServices: cl.ActiveServicesCount,
				})
			}
		}
		if out.NextToken == nil {
			return clusters, nil
		}
		nextToken = out.NextToken
	}
}

// ListServices returns the cluster's services with counts, deployments and
// recent events. A cluster without services yields an empty slice.
func (c *Client) ListServices(ctx context.Context, clusterName string) ([]Service, error) {
	ctx, cancel := ensureTimeout(ctx, 20*time.Second)
	defer cancel()

	var serviceARNs []string
	var nextToken *string
	for {
		out, err := c.ECS.ListServices(ctx, &ecs.ListServicesInput{
			Cluster:   &clusterName,
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fetchErr("services", clusterName, err)
		}
		serviceARNs = append(serviceARNs, out.ServiceArns...)
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	var services []Service
	for _, batch := range batchStrings(serviceARNs, describeServicesBatchSize) {
		desc, err := c.ECS.DescribeServices(ctx, &ecs.DescribeServicesInput{
			Cluster:  &clusterName,
			Services: batch,
		})
		if err != nil {
			return nil, fetchErr("services", clusterName, err)
		}
		for _, svc := range desc.Services {
			services = append(services, newService(svc))
		}
	}
	return services, nil
}

func newService(svc types.Service) Service {
	s := Service{
		Name:           getString(svc.ServiceName),
		ARN:            getString(svc.ServiceArn),
		Status:         getString(svc.Status),
		TaskDefinition: getString(svc.TaskDefinition),
		LaunchType:     string(svc.LaunchType),
		Desired:        svc.DesiredCount,
		Running:        svc.RunningCount,
		Pending:        svc.PendingCount,
	}
	for _, dep := range svc.Deployments {
		s.Deployments = append(s.Deployments, Deployment{
			Status:    getString(dep.Status),
			Desired:   dep.DesiredCount,
			Running:   dep.RunningCount,
			Pending:   dep.PendingCount,
			CreatedAt: dep.CreatedAt,
		})
	}
	for _, ev := range svc.Events {
		s.Events = append(s.Events, ServiceEvent{
			ID:        getString(ev.Id),
			CreatedAt: ev.CreatedAt,
			Message:   getString(ev.Message),
		})
	}
	return s
}

// GetServiceEvents returns the recent event log of a single service.
func (c *Client) GetServiceEvents(ctx context.Context, clusterName, serviceName string) ([]ServiceEvent, error) {
	ctx, cancel := ensureTimeout(ctx, 15*time.Second)
	defer cancel()

	desc, err := c.ECS.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  &clusterName,
		Services: []string{serviceName},
	})
	if err != nil {
		return nil, fetchErr("service events", serviceName, err)
	}
	if len(desc.Services) == 0 {
		return nil, nil
	}
	var out []ServiceEvent
	for _, ev := range desc.Services[0].Events {
		out = append(out, ServiceEvent{
			ID:        getString(ev.Id),
			CreatedAt: ev.CreatedAt,
			Message:   getString(ev.Message),
		})
	}
	return out, nil
}

// ListTasks returns the running tasks of a service, each marked with
// whether its task definition revision matches the one the service wants.
func (c *Client) ListTasks(ctx context.Context, clusterName, serviceName string) ([]Task, error) {
	ctx, cancel := ensureTimeout(ctx, 20*time.Second)
	defer cancel()

	desiredARN, err := c.desiredTaskDefinitionARN(ctx, clusterName, serviceName)
	if err != nil {
		return nil, err
	}

	taskARNs, err := c.listTaskARNs(ctx, clusterName, serviceName, "")
	if err != nil {
		return nil, err
	}

	return c.describeTasks(ctx, clusterName, serviceName, taskARNs, desiredARN)
}

// TaskHistory returns running plus recently stopped tasks so failures can be
// reviewed after the fact.
func (c *Client) TaskHistory(ctx context.Context, clusterName, serviceName string) ([]Task, error) {
	ctx, cancel := ensureTimeout(ctx, 20*time.Second)
	defer cancel()

	desiredARN, err := c.desiredTaskDefinitionARN(ctx, clusterName, serviceName)
	if err != nil {
		return nil, err
	}

	var taskARNs []string
	for _, status := range []types.DesiredStatus{types.DesiredStatusRunning, types.DesiredStatusStopped} {
		arns, err := c.listTaskARNs(ctx, clusterName, serviceName, status)
		if err != nil {
			return nil, err
		}
		taskARNs = append(taskARNs, arns...)
	}

	return c.describeTasks(ctx, clusterName, serviceName, taskARNs, desiredARN)
}

// GetTask describes a single task by ARN.
func (c *Client) GetTask(ctx context.Context, clusterName, taskARN, desiredARN string) (*Task, error) {
	ctx, cancel := ensureTimeout(ctx, 15*time.Second)
	defer cancel()

	tasks, err := c.describeTasks(ctx, clusterName, taskARN, []string{taskARN}, desiredARN)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, fetchErr("task", taskARN, errNotFound)
	}
	return &tasks[0], nil
}

// ForceNewDeployment asks ECS to restart the service's tasks with the
// current task definition. This is the only mutating call in the tool.
func (c *Client) ForceNewDeployment(ctx context.Context, clusterName, serviceName string) error {
	ctx, cancel := ensureTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := c.ECS.UpdateService(ctx, &ecs.UpdateServiceInput{
		Cluster:            &clusterName,
		Service:            &serviceName,
		ForceNewDeployment: true,
	})
	if err != nil {
		return fetchErr("deployment", serviceName, err)
	}
	return nil
}

func (c *Client) desiredTaskDefinitionARN(ctx context.Context, clusterName, serviceName string) (string, error) {
	desc, err := c.ECS.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  &clusterName,
		Services: []string{serviceName},
	})
	if err != nil {
		return "", fetchErr("service", serviceName, err)
	}
	if len(desc.Services) == 0 {
		return "", nil
	}
	return getString(desc.Services[0].TaskDefinition), nil
}

func (c *Client) listTaskARNs(ctx context.Context, clusterName, serviceName string, desiredStatus types.DesiredStatus) ([]string, error) {
	var arns []string
	var nextToken *string
	for {
		in := &ecs.ListTasksInput{
			Cluster:     &clusterName,
			ServiceName: &serviceName,
			NextToken:   nextToken,
		}
		if desiredStatus != "" {
			in.DesiredStatus = desiredStatus
		}
		out, err := c.ECS.ListTasks(ctx, in)
		if err != nil {
			return nil, fetchErr("tasks", serviceName, err)
		}
		arns = append(arns, out.TaskArns...)
		if out.NextToken == nil {
			return arns, nil
		}
		nextToken = out.NextToken
	}
}

func (c *Client) describeTasks(ctx context.Context, clusterName, parentID string, taskARNs []string, desiredARN string) ([]Task, error) {
	var tasks []Task
	for _, batch := range batchStrings(taskARNs, describeTasksBatchSize) {
		desc, err := c.ECS.DescribeTasks(ctx, &ecs.DescribeTasksInput{
			Cluster: &clusterName,
			Tasks:   batch,
		})
		if err != nil {
			return nil, fetchErr("tasks", parentID, err)
		}
		for _, t := range desc.Tasks {
			tasks = append(tasks, newTask(t, desiredARN))
		}
	}
	return tasks, nil
}

func newTask(t types.Task, desiredARN string) Task {
	arn := getString(t.TaskArn)
	defARN := getString(t.TaskDefinitionArn)
	family, revision := ParseFamilyRevision(defARN)

	task := Task{
		ARN:               arn,
		ID:                ExtractNameFromARN(arn),
		Family:            family,
		Revision:          revision,
		TaskDefinitionARN: defARN,
		IsDesired:         desiredARN != "" && defARN == desiredARN,
		Status:            getString(t.LastStatus),
		DesiredStatus:     getString(t.DesiredStatus),
		Health:            string(t.HealthStatus),
		LaunchType:        string(t.LaunchType),
		PlatformVersion:   getString(t.PlatformVersion),
		CPU:               getString(t.Cpu),
		Memory:            getString(t.Memory),
		AvailabilityZone:  getString(t.AvailabilityZone),
		StopCode:          string(t.StopCode),
		StoppedReason:     getString(t.StoppedReason),
		CreatedAt:         t.CreatedAt,
		StartedAt:         t.StartedAt,
		StoppedAt:         t.StoppedAt,
	}
	for _, ctn := range t.Containers {
		task.Containers = append(task.Containers, TaskContainer{
			Name:       getString(ctn.Name),
			Image:      getString(ctn.Image),
			LastStatus: getString(ctn.LastStatus),
			Health:     string(ctn.HealthStatus),
			ExitCode:   ctn.ExitCode,
			Reason:     getString(ctn.Reason),
		})
	}
	return task
}

// ExtractNameFromARN returns the final path segment of an ARN, which for
// ECS resources is the name or ID.
func ExtractNameFromARN(arn string) string {
	parts := strings.Split(arn, "/")
	return parts[len(parts)-1]
}

// ShortTaskID trims a task ID for list display.
func ShortTaskID(taskARN string) string {
	id := ExtractNameFromARN(taskARN)
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ParseFamilyRevision splits a task definition ARN into family and revision.
func ParseFamilyRevision(taskDefARN string) (family, revision string) {
	name := ExtractNameFromARN(taskDefARN)
	if i := strings.LastIndex(name, ":"); i >= 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

func batchStrings(items []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}

func ensureTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
