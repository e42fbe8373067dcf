package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// LogConfig identifies the CloudWatch stream a container writes to.
type LogConfig struct {
	Group  string
	Stream string
}

// LogLine is a single CloudWatch log event.
type LogLine struct {
	Timestamp time.Time
	Message   string
}

// BuildLogStreamName composes the awslogs stream name the ECS agent uses:
// prefix/container/task-id.
func BuildLogStreamName(streamPrefix, containerName, taskID string) string {
	return fmt.Sprintf("%s/%s/%s", streamPrefix, containerName, taskID)
}

// ResolveLogConfig derives the log group and stream for a container from its
// task definition. Returns nil when the container does not use the awslogs
// driver.
func ResolveLogConfig(td *TaskDefinition, containerName, taskARN string) *LogConfig {
	spec := td.FindContainer(containerName)
	if spec == nil || spec.LogGroup == "" {
		return nil
	}
	return &LogConfig{
		Group:  spec.LogGroup,
		Stream: BuildLogStreamName(spec.LogStreamPrefix, containerName, ExtractNameFromARN(taskARN)),
	}
}

// GetLogLines fetches the last limit log events of a stream, oldest first.
// When the expected stream does not exist (the task may have rotated), it
// falls back to the stream with the most recent activity in the group.
func (c *Client) GetLogLines(ctx context.Context, cfg LogConfig, limit int32) ([]LogLine, error) {
	ctx, cancel := ensureTimeout(ctx, 20*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}

	lines, err := c.getLogEvents(ctx, cfg.Group, cfg.Stream, limit)
	if err != nil {
		recent, derr := c.mostRecentLogStream(ctx, cfg.Group)
		if derr != nil {
			return nil, fetchErr("logs", cfg.Group+"/"+cfg.Stream, err)
		}
		lines, err = c.getLogEvents(ctx, cfg.Group, recent, limit)
		if err != nil {
			return nil, fetchErr("logs", cfg.Group+"/"+recent, err)
		}
	}
	return lines, nil
}

// FilterLogLines fetches up to limit log events matching a CloudWatch filter
// pattern.
func (c *Client) FilterLogLines(ctx context.Context, cfg LogConfig, pattern string, limit int32) ([]LogLine, error) {
	ctx, cancel := ensureTimeout(ctx, 20*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}

	out, err := c.Logs.FilterLogEvents(ctx, &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName:   &cfg.Group,
		LogStreamNames: []string{cfg.Stream},
		FilterPattern:  &pattern,
		Limit:          &limit,
	})
	if err != nil {
		return nil, fetchErr("logs", cfg.Group+"/"+cfg.Stream, err)
	}

	var lines []LogLine
	for _, ev := range out.Events {
		if ev.Timestamp == nil || ev.Message == nil {
			continue
		}
		lines = append(lines, LogLine{Timestamp: time.UnixMilli(*ev.Timestamp), Message: *ev.Message})
	}
	return lines, nil
}

func (c *Client) getLogEvents(ctx context.Context, group, stream string, limit int32) ([]LogLine, error) {
	out, err := c.Logs.GetLogEvents(ctx, &cloudwatchlogs.GetLogEventsInput{
		LogGroupName:  &group,
		LogStreamName: &stream,
		Limit:         &limit,
		StartFromHead: sdkaws.Bool(false),
	})
	if err != nil {
		return nil, err
	}

	var lines []LogLine
	for _, ev := range out.Events {
		if ev.Timestamp == nil || ev.Message == nil {
			continue
		}
		lines = append(lines, LogLine{Timestamp: time.UnixMilli(*ev.Timestamp), Message: *ev.Message})
	}
	return lines, nil
}

func (c *Client) mostRecentLogStream(ctx context.Context, group string) (string, error) {
	out, err := c.Logs.DescribeLogStreams(ctx, &cloudwatchlogs.DescribeLogStreamsInput{
		LogGroupName: &group,
		OrderBy:      logtypes.OrderByLastEventTime,
		Descending:   sdkaws.Bool(true),
		Limit:        sdkaws.Int32(5),
	})
	if err != nil {
		return "", err
	}
	if len(out.LogStreams) == 0 || out.LogStreams[0].LogStreamName == nil {
		return "", errNotFound
	}
	return *out.LogStreams[0].LogStreamName, nil
}
