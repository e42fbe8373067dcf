package aws

import (
	"context"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricStatistics summarizes one CloudWatch metric over the query window.
// Current is the average of the newest datapoint.
type MetricStatistics struct {
	Current float64
	Average float64
	Maximum float64
	Minimum float64
}

// ServiceMetrics holds CPU and memory utilization for an ECS service.
type ServiceMetrics struct {
	CPU    MetricStatistics
	Memory MetricStatistics
}

// GetServiceMetrics fetches AWS/ECS CPU and memory utilization for a service
// over the trailing window, in 5 minute periods. Returns nil when CloudWatch
// has no datapoints (a freshly created service, or a region without
// Container Insights for this metric).
func (c *Client) GetServiceMetrics(ctx context.Context, clusterName, serviceName string, window time.Duration) (*ServiceMetrics, error) {
	ctx, cancel := ensureTimeout(ctx, 20*time.Second)
	defer cancel()

	if window <= 0 {
		window = time.Hour
	}
	end := time.Now().UTC()
	start := end.Add(-window)

	cpu, err := c.metricStatistics(ctx, clusterName, serviceName, "CPUUtilization", start, end)
	if err != nil {
		return nil, err
	}
	memory, err := c.metricStatistics(ctx, clusterName, serviceName, "MemoryUtilization", start, end)
	if err != nil {
		return nil, err
	}
	if cpu == nil || memory == nil {
		return nil, nil
	}
	return &ServiceMetrics{CPU: *cpu, Memory: *memory}, nil
}

func (c *Client) metricStatistics(ctx context.Context, clusterName, serviceName, metricName string, start, end time.Time) (*MetricStatistics, error) {
	out, err := c.CloudWatch.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  sdkaws.String("AWS/ECS"),
		MetricName: &metricName,
		Dimensions: []cwtypes.Dimension{
			{Name: sdkaws.String("ClusterName"), Value: &clusterName},
			{Name: sdkaws.String("ServiceName"), Value: &serviceName},
		},
		StartTime: &start,
		EndTime:   &end,
		Period:    sdkaws.Int32(300),
		Statistics: []cwtypes.Statistic{
			cwtypes.StatisticAverage,
			cwtypes.StatisticMaximum,
			cwtypes.StatisticMinimum,
		},
	})
	if err != nil {
		return nil, fetchErr("metrics", serviceName, err)
	}
	return summarizeDatapoints(out.Datapoints), nil
}

func summarizeDatapoints(datapoints []cwtypes.Datapoint) *MetricStatistics {
	if len(datapoints) == 0 {
		return nil
	}

	stats := MetricStatistics{}
	var newest time.Time
	var sum float64
	var count int
	for _, dp := range datapoints {
		if dp.Average != nil {
			sum += *dp.Average
			count++
			if dp.Timestamp != nil && dp.Timestamp.After(newest) {
				newest = *dp.Timestamp
				stats.Current = *dp.Average
			}
		}
		if dp.Maximum != nil && *dp.Maximum > stats.Maximum {
			stats.Maximum = *dp.Maximum
		}
		if dp.Minimum != nil && (stats.Minimum == 0 || *dp.Minimum < stats.Minimum) {
			stats.Minimum = *dp.Minimum
		}
	}
	if count > 0 {
		stats.Average = sum / float64(count)
	}
	return &stats
}
