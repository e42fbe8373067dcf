package aws

import (
	"fmt"

	"github.com/skratchdot/open-golang/open"
)

// ClusterConsoleURL links to the cluster page of the AWS web console.
func ClusterConsoleURL(region, clusterName string) string {
	return fmt.Sprintf("https://%s.console.aws.amazon.com/ecs/v2/clusters/%s", region, clusterName)
}

// ServiceConsoleURL links to the service page of the AWS web console.
func ServiceConsoleURL(region, clusterName, serviceName string) string {
	return fmt.Sprintf("https://%s.console.aws.amazon.com/ecs/v2/clusters/%s/services/%s", region, clusterName, serviceName)
}

// TaskConsoleURL links to the task page of the AWS web console. Accepts a
// task ARN or a bare task ID.
func TaskConsoleURL(region, clusterName, taskARN string) string {
	return fmt.Sprintf("https://%s.console.aws.amazon.com/ecs/v2/clusters/%s/tasks/%s", region, clusterName, ExtractNameFromARN(taskARN))
}

// OpenInBrowser opens a URL with the platform default browser.
func OpenInBrowser(url string) error {
	return open.Run(url)
}
