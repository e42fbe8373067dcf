package events

import (
	"fmt"
	"strings"
)

// ContainerExit describes how one container in a stopped task finished.
type ContainerExit struct {
	Name     string
	ExitCode *int32
	Reason   string
}

// TaskOutcome carries the stop metadata needed to explain why a task ended.
type TaskOutcome struct {
	LastStatus    string
	StopCode      string
	StoppedReason string
	Containers    []ContainerExit
}

// AnalyzeTaskFailure produces a one-line human explanation of a task's fate,
// preferring container exit codes over task-level stop codes.
func AnalyzeTaskFailure(outcome TaskOutcome) string {
	if outcome.LastStatus == "RUNNING" {
		return "✅ Task is currently running"
	}

	for _, c := range outcome.Containers {
		if c.ExitCode != nil && *c.ExitCode != 0 {
			return analyzeContainerFailure(c)
		}
	}

	return analyzeStopCode(outcome.StopCode, outcome.StoppedReason)
}

func analyzeContainerFailure(c ContainerExit) string {
	switch *c.ExitCode {
	case 137:
		if strings.Contains(c.Reason, "OutOfMemoryError") {
			return fmt.Sprintf("🔴 Container '%s' killed due to out of memory (OOM)", c.Name)
		}
		return fmt.Sprintf("⏰ Container '%s' killed after timeout (exit code 137)", c.Name)
	case 139:
		return fmt.Sprintf("💥 Container '%s' crashed with segmentation fault (exit code 139)", c.Name)
	case 143:
		return fmt.Sprintf("🛑 Container '%s' gracefully stopped (SIGTERM)", c.Name)
	case 1:
		return fmt.Sprintf("❌ Container '%s' application error (exit code 1)", c.Name)
	}
	reason := ""
	if c.Reason != "" {
		reason = " - " + c.Reason
	}
	return fmt.Sprintf("🔴 Container '%s' failed with exit code %d%s", c.Name, *c.ExitCode, reason)
}

func analyzeStopCode(stopCode, stoppedReason string) string {
	if stopCode == "" && stoppedReason == "" {
		return "✅ Task completed successfully"
	}

	switch stopCode {
	case "TaskFailedToStart":
		if strings.Contains(stoppedReason, "CannotPullContainerError") {
			return "📦 Failed to pull container image - check image exists and permissions"
		}
		if strings.Contains(stoppedReason, "ResourcesNotAvailable") {
			return "⚠️ Insufficient resources available to start task"
		}
		if stoppedReason != "" {
			return "🚫 Task failed to start - " + stoppedReason
		}
		return "🚫 Task failed to start"
	case "ServiceSchedulerInitiated":
		return "🔄 Task stopped by service scheduler (deployment/scaling)"
	case "SpotInterruption":
		return "💸 Task stopped due to spot instance interruption"
	case "UserInitiated":
		return "👤 Task manually stopped by user"
	}

	reason := ""
	if stoppedReason != "" {
		reason = " - " + stoppedReason
	}
	code := ""
	if stopCode != "" {
		code = fmt.Sprintf("(%s) ", stopCode)
	}
	return fmt.Sprintf("🔴 Task stopped %s%s", code, reason)
}
