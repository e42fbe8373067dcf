// Package events merges heterogeneous ECS event records (service deployment
// events, task lifecycle events, CloudWatch log lines) into a single
// chronological sequence and tags known failure signatures.
package events

import (
	"sort"
	"strings"
	"time"
)

// Source identifies where a record came from.
type Source string

const (
	SourceService Source = "service"
	SourceTask    Source = "task"
	SourceLog     Source = "log"
)

// Category tags a record whose message matches a known failure signature.
type Category string

const (
	CategoryNone      Category = ""
	CategoryOOM       Category = "oom"
	CategoryTimeout   Category = "timeout"
	CategoryImagePull Category = "image_pull"
)

// Order selects the chronological direction of an aggregated sequence.
type Order int

const (
	// OldestFirst suits narrative and log reading contexts.
	OldestFirst Order = iota
	// NewestFirst suits failure review contexts.
	NewestFirst
)

// Record is one event or log line. Timestamp may be zero when the source
// omitted it; such records sort before (OldestFirst) or after (NewestFirst)
// dated ones.
type Record struct {
	Timestamp time.Time
	Source    Source
	Message   string
	Category  Category
}

// Aggregate returns the records sorted chronologically per the requested
// order, with failure categories attached. The input slice is not modified,
// and aggregating an already aggregated sequence reproduces it.
func Aggregate(records []Record, order Order) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	for i := range out {
		if out[i].Category == CategoryNone {
			out[i].Category = ClassifyMessage(out[i].Message)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if order == NewestFirst {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// ClassifyMessage scans a message for known failure signatures. Unmatched
// messages come back untagged.
func ClassifyMessage(message string) Category {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "outofmemory") || strings.Contains(m, "oom-killed") ||
		strings.Contains(m, "out of memory"):
		return CategoryOOM
	case strings.Contains(m, "cannotpullcontainererror") || strings.Contains(m, "image pull") ||
		strings.Contains(m, "pull access denied"):
		return CategoryImagePull
	case strings.Contains(m, "timed out") || strings.Contains(m, "timeout") ||
		strings.Contains(m, "deadline exceeded"):
		return CategoryTimeout
	default:
		return CategoryNone
	}
}

// EventType buckets an ECS service event message for display.
type EventType string

const (
	EventFailure    EventType = "failure"
	EventDeployment EventType = "deployment"
	EventScaling    EventType = "scaling"
	EventOther      EventType = "other"
)

var (
	failureTerms    = []string{"failed", "error", "unhealthy", "unable"}
	deploymentTerms = []string{"deployment", "deploy", "started", "stopped", "updated", "registered", "deregistered", "targets"}
	scalingTerms    = []string{"scaling", "scale", "capacity", "desired count", "steady state", "running tasks"}
)

// CategorizeServiceEvent buckets a service event message. Failure terms win
// over deployment terms, which win over scaling terms.
func CategorizeServiceEvent(message string) EventType {
	m := strings.ToLower(message)
	if containsAny(m, failureTerms) {
		return EventFailure
	}
	if containsAny(m, deploymentTerms) {
		return EventDeployment
	}
	if containsAny(m, scalingTerms) {
		return EventScaling
	}
	return EventOther
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
