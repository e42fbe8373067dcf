package aws

import (
	"fmt"
	"sort"
	"strings"
)

// Change is one difference between two task definition revisions.
type Change struct {
	Kind      string
	Container string
	Detail    string
}

// CompareTaskDefinitions diffs two normalized revisions. Containers are
// matched by name; containers present in only one revision are ignored, as
// the interesting changes are to containers that persist across revisions.
func CompareTaskDefinitions(source, target TaskDefinition) []Change {
	var changes []Change

	if source.CPU != target.CPU {
		changes = append(changes, Change{Kind: "task_cpu_changed", Detail: fmt.Sprintf("%s -> %s", source.CPU, target.CPU)})
	}
	if source.Memory != target.Memory {
		changes = append(changes, Change{Kind: "task_memory_changed", Detail: fmt.Sprintf("%s -> %s", source.Memory, target.Memory)})
	}

	targetByName := make(map[string]ContainerSpec, len(target.Containers))
	for _, c := range target.Containers {
		targetByName[c.Name] = c
	}
	for _, src := range source.Containers {
		tgt, ok := targetByName[src.Name]
		if !ok {
			continue
		}
		changes = append(changes, compareContainers(src, tgt)...)
	}
	return changes
}

func compareContainers(src, tgt ContainerSpec) []Change {
	var changes []Change
	add := func(kind, detail string) {
		changes = append(changes, Change{Kind: kind, Container: src.Name, Detail: detail})
	}

	if src.Image != tgt.Image {
		add("image_changed", fmt.Sprintf("%s -> %s", src.Image, tgt.Image))
	}
	if src.CPU != tgt.CPU {
		add("container_cpu_changed", fmt.Sprintf("%d -> %d", src.CPU, tgt.CPU))
	}
	if src.Memory != tgt.Memory {
		add("container_memory_changed", fmt.Sprintf("%d -> %d", src.Memory, tgt.Memory))
	}

	changes = append(changes, compareStringMaps(src.Name, "env", src.Environment, tgt.Environment)...)
	changes = append(changes, compareStringMaps(src.Name, "secret", src.Secrets, tgt.Secrets)...)

	if !equalPorts(src.Ports, tgt.Ports) {
		add("ports_changed", fmt.Sprintf("%v -> %v", src.Ports, tgt.Ports))
	}
	if !equalStrings(src.Command, tgt.Command) {
		add("command_changed", fmt.Sprintf("%v -> %v", src.Command, tgt.Command))
	}
	if !equalStrings(src.EntryPoint, tgt.EntryPoint) {
		add("entrypoint_changed", fmt.Sprintf("%v -> %v", src.EntryPoint, tgt.EntryPoint))
	}
	if !equalMounts(src.Mounts, tgt.Mounts) {
		add("volumes_changed", fmt.Sprintf("%v -> %v", src.Mounts, tgt.Mounts))
	}
	return changes
}

func compareStringMaps(container, prefix string, src, tgt map[string]string) []Change {
	var changes []Change
	for _, key := range sortedKeys(src) {
		tgtVal, ok := tgt[key]
		if !ok {
			changes = append(changes, Change{
				Kind: prefix + "_removed", Container: container, Detail: key,
			})
		} else if tgtVal != src[key] {
			changes = append(changes, Change{
				Kind: prefix + "_changed", Container: container,
				Detail: fmt.Sprintf("%s: %s -> %s", key, src[key], tgtVal),
			})
		}
	}
	for _, key := range sortedKeys(tgt) {
		if _, ok := src[key]; !ok {
			changes = append(changes, Change{
				Kind: prefix + "_added", Container: container, Detail: key,
			})
		}
	}
	return changes
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalPorts(a, b []PortMapping) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalMounts(a, b []VolumeMount) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FormatChange renders a change for display.
func FormatChange(ch Change) string {
	var b strings.Builder
	b.WriteString(ch.Kind)
	if ch.Container != "" {
		b.WriteString(" [")
		b.WriteString(ch.Container)
		b.WriteString("]")
	}
	if ch.Detail != "" {
		b.WriteString(": ")
		b.WriteString(ch.Detail)
	}
	return b.String()
}
