package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	cli "github.com/jawher/mow.cli"

	"github.com/vertti/lazy-ecs/internal/aws"
	"github.com/vertti/lazy-ecs/internal/config"
	"github.com/vertti/lazy-ecs/internal/events"
	"github.com/vertti/lazy-ecs/internal/nav"
	uiClusters "github.com/vertti/lazy-ecs/internal/ui/clusters"
	uiContainers "github.com/vertti/lazy-ecs/internal/ui/containers"
	uiServices "github.com/vertti/lazy-ecs/internal/ui/services"
	uiShared "github.com/vertti/lazy-ecs/internal/ui/shared"
	uiTasks "github.com/vertti/lazy-ecs/internal/ui/tasks"
)

// serviceView selects what the service actions screen shows.
type serviceView int

const (
	serviceViewMenu serviceView = iota
	serviceViewEvents
	serviceViewMetrics
	serviceViewConfirm
)

// taskView selects what the task detail screen shows.
type taskView int

const (
	taskViewDetail taskView = iota
	taskViewDiff
)

// containerView selects what the container detail screen shows.
type containerView int

const (
	containerViewSpec containerView = iota
	containerViewLogs
)

type model struct {
	client *aws.Client
	cfg    *config.Config
	nav    *nav.Stack

	width  int
	height int

	loading       bool
	spin          spinner.Model
	err           error
	statusMessage string

	clusters uiClusters.State

	services    uiServices.State
	serviceVw   serviceView
	actionIndex int
	svcEvents   []events.Record
	svcMetrics  *aws.ServiceMetrics
	confirm     textinput.Model

	tasks       uiTasks.State
	taskVw      taskView
	currentTask *aws.Task
	taskDef     *aws.TaskDefinition
	diffSource  string
	diffTarget  string
	diffChanges []aws.Change

	containers    uiContainers.State
	containerVw   containerView
	logLines      []aws.LogLine
	logFilter     textinput.Model
	appliedFilter string
	filteringLogs bool
}

type clustersLoadedMsg struct {
	clusters []aws.Cluster
	err      error
}

type servicesLoadedMsg struct {
	cluster  string
	services []aws.Service
	auto     bool
	err      error
}

type tasksLoadedMsg struct {
	cluster string
	service string
	tasks   []aws.Task
	history bool
	auto    bool
	err     error
}

type taskDefinitionLoadedMsg struct {
	def *aws.TaskDefinition
	err error
}

type taskReloadedMsg struct {
	task *aws.Task
	err  error
}

type serviceEventsLoadedMsg struct {
	service string
	events  []aws.ServiceEvent
	err     error
}

type serviceMetricsLoadedMsg struct {
	service string
	metrics *aws.ServiceMetrics
	err     error
}

type logsLoadedMsg struct {
	container string
	filter    string
	lines     []aws.LogLine
	err       error
}

type deploymentStartedMsg struct {
	service string
	err     error
}

type revisionDiffLoadedMsg struct {
	source  string
	target  string
	changes []aws.Change
	err     error
}

type consoleOpenedMsg struct {
	err error
}

func initialModel(client *aws.Client, cfg *config.Config) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))

	confirm := textinput.New()
	confirm.Placeholder = "service name"
	confirm.CharLimit = 255

	filter := textinput.New()
	filter.Placeholder = "filter pattern"
	filter.CharLimit = 255

	return model{
		client:    client,
		cfg:       cfg,
		nav:       nav.NewStack(nav.Clusters),
		spin:      sp,
		confirm:   confirm,
		logFilter: filter,
		loading:   true,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadClusters)
}

func (m model) loadClusters() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	clusters, err := m.client.ListClusters(ctx)
	return clustersLoadedMsg{clusters: clusters, err: err}
}

func (m model) loadServices(clusterName string, auto bool) tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	services, err := m.client.ListServices(ctx, clusterName)
	return servicesLoadedMsg{cluster: clusterName, services: services, auto: auto, err: err}
}

func (m model) loadTasks(clusterName, serviceName string, history, auto bool) tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	var tasks []aws.Task
	var err error
	if history {
		tasks, err = m.client.TaskHistory(ctx, clusterName, serviceName)
	} else {
		tasks, err = m.client.ListTasks(ctx, clusterName, serviceName)
	}
	return tasksLoadedMsg{cluster: clusterName, service: serviceName, tasks: tasks, history: history, auto: auto, err: err}
}

func (m model) loadTaskDefinition(taskDefARN string) tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	def, err := m.client.GetTaskDefinition(ctx, taskDefARN)
	return taskDefinitionLoadedMsg{def: def, err: err}
}

func (m model) reloadTask(clusterName string, task aws.Task, desiredARN string) tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	fresh, err := m.client.GetTask(ctx, clusterName, task.ARN, desiredARN)
	return taskReloadedMsg{task: fresh, err: err}
}

func (m model) loadServiceEvents(clusterName, serviceName string) tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	evts, err := m.client.GetServiceEvents(ctx, clusterName, serviceName)
	return serviceEventsLoadedMsg{service: serviceName, events: evts, err: err}
}

func (m model) loadServiceMetrics(clusterName, serviceName string) tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	metrics, err := m.client.GetServiceMetrics(ctx, clusterName, serviceName, time.Hour)
	return serviceMetricsLoadedMsg{service: serviceName, metrics: metrics, err: err}
}

func (m model) loadLogs(containerName string, cfg aws.LogConfig, filter string) tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	var lines []aws.LogLine
	var err error
	if filter != "" {
		lines, err = m.client.FilterLogLines(ctx, cfg, filter, 50)
	} else {
		lines, err = m.client.GetLogLines(ctx, cfg, 50)
	}
	return logsLoadedMsg{container: containerName, filter: filter, lines: lines, err: err}
}

func (m model) forceDeployment(clusterName, serviceName string) tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	err := m.client.ForceNewDeployment(ctx, clusterName, serviceName)
	return deploymentStartedMsg{service: serviceName, err: err}
}

// loadRevisionDiff compares a task's revision against the next older one in
// the same family.
func (m model) loadRevisionDiff(task aws.Task) tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	revisions, err := m.client.ListTaskDefinitionRevisions(ctx, task.Family, 20)
	if err != nil {
		return revisionDiffLoadedMsg{err: err}
	}
	olderARN := ""
	for i, arn := range revisions {
		if arn == task.TaskDefinitionARN && i+1 < len(revisions) {
			olderARN = revisions[i+1]
			break
		}
	}
	if olderARN == "" {
		return revisionDiffLoadedMsg{source: task.Family + ":" + task.Revision}
	}

	older, err := m.client.GetTaskDefinition(ctx, olderARN)
	if err != nil {
		return revisionDiffLoadedMsg{err: err}
	}
	current, err := m.client.GetTaskDefinition(ctx, task.TaskDefinitionARN)
	if err != nil {
		return revisionDiffLoadedMsg{err: err}
	}

	return revisionDiffLoadedMsg{
		source:  older.Family + ":" + older.Revision,
		target:  current.Family + ":" + current.Revision,
		changes: aws.CompareTaskDefinitions(*older, *current),
	}
}

func openConsoleCmd(url string) tea.Cmd {
	return func() tea.Msg {
		return consoleOpenedMsg{err: aws.OpenInBrowser(url)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := m.listHeight()
		m.clusters.Viewport.Height = h
		m.services.Viewport.Height = h
		m.tasks.Viewport.Height = h
		m.containers.Viewport.Height = h
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case clustersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.clusters.Clusters = msg.clusters
		if m.clusters.Selected >= len(msg.clusters) {
			m.clusters.Selected = 0
		}
		if nav.AutoSelect(len(msg.clusters)) {
			cluster := msg.clusters[0]
			m.statusMessage = fmt.Sprintf("Auto-selected cluster %s (only one found)", cluster.Name)
			return m.descendToServices(cluster.Name, true)
		}
		return m, nil

	case servicesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		uiServices.SortForDisplay(msg.services)
		m.services.Cluster = msg.cluster
		m.services.Services = msg.services
		if m.services.Selected >= len(msg.services) {
			m.services.Selected = 0
		}
		if !msg.auto && nav.AutoSelect(len(msg.services)) {
			svc := msg.services[0]
			m.statusMessage = fmt.Sprintf("Auto-selected service %s (only one found)", svc.Name)
			return m.descendToTasks(svc.Name, true)
		}
		return m, nil

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.history {
			uiTasks.SortHistory(msg.tasks)
		} else {
			uiTasks.SortForDisplay(msg.tasks)
		}
		m.tasks.Cluster = msg.cluster
		m.tasks.Service = msg.service
		m.tasks.Tasks = msg.tasks
		m.tasks.History = msg.history
		if m.tasks.Selected >= len(msg.tasks) {
			m.tasks.Selected = 0
		}
		if !msg.auto && !msg.history && nav.AutoSelect(len(msg.tasks)) {
			task := msg.tasks[0]
			m.statusMessage = fmt.Sprintf("Auto-selected task %s (only one found)", aws.ShortTaskID(task.ARN))
			return m.descendToTaskDetail(task)
		}
		return m, nil

	case taskDefinitionLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.taskDef = msg.def
		m.containers.Definition = msg.def
		return m, nil

	case taskReloadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.currentTask = msg.task
		return m, nil

	case serviceEventsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		records := make([]events.Record, 0, len(msg.events))
		for _, ev := range msg.events {
			rec := events.Record{Source: events.SourceService, Message: ev.Message}
			if ev.CreatedAt != nil {
				rec.Timestamp = *ev.CreatedAt
			}
			records = append(records, rec)
		}
		m.svcEvents = events.Aggregate(records, events.NewestFirst)
		m.serviceVw = serviceViewEvents
		return m, nil

	case serviceMetricsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.svcMetrics = msg.metrics
		m.serviceVw = serviceViewMetrics
		return m, nil

	case logsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.logLines = msg.lines
		m.appliedFilter = msg.filter
		m.containerVw = containerViewLogs
		return m, nil

	case deploymentStartedMsg:
		m.loading = false
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("Deployment failed: %v", msg.err)
			return m, nil
		}
		m.statusMessage = fmt.Sprintf("🚀 New deployment started for %s", msg.service)
		m.serviceVw = serviceViewMenu
		return m, nil

	case revisionDiffLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.target == "" {
			m.statusMessage = "No older revision to compare against"
			return m, nil
		}
		m.diffSource = msg.source
		m.diffTarget = msg.target
		m.diffChanges = msg.changes
		m.taskVw = taskViewDiff
		return m, nil

	case consoleOpenedMsg:
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("Could not open browser: %v", msg.err)
		} else {
			m.statusMessage = "Opened in AWS console"
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text entry modes capture everything except enter/esc.
	if m.serviceVw == serviceViewConfirm && m.nav.Current() == nav.ServiceActions {
		return m.handleConfirmKey(msg)
	}
	if m.filteringLogs && m.nav.Current() == nav.ContainerDetail {
		return m.handleLogFilterKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		return m.refresh()
	}

	switch m.nav.Current() {
	case nav.Clusters:
		return m.handleClustersKey(msg)
	case nav.Services:
		return m.handleServicesKey(msg)
	case nav.ServiceActions:
		return m.handleServiceActionsKey(msg)
	case nav.Tasks:
		return m.handleTasksKey(msg)
	case nav.TaskDetail:
		return m.handleTaskDetailKey(msg)
	case nav.Containers:
		return m.handleContainersKey(msg)
	case nav.ContainerDetail:
		return m.handleContainerDetailKey(msg)
	}
	return m, nil
}

func (m model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.serviceVw = serviceViewMenu
		m.confirm.Blur()
		return m, nil
	case "enter":
		svc := m.selectedService()
		if svc == nil {
			m.serviceVw = serviceViewMenu
			return m, nil
		}
		if strings.TrimSpace(m.confirm.Value()) != svc.Name {
			m.statusMessage = fmt.Sprintf("Type %q to confirm the deployment", svc.Name)
			return m, nil
		}
		m.confirm.Blur()
		m.loading = true
		cluster, name := m.services.Cluster, svc.Name
		return m, tea.Batch(m.spin.Tick, func() tea.Msg { return m.forceDeployment(cluster, name) })
	}
	var cmd tea.Cmd
	m.confirm, cmd = m.confirm.Update(msg)
	return m, cmd
}

func (m model) handleLogFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filteringLogs = false
		m.logFilter.Blur()
		return m, nil
	case "enter":
		m.filteringLogs = false
		m.logFilter.Blur()
		pattern := strings.TrimSpace(m.logFilter.Value())
		return m.fetchLogs(pattern)
	}
	var cmd tea.Cmd
	m.logFilter, cmd = m.logFilter.Update(msg)
	return m, cmd
}

func (m model) handleClustersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.clusters.Selected > 0 {
			m.clusters.Selected--
		}
	case "down", "j":
		if m.clusters.Selected < len(m.clusters.Clusters)-1 {
			m.clusters.Selected++
		}
	case "enter":
		if cl := m.selectedCluster(); cl != nil {
			return m.descendToServices(cl.Name, false)
		}
	case "o":
		if cl := m.selectedCluster(); cl != nil {
			return m, openConsoleCmd(aws.ClusterConsoleURL(m.client.Region, cl.Name))
		}
	case "esc", "backspace":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) handleServicesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.services.Selected > 0 {
			m.services.Selected--
		}
	case "down", "j":
		if m.services.Selected < len(m.services.Services)-1 {
			m.services.Selected++
		}
	case "enter":
		if svc := m.selectedService(); svc != nil {
			return m.descendToTasks(svc.Name, false)
		}
	case "a":
		if m.selectedService() != nil {
			m.nav.Push(nav.ServiceActions)
			m.serviceVw = serviceViewMenu
			m.actionIndex = 0
		}
	case "o":
		if svc := m.selectedService(); svc != nil {
			return m, openConsoleCmd(aws.ServiceConsoleURL(m.client.Region, m.services.Cluster, svc.Name))
		}
	case "esc", "backspace":
		return m.goBack()
	}
	return m, nil
}

func (m model) handleServiceActionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.serviceVw != serviceViewMenu {
		switch msg.String() {
		case "esc", "backspace", "enter":
			m.serviceVw = serviceViewMenu
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.actionIndex > 0 {
			m.actionIndex--
		}
	case "down", "j":
		if m.actionIndex < len(uiServices.Actions)-1 {
			m.actionIndex++
		}
	case "enter":
		return m.runServiceAction(uiServices.Actions[m.actionIndex])
	case "esc", "backspace":
		return m.goBack()
	}
	return m, nil
}

func (m model) runServiceAction(action uiServices.Action) (tea.Model, tea.Cmd) {
	svc := m.selectedService()
	if svc == nil {
		return m, nil
	}
	cluster, name := m.services.Cluster, svc.Name

	switch action {
	case uiServices.ActionShowEvents:
		m.loading = true
		return m, tea.Batch(m.spin.Tick, func() tea.Msg { return m.loadServiceEvents(cluster, name) })
	case uiServices.ActionShowMetrics:
		m.loading = true
		return m, tea.Batch(m.spin.Tick, func() tea.Msg { return m.loadServiceMetrics(cluster, name) })
	case uiServices.ActionOpenConsole:
		return m, openConsoleCmd(aws.ServiceConsoleURL(m.client.Region, cluster, name))
	case uiServices.ActionForceDeployment:
		m.serviceVw = serviceViewConfirm
		m.confirm.SetValue("")
		m.confirm.Focus()
		m.statusMessage = fmt.Sprintf("Type %q and press enter to force a new deployment", name)
	}
	return m, nil
}

func (m model) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.tasks.Selected > 0 {
			m.tasks.Selected--
		}
	case "down", "j":
		if m.tasks.Selected < len(m.tasks.Tasks)-1 {
			m.tasks.Selected++
		}
	case "enter":
		if task := m.selectedTask(); task != nil {
			return m.descendToTaskDetail(*task)
		}
	case "h":
		m.loading = true
		m.tasks.Selected = 0
		cluster, service, history := m.tasks.Cluster, m.tasks.Service, !m.tasks.History
		return m, tea.Batch(m.spin.Tick, func() tea.Msg { return m.loadTasks(cluster, service, history, true) })
	case "o":
		if task := m.selectedTask(); task != nil {
			return m, openConsoleCmd(aws.TaskConsoleURL(m.client.Region, m.tasks.Cluster, task.ARN))
		}
	case "esc", "backspace":
		return m.goBack()
	}
	return m, nil
}

func (m model) handleTaskDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.taskVw == taskViewDiff {
		switch msg.String() {
		case "esc", "backspace", "enter":
			m.taskVw = taskViewDetail
		}
		return m, nil
	}

	switch msg.String() {
	case "enter":
		if m.currentTask == nil {
			return m, nil
		}
		m.nav.Push(nav.Containers)
		m.containers = uiContainers.State{
			TaskID:     aws.ShortTaskID(m.currentTask.ARN),
			Containers: m.currentTask.Containers,
			Definition: m.taskDef,
			Viewport:   uiShared.Viewport{Height: m.listHeight()},
		}
		if nav.AutoSelect(len(m.currentTask.Containers)) {
			m.statusMessage = fmt.Sprintf("Auto-selected container %s (only one found)", m.currentTask.Containers[0].Name)
			m.nav.Push(nav.ContainerDetail)
			m.containerVw = containerViewSpec
		}
		return m, nil
	case "d":
		if m.currentTask == nil {
			return m, nil
		}
		m.loading = true
		task := *m.currentTask
		return m, tea.Batch(m.spin.Tick, func() tea.Msg { return m.loadRevisionDiff(task) })
	case "esc", "backspace":
		return m.goBack()
	}
	return m, nil
}

func (m model) handleContainersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.containers.Selected > 0 {
			m.containers.Selected--
		}
	case "down", "j":
		if m.containers.Selected < len(m.containers.Containers)-1 {
			m.containers.Selected++
		}
	case "enter":
		if m.selectedContainer() != nil {
			m.nav.Push(nav.ContainerDetail)
			m.containerVw = containerViewSpec
			m.logLines = nil
			m.appliedFilter = ""
		}
	case "esc", "backspace":
		return m.goBack()
	}
	return m, nil
}

func (m model) handleContainerDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "l":
		return m.fetchLogs("")
	case "f":
		m.filteringLogs = true
		m.logFilter.SetValue("")
		m.logFilter.Focus()
		return m, nil
	case "esc", "backspace":
		if m.containerVw == containerViewLogs {
			m.containerVw = containerViewSpec
			return m, nil
		}
		return m.goBack()
	}
	return m, nil
}

func (m model) fetchLogs(filter string) (tea.Model, tea.Cmd) {
	ctn := m.selectedContainer()
	if ctn == nil || m.currentTask == nil {
		return m, nil
	}
	if m.taskDef == nil {
		m.statusMessage = "Task definition not loaded yet"
		return m, nil
	}
	cfg := aws.ResolveLogConfig(m.taskDef, ctn.Name, m.currentTask.ARN)
	if cfg == nil {
		m.statusMessage = fmt.Sprintf("Container %s does not use the awslogs driver", ctn.Name)
		return m, nil
	}
	m.loading = true
	name, logCfg := ctn.Name, *cfg
	return m, tea.Batch(m.spin.Tick, func() tea.Msg { return m.loadLogs(name, logCfg, filter) })
}

func (m model) descendToServices(clusterName string, auto bool) (tea.Model, tea.Cmd) {
	m.nav.Push(nav.Services)
	m.services = uiServices.State{
		Cluster:  clusterName,
		Viewport: uiShared.Viewport{Height: m.listHeight()},
	}
	m.loading = true
	return m, tea.Batch(m.spin.Tick, func() tea.Msg { return m.loadServices(clusterName, auto) })
}

func (m model) descendToTasks(serviceName string, auto bool) (tea.Model, tea.Cmd) {
	m.nav.Push(nav.Tasks)
	m.tasks = uiTasks.State{
		Cluster:  m.services.Cluster,
		Service:  serviceName,
		Viewport: uiShared.Viewport{Height: m.listHeight()},
	}
	m.loading = true
	cluster := m.services.Cluster
	return m, tea.Batch(m.spin.Tick, func() tea.Msg { return m.loadTasks(cluster, serviceName, false, auto) })
}

func (m model) descendToTaskDetail(task aws.Task) (tea.Model, tea.Cmd) {
	m.nav.Push(nav.TaskDetail)
	m.taskVw = taskViewDetail
	t := task
	m.currentTask = &t
	m.taskDef = nil
	m.loading = true
	arn := task.TaskDefinitionARN
	return m, tea.Batch(m.spin.Tick, func() tea.Msg { return m.loadTaskDefinition(arn) })
}

// goBack ascends one navigation level. Cached parent data is reused; no
// re-fetch happens on the way up.
func (m model) goBack() (tea.Model, tea.Cmd) {
	m.err = nil
	m.statusMessage = ""
	if !m.nav.Back() {
		return m, tea.Quit
	}
	return m, nil
}

// refresh re-runs the fetch behind the current screen. Doubles as the retry
// path after a fetch failure.
func (m model) refresh() (tea.Model, tea.Cmd) {
	m.err = nil
	switch m.nav.Current() {
	case nav.Clusters:
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.loadClusters)
	case nav.Services:
		m.loading = true
		cluster := m.services.Cluster
		return m, tea.Batch(m.spin.Tick, func() tea.Msg { return m.loadServices(cluster, true) })
	case nav.Tasks:
		m.loading = true
		cluster, service, history := m.tasks.Cluster, m.tasks.Service, m.tasks.History
		return m, tea.Batch(m.spin.Tick, func() tea.Msg { return m.loadTasks(cluster, service, history, true) })
	case nav.TaskDetail:
		if m.currentTask == nil {
			return m, nil
		}
		m.loading = true
		cluster, task := m.tasks.Cluster, *m.currentTask
		desiredARN := ""
		if svc := m.selectedService(); svc != nil {
			desiredARN = svc.TaskDefinition
		}
		return m, tea.Batch(m.spin.Tick,
			func() tea.Msg { return m.reloadTask(cluster, task, desiredARN) },
			func() tea.Msg { return m.loadTaskDefinition(task.TaskDefinitionARN) })
	case nav.ContainerDetail:
		if m.containerVw == containerViewLogs {
			return m.fetchLogs(m.appliedFilter)
		}
	}
	return m, nil
}

func (m model) selectedCluster() *aws.Cluster {
	if len(m.clusters.Clusters) == 0 || m.clusters.Selected >= len(m.clusters.Clusters) {
		return nil
	}
	return &m.clusters.Clusters[m.clusters.Selected]
}

func (m model) selectedService() *aws.Service {
	if len(m.services.Services) == 0 || m.services.Selected >= len(m.services.Services) {
		return nil
	}
	return &m.services.Services[m.services.Selected]
}

func (m model) selectedTask() *aws.Task {
	if len(m.tasks.Tasks) == 0 || m.tasks.Selected >= len(m.tasks.Tasks) {
		return nil
	}
	return &m.tasks.Tasks[m.tasks.Selected]
}

func (m model) selectedContainer() *aws.TaskContainer {
	if len(m.containers.Containers) == 0 || m.containers.Selected >= len(m.containers.Containers) {
		return nil
	}
	return &m.containers.Containers[m.containers.Selected]
}

func (m model) listHeight() int {
	h := m.height - 12
	if h < 5 {
		h = 5
	}
	return h
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader() + "\n")

	contentStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)
	if m.width > 2 {
		contentStyle = contentStyle.Width(m.width - 2)
	}

	b.WriteString(contentStyle.Render(m.renderContent()) + "\n")
	b.WriteString(m.renderStatusLine())
	return b.String()
}

func (m model) renderContent() string {
	if m.loading {
		return m.spin.View() + " " + uiShared.InfoStyle.Render("Loading "+m.nav.Current().String()+"...")
	}
	if m.err != nil {
		return uiShared.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" +
			uiShared.DimStyle.Render("r retry · esc back")
	}

	switch m.nav.Current() {
	case nav.Clusters:
		return uiClusters.Render(&m.clusters)
	case nav.Services:
		return uiServices.Render(&m.services)
	case nav.ServiceActions:
		return m.renderServiceActions()
	case nav.Tasks:
		return uiTasks.Render(&m.tasks)
	case nav.TaskDetail:
		return m.renderTaskDetail()
	case nav.Containers:
		return uiContainers.Render(&m.containers)
	case nav.ContainerDetail:
		return m.renderContainerDetail()
	}
	return ""
}

func (m model) renderServiceActions() string {
	svc := m.selectedService()
	if svc == nil {
		return uiShared.DimStyle.Render("No service selected")
	}
	switch m.serviceVw {
	case serviceViewEvents:
		return uiServices.RenderEvents(svc.Name, m.svcEvents)
	case serviceViewMetrics:
		return uiServices.RenderMetrics(svc.Name, m.svcMetrics)
	case serviceViewConfirm:
		return uiShared.TitleStyle.Render(fmt.Sprintf("Force new deployment - %s", svc.Name)) + "\n\n" +
			fmt.Sprintf("This restarts every task in %s with its current task definition.\n", svc.Name) +
			fmt.Sprintf("Type the service name to confirm:\n\n%s\n\n", m.confirm.View()) +
			uiShared.DimStyle.Render("enter confirm · esc cancel")
	default:
		return uiServices.RenderActions(svc.Name, m.actionIndex)
	}
}

func (m model) renderTaskDetail() string {
	if m.currentTask == nil {
		return uiShared.DimStyle.Render("No task selected")
	}
	if m.taskVw == taskViewDiff {
		return uiContainers.RenderComparison(m.diffSource, m.diffTarget, m.diffChanges)
	}
	networkMode := ""
	if m.taskDef != nil {
		networkMode = m.taskDef.NetworkMode
	}
	return uiTasks.RenderDetail(m.currentTask, networkMode)
}

func (m model) renderContainerDetail() string {
	ctn := m.selectedContainer()
	if ctn == nil {
		return uiShared.DimStyle.Render("No container selected")
	}
	if m.filteringLogs {
		return uiShared.TitleStyle.Render(fmt.Sprintf("Filter logs - %s", ctn.Name)) + "\n\n" +
			m.logFilter.View() + "\n\n" +
			uiShared.DimStyle.Render("enter apply · esc cancel")
	}
	if m.containerVw == containerViewLogs {
		return uiContainers.RenderLogs(ctn.Name, m.logLines, m.appliedFilter)
	}
	if m.taskDef != nil {
		if spec := m.taskDef.FindContainer(ctn.Name); spec != nil {
			return uiContainers.RenderDetail(spec)
		}
	}
	return uiShared.TitleStyle.Render(fmt.Sprintf("Container - %s", ctn.Name)) + "\n\n" +
		fmt.Sprintf("Image:  %s\nStatus: %s\n", ctn.Image, ctn.LastStatus)
}

func (m model) renderHeader() string {
	left := uiShared.TitleStyle.Render("lazy-ecs")
	identity := fmt.Sprintf(" %s @ %s", m.client.AccountID, m.client.Region)
	if m.cfg.Profile != "" {
		identity += fmt.Sprintf(" (%s)", m.cfg.Profile)
	}

	line := left + uiShared.DimStyle.Render(identity)
	crumb := uiShared.DimStyle.Render(m.renderBreadcrumb())
	hints := uiShared.DimStyle.Render(m.keyHints())
	return line + "\n" + crumb + "\n" + hints
}

func (m model) renderBreadcrumb() string {
	parts := []string{"clusters"}
	if m.services.Cluster != "" && m.nav.Current() != nav.Clusters {
		parts = append(parts, m.services.Cluster)
	}
	switch m.nav.Current() {
	case nav.Services, nav.ServiceActions:
		if svc := m.selectedService(); svc != nil && m.nav.Current() == nav.ServiceActions {
			parts = append(parts, svc.Name)
		}
	case nav.Tasks:
		parts = append(parts, m.tasks.Service)
	case nav.TaskDetail, nav.Containers, nav.ContainerDetail:
		parts = append(parts, m.tasks.Service)
		if m.currentTask != nil {
			parts = append(parts, aws.ShortTaskID(m.currentTask.ARN))
		}
		if m.nav.Current() == nav.ContainerDetail {
			if ctn := m.selectedContainer(); ctn != nil {
				parts = append(parts, ctn.Name)
			}
		}
	}
	return strings.Join(parts, " > ")
}

func (m model) keyHints() string {
	switch m.nav.Current() {
	case nav.Clusters:
		return "enter select · o console · r refresh · q quit"
	case nav.Services:
		return "enter tasks · a actions · o console · r refresh · esc back · q quit"
	case nav.ServiceActions:
		return "enter run · esc back"
	case nav.Tasks:
		hint := "enter detail · h history · o console · r refresh · esc back"
		if m.tasks.History {
			hint = "enter detail · h running only · o console · r refresh · esc back"
		}
		return hint
	case nav.TaskDetail:
		return "enter containers · d diff revisions · esc back"
	case nav.Containers:
		return "enter detail · esc back"
	case nav.ContainerDetail:
		return "l logs · f filter logs · esc back"
	}
	return ""
}

func (m model) renderStatusLine() string {
	if m.statusMessage == "" {
		return ""
	}
	return uiShared.InfoStyle.Render(m.statusMessage)
}

func main() {
	app := cli.App("lazy-ecs", "Browse ECS clusters, services, tasks and containers from the terminal")
	app.Spec = "[--profile]"

	profile := app.StringOpt("p profile", "", "AWS shared config profile to use")

	app.Action = func() {
		cfg := config.Load(*profile)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		client, err := aws.NewClient(ctx, cfg.Profile, cfg.Region)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lazy-ecs: %v\n", err)
			cli.Exit(1)
		}

		p := tea.NewProgram(initialModel(client, cfg), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "lazy-ecs: %v\n", err)
			cli.Exit(1)
		}
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "lazy-ecs: %v\n", err)
		os.Exit(2)
	}
}
