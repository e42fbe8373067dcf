package main

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/lazy-ecs/internal/aws"
	"github.com/vertti/lazy-ecs/internal/config"
	"github.com/vertti/lazy-ecs/internal/nav"
)

func testModel() model {
	return initialModel(&aws.Client{Region: "eu-west-1", AccountID: "123456789012"}, &config.Config{})
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func TestClustersLoadedSingleClusterDescends(t *testing.T) {
	m := testModel()

	updated, cmd := m.Update(clustersLoadedMsg{clusters: []aws.Cluster{{Name: "only"}}})
	m = updated.(model)

	assert.Equal(t, nav.Services, m.nav.Current())
	assert.Contains(t, m.statusMessage, "Auto-selected cluster only")
	assert.NotNil(t, cmd, "descent schedules the services fetch")
}

func TestServicesLoadedAutoFetchDoesNotChain(t *testing.T) {
	m := testModel()
	m.nav.Push(nav.Services)

	updated, _ := m.Update(servicesLoadedMsg{cluster: "demo", services: []aws.Service{{Name: "web"}}, auto: true})
	m = updated.(model)

	assert.Equal(t, nav.Services, m.nav.Current(), "one auto-descent per fetch chain")
	require.Len(t, m.services.Services, 1)
}

func TestServicesLoadedManualFetchAutoSelectsSingle(t *testing.T) {
	m := testModel()
	m.nav.Push(nav.Services)

	updated, cmd := m.Update(servicesLoadedMsg{cluster: "demo", services: []aws.Service{{Name: "web"}}})
	m = updated.(model)

	assert.Equal(t, nav.Tasks, m.nav.Current())
	assert.Contains(t, m.statusMessage, "Auto-selected service web")
	assert.NotNil(t, cmd)
}

func TestFetchFailureStaysOnScreen(t *testing.T) {
	m := testModel()
	m.nav.Push(nav.Services)
	m.nav.Push(nav.Tasks)

	updated, _ := m.Update(tasksLoadedMsg{err: errors.New("throttled")})
	m = updated.(model)

	assert.Equal(t, nav.Tasks, m.nav.Current(), "failures never move the user")
	assert.Error(t, m.err)

	updated, _ = m.Update(keyMsg("esc"))
	m = updated.(model)
	assert.Equal(t, nav.Services, m.nav.Current(), "back stays available after a failure")
	assert.NoError(t, m.err)
}

func TestRetryRerunsCurrentFetch(t *testing.T) {
	m := testModel()
	m.nav.Push(nav.Services)
	m.services.Cluster = "demo"
	m.err = errors.New("throttled")

	updated, cmd := m.Update(keyMsg("r"))
	m = updated.(model)

	assert.True(t, m.loading)
	assert.NoError(t, m.err)
	assert.NotNil(t, cmd)
}

func TestBackAtRootQuits(t *testing.T) {
	m := testModel()

	_, cmd := m.Update(keyMsg("esc"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestHistoryToggleDoesNotAutoDescend(t *testing.T) {
	m := testModel()
	m.nav.Push(nav.Services)
	m.nav.Push(nav.Tasks)

	updated, _ := m.Update(tasksLoadedMsg{cluster: "demo", service: "web", history: true, tasks: []aws.Task{{ID: "only"}}})
	m = updated.(model)

	assert.Equal(t, nav.Tasks, m.nav.Current())
	assert.True(t, m.tasks.History)
}

func TestForceDeploymentRequiresTypedName(t *testing.T) {
	m := testModel()
	m.loading = false
	m.nav.Push(nav.Services)
	m.nav.Push(nav.ServiceActions)
	m.services.Cluster = "demo"
	m.services.Services = []aws.Service{{Name: "web"}}
	m.serviceVw = serviceViewConfirm
	m.confirm.SetValue("wrong-name")

	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(model)

	assert.Nil(t, cmd, "mismatched confirmation must not deploy")
	assert.False(t, m.loading)
	assert.Contains(t, m.statusMessage, `"web"`)
}
