/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package dashboard

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivewatch/hivewatch/pkg/health"
	"github.com/hivewatch/hivewatch/pkg/models"
)

type fakeTracker struct {
	shows int
	hides int
}

func (f *fakeTracker) Show() { f.shows++ }
func (f *fakeTracker) Hide() { f.hides++ }

type fakeRefresher struct {
	refreshes int
}

func (f *fakeRefresher) Refresh() { f.refreshes++ }

func newTestModel() (Model, *fakeTracker, *fakeRefresher) {
	tracker := &fakeTracker{}
	sched := &fakeRefresher{}

	return NewModel(tracker, sched), tracker, sched
}

func TestModel_InitShowsRegion(t *testing.T) {
	m, tracker, _ := newTestModel()

	cmd := m.Init()
	require.NotNil(t, cmd)

	// Executing the batched commands triggers the initial Show.
	drainCmd(cmd)
	assert.Equal(t, 1, tracker.shows)
}

func TestModel_FocusTransitions(t *testing.T) {
	m, tracker, _ := newTestModel()

	updated, _ := m.Update(tea.FocusMsg{})
	m = updated.(Model)
	assert.Equal(t, 1, tracker.shows)

	updated, _ = m.Update(tea.BlurMsg{})
	m = updated.(Model)
	assert.Equal(t, 1, tracker.hides)

	_, _ = m.Update(tea.FocusMsg{})
	assert.Equal(t, 2, tracker.shows)
}

func TestModel_RefreshKeyRequestsProbe(t *testing.T) {
	m, _, sched := newTestModel()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(Model)

	assert.Equal(t, 1, sched.refreshes)
	assert.True(t, m.fetching)
}

func TestModel_QuitKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		m, _, _ := newTestModel()

		_, cmd := m.Update(k)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestModel_HealthMsgUpdatesViewAndTimestamp(t *testing.T) {
	m, _, _ := newTestModel()

	at := time.Date(2025, 6, 1, 9, 41, 0, 0, time.UTC)
	updated, _ := m.Update(healthMsg{view: sampleView(), at: at})
	m = updated.(Model)

	assert.False(t, m.fetching)
	assert.True(t, m.seeded)
	assert.Equal(t, "09:41:00", m.lastUpdated)

	out := m.View()
	assert.Contains(t, out, "09:41:00")
	assert.Contains(t, out, "Ollama Chat")
}

func TestModel_FailedProbeStillStampsTime(t *testing.T) {
	m, _, _ := newTestModel()

	at := time.Date(2025, 6, 1, 9, 41, 0, 0, time.UTC)
	updated, _ := m.Update(healthMsg{
		view: health.View{Error: "Unable to connect to health service. timeout"},
		at:   at,
	})
	m = updated.(Model)

	out := m.View()
	assert.Contains(t, out, "09:41:00")
	assert.Contains(t, out, "Unable to connect to health service. timeout")
}

func TestModel_ViewBeforeFirstResult(t *testing.T) {
	m, _, _ := newTestModel()

	out := m.View()
	assert.Contains(t, out, "checking service health")
	assert.NotContains(t, out, "updated")
}

func TestModel_ViewShowsKeyHelp(t *testing.T) {
	m, _, _ := newTestModel()

	out := m.View()
	assert.Contains(t, out, "refresh")
	assert.Contains(t, out, "quit")
}

func TestModel_SuccessiveResultsReplaceOutput(t *testing.T) {
	m, _, _ := newTestModel()

	at := time.Date(2025, 6, 1, 9, 41, 0, 0, time.UTC)
	updated, _ := m.Update(healthMsg{view: sampleView(), at: at})
	m = updated.(Model)

	// The second cycle drops a service; the old row must not linger.
	next := health.View{Services: []health.ServiceView{
		{Name: "ollama_chat", DisplayName: "Ollama Chat", Healthy: true},
	}}
	updated, _ = m.Update(healthMsg{view: next, at: at.Add(time.Minute)})
	m = updated.(Model)

	out := m.View()
	assert.Contains(t, out, "Ollama Chat")
	assert.NotContains(t, out, "Surrealdb")
	assert.Contains(t, out, "09:42:00")
}

func TestConfig_ValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, defaultHealthURL, cfg.HealthURL)
	assert.Equal(t, models.Duration(defaultPollInterval), cfg.PollInterval)
	assert.Equal(t, models.Duration(defaultFetchTimeout), cfg.FetchTimeout)
	assert.NotNil(t, cfg.Logging)
}

func TestConfig_ValidateKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		HealthURL:    "http://hub:9000",
		PollInterval: models.Duration(5 * time.Second),
	}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://hub:9000", cfg.HealthURL)
	assert.Equal(t, models.Duration(5*time.Second), cfg.PollInterval)
}

// drainCmd executes a command tree, following batches, discarding messages.
func drainCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}

	msg := cmd()

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			drainCmd(c)
		}
	}
}
