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

// Package dashboard renders hub service health in the terminal and wires
// visibility, manual refresh, and the poll scheduler together.
package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hivewatch/hivewatch/pkg/health"
	"github.com/hivewatch/hivewatch/pkg/logger"
	"github.com/hivewatch/hivewatch/pkg/poller"
	"github.com/hivewatch/hivewatch/pkg/visibility"
)

// timestampFormat is the wall-clock form shown in the header.
const timestampFormat = "15:04:05"

// healthMsg delivers one poll cycle's result to the program.
type healthMsg struct {
	view health.View
	at   time.Time
}

// refresher is the slice of the scheduler the model needs.
type refresher interface {
	Refresh()
}

// visibilityControl is the slice of the tracker the model needs.
type visibilityControl interface {
	Show()
	Hide()
}

type keyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Refresh, k.Quit}}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model is the bubbletea model for the health dashboard. All state mutation
// happens in Update; View is a pure projection of the model.
type Model struct {
	tracker visibilityControl
	sched   refresher

	spin spinner.Model
	help help.Model
	keys keyMap
	st   styles

	view        health.View
	lastUpdated string
	fetching    bool
	seeded      bool
}

// NewModel creates the dashboard model. The tracker receives terminal
// focus transitions; the scheduler receives manual refresh requests.
func NewModel(tracker visibilityControl, sched refresher) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaPurple))

	return Model{
		tracker:  tracker,
		sched:    sched,
		spin:     sp,
		help:     help.New(),
		keys:     defaultKeyMap(),
		st:       newStyles(),
		fetching: true,
	}
}

// Init reports the region as visible; the scheduler reacts with an
// immediate probe and an armed timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg {
			m.tracker.Show()

			return nil
		},
	)
}

// Update handles focus transitions, key presses, and probe results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.FocusMsg:
		m.tracker.Show()

		return m, nil
	case tea.BlurMsg:
		m.tracker.Hide()

		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.fetching = true
			m.sched.Refresh()
		}

		return m, nil
	case healthMsg:
		// Failures update the timestamp too: the header always reflects
		// the most recent attempt, not the most recent success.
		m.view = msg.view
		m.lastUpdated = msg.at.Format(timestampFormat)
		m.fetching = false
		m.seeded = true

		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)

		return m, cmd
	default:
		return m, nil
	}
}

// View renders the whole display from scratch on every call.
func (m Model) View() string {
	var body string

	if !m.seeded {
		body = m.st.title.Render("Hub Services") + "\n\n" +
			m.spin.View() + " checking service health...\n"
	} else {
		body = renderView(m.view, m.lastUpdated, m.st)

		if m.fetching {
			body += m.spin.View() + " refreshing...\n"
		}
	}

	return body + "\n" + m.st.help.Render(m.help.View(m.keys)) + "\n"
}

// Run starts the dashboard program and the poll scheduler behind it, and
// blocks until the user quits or the context is canceled.
func Run(ctx context.Context, cfg *poller.Config, agg *health.Aggregator, log logger.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tracker := visibility.New(log)

	var prog *tea.Program

	// Probes run on the scheduler goroutine; results cross into the
	// program's event loop via Send.
	probe := func(ctx context.Context) {
		view := agg.Collect(ctx)
		prog.Send(healthMsg{view: view, at: time.Now()})
	}

	sched, err := poller.New(cfg, tracker.Events(), tracker, probe, nil, log)
	if err != nil {
		return err
	}

	prog = tea.NewProgram(
		NewModel(tracker, sched),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	schedErr := make(chan error, 1)

	go func() {
		schedErr <- sched.Run(ctx)
	}()

	_, runErr := prog.Run()

	cancel()
	sched.Stop()
	<-schedErr

	return runErr
}
