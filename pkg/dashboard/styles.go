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

import "github.com/charmbracelet/lipgloss"

// Dracula theme colors.
const (
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaYellow     = "#F1FA8C"
	draculaComment    = "#6272A4"
)

type styles struct {
	title     lipgloss.Style
	timestamp lipgloss.Style
	healthy   lipgloss.Style
	unhealthy lipgloss.Style
	service   lipgloss.Style
	errText   lipgloss.Style
	model     lipgloss.Style
	total     lipgloss.Style
	errPanel  lipgloss.Style
	help      lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPurple)).
			Bold(true),
		timestamp: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		healthy: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)),
		unhealthy: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)),
		service: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaForeground)).
			Bold(true),
		errText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaYellow)),
		model: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaCyan)),
		total: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaCyan)).
			Bold(true),
		errPanel: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(draculaRed)).
			Padding(0, 1),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
	}
}
