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
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/hivewatch/hivewatch/pkg/health"
)

const (
	healthyIndicator   = "●"
	unhealthyIndicator = "✗"
)

// renderView projects one poll cycle's view into the full display output.
// It is a pure function of its inputs: every render fully replaces prior
// output, so a changed service set between polls can never leave stale rows.
func renderView(v health.View, lastUpdated string, st styles) string {
	var b strings.Builder

	header := st.title.Render("Hub Services")
	if lastUpdated != "" {
		header += "  " + st.timestamp.Render("updated "+lastUpdated)
	}

	b.WriteString(header)
	b.WriteString("\n\n")

	if v.Failed() {
		b.WriteString(st.errPanel.Render(sanitizeDisplayText(v.Error)))
		b.WriteString("\n")

		return b.String()
	}

	for _, svc := range v.Services {
		b.WriteString(renderService(svc, st))
	}

	return b.String()
}

func renderService(svc health.ServiceView, st styles) string {
	var b strings.Builder

	indicator := st.healthy.Render(healthyIndicator)
	if !svc.Healthy {
		indicator = st.unhealthy.Render(unhealthyIndicator)
	}

	b.WriteString(fmt.Sprintf("%s %s\n", indicator, st.service.Render(svc.DisplayName)))

	if !svc.Healthy && svc.Error != "" {
		b.WriteString("  " + st.errText.Render(sanitizeDisplayText(svc.Error)) + "\n")
	}

	if len(svc.Models) > 0 {
		rows := make([]string, 0, len(svc.Models)+1)

		for _, m := range svc.Models {
			rows = append(rows, st.model.Render(fmt.Sprintf("%s  %s", m.Name, m.Memory)))
		}

		if svc.Total != "" {
			rows = append(rows, st.total.Render(fmt.Sprintf("total  %s", svc.Total)))
		}

		block := lipgloss.NewStyle().PaddingLeft(2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
		b.WriteString(block)
		b.WriteString("\n")
	}

	b.WriteString("\n")

	return b.String()
}

// sanitizeDisplayText strips control characters from endpoint-supplied text.
// Error strings come from an external service and are untrusted display
// data; a newline or escape sequence must not be able to corrupt the layout.
func sanitizeDisplayText(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}

		return r
	}, s)
}
