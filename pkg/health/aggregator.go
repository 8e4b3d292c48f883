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

// Package health fetches raw hub health snapshots and normalizes them into
// the view-models the renderer consumes.
package health

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/hivewatch/hivewatch/pkg/logger"
	"github.com/hivewatch/hivewatch/pkg/models"
	"github.com/hivewatch/hivewatch/pkg/store"
)

// fetchErrorPrefix leads the error panel text for any failed poll cycle.
const fetchErrorPrefix = "Unable to connect to health service. "

const bytesPerMB = 1 << 20

// modelServingRoles are the service names whose healthy reports carry a
// per-model memory breakdown worth aggregating.
var modelServingRoles = map[string]struct{}{
	"ollama_chat":       {},
	"ollama_embeddings": {},
}

// ModelView is one model's row in a service's memory block.
type ModelView struct {
	Name   string
	Memory string
}

// ServiceView is the normalized per-service view-model.
type ServiceView struct {
	Name        string
	DisplayName string
	Healthy     bool
	Error       string
	Models      []ModelView
	Total       string // set only when more than one model is loaded
}

// View is what one poll cycle hands to the renderer: either a sorted service
// list or a single error panel, never both.
type View struct {
	Error    string
	Services []ServiceView
}

// Failed reports whether this view is the error panel.
func (v View) Failed() bool { return v.Error != "" }

// Aggregator turns raw snapshots into Views and keeps the per-service
// health records current.
type Aggregator struct {
	fetcher  Fetcher
	store    store.Store // optional
	interval models.Duration
	clock    func() time.Time
	logger   logger.Logger
}

// NewAggregator creates an aggregator. The store is optional; when present,
// every successful probe updates the health record of each reported service.
func NewAggregator(fetcher Fetcher, st store.Store, interval models.Duration, log logger.Logger) *Aggregator {
	return &Aggregator{
		fetcher:  fetcher,
		store:    st,
		interval: interval,
		clock:    time.Now,
		logger:   log,
	}
}

// Collect performs one poll cycle. Every failure, transport or parse alike,
// collapses into the single error view; no partial list is ever returned
// alongside an error.
func (a *Aggregator) Collect(ctx context.Context) View {
	snap, err := a.fetcher.FetchHealth(ctx)
	if err != nil {
		return ErrorView(err)
	}

	a.recordProbe(ctx, snap)

	return View{Services: Normalize(snap)}
}

// ErrorView builds the single error panel for a failed poll cycle.
func ErrorView(err error) View {
	return View{Error: fetchErrorPrefix + err.Error()}
}

// recordProbe updates health records after a successful fetch, registering
// services on first sight.
func (a *Aggregator) recordProbe(ctx context.Context, snap models.HealthSnapshot) {
	if a.store == nil {
		return
	}

	now := a.clock()

	for name := range snap {
		err := a.store.MarkSeen(ctx, name, now)
		if errors.Is(err, store.ErrUnknownService) {
			if _, err = a.store.RegisterService(ctx, name, a.interval); err == nil {
				err = a.store.MarkSeen(ctx, name, now)
			}
		}

		if err != nil && a.logger != nil {
			a.logger.Warn().Err(err).Str("service", name).Msg("Failed to update health record")
		}
	}
}

// Normalize converts a snapshot into the deterministic, sorted service list.
func Normalize(snap models.HealthSnapshot) []ServiceView {
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}

	// Case-sensitive lexicographic order; keys are unique so ties cannot occur.
	sort.Strings(names)

	views := make([]ServiceView, 0, len(names))

	for _, name := range names {
		entry := snap[name]

		view := ServiceView{
			Name:        name,
			DisplayName: displayName(name),
			Healthy:     entry.IsHealthy,
		}

		if !entry.IsHealthy {
			view.Error = entry.Error
		}

		view.Models, view.Total = modelMemory(name, entry)

		views = append(views, view)
	}

	return views
}

// modelMemory derives the per-model memory rows and the optional total.
// Only recognized model-serving roles that are healthy and report a
// non-empty model list get the block; everything else renders nothing,
// whatever shape its health field has.
func modelMemory(name string, entry models.ServiceHealth) (rows []ModelView, total string) {
	if _, ok := modelServingRoles[name]; !ok {
		return nil, ""
	}

	if !entry.IsHealthy || entry.Health == nil || len(entry.Health.Models) == 0 {
		return nil, ""
	}

	sorted := make([]models.ModelMemory, len(entry.Health.Models))
	copy(sorted, entry.Health.Models)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Model < sorted[j].Model })

	rows = make([]ModelView, 0, len(sorted))

	var sum int64

	for _, m := range sorted {
		rows = append(rows, ModelView{Name: m.Model, Memory: formatMemory(m.SizeVRAM)})
		sum += m.SizeVRAM
	}

	if len(sorted) > 1 {
		total = formatMemory(sum)
	}

	return rows, total
}

// formatMemory renders raw bytes as mebibytes with two decimal places.
func formatMemory(sizeVRAM int64) string {
	return fmt.Sprintf("%.2f MB", float64(sizeVRAM)/float64(bytesPerMB))
}

// displayName converts a service key into its display form:
// underscores to spaces, each word title-cased.
func displayName(name string) string {
	words := strings.Split(name, "_")

	for i, w := range words {
		if w == "" {
			continue
		}

		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(first)) + w[size:]
	}

	return strings.Join(words, " ")
}
