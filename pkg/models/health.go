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

package models

// HealthSnapshot is the wire shape returned by the hub's health endpoint:
// a mapping from service name to its reported status. A snapshot is owned by
// the poll cycle that fetched it and discarded on the next fetch; it is never
// persisted.
type HealthSnapshot map[string]ServiceHealth

// ServiceHealth is one service's entry in a HealthSnapshot.
type ServiceHealth struct {
	IsHealthy bool           `json:"is_healthy"`
	Error     string         `json:"error,omitempty"`
	Health    *ServiceDetail `json:"health,omitempty"`
}

// ServiceDetail carries service-specific report data. Model-serving backends
// report the models currently loaded and their memory footprint.
type ServiceDetail struct {
	Models []ModelMemory `json:"models,omitempty"`
}

// ModelMemory reports the VRAM held by a single loaded model, in bytes.
type ModelMemory struct {
	Model    string `json:"model"`
	SizeVRAM int64  `json:"size_vram"`
}
