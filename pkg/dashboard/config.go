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
	"time"

	"github.com/hivewatch/hivewatch/pkg/logger"
	"github.com/hivewatch/hivewatch/pkg/models"
	"github.com/hivewatch/hivewatch/pkg/store"
)

const (
	defaultHealthURL    = "http://localhost:8090"
	defaultPollInterval = 60 * time.Second
	defaultFetchTimeout = 10 * time.Second
)

// Config represents hivewatch dashboard configuration.
type Config struct {
	HealthURL    string                `json:"health_url"`
	HealthPath   string                `json:"health_path,omitempty"`
	PollInterval models.Duration       `json:"poll_interval"`
	FetchTimeout models.Duration       `json:"fetch_timeout"`
	Logging      *logger.Config        `json:"logging,omitempty"`
	Database     *store.PostgresConfig `json:"database,omitempty"`
}

// Validate implements config.Validator, applying defaults for anything
// the file leaves unset.
func (c *Config) Validate() error {
	if c.HealthURL == "" {
		c.HealthURL = defaultHealthURL
	}

	if time.Duration(c.PollInterval) == 0 {
		c.PollInterval = models.Duration(defaultPollInterval)
	}

	if time.Duration(c.FetchTimeout) == 0 {
		c.FetchTimeout = models.Duration(defaultFetchTimeout)
	}

	if c.Logging == nil {
		c.Logging = logger.DefaultConfig()
	}

	return nil
}
