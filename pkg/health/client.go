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

package health

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/hivewatch/hivewatch/pkg/logger"
	"github.com/hivewatch/hivewatch/pkg/models"
)

const (
	defaultHealthPath  = "/health"
	defaultHTTPTimeout = 10 * time.Second
	maxBodyBytes       = 1 << 20
)

// Fetcher retrieves one raw health snapshot from the hub. Implementations
// must return an error for any transport failure or malformed body; callers
// treat every error identically.
type Fetcher interface {
	FetchHealth(ctx context.Context) (models.HealthSnapshot, error)
}

// HTTPFetcherConfig controls how the health HTTP client behaves.
type HTTPFetcherConfig struct {
	BaseURL string
	Path    string
	Timeout time.Duration
	Logger  logger.Logger
	HTTP    *http.Client
}

type httpFetcher struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	logger   logger.Logger
}

// NewHTTPFetcher constructs a Fetcher backed by HTTP.
func NewHTTPFetcher(cfg HTTPFetcherConfig) (Fetcher, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errBaseURLRequired
	}

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid health base url: %w", err)
	}

	p := cfg.Path
	if strings.TrimSpace(p) == "" {
		p = defaultHealthPath
	}

	if parsed.Path == "" || parsed.Path == "/" {
		parsed.Path = path.Clean(p)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &httpFetcher{
		endpoint: parsed.String(),
		client:   httpClient,
		timeout:  timeout,
		logger:   cfg.Logger,
	}, nil
}

// FetchHealth performs the GET and decodes the snapshot. The request carries
// its own deadline so a collaborator that ignores client timeouts still
// cannot block the caller indefinitely.
func (f *httpFetcher) FetchHealth(ctx context.Context) (models.HealthSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build health request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// A non-success status is a fetch failure, never a parseable snapshot.
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
	}

	var snap models.HealthSnapshot

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
	}

	if f.logger != nil {
		f.logger.Debug().Int("services", len(snap)).Msg("Fetched health snapshot")
	}

	return snap, nil
}
