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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hivewatch/hivewatch/pkg/config"
	"github.com/hivewatch/hivewatch/pkg/dashboard"
	"github.com/hivewatch/hivewatch/pkg/health"
	"github.com/hivewatch/hivewatch/pkg/kv"
	"github.com/hivewatch/hivewatch/pkg/lifecycle"
	"github.com/hivewatch/hivewatch/pkg/logger"
	"github.com/hivewatch/hivewatch/pkg/poller"
	"github.com/hivewatch/hivewatch/pkg/store"
)

const kvBucket = "hivewatch"

var errFailedToLoadConfig = fmt.Errorf("failed to load config")

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/hivewatch/hivewatch.json", "Path to hivewatch config file")
	flag.Parse()

	ctx := context.Background()

	cfgLoader := config.NewConfig(nil)

	if kvAddr := os.Getenv("KV_ADDRESS"); kvAddr != "" {
		kvStore, err := kv.NewNatsStore(ctx, kvAddr, kvBucket, 0)
		if err != nil {
			return fmt.Errorf("failed to connect to KV store: %w", err)
		}
		defer kvStore.Close()

		cfgLoader.SetKVStore(kvStore)
	}

	var cfg dashboard.Config

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = logger.DefaultConfig()
	}

	dashLogger, err := lifecycle.CreateComponentLogger("hivewatch", logConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	st, err := openStore(ctx, &cfg, dashLogger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	fetcher, err := health.NewHTTPFetcher(health.HTTPFetcherConfig{
		BaseURL: cfg.HealthURL,
		Path:    cfg.HealthPath,
		Timeout: time.Duration(cfg.FetchTimeout),
		Logger:  dashLogger,
	})
	if err != nil {
		return err
	}

	agg := health.NewAggregator(fetcher, st, cfg.PollInterval, dashLogger)

	return dashboard.Run(ctx, &poller.Config{PollInterval: cfg.PollInterval}, agg, dashLogger)
}

// openStore picks the persistence backend: Postgres when configured,
// otherwise the in-process store.
func openStore(ctx context.Context, cfg *dashboard.Config, log logger.Logger) (store.Store, error) {
	if cfg.Database != nil {
		pg, err := store.NewPostgresStore(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		return pg, nil
	}

	return store.NewMemoryStore(), nil
}
