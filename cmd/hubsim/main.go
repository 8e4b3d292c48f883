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

// hubsim is a standalone hub simulator for local development: it serves the
// health endpoint the dashboard polls, from a built-in sample snapshot or a
// JSON fixture file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/hivewatch/hivewatch/pkg/lifecycle"
	"github.com/hivewatch/hivewatch/pkg/logger"
	"github.com/hivewatch/hivewatch/pkg/models"
)

const (
	defaultListenAddr = ":8090"
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	listenAddr := flag.String("listen", defaultListenAddr, "Address to serve the health endpoint on")
	snapshotPath := flag.String("snapshot", "", "Path to a JSON snapshot fixture (default: built-in sample)")
	flag.Parse()

	simLogger, err := lifecycle.CreateComponentLogger("hubsim", logger.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	snap, err := loadSnapshot(*snapshotPath)
	if err != nil {
		return err
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", healthHandler(snap, simLogger)).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              *listenAddr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		simLogger.Info().Str("addr", *listenAddr).Msg("Hub simulator listening")
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		simLogger.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(ctx)
}

func healthHandler(snap models.HealthSnapshot, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(snap); err != nil {
			log.Error().Err(err).Msg("Failed to encode health snapshot")
		}

		log.Debug().Str("remote", r.RemoteAddr).Msg("Served health snapshot")
	}
}

func loadSnapshot(path string) (models.HealthSnapshot, error) {
	if path == "" {
		return sampleSnapshot(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot fixture: %w", err)
	}

	var snap models.HealthSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot fixture: %w", err)
	}

	return snap, nil
}

func sampleSnapshot() models.HealthSnapshot {
	return models.HealthSnapshot{
		"ollama_chat": {
			IsHealthy: true,
			Health: &models.ServiceDetail{
				Models: []models.ModelMemory{
					{Model: "llama3.2", SizeVRAM: 2147483648},
					{Model: "qwen2.5-coder", SizeVRAM: 4294967296},
				},
			},
		},
		"ollama_embeddings": {
			IsHealthy: true,
			Health: &models.ServiceDetail{
				Models: []models.ModelMemory{
					{Model: "nomic-embed-text", SizeVRAM: 536870912},
				},
			},
		},
		"surrealdb": {IsHealthy: true},
		"tool_hub":  {IsHealthy: false, Error: "connection refused"},
	}
}
