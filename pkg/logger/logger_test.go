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

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "shouting"})
	require.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	l, err := New(nil)
	require.NoError(t, err)
	require.NotNil(t, l)
}

func TestImpl_StructuredOutput(t *testing.T) {
	var buf bytes.Buffer

	zlog := zerolog.New(&buf).With().Timestamp().Logger()
	l := NewFromZerolog(zlog)

	l.Info().Str("service", "ollama_chat").Msg("probe complete")

	var entry map[string]interface{}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "probe complete", entry["message"])
	assert.Equal(t, "ollama_chat", entry["service"])
	assert.Equal(t, "info", entry["level"])
}

func TestImpl_WithComponent(t *testing.T) {
	var buf bytes.Buffer

	l := NewFromZerolog(zerolog.New(&buf))
	component := l.WithComponent("poller")
	component.Info().Msg("started")

	assert.Contains(t, buf.String(), `"component":"poller"`)
}

func TestNewTestLogger_Discards(t *testing.T) {
	l := NewTestLogger()

	// Must not panic and must not write anywhere observable.
	l.Info().Msg("dropped")
	l.Error().Msg("dropped")
}
