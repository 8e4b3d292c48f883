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

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{
			name:     "duration string",
			input:    `"60s"`,
			expected: 60 * time.Second,
		},
		{
			name:     "compound duration string",
			input:    `"1m30s"`,
			expected: 90 * time.Second,
		},
		{
			name:     "nanosecond number",
			input:    `60000000000`,
			expected: 60 * time.Second,
		},
		{
			name:    "invalid string",
			input:   `"soon"`,
			wantErr: true,
		},
		{
			name:    "invalid type",
			input:   `[1, 2]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, time.Duration(d))
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	d := Duration(90 * time.Second)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(data))
}

func TestHealthSnapshot_Unmarshal(t *testing.T) {
	raw := `{
		"ollama_chat": {
			"is_healthy": true,
			"health": {"models": [{"model": "llama3.2", "size_vram": 2097152}]}
		},
		"surrealdb": {
			"is_healthy": false,
			"error": "connection refused"
		}
	}`

	var snap HealthSnapshot

	require.NoError(t, json.Unmarshal([]byte(raw), &snap))
	require.Len(t, snap, 2)

	chat := snap["ollama_chat"]
	require.True(t, chat.IsHealthy)
	require.NotNil(t, chat.Health)
	require.Len(t, chat.Health.Models, 1)
	assert.Equal(t, "llama3.2", chat.Health.Models[0].Model)
	assert.Equal(t, int64(2097152), chat.Health.Models[0].SizeVRAM)

	sdb := snap["surrealdb"]
	assert.False(t, sdb.IsHealthy)
	assert.Equal(t, "connection refused", sdb.Error)
	assert.Nil(t, sdb.Health)
}
