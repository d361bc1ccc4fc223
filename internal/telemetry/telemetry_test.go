// Zaparoo Netclock
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Netclock.
//
// Zaparoo Netclock is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Netclock is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Netclock.  If not, see <http://www.gnu.org/licenses/>.

package telemetry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no username in path", input: "/usr/local/bin/netclock", expected: "/usr/local/bin/netclock"},
		{
			name:     "linux home path",
			input:    "/home/sam/.config/netclock/netclock.toml",
			expected: "/home/<user>/.config/netclock/netclock.toml",
		},
		{
			name:     "macos users path lowercase",
			input:    "/users/sam/Library/netclock.log",
			expected: "/Users/<user>/Library/netclock.log",
		},
		{
			name:     "windows path different drive",
			input:    "D:\\Users\\admin\\netclock\\logs",
			expected: "C:\\Users\\<user>\\netclock\\logs",
		},
		{
			name:     "multiple paths in message",
			input:    "replaying /home/alice/a.toml after /home/bob/b.toml",
			expected: "replaying /home/<user>/a.toml after /home/<user>/b.toml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizePath(tt.input))
		})
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	got := sanitizeText("failed to query 192.168.1.20: read udp 10.0.0.5:123: i/o timeout in /home/sam/x")
	assert.Equal(t, "failed to query <ip>: read udp <ip>:123: i/o timeout in /home/<user>/x", got)
}

func TestSanitizeEvent(t *testing.T) {
	t.Parallel()

	event := &sentry.Event{
		ServerName: "sams-laptop",
		Message:    "nitz: failed to set device zone from /home/sam/cfg",
		Extra:      map[string]any{"path": "/Users/sam/netclock.toml", "count": 3},
		Exception: []sentry.Exception{{
			Value: "dial 203.0.113.9: refused",
			Stacktrace: &sentry.Stacktrace{Frames: []sentry.Frame{{
				AbsPath:  "/home/sam/src/netclock/pkg/detector/zone.go",
				Filename: "/home/sam/src/netclock/pkg/detector/zone.go",
			}}},
		}},
	}

	got := sanitizeEvent(event)
	require.NotNil(t, got)
	assert.Empty(t, got.ServerName)
	assert.Equal(t, "nitz: failed to set device zone from /home/<user>/cfg", got.Message)
	assert.Equal(t, "/Users/<user>/netclock.toml", got.Extra["path"])
	assert.Equal(t, 3, got.Extra["count"])
	assert.Equal(t, "dial <ip>: refused", got.Exception[0].Value)
	frame := got.Exception[0].Stacktrace.Frames[0]
	assert.Equal(t, "/home/<user>/src/netclock/pkg/detector/zone.go", frame.AbsPath)
	assert.Equal(t, "/home/<user>/src/netclock/pkg/detector/zone.go", frame.Filename)
}

func TestInitDisabled(t *testing.T) {
	t.Parallel()

	require.NoError(t, Init(Options{Enabled: false}))
	require.NoError(t, Init(Options{Enabled: true}), "missing dsn leaves reporting off")
	assert.False(t, Enabled())

	// Should not panic when called while disabled
	Flush()
	Close()
}
