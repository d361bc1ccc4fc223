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

package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatchReportsReload(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := newTestConfig(t, "config_schema = 1\n[detection]\nauto_time = false\n")
	require.False(t, cfg.AutoTime())

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan [2]Values, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, cfg, func(prev, next Values) {
			select {
			case changes <- [2]Values{prev, next}:
			default:
			}
		})
	}()

	// The watcher registers asynchronously; keep rewriting until it sees one.
	var got [2]Values
	require.Eventually(t, func() bool {
		err := os.WriteFile(cfg.Path(), []byte("config_schema = 1\n[detection]\nauto_time = true\n"), 0o600)
		require.NoError(t, err)
		select {
		case got = <-changes:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	autoTime, autoZone := DetectionEnabled(got[0], got[1])
	assert.True(t, autoTime)
	assert.False(t, autoZone)
	assert.True(t, cfg.AutoTime())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchKeepsValuesOnBadReload(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := newTestConfig(t, "config_schema = 1\n[nitz]\nignore = true\n")

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, cfg, func(_, _ Values) {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
	}()

	err := os.WriteFile(cfg.Path(), []byte("config_schema = 99\n"), 0o600)
	require.NoError(t, err)

	select {
	case <-changes:
		t.Fatal("callback fired for a rejected config")
	case <-time.After(200 * time.Millisecond):
	}
	assert.True(t, cfg.IgnoreNetworkTime())

	cancel()
	require.NoError(t, <-done)
}

func TestWatchMissingDirectory(t *testing.T) {
	t.Parallel()

	cfg := &Instance{cfgPath: "/nonexistent/netclock/" + CfgFile}
	err := Watch(context.Background(), cfg, nil)
	require.Error(t, err)
}
