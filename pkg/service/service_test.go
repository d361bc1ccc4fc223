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

package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/config"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/detector"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/device"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/nitz"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/sources/ntp"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/testing/mocks"
	beevik "github.com/beevik/ntp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var hostStart = time.Date(2026, 4, 2, 6, 0, 0, 0, time.UTC)

type chanSource struct {
	signals chan nitz.Signal
}

func (c *chanSource) PollSignals(ctx context.Context, fn func(nitz.Signal)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-c.signals:
			fn(sig)
		}
	}
}

type testService struct {
	svc    *Service
	cfg    *config.Instance
	ts     *device.TimeService
	clock  *clockwork.FakeClock
	cancel context.CancelFunc
	done   chan error
}

func startService(t *testing.T, contents string, lookup detector.ZoneLookup, opts ...Option) *testService {
	t.Helper()

	dir := t.TempDir()
	if contents != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, config.CfgFile), []byte(contents), 0o600))
	}
	cfg, err := config.NewConfig(dir, config.BaseDefaults)
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(hostStart)
	ts := device.NewTimeService(cfg, device.WithClock(clock), device.WithUptime(time.Minute))
	opts = append([]Option{WithTimeService(ts)}, opts...)
	svc := New(cfg, lookup, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	return &testService{svc: svc, cfg: cfg, ts: ts, clock: clock, cancel: cancel, done: done}
}

func (ts *testService) stop(t *testing.T) {
	t.Helper()
	ts.cancel()
	select {
	case err := <-ts.done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}
}

func basicLookup() *mocks.MockZoneLookup {
	lookup := &mocks.MockZoneLookup{}
	lookup.SetupBasicMock()
	return lookup
}

func TestServiceAppliesSignals(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := &chanSource{signals: make(chan nitz.Signal)}
	ts := startService(t, "", basicLookup(), WithSource(src), WithoutConfigWatch())

	networkTime := hostStart.Add(time.Hour).UnixMilli()
	src.signals <- nitz.NewSignal(nitz.NewPayload(networkTime, 0, false).WithOverrideZone("Europe/Lisbon"), ts.ts.ElapsedRealtimeMillis())
	require.Eventually(t, func() bool {
		return ts.svc.Metrics().NetworkTimeCount == 1
	}, 5*time.Second, 10*time.Millisecond)

	var dump strings.Builder
	require.NoError(t, ts.svc.Dump(context.Background(), &dump))
	assert.Contains(t, dump.String(), "savedZoneID=Europe/Lisbon")
	assert.Contains(t, dump.String(), " Time Logs:")

	assert.Equal(t, networkTime, ts.ts.CurrentTimeMillis())
	assert.Equal(t, "Europe/Lisbon", ts.ts.Zone())
	assert.NotEmpty(t, ts.svc.BootID())

	ts.stop(t)
}

func TestServiceInitialCountry(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	lookup := &mocks.MockZoneLookup{}
	lookup.On("LookupByCountry", "is", mock.Anything).
		Return(&detector.CountryResult{ZoneID: "Atlantic/Reykjavik", AllZonesHaveSameOffset: true}, nil)
	lookup.SetupBasicMock()

	ts := startService(t, "config_schema = 1\n[nitz]\ncountry = \"IS\"\n", lookup, WithoutConfigWatch())

	require.Eventually(t, func() bool {
		return ts.ts.Zone() == "Atlantic/Reykjavik"
	}, 5*time.Second, 10*time.Millisecond)

	ts.stop(t)
}

func TestServiceNetworkEvents(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ts := startService(t, "", basicLookup(), WithoutConfigWatch())
	ctx := context.Background()

	ts.svc.SetCountry(ctx, "fr")
	ts.svc.SubmitSignal(ctx, nitz.NewSignal(
		nitz.NewPayload(hostStart.UnixMilli(), 3600000, false).WithOverrideZone("Europe/Paris"),
		ts.ts.ElapsedRealtimeMillis(),
	))
	ts.svc.NetworkUnavailable(ctx)

	var dump strings.Builder
	require.NoError(t, ts.svc.Dump(ctx, &dump))
	assert.Contains(t, dump.String(), "gotCountryCode=false")
	assert.Contains(t, dump.String(), "zoneDetectionSuccessful=false")

	ts.svc.NetworkAvailable(ctx)
	ts.stop(t)
}

func TestServiceConfigWatchRevertsTime(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ts := startService(t, "config_schema = 1\n[detection]\nauto_time = false\n", basicLookup())
	ctx := context.Background()

	networkTime := hostStart.Add(-2 * time.Hour).UnixMilli()
	ts.svc.SubmitSignal(ctx, nitz.NewSignal(nitz.NewPayload(networkTime, 0, false), ts.ts.ElapsedRealtimeMillis()))
	require.Equal(t, hostStart.UnixMilli(), ts.ts.CurrentTimeMillis(), "automatic time is off")

	// The watcher registers asynchronously; keep rewriting until it acts.
	require.Eventually(t, func() bool {
		err := os.WriteFile(ts.cfg.Path(), []byte("config_schema = 1\n[detection]\nauto_time = true\n"), 0o600)
		require.NoError(t, err)
		return ts.svc.Metrics().NetworkTimeCount == 1
	}, 5*time.Second, 50*time.Millisecond)

	assert.Equal(t, networkTime, ts.ts.CurrentTimeMillis())
	ts.stop(t)
}

func TestServiceSubmitAfterStop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ts := startService(t, "", basicLookup(), WithoutConfigWatch())
	ts.stop(t)

	err := ts.svc.Dump(context.Background(), &strings.Builder{})
	require.ErrorIs(t, err, ErrNotRunning)
}

func TestNTPSourceAdapter(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	query := func(string, beevik.QueryOptions) (*beevik.Response, error) {
		now := time.Now()
		return &beevik.Response{Time: now, ReferenceTime: now.Add(-time.Minute), Stratum: 1}, nil
	}
	src := NewNTPSource(ntp.NewSource("time.example.com", func() int64 { return 1 },
		ntp.WithQuery(query), ntp.WithLocation(time.UTC)), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan nitz.Signal, 1)
	done := make(chan error, 1)
	go func() {
		done <- src.PollSignals(ctx, func(sig nitz.Signal) {
			select {
			case got <- sig:
			default:
			}
		})
	}()

	select {
	case sig := <-got:
		assert.Equal(t, int64(1), sig.ReferenceTimeMillis)
	case <-time.After(5 * time.Second):
		t.Fatal("no signal from ntp source")
	}
	cancel()
	require.NoError(t, <-done)
}

func TestServiceWithNTP(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	networkTime := hostStart.Add(90 * time.Minute)
	query := func(string, beevik.QueryOptions) (*beevik.Response, error) {
		return &beevik.Response{
			Time:          networkTime,
			ReferenceTime: networkTime.Add(-time.Minute),
			Stratum:       2,
		}, nil
	}

	ts := startService(t, "", basicLookup(), WithoutConfigWatch(),
		WithNTP("time.example.com", time.Hour, ntp.WithQuery(query), ntp.WithLocation(time.UTC)))

	require.Eventually(t, func() bool {
		return ts.svc.Metrics().NetworkTimeCount == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(60_000), ts.svc.ElapsedRealtimeMillis())

	ts.stop(t)
}
