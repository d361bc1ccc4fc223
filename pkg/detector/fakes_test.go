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

package detector_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/detector"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/locallog"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/nitz"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/testing/mocks"
	"github.com/jonboulle/clockwork"
)

const (
	testSpacingMillis = 10 * 60 * 1000
	testDiffMillis    = 2000
	// 2026-03-01T12:00:00Z
	baseTimeMillis = int64(1772366400000)
)

var errInjected = errors.New("injected failure")

// fakeDevice is a stateful DeviceState and TimeService. Its wall clock moves
// with its monotonic clock, and setting the device time shifts the wall
// clock base.
type fakeDevice struct {
	listener        detector.Listener
	wakeLock        *fakeWakeLock
	setTimeErr      error
	setZoneErr      error
	panicOnWall     bool
	iso             string
	zone            string
	setTimes        []int64
	setZones        []string
	heldOnSet       []bool
	elapsed         int64
	wallBase        int64
	spacing         int64
	diff            int64
	ignore          bool
	timeEnabled     bool
	zoneEnabled     bool
	zoneInitialized bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		elapsed:     1000,
		wallBase:    baseTimeMillis - 1000,
		spacing:     testSpacingMillis,
		diff:        testDiffMillis,
		timeEnabled: true,
		zoneEnabled: true,
		wakeLock:    &fakeWakeLock{},
	}
}

func (d *fakeDevice) advance(millis int64) { d.elapsed += millis }

func (d *fakeDevice) NetworkCountryISO() string  { return d.iso }
func (d *fakeDevice) IgnoreNetworkTime() bool    { return d.ignore }
func (d *fakeDevice) UpdateSpacingMillis() int64 { return d.spacing }
func (d *fakeDevice) UpdateDiffMillis() int64    { return d.diff }

func (d *fakeDevice) SetListener(l detector.Listener) { d.listener = l }

func (d *fakeDevice) CurrentTimeMillis() int64 {
	if d.panicOnWall {
		panic("wall clock unavailable")
	}
	return d.wallBase + d.elapsed
}

func (d *fakeDevice) ElapsedRealtimeMillis() int64   { return d.elapsed }
func (d *fakeDevice) IsTimeDetectionEnabled() bool   { return d.timeEnabled }
func (d *fakeDevice) IsZoneDetectionEnabled() bool   { return d.zoneEnabled }
func (d *fakeDevice) IsZoneSettingInitialized() bool { return d.zoneInitialized }

func (d *fakeDevice) SetDeviceTime(timeMillis int64) error {
	d.heldOnSet = append(d.heldOnSet, d.wakeLock.Held())
	if d.setTimeErr != nil {
		return d.setTimeErr
	}
	d.setTimes = append(d.setTimes, timeMillis)
	d.wallBase = timeMillis - d.elapsed
	return nil
}

func (d *fakeDevice) SetDeviceZone(zoneID string) error {
	if d.setZoneErr != nil {
		return d.setZoneErr
	}
	d.setZones = append(d.setZones, zoneID)
	d.zone = zoneID
	d.zoneInitialized = true
	return nil
}

// setTimeDetection mimics a user toggle: the setting changes first, then
// the listener is told.
func (d *fakeDevice) setTimeDetection(enabled bool) {
	d.timeEnabled = enabled
	d.listener.OnTimeDetectionChanged(enabled)
}

func (d *fakeDevice) setZoneDetection(enabled bool) {
	d.zoneEnabled = enabled
	d.listener.OnZoneDetectionChanged(enabled)
}

type fakeWakeLock struct {
	acquired int
	released int
	held     bool
}

func (w *fakeWakeLock) Acquire() {
	w.acquired++
	w.held = true
}

func (w *fakeWakeLock) Release() {
	w.released++
	w.held = false
}

func (w *fakeWakeLock) Held() bool { return w.held }

type harness struct {
	device  *fakeDevice
	lookup  *mocks.MockZoneLookup
	timeLog *locallog.Log
	zoneLog *locallog.Log
	machine *detector.Machine
}

func newHarness(t *testing.T, opts ...detector.Option) *harness {
	t.Helper()
	return buildHarness(opts...)
}

// buildHarness is newHarness for callers without a *testing.T, such as
// rapid property checks.
func buildHarness(opts ...detector.Option) *harness {
	clock := clockwork.NewFakeClock()
	h := &harness{
		device:  newFakeDevice(),
		lookup:  &mocks.MockZoneLookup{},
		timeLog: locallog.New(locallog.DefaultSize, clock),
		zoneLog: locallog.New(locallog.DefaultSize, clock),
	}

	opts = append([]detector.Option{
		detector.WithWakeLock(h.device.wakeLock),
		detector.WithTimeLog(h.timeLog),
		detector.WithZoneLog(h.zoneLog),
		detector.WithClock(clock),
	}, opts...)
	h.machine = detector.NewMachine(h.device, h.device, h.lookup, opts...)
	return h
}

// signalNow returns a signal received at the device's current monotonic time.
func (h *harness) signalNow(payload nitz.Payload) nitz.Signal {
	return nitz.NewSignal(payload, h.device.elapsed)
}

func (h *harness) zoneLogContains(substr string) bool {
	for _, e := range h.zoneLog.Entries() {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
