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

package detector

import (
	"github.com/ZaparooProject/zaparoo-netclock/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/locallog"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/nitz"
	"github.com/jonboulle/clockwork"
)

// State is the cached detection state of a Machine.
type State struct {
	// LatestSignal is the last signal received, acted on or not.
	LatestSignal *nitz.Signal
	// SavedTime is the last time applied to the device, or the time that
	// would have been applied while automatic time was disabled, with the
	// monotonic instant of the signal it came from.
	SavedTime *nitz.Timestamped[int64]
	// SavedZoneID is the last zone resolved by any path, applied or not.
	SavedZoneID string
	// GotCountryCode is set once a country code has been observed since the
	// network was last unavailable.
	GotCountryCode bool
	// ZoneDetectionSuccessful is set once a signal-based zone has been found
	// since the network last became available or unavailable.
	ZoneDetectionSuccessful bool
}

func (s *State) clone() State {
	out := *s
	if s.LatestSignal != nil {
		sig := *s.LatestSignal
		out.LatestSignal = &sig
	}
	if s.SavedTime != nil {
		saved := *s.SavedTime
		out.SavedTime = &saved
	}
	return out
}

// Machine is the network time and zone detector. It is not safe for
// concurrent use: the owner must serialize every call, including listener
// callbacks delivered by the TimeService.
type Machine struct {
	deviceState DeviceState
	timeService TimeService
	lookup      ZoneLookup
	metrics     Metrics
	wakeLock    WakeLock
	timeLog     DiagnosticLog
	zoneLog     DiagnosticLog
	clock       clockwork.Clock
	state       State
}

// Option configures a Machine.
type Option func(*Machine)

// WithMetrics sets the sink for applied time events.
func WithMetrics(m Metrics) Option {
	return func(mc *Machine) {
		mc.metrics = m
	}
}

// WithWakeLock sets the wake lock held while reading and setting clocks.
func WithWakeLock(w WakeLock) Option {
	return func(mc *Machine) {
		mc.wakeLock = w
	}
}

// WithTimeLog replaces the default time decision log.
func WithTimeLog(l DiagnosticLog) Option {
	return func(mc *Machine) {
		mc.timeLog = l
	}
}

// WithZoneLog replaces the default zone decision log.
func WithZoneLog(l DiagnosticLog) Option {
	return func(mc *Machine) {
		mc.zoneLog = l
	}
}

// WithClock sets the clock used to timestamp the default decision logs.
func WithClock(clock clockwork.Clock) Option {
	return func(mc *Machine) {
		mc.clock = clock
	}
}

// NewMachine creates a Machine and registers it as the TimeService listener.
func NewMachine(deviceState DeviceState, timeService TimeService, lookup ZoneLookup, opts ...Option) *Machine {
	m := &Machine{
		deviceState: deviceState,
		timeService: timeService,
		lookup:      lookup,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.clock == nil {
		m.clock = clockwork.NewRealClock()
	}
	if m.metrics == nil {
		m.metrics = noopMetrics{}
	}
	if m.wakeLock == nil {
		m.wakeLock = &mutexWakeLock{}
	}
	if m.timeLog == nil {
		m.timeLog = locallog.New(locallog.DefaultSize, m.clock)
	}
	if m.zoneLog == nil {
		m.zoneLog = locallog.New(locallog.DefaultSize, m.clock)
	}

	timeService.SetListener(listener{m: m})
	return m
}

// CachedPayload returns the payload of the latest signal received.
func (m *Machine) CachedPayload() (nitz.Payload, bool) {
	if m.state.LatestSignal == nil {
		return nitz.Payload{}, false
	}
	return m.state.LatestSignal.Value, true
}

// SavedZoneID returns the last resolved zone, or "" if none.
func (m *Machine) SavedZoneID() string {
	return m.state.SavedZoneID
}

// ZoneDetectionSuccessful reports whether a signal-based zone has been found
// since the last availability change.
func (m *Machine) ZoneDetectionSuccessful() bool {
	return m.state.ZoneDetectionSuccessful
}

// State returns a copy of the cached detection state.
func (m *Machine) State() State {
	return m.state.clone()
}

type listener struct {
	m *Machine
}

func (l listener) OnTimeDetectionChanged(enabled bool) {
	if enabled {
		l.m.handleAutoTimeEnabled()
	}
}

func (l listener) OnZoneDetectionChanged(enabled bool) {
	if enabled {
		l.m.handleAutoZoneEnabled()
	}
}

type noopMetrics struct{}

func (noopMetrics) RecordNetworkTime(int64) {}

type mutexWakeLock struct {
	mu syncutil.TrackedMutex
}

func (w *mutexWakeLock) Acquire()   { w.mu.Lock() }
func (w *mutexWakeLock) Release()   { w.mu.Unlock() }
func (w *mutexWakeLock) Held() bool { return w.mu.Held() }

func signalString(sig *nitz.Signal) string {
	if sig == nil {
		return "<none>"
	}
	return sig.String()
}

func savedTimeString(saved *nitz.Timestamped[int64]) string {
	if saved == nil {
		return "<none>"
	}
	return saved.String()
}
