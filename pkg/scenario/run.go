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

package scenario

import (
	"fmt"
	"time"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/config"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/detector"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/device"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/metrics"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/nitz"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Result is the outcome of a replay.
type Result struct {
	Machine     *detector.Machine
	TimeService *device.TimeService
	// Failures lists the expectations that did not hold.
	Failures []string
	Metrics  metrics.Snapshot
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// settings are the mutable device settings of a replay.
type settings struct {
	spacing  time.Duration
	diff     time.Duration
	ignore   bool
	autoTime bool
	autoZone bool
}

func (s *settings) IgnoreNetworkTime() bool      { return s.ignore }
func (s *settings) UpdateSpacing() time.Duration { return s.spacing }
func (s *settings) UpdateDiff() time.Duration    { return s.diff }
func (s *settings) AutoTime() bool               { return s.autoTime }
func (s *settings) AutoZone() bool               { return s.autoZone }

type runner struct {
	clock    *clockwork.FakeClock
	settings *settings
	state    *device.State
	ts       *device.TimeService
	machine  *detector.Machine
	recorder *metrics.Recorder
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func newRunner(s *Scenario) (*runner, error) {
	start := DefaultStartTime
	if s.Device.StartTime != "" {
		t, err := time.Parse(timeLayout, s.Device.StartTime)
		if err != nil {
			return nil, fmt.Errorf("invalid start time: %w", err)
		}
		start = t
	}
	uptime, err := parseDuration(s.Device.Uptime, time.Minute)
	if err != nil {
		return nil, err
	}
	spacing, err := parseDuration(s.Device.UpdateSpacing, config.DefaultUpdateSpacing)
	if err != nil {
		return nil, err
	}
	diff, err := parseDuration(s.Device.UpdateDiff, config.DefaultUpdateDiff)
	if err != nil {
		return nil, err
	}

	r := &runner{
		clock: clockwork.NewFakeClockAt(start),
		settings: &settings{
			spacing:  spacing,
			diff:     diff,
			ignore:   s.Device.Ignore,
			autoTime: boolOr(s.Device.AutoTime, true),
			autoZone: boolOr(s.Device.AutoZone, true),
		},
	}
	r.state = device.NewState(r.settings)
	r.ts = device.NewTimeService(r.settings, device.WithClock(r.clock), device.WithUptime(uptime))
	r.recorder = metrics.NewRecorder(r.clock)
	r.machine = detector.NewMachine(r.state, r.ts, NewFixtureLookup(s.Lookup),
		detector.WithWakeLock(&device.WakeLock{}),
		detector.WithMetrics(r.recorder),
		detector.WithClock(r.clock),
	)
	return r, nil
}

// Run replays s from a fresh device and checks its expectations.
func Run(s *Scenario) (*Result, error) {
	r, err := newRunner(s)
	if err != nil {
		return nil, err
	}

	for i, ev := range s.Events {
		log.Debug().Int("index", i).Str("kind", ev.Kind).Msg("scenario: event")
		if err := r.apply(ev); err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, ev.Kind, err)
		}
	}

	res := &Result{
		Machine:     r.machine,
		TimeService: r.ts,
		Metrics:     r.recorder.Snapshot(),
	}
	if s.Expect != nil {
		res.Failures = r.check(s.Expect, res.Metrics)
	}
	return res, nil
}

//nolint:gocritic // event copied from the scenario slice
func (r *runner) apply(ev Event) error {
	switch ev.Kind {
	case KindAdvance:
		d, err := parseDuration(ev.Duration, 0)
		if err != nil {
			return err
		}
		r.clock.Advance(d)
	case KindSignal:
		sig, err := r.signal(ev)
		if err != nil {
			return err
		}
		r.machine.HandleSignalReceived(sig)
	case KindCountry:
		changed := r.state.SetNetworkCountry(ev.Country)
		r.machine.HandleCountryCodeSet(changed)
	case KindAvailable:
		r.machine.HandleNetworkAvailable()
	case KindUnavailable:
		r.machine.HandleNetworkUnavailable()
	case KindAutoTime:
		enabled := boolOr(ev.Enabled, true)
		r.settings.autoTime = enabled
		r.ts.NotifyTimeDetectionChanged(enabled)
	case KindAutoZone:
		enabled := boolOr(ev.Enabled, true)
		r.settings.autoZone = enabled
		r.ts.NotifyZoneDetectionChanged(enabled)
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return nil
}

// signal builds a signal received Age ago on the device monotonic clock.
//
//nolint:gocritic // event copied from the scenario slice
func (r *runner) signal(ev Event) (nitz.Signal, error) {
	t, err := time.Parse(timeLayout, ev.Time)
	if err != nil {
		return nitz.Signal{}, fmt.Errorf("invalid signal time: %w", err)
	}
	age, err := parseDuration(ev.Age, 0)
	if err != nil {
		return nitz.Signal{}, err
	}

	//nolint:gosec // offsets are validated to at most a day
	payload := nitz.NewPayload(t.UnixMilli(), int32(ev.OffsetMinutes)*60_000, ev.DST)
	if ev.Zone != "" {
		payload = payload.WithOverrideZone(ev.Zone)
	}
	ref := r.ts.ElapsedRealtimeMillis() - age.Milliseconds()
	return nitz.NewSignal(payload, ref), nil
}

func (r *runner) check(exp *Expect, snap metrics.Snapshot) []string {
	var failures []string
	if exp.Time != "" {
		want, err := time.Parse(timeLayout, exp.Time)
		if err != nil {
			failures = append(failures, fmt.Sprintf("invalid expected time %q", exp.Time))
		} else if got := r.ts.CurrentTimeMillis(); got != want.UnixMilli() {
			failures = append(failures, fmt.Sprintf("device time = %s, want %s",
				time.UnixMilli(got).UTC().Format(time.RFC3339Nano), want.UTC().Format(time.RFC3339Nano)))
		}
	}
	if exp.Zone != "" && r.ts.Zone() != exp.Zone {
		failures = append(failures, fmt.Sprintf("device zone = %q, want %q", r.ts.Zone(), exp.Zone))
	}
	if exp.ZoneDetectionSuccessful != nil && r.machine.ZoneDetectionSuccessful() != *exp.ZoneDetectionSuccessful {
		failures = append(failures, fmt.Sprintf("zone detection successful = %t, want %t",
			r.machine.ZoneDetectionSuccessful(), *exp.ZoneDetectionSuccessful))
	}
	if exp.TimeSets != nil && snap.NetworkTimeCount != *exp.TimeSets {
		failures = append(failures, fmt.Sprintf("network time updates = %d, want %d",
			snap.NetworkTimeCount, *exp.TimeSets))
	}
	return failures
}
