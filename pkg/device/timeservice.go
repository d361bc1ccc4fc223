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

package device

import (
	"errors"
	"fmt"
	"time"
	// Zone ids are validated against the embedded database so hosts
	// without zoneinfo behave the same.
	_ "time/tzdata"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/config"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/detector"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

var ErrEmptyZone = errors.New("empty time zone id")

// TimeService is a simulated device clock and time zone on top of a host
// clock. The monotonic clock starts at the host uptime and advances with
// the host clock; the wall clock is the host clock plus an offset that
// SetDeviceTime adjusts.
type TimeService struct {
	clock    clockwork.Clock
	settings Settings
	listener detector.Listener
	start    time.Time
	location *time.Location
	zoneID   string
	boot     time.Duration
	offset   time.Duration
	mu       syncutil.Mutex
}

type TimeServiceOption func(*TimeService)

// WithClock sets the host clock. Defaults to the real clock.
func WithClock(clock clockwork.Clock) TimeServiceOption {
	return func(s *TimeService) {
		s.clock = clock
	}
}

// WithUptime sets the monotonic reading at construction, in place of the
// host uptime.
func WithUptime(d time.Duration) TimeServiceOption {
	return func(s *TimeService) {
		s.boot = d
	}
}

const uptimeUnset = time.Duration(-1)

func NewTimeService(settings Settings, opts ...TimeServiceOption) *TimeService {
	s := &TimeService{
		settings: settings,
		boot:     uptimeUnset,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.boot == uptimeUnset {
		uptime, err := helpers.GetSystemUptime()
		if err != nil {
			log.Warn().Err(err).Msg("device: failed to read system uptime, monotonic clock starts at zero")
			uptime = 0
		}
		s.boot = uptime
	}
	s.start = s.clock.Now()
	return s
}

func (s *TimeService) SetListener(l detector.Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

func (s *TimeService) CurrentTimeMillis() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Now().Add(s.offset).UnixMilli()
}

func (s *TimeService) ElapsedRealtimeMillis() int64 {
	return (s.boot + s.clock.Since(s.start)).Milliseconds()
}

func (s *TimeService) IsTimeDetectionEnabled() bool {
	return s.settings.AutoTime()
}

func (s *TimeService) IsZoneDetectionEnabled() bool {
	return s.settings.AutoZone()
}

func (s *TimeService) IsZoneSettingInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location != nil
}

func (s *TimeService) SetDeviceTime(timeMillis int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.offset = time.UnixMilli(timeMillis).Sub(now)
	log.Info().
		Time("time", time.UnixMilli(timeMillis).UTC()).
		Dur("offset", s.offset).
		Msg("device: clock set")
	return nil
}

// SetDeviceZone sets the device time zone. The id must be known to the
// host's time zone database.
func (s *TimeService) SetDeviceZone(zoneID string) error {
	if zoneID == "" {
		return ErrEmptyZone
	}
	loc, err := time.LoadLocation(zoneID)
	if err != nil {
		return fmt.Errorf("failed to load time zone %q: %w", zoneID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoneID = zoneID
	s.location = loc
	log.Info().Str("zone", zoneID).Msg("device: time zone set")
	return nil
}

// Zone returns the device time zone id, or empty if none has been set.
func (s *TimeService) Zone() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoneID
}

// LocalTime returns the device wall clock in the device time zone. The
// zone is UTC until one has been set.
func (s *TimeService) LocalTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc := s.location
	if loc == nil {
		loc = time.UTC
	}
	return s.clock.Now().Add(s.offset).In(loc)
}

// ApplyConfigChange tells the listener about detection toggles that were
// switched on between prev and next. The settings must already hold next.
//
//nolint:gocritic // config structs copied for immutability
func (s *TimeService) ApplyConfigChange(prev, next config.Values) {
	autoTime, autoZone := config.DetectionEnabled(prev, next)
	if autoTime {
		s.NotifyTimeDetectionChanged(true)
	}
	if autoZone {
		s.NotifyZoneDetectionChanged(true)
	}
}

// NotifyTimeDetectionChanged passes a change of the automatic time setting
// to the listener, if one is registered.
func (s *TimeService) NotifyTimeDetectionChanged(enabled bool) {
	if l := s.currentListener(); l != nil {
		log.Info().Bool("enabled", enabled).Msg("device: automatic time changed")
		l.OnTimeDetectionChanged(enabled)
	}
}

// NotifyZoneDetectionChanged passes a change of the automatic time zone
// setting to the listener, if one is registered.
func (s *TimeService) NotifyZoneDetectionChanged(enabled bool) {
	if l := s.currentListener(); l != nil {
		log.Info().Bool("enabled", enabled).Msg("device: automatic time zone changed")
		l.OnZoneDetectionChanged(enabled)
	}
}

func (s *TimeService) currentListener() detector.Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener
}
