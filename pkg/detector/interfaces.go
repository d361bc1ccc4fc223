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
	"io"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/nitz"
)

// DeviceState exposes device and network properties read by the detector.
type DeviceState interface {
	// NetworkCountryISO returns the network country code, possibly "".
	NetworkCountryISO() string
	// IgnoreNetworkTime reports whether network time must not set the clock.
	IgnoreNetworkTime() bool
	// UpdateSpacingMillis is the minimum time between two applied updates.
	UpdateSpacingMillis() int64
	// UpdateDiffMillis is the minimum clock difference that forces an update.
	UpdateDiffMillis() int64
}

// Listener receives detection setting changes from a TimeService.
type Listener interface {
	OnTimeDetectionChanged(enabled bool)
	OnZoneDetectionChanged(enabled bool)
}

// TimeService reads and writes the device clock and zone.
type TimeService interface {
	// SetListener registers the single listener for setting changes.
	SetListener(l Listener)
	// CurrentTimeMillis returns the device wall-clock time.
	CurrentTimeMillis() int64
	// ElapsedRealtimeMillis returns a monotonic clock reading.
	ElapsedRealtimeMillis() int64
	IsTimeDetectionEnabled() bool
	IsZoneDetectionEnabled() bool
	// IsZoneSettingInitialized reports whether the device zone has ever been
	// explicitly set, by the user or by detection.
	IsZoneSettingInitialized() bool
	SetDeviceTime(timeMillis int64) error
	SetDeviceZone(zoneID string) error
}

// OffsetResult is a zone found from payload offset fields.
type OffsetResult struct {
	ZoneID string
	// OnlyMatch is true when no other zone matched the lookup.
	OnlyMatch bool
}

// CountryResult is a zone found from a country code alone.
type CountryResult struct {
	ZoneID string
	// AllZonesHaveSameOffset is true when every zone used by the country has
	// the same UTC offset at the lookup time.
	AllZonesHaveSameOffset bool
}

// ZoneLookup maps payloads and country codes to zones. A nil result means
// nothing matched.
type ZoneLookup interface {
	LookupByNitz(payload nitz.Payload) (*OffsetResult, error)
	LookupByNitzCountry(payload nitz.Payload, iso string) (*OffsetResult, error)
	LookupByCountry(iso string, atTimeMillis int64) (*CountryResult, error)
	// CountryUsesUTC reports whether any zone of the country has a zero
	// offset at the given time.
	CountryUsesUTC(iso string, atTimeMillis int64) (bool, error)
}

// WakeLock keeps the device awake across a clock read and write.
type WakeLock interface {
	Acquire()
	Release()
	Held() bool
}

// DiagnosticLog is a bounded append-only decision log.
type DiagnosticLog interface {
	Log(msg string)
	Dump(w io.Writer, indent string) error
}

// Metrics records applied network time events.
type Metrics interface {
	RecordNetworkTime(timeMillis int64)
}
