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

// Package scenario replays scripted network events against a detector
// running over simulated device collaborators.
//
// A scenario file sets the initial device settings, provides the zone
// lookup answers as fixture tables, and lists events in order. Files are
// TOML, or YAML when the extension is .yaml or .yml.
package scenario

import "time"

// DefaultStartTime is the host clock at the start of a scenario that does
// not set one.
var DefaultStartTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

const timeLayout = time.RFC3339

// Event kinds.
const (
	KindAdvance     = "advance"
	KindSignal      = "signal"
	KindCountry     = "country"
	KindAvailable   = "available"
	KindUnavailable = "unavailable"
	KindAutoTime    = "auto_time"
	KindAutoZone    = "auto_zone"
)

type Scenario struct {
	Expect *Expect  `toml:"expect"  yaml:"expect"`
	Name   string   `toml:"name"    yaml:"name"`
	Device Device   `toml:"device"  yaml:"device"`
	Lookup Fixtures `toml:"lookup"  yaml:"lookup"`
	Events []Event  `toml:"event"   yaml:"events" validate:"dive"`
}

type Device struct {
	AutoTime      *bool  `toml:"auto_time"      yaml:"auto_time"`
	AutoZone      *bool  `toml:"auto_zone"      yaml:"auto_zone"`
	StartTime     string `toml:"start_time"     yaml:"start_time"     validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Uptime        string `toml:"uptime"         yaml:"uptime"         validate:"omitempty,duration"`
	UpdateSpacing string `toml:"update_spacing" yaml:"update_spacing" validate:"omitempty,duration"`
	UpdateDiff    string `toml:"update_diff"    yaml:"update_diff"    validate:"omitempty,duration"`
	Ignore        bool   `toml:"ignore"         yaml:"ignore"`
}

// Fixtures are the scripted answers of the zone lookup. Offsets are in
// minutes east of UTC. A nil DST matches either flag.
type Fixtures struct {
	Country      []CountryFixture     `toml:"country"       yaml:"country"       validate:"dive"`
	Nitz         []NitzFixture        `toml:"nitz"          yaml:"nitz"          validate:"dive"`
	NitzCountry  []NitzCountryFixture `toml:"nitz_country"  yaml:"nitz_country"  validate:"dive"`
	UTCCountries []string             `toml:"utc_countries" yaml:"utc_countries" validate:"dive,len=2"`
}

type CountryFixture struct {
	ISO        string `toml:"iso"         yaml:"iso"         validate:"required,len=2"`
	Zone       string `toml:"zone"        yaml:"zone"        validate:"required"`
	SameOffset bool   `toml:"same_offset" yaml:"same_offset"`
}

type NitzFixture struct {
	DST           *bool  `toml:"dst"            yaml:"dst"`
	Zone          string `toml:"zone"           yaml:"zone"           validate:"required"`
	OffsetMinutes int    `toml:"offset_minutes" yaml:"offset_minutes" validate:"min=-1440,max=1440"`
	OnlyMatch     bool   `toml:"only_match"     yaml:"only_match"`
}

type NitzCountryFixture struct {
	DST           *bool  `toml:"dst"            yaml:"dst"`
	ISO           string `toml:"iso"            yaml:"iso"            validate:"required,len=2"`
	Zone          string `toml:"zone"           yaml:"zone"           validate:"required"`
	OffsetMinutes int    `toml:"offset_minutes" yaml:"offset_minutes" validate:"min=-1440,max=1440"`
	OnlyMatch     bool   `toml:"only_match"     yaml:"only_match"`
}

// Event is one step of a scenario. Which fields apply depends on Kind:
// advance uses Duration; signal uses Time, OffsetMinutes, DST, Zone and Age;
// country uses Country; auto_time and auto_zone use Enabled.
type Event struct {
	Enabled       *bool  `toml:"enabled"        yaml:"enabled"`
	Kind          string `toml:"kind"           yaml:"kind"           validate:"required,oneof=advance signal country available unavailable auto_time auto_zone"`
	Duration      string `toml:"duration"       yaml:"duration"       validate:"omitempty,duration"`
	Time          string `toml:"time"           yaml:"time"           validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Zone          string `toml:"zone"           yaml:"zone"`
	Age           string `toml:"age"            yaml:"age"            validate:"omitempty,duration"`
	Country       string `toml:"country"        yaml:"country"        validate:"omitempty,len=2"`
	OffsetMinutes int    `toml:"offset_minutes" yaml:"offset_minutes" validate:"min=-1440,max=1440"`
	DST           bool   `toml:"dst"            yaml:"dst"`
}

// Expect holds optional checks against the final device state.
type Expect struct {
	ZoneDetectionSuccessful *bool  `toml:"zone_detection_successful" yaml:"zone_detection_successful"`
	TimeSets                *int   `toml:"time_sets"                 yaml:"time_sets"                 validate:"omitempty,min=0"`
	Time                    string `toml:"time"                      yaml:"time"                      validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Zone                    string `toml:"zone"                      yaml:"zone"`
}
