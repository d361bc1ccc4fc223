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
	"slices"
	"strings"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/detector"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/nitz"
)

// FixtureLookup answers zone lookups from fixture tables. The first
// matching row wins; no row means no result.
type FixtureLookup struct {
	fixtures Fixtures
}

func NewFixtureLookup(f Fixtures) *FixtureLookup {
	return &FixtureLookup{fixtures: f}
}

func offsetMatches(offsetMinutes int, dst *bool, p nitz.Payload) bool {
	if int64(offsetMinutes)*60_000 != int64(p.LocalOffsetMillis) {
		return false
	}
	return dst == nil || *dst == p.DST
}

func (l *FixtureLookup) LookupByNitz(p nitz.Payload) (*detector.OffsetResult, error) {
	for _, f := range l.fixtures.Nitz {
		if offsetMatches(f.OffsetMinutes, f.DST, p) {
			return &detector.OffsetResult{ZoneID: f.Zone, OnlyMatch: f.OnlyMatch}, nil
		}
	}
	return nil, nil
}

func (l *FixtureLookup) LookupByNitzCountry(p nitz.Payload, iso string) (*detector.OffsetResult, error) {
	for _, f := range l.fixtures.NitzCountry {
		if strings.EqualFold(f.ISO, iso) && offsetMatches(f.OffsetMinutes, f.DST, p) {
			return &detector.OffsetResult{ZoneID: f.Zone, OnlyMatch: f.OnlyMatch}, nil
		}
	}
	return nil, nil
}

func (l *FixtureLookup) LookupByCountry(iso string, _ int64) (*detector.CountryResult, error) {
	for _, f := range l.fixtures.Country {
		if strings.EqualFold(f.ISO, iso) {
			return &detector.CountryResult{ZoneID: f.Zone, AllZonesHaveSameOffset: f.SameOffset}, nil
		}
	}
	return nil, nil
}

func (l *FixtureLookup) CountryUsesUTC(iso string, _ int64) (bool, error) {
	return slices.ContainsFunc(l.fixtures.UTCCountries, func(c string) bool {
		return strings.EqualFold(c, iso)
	}), nil
}
