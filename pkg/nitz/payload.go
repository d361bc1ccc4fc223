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

package nitz

import (
	"fmt"
	"strings"
	"time"
)

// Payload is a decoded network time value, independent of when it was
// received.
type Payload struct {
	// OverrideZoneID is only set on emulated networks. When present it is
	// used as the zone without any lookup.
	OverrideZoneID string
	// AbsoluteTimeMillis is the UTC epoch time reported by the network.
	AbsoluteTimeMillis int64
	// LocalOffsetMillis is the total local offset from UTC, including DST.
	LocalOffsetMillis int32
	// DST reports whether daylight saving was in effect.
	DST bool
}

// NewPayload returns a payload without an override zone.
func NewPayload(absoluteTimeMillis int64, localOffsetMillis int32, dst bool) Payload {
	return Payload{
		AbsoluteTimeMillis: absoluteTimeMillis,
		LocalOffsetMillis:  localOffsetMillis,
		DST:                dst,
	}
}

// WithOverrideZone returns a copy of p carrying an explicit zone id.
func (p Payload) WithOverrideZone(zoneID string) Payload {
	p.OverrideZoneID = zoneID
	return p
}

// HasOverrideZone reports whether the payload short-circuits zone lookup.
func (p Payload) HasOverrideZone() bool {
	return p.OverrideZoneID != ""
}

// IsZeroOffset reports whether the payload claims UTC with no DST, which is
// what a misconfigured network typically sends.
func (p Payload) IsZeroOffset() bool {
	return p.LocalOffsetMillis == 0 && !p.DST
}

// Time returns the absolute time as a time.Time in UTC.
func (p Payload) Time() time.Time {
	return time.UnixMilli(p.AbsoluteTimeMillis).UTC()
}

func (p Payload) String() string {
	var sb strings.Builder
	sb.WriteString("Payload{time=")
	sb.WriteString(p.Time().Format(time.RFC3339Nano))
	fmt.Fprintf(&sb, ", offsetMillis=%d, dst=%t", p.LocalOffsetMillis, p.DST)
	if p.HasOverrideZone() {
		fmt.Fprintf(&sb, ", overrideZone=%s", p.OverrideZoneID)
	}
	sb.WriteString("}")
	return sb.String()
}
