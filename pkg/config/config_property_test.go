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
	"testing"
	"time"

	"pgregory.net/rapid"
)

// ============================================================================
// Duration Property Tests
// ============================================================================

// TestPropertyValidDurationsRoundTrip verifies any non-negative duration
// written in Go syntax is returned as-is.
func TestPropertyValidDurationsRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		d := time.Duration(rapid.Int64Range(0, int64(24*time.Hour)).Draw(t, "d"))

		cfg := &Instance{}
		cfg.vals.Nitz.UpdateSpacing = d.String()
		cfg.vals.Nitz.UpdateDiff = d.String()

		if got := cfg.UpdateSpacing(); got != d {
			t.Fatalf("UpdateSpacing = %v, want %v", got, d)
		}
		if got := cfg.UpdateDiff(); got != d {
			t.Fatalf("UpdateDiff = %v, want %v", got, d)
		}
	})
}

// TestPropertyNegativeDurationsUseDefault verifies negative durations never
// reach the detector.
func TestPropertyNegativeDurationsUseDefault(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		d := time.Duration(rapid.Int64Range(-int64(24*time.Hour), -1).Draw(t, "d"))

		cfg := &Instance{}
		cfg.vals.Nitz.UpdateSpacing = d.String()

		if got := cfg.UpdateSpacing(); got != DefaultUpdateSpacing {
			t.Fatalf("UpdateSpacing = %v for %v, want default", got, d)
		}
	})
}

// ============================================================================
// Detection Toggle Property Tests
// ============================================================================

// TestPropertyDetectionEnabledOnlyOnRisingEdge verifies a toggle is only
// reported when it goes from off to on.
func TestPropertyDetectionEnabledOnlyOnRisingEdge(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		prevTime := rapid.Bool().Draw(t, "prevTime")
		nextTime := rapid.Bool().Draw(t, "nextTime")
		prevZone := rapid.Bool().Draw(t, "prevZone")
		nextZone := rapid.Bool().Draw(t, "nextZone")

		prev := Values{Detection: Detection{AutoTime: &prevTime, AutoZone: &prevZone}}
		next := Values{Detection: Detection{AutoTime: &nextTime, AutoZone: &nextZone}}

		gotTime, gotZone := DetectionEnabled(prev, next)
		if gotTime != (!prevTime && nextTime) {
			t.Fatalf("auto time edge = %t for %t -> %t", gotTime, prevTime, nextTime)
		}
		if gotZone != (!prevZone && nextZone) {
			t.Fatalf("auto zone edge = %t for %t -> %t", gotZone, prevZone, nextZone)
		}
	})
}
