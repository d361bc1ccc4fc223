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
	"testing"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/nitz"
	"pgregory.net/rapid"
)

// payloadGen generates payloads around the base time with realistic offsets.
func payloadGen() *rapid.Generator[nitz.Payload] {
	return rapid.Custom(func(t *rapid.T) nitz.Payload {
		// quarter-hour steps between UTC-12 and UTC+14
		quarters := rapid.Int32Range(-48, 56).Draw(t, "offsetQuarters")
		p := nitz.NewPayload(
			baseTimeMillis+rapid.Int64Range(-86400000, 86400000).Draw(t, "skew"),
			quarters*15*60*1000,
			rapid.Bool().Draw(t, "dst"),
		)
		if rapid.IntRange(0, 9).Draw(t, "override") == 0 {
			p = p.WithOverrideZone("Etc/UTC")
		}
		return p
	})
}

// TestPropertyLatestSignalAlwaysCached verifies the cached payload is the
// last one received, whatever was applied.
func TestPropertyLatestSignalAlwaysCached(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		h := buildHarness()
		h.lookup.SetupBasicMock()
		h.device.iso = rapid.SampledFrom([]string{"", "us", "gb"}).Draw(t, "iso")
		h.device.timeEnabled = rapid.Bool().Draw(t, "timeEnabled")
		h.device.zoneEnabled = rapid.Bool().Draw(t, "zoneEnabled")

		n := rapid.IntRange(1, 20).Draw(t, "signals")
		var last nitz.Payload
		for i := range n {
			if rapid.Bool().Draw(t, "countryEvent") {
				h.machine.HandleCountryCodeSet(rapid.Bool().Draw(t, "changed"))
			}
			h.device.advance(rapid.Int64Range(0, 30*60*1000).Draw(t, "advance"))
			last = payloadGen().Draw(t, "payload")
			// reference times may be slightly in the future to exercise rejection
			ref := h.device.elapsed - rapid.Int64Range(-10, 5000).Draw(t, "age")
			h.machine.HandleSignalReceived(nitz.NewSignal(last, ref))

			cached, ok := h.machine.CachedPayload()
			if !ok || cached != last {
				t.Fatalf("after signal %d cached payload = %v (ok=%t), want %v", i, cached, ok, last)
			}
		}
	})
}

// TestPropertyThrottleLaw verifies that a second signal that is both recent
// and close to the device clock changes neither the clock nor the saved time.
func TestPropertyThrottleLaw(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		h := buildHarness()
		first := payloadGen().Draw(t, "first")
		first.OverrideZoneID = ""
		h.machine.HandleSignalReceived(nitz.NewSignal(first, h.device.elapsed))
		if len(h.device.setTimes) != 1 {
			t.Fatalf("first signal not applied: %v", h.device.setTimes)
		}
		saved := *h.machine.State().SavedTime

		gap := rapid.Int64Range(0, testSpacingMillis).Draw(t, "gap")
		h.device.advance(gap)
		gained := rapid.Int64Range(-testDiffMillis, testDiffMillis).Draw(t, "gained")
		second := nitz.NewPayload(h.device.CurrentTimeMillis()+gained, first.LocalOffsetMillis, first.DST)
		h.machine.HandleSignalReceived(nitz.NewSignal(second, h.device.elapsed))

		if len(h.device.setTimes) != 1 {
			t.Fatalf("throttled signal changed the clock: %v", h.device.setTimes)
		}
		if got := *h.machine.State().SavedTime; got != saved {
			t.Fatalf("throttled signal changed saved time: %v, want %v", got, saved)
		}
	})
}

// TestPropertyDisabledDetectionSaves verifies that with automatic time off
// no signal sets the clock and each valid one is saved as the candidate.
func TestPropertyDisabledDetectionSaves(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		h := buildHarness()
		h.device.timeEnabled = false

		n := rapid.IntRange(1, 10).Draw(t, "signals")
		for range n {
			p := payloadGen().Draw(t, "payload")
			p.OverrideZoneID = ""
			ref := h.device.elapsed
			age := rapid.Int64Range(0, 60*1000).Draw(t, "age")
			h.device.advance(age)
			h.machine.HandleSignalReceived(nitz.NewSignal(p, ref))

			want := nitz.NewTimestamped(p.AbsoluteTimeMillis+age, ref)
			saved := h.machine.State().SavedTime
			if saved == nil || *saved != want {
				t.Fatalf("saved time = %v, want %v", saved, want)
			}
		}
		if len(h.device.setTimes) != 0 {
			t.Fatalf("clock set while detection disabled: %v", h.device.setTimes)
		}
	})
}
