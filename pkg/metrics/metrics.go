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

// Package metrics provides an in-memory sink for network time events.
package metrics

import (
	"time"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Snapshot is a point-in-time copy of the recorder's counters.
type Snapshot struct {
	// LastRecordedAt is the host wall time of the last event. Zero if none.
	LastRecordedAt time.Time
	// LastNetworkTimeMillis is the last device time applied from the network.
	LastNetworkTimeMillis int64
	NetworkTimeCount      int
}

// Recorder counts network time updates applied to the device clock.
type Recorder struct {
	clock clockwork.Clock
	snap  Snapshot
	mu    syncutil.Mutex
}

// NewRecorder returns a Recorder stamping events with clock. A nil clock
// uses the real one.
func NewRecorder(clock clockwork.Clock) *Recorder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Recorder{clock: clock}
}

// RecordNetworkTime records that the device clock was set to timeMillis.
func (r *Recorder) RecordNetworkTime(timeMillis int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snap.NetworkTimeCount++
	r.snap.LastNetworkTimeMillis = timeMillis
	r.snap.LastRecordedAt = r.clock.Now()

	log.Debug().
		Int64("timeMillis", timeMillis).
		Int("count", r.snap.NetworkTimeCount).
		Msg("metrics: network time recorded")
}

// Snapshot returns a copy of the current counters.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}
