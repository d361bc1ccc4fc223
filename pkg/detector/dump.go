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
	"fmt"
	"io"
)

// DumpState writes a human-readable summary of the cached state.
func (m *Machine) DumpState(w io.Writer) error {
	lines := []string{
		" savedTime=" + savedTimeString(m.state.SavedTime),
		" latestSignal=" + signalString(m.state.LatestSignal),
		fmt.Sprintf(" gotCountryCode=%t", m.state.GotCountryCode),
		" savedZoneID=" + m.state.SavedZoneID,
		fmt.Sprintf(" zoneDetectionSuccessful=%t", m.state.ZoneDetectionSuccessful),
		fmt.Sprintf(" wakeLockHeld=%t", m.wakeLock.Held()),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write state: %w", err)
		}
	}
	return nil
}

// DumpLogs writes the time and zone decision logs.
func (m *Machine) DumpLogs(w io.Writer) error {
	if _, err := fmt.Fprintln(w, " Time Logs:"); err != nil {
		return fmt.Errorf("failed to write logs: %w", err)
	}
	if err := m.timeLog.Dump(w, "   "); err != nil {
		return fmt.Errorf("failed to dump time log: %w", err)
	}
	if _, err := fmt.Fprintln(w, " Time zone Logs:"); err != nil {
		return fmt.Errorf("failed to write logs: %w", err)
	}
	if err := m.zoneLog.Dump(w, "   "); err != nil {
		return fmt.Errorf("failed to dump zone log: %w", err)
	}
	return nil
}
