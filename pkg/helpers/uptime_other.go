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

//go:build !linux

package helpers

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/host"
)

// GetSystemUptime returns the duration since the system booted. Outside
// Linux the boot time comes from gopsutil and has whole-second resolution.
func GetSystemUptime() (time.Duration, error) {
	boot, err := host.BootTime()
	if err != nil {
		return 0, fmt.Errorf("failed to read boot time: %w", err)
	}
	//nolint:gosec // boot time in seconds fits in int64
	return time.Since(time.Unix(int64(boot), 0)), nil
}
