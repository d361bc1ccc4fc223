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

type Detection struct {
	AutoTime *bool `toml:"auto_time,omitempty"`
	AutoZone *bool `toml:"auto_zone,omitempty"`
}

func (c *Instance) AutoTime() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Detection.autoTime()
}

func (c *Instance) SetAutoTime(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Detection.AutoTime = &enabled
}

func (c *Instance) AutoZone() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Detection.autoZone()
}

func (c *Instance) SetAutoZone(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Detection.AutoZone = &enabled
}

func (d Detection) autoTime() bool {
	if d.AutoTime == nil {
		return true
	}
	return *d.AutoTime
}

func (d Detection) autoZone() bool {
	if d.AutoZone == nil {
		return true
	}
	return *d.AutoZone
}
