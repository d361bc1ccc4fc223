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

import "time"

const DefaultPollInterval = time.Hour

type NTP struct {
	Server       string `toml:"server,omitempty"`
	PollInterval string `toml:"poll_interval,omitempty"`
}

// NTPServer returns the configured NTP host, or an empty string when
// polling is disabled.
func (c *Instance) NTPServer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.NTP.Server
}

func (c *Instance) SetNTPServer(host string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.NTP.Server = host
}

func (c *Instance) NTPPollInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d := parseDurationOr("ntp.poll_interval", c.vals.NTP.PollInterval, DefaultPollInterval)
	if d == 0 {
		return DefaultPollInterval
	}
	return d
}
