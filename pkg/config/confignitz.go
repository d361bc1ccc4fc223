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
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultUpdateSpacing = 10 * time.Minute
	DefaultUpdateDiff    = 2 * time.Second
)

type Nitz struct {
	UpdateSpacing string `toml:"update_spacing,omitempty"`
	UpdateDiff    string `toml:"update_diff,omitempty"`
	// Country is the network country reported at startup, if known.
	Country string `toml:"country,omitempty"`
	Ignore  bool   `toml:"ignore"`
}

func (c *Instance) IgnoreNetworkTime() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Nitz.Ignore
}

func (c *Instance) SetIgnoreNetworkTime(ignore bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Nitz.Ignore = ignore
}

// UpdateSpacing is the minimum monotonic time between two applied network
// time updates. Invalid or negative values fall back to the default.
func (c *Instance) UpdateSpacing() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDurationOr("nitz.update_spacing", c.vals.Nitz.UpdateSpacing, DefaultUpdateSpacing)
}

// UpdateDiff is the minimum clock difference that forces an update inside
// the spacing window. Invalid or negative values fall back to the default.
func (c *Instance) UpdateDiff() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDurationOr("nitz.update_diff", c.vals.Nitz.UpdateDiff, DefaultUpdateDiff)
}

func (c *Instance) InitialCountry() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Nitz.Country
}

func parseDurationOr(key, s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		log.Warn().Str("key", key).Str("value", s).Msg("invalid duration in config, using default")
		return def
	}
	return d
}
