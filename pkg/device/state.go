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

package device

import (
	"strings"
	"time"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

// Settings are the user preferences the device collaborators read. It is
// satisfied by *config.Instance.
type Settings interface {
	IgnoreNetworkTime() bool
	UpdateSpacing() time.Duration
	UpdateDiff() time.Duration
	AutoTime() bool
	AutoZone() bool
}

// State answers device state queries from settings plus the country most
// recently reported by the radio.
type State struct {
	settings Settings
	iso      string
	mu       syncutil.RWMutex
}

func NewState(settings Settings) *State {
	return &State{settings: settings}
}

// SetNetworkCountry records the network country and reports whether it
// differs from the previous one. Codes are stored lower case.
func (s *State) SetNetworkCountry(iso string) bool {
	iso = strings.ToLower(strings.TrimSpace(iso))

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.iso != iso
	if changed {
		log.Debug().Str("from", s.iso).Str("to", iso).Msg("device: network country changed")
	}
	s.iso = iso
	return changed
}

func (s *State) NetworkCountryISO() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.iso
}

func (s *State) IgnoreNetworkTime() bool {
	return s.settings.IgnoreNetworkTime()
}

func (s *State) UpdateSpacingMillis() int64 {
	return s.settings.UpdateSpacing().Milliseconds()
}

func (s *State) UpdateDiffMillis() int64 {
	return s.settings.UpdateDiff().Milliseconds()
}
