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
	"github.com/ZaparooProject/zaparoo-netclock/pkg/nitz"
	"github.com/rs/zerolog/log"
)

// HandleSignalReceived caches sig as the latest signal, then runs zone
// detection followed by time detection.
func (m *Machine) HandleSignalReceived(sig nitz.Signal) {
	m.state.LatestSignal = &sig

	m.updateZoneFromCountryAndSignal()
	m.updateTimeFromSignal()
}

// HandleCountryCodeSet records that the network country code is known.
// countryChanged reports whether it differs from the previous observation.
func (m *Machine) HandleCountryCodeSet(countryChanged bool) {
	hadCountryCode := m.state.GotCountryCode
	m.state.GotCountryCode = true

	iso := m.deviceState.NetworkCountryISO()
	if iso != "" && !m.state.ZoneDetectionSuccessful {
		m.updateZoneFromCountry(iso)
	}

	// The same payload can resolve to a different zone once the country is
	// known or has changed.
	if m.state.LatestSignal != nil && (countryChanged || !hadCountryCode) {
		m.updateZoneFromCountryAndSignal()
	}
}

// HandleNetworkAvailable forces zone detection to be re-confirmed against
// the new network. The country code is kept.
func (m *Machine) HandleNetworkAvailable() {
	log.Debug().
		Bool("zoneDetectionSuccessful", m.state.ZoneDetectionSuccessful).
		Msg("nitz: network available, clearing zone detection result")
	m.state.ZoneDetectionSuccessful = false
}

// HandleNetworkUnavailable forgets the country code and the zone detection
// result. Cached signal, saved time and saved zone are kept.
func (m *Machine) HandleNetworkUnavailable() {
	log.Debug().Msg("nitz: network unavailable")
	m.state.GotCountryCode = false
	m.state.ZoneDetectionSuccessful = false
}
