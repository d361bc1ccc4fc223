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

	"github.com/ZaparooProject/zaparoo-netclock/pkg/nitz"
	"github.com/rs/zerolog/log"
)

// ZoneRule identifies which resolution rule produced a zone decision.
type ZoneRule uint8

const (
	// RuleOverride used the zone carried by the payload.
	RuleOverride ZoneRule = iota + 1
	// RuleNoCountry gave no zone because no country code has been observed.
	RuleNoCountry
	// RuleEmptyCountry used an offset-only lookup for an empty country code.
	RuleEmptyCountry
	// RuleNoSignal gave no zone because no signal is cached.
	RuleNoSignal
	// RuleBogus gave no zone because the signal contradicts the country.
	RuleBogus
	// RuleCountryAndNitz used the combined country and offset lookup.
	RuleCountryAndNitz
)

func (r ZoneRule) String() string {
	switch r {
	case RuleOverride:
		return "override"
	case RuleNoCountry:
		return "no_country"
	case RuleEmptyCountry:
		return "empty_country"
	case RuleNoSignal:
		return "no_signal"
	case RuleBogus:
		return "bogus"
	case RuleCountryAndNitz:
		return "country_and_nitz"
	default:
		return "unknown"
	}
}

type zoneDecision struct {
	zoneID string
	rule   ZoneRule
}

// updateZoneFromCountryAndSignal resolves a zone from the latest signal and
// the network country code. A resolved zone is always saved and marks zone
// detection successful; it is pushed to the device only when automatic zone
// detection is enabled.
func (m *Machine) updateZoneFromCountryAndSignal() {
	iso := m.deviceState.NetworkCountryISO()
	sig := m.state.LatestSignal

	var initialized bool
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("signal", signalString(sig)).
				Str("iso", iso).
				Bool("zoneSettingInitialized", initialized).
				Msg("nitz: panic while processing zone signal")
		}
	}()

	// The device default zone is indistinguishable from a chosen one, so the
	// initialized flag is logged with every decision.
	initialized = m.timeService.IsZoneSettingInitialized()

	log.Debug().
		Bool("zoneSettingInitialized", initialized).
		Str("signal", signalString(sig)).
		Str("iso", iso).
		Msg("nitz: updating zone from country and signal")

	decision, err := m.resolveZone(sig, iso)
	if err != nil {
		log.Error().
			Err(err).
			Str("signal", signalString(sig)).
			Str("iso", iso).
			Bool("zoneSettingInitialized", initialized).
			Msg("nitz: failed to resolve zone")
		return
	}

	enabled := m.timeService.IsZoneDetectionEnabled()
	m.zoneLog.Log(fmt.Sprintf(
		"updateZoneFromCountryAndSignal: isZoneSettingInitialized=%t iso=%s signal=%s zoneID=%s rule=%s isZoneDetectionEnabled=%t",
		initialized, iso, signalString(sig), decision.zoneID, decision.rule, enabled,
	))

	if decision.zoneID == "" {
		log.Debug().Stringer("rule", decision.rule).Msg("nitz: no zone resolved, doing nothing")
		return
	}

	if enabled {
		if err := m.setDeviceZone(decision.zoneID); err != nil {
			log.Error().
				Err(err).
				Str("zoneID", decision.zoneID).
				Str("signal", signalString(sig)).
				Str("iso", iso).
				Msg("nitz: failed to set device zone")
			return
		}
	} else {
		log.Debug().Str("zoneID", decision.zoneID).Msg("nitz: automatic zone disabled, not changing zone")
	}

	m.state.SavedZoneID = decision.zoneID
	m.state.ZoneDetectionSuccessful = true
}

// resolveZone applies the zone rules in order; the first match wins.
func (m *Machine) resolveZone(sig *nitz.Signal, iso string) (zoneDecision, error) {
	switch {
	case sig != nil && sig.Value.HasOverrideZone():
		return zoneDecision{zoneID: sig.Value.OverrideZoneID, rule: RuleOverride}, nil
	case !m.state.GotCountryCode:
		return zoneDecision{rule: RuleNoCountry}, nil
	case iso == "" && sig != nil:
		// Most likely a test network with a reserved MCC. An offset-only
		// match has the right offset but is often the wrong zone, so the
		// outcome is always recorded.
		result, err := m.lookup.LookupByNitz(sig.Value)
		if err != nil {
			return zoneDecision{}, fmt.Errorf("offset lookup failed: %w", err)
		}
		m.zoneLog.Log(fmt.Sprintf("updateZoneFromCountryAndSignal: lookupByNitz returned lookupResult=%s",
			offsetResultString(result)))
		return zoneDecision{zoneID: offsetZone(result), rule: RuleEmptyCountry}, nil
	case sig == nil:
		return zoneDecision{rule: RuleNoSignal}, nil
	}

	bogus, err := m.isSignalOffsetBogus(*sig, iso)
	if err != nil {
		return zoneDecision{}, err
	}
	if bogus {
		m.zoneLog.Log(fmt.Sprintf("updateZoneFromCountryAndSignal: Received signal looks bogus, iso=%s signal=%s",
			iso, sig))
		return zoneDecision{rule: RuleBogus}, nil
	}

	result, err := m.lookup.LookupByNitzCountry(sig.Value, iso)
	if err != nil {
		return zoneDecision{}, fmt.Errorf("country and offset lookup failed: %w", err)
	}
	log.Debug().
		Str("payload", sig.Value.String()).
		Str("iso", iso).
		Str("result", offsetResultString(result)).
		Msg("nitz: looked up zone by country and offset")
	return zoneDecision{zoneID: offsetZone(result), rule: RuleCountryAndNitz}, nil
}

// isSignalOffsetBogus reports whether the signal is definitely wrong,
// assuming the country is right: it claims UTC without DST for a country
// that has no zone at UTC. With no country nothing can be said.
func (m *Machine) isSignalOffsetBogus(sig nitz.Signal, iso string) (bool, error) {
	if iso == "" {
		return false, nil
	}
	if !sig.Value.IsZeroOffset() {
		return false, nil
	}
	usesUTC, err := m.lookup.CountryUsesUTC(iso, sig.Value.AbsoluteTimeMillis)
	if err != nil {
		return false, fmt.Errorf("utc lookup failed: %w", err)
	}
	return !usesUTC, nil
}

// updateZoneFromCountry sets the zone from the country code alone, which is
// only possible when every zone of the country shares one offset. This path
// does not mark zone detection successful, so a later signal can still
// refine the result.
func (m *Machine) updateZoneFromCountry(iso string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("iso", iso).
				Msg("nitz: panic while setting zone from country")
		}
	}()

	result, err := m.lookup.LookupByCountry(iso, m.timeService.CurrentTimeMillis())
	if err != nil {
		log.Error().Err(err).Str("iso", iso).Msg("nitz: failed to look up zone by country")
		return
	}
	if result == nil || !result.AllZonesHaveSameOffset {
		log.Debug().
			Str("iso", iso).
			Str("result", countryResultString(result)).
			Msg("nitz: no unambiguous zone for country")
		return
	}

	m.zoneLog.Log(fmt.Sprintf("updateZoneFromCountry: zone result found iso=%s lookupResult=%s",
		iso, countryResultString(result)))

	if m.timeService.IsZoneDetectionEnabled() {
		if err := m.setDeviceZone(result.ZoneID); err != nil {
			log.Error().Err(err).Str("iso", iso).Str("zoneID", result.ZoneID).Msg("nitz: failed to set device zone")
			return
		}
	}
	m.state.SavedZoneID = result.ZoneID
}

func (m *Machine) setDeviceZone(zoneID string) error {
	log.Debug().Str("zoneID", zoneID).Msg("nitz: setting device zone")
	if err := m.timeService.SetDeviceZone(zoneID); err != nil {
		return fmt.Errorf("failed to set device zone %q: %w", zoneID, err)
	}
	return nil
}

// handleAutoZoneEnabled re-applies the saved zone, if any.
func (m *Machine) handleAutoZoneEnabled() {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("savedZoneID", m.state.SavedZoneID).
				Msg("nitz: panic while reverting to network zone")
		}
	}()

	msg := "handleAutoZoneEnabled: Reverting to network zone: savedZoneID=" + m.state.SavedZoneID
	log.Debug().Msg("nitz: " + msg)
	m.zoneLog.Log(msg)

	if m.state.SavedZoneID == "" {
		return
	}
	if err := m.setDeviceZone(m.state.SavedZoneID); err != nil {
		log.Error().Err(err).Str("savedZoneID", m.state.SavedZoneID).Msg("nitz: failed to revert to network zone")
	}
}

func offsetZone(r *OffsetResult) string {
	if r == nil {
		return ""
	}
	return r.ZoneID
}

func offsetResultString(r *OffsetResult) string {
	if r == nil {
		return "<none>"
	}
	return fmt.Sprintf("OffsetResult{zoneID=%s, onlyMatch=%t}", r.ZoneID, r.OnlyMatch)
}

func countryResultString(r *CountryResult) string {
	if r == nil {
		return "<none>"
	}
	return fmt.Sprintf("CountryResult{zoneID=%s, allZonesHaveSameOffset=%t}", r.ZoneID, r.AllZonesHaveSameOffset)
}
