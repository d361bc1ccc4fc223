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
	"math"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/nitz"
	"github.com/rs/zerolog/log"
)

// updateTimeFromSignal applies the latest signal to the device clock, subject
// to throttling. It never returns an error: failures are logged and leave the
// saved time untouched.
func (m *Machine) updateTimeFromSignal() {
	sig := m.state.LatestSignal
	if sig == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("signal", signalString(sig)).
				Msg("nitz: panic while processing time signal")
		}
	}()

	if m.deviceState.IgnoreNetworkTime() {
		log.Debug().Msg("nitz: not setting clock, network time is ignored")
		return
	}

	if err := m.applyTimeSignal(*sig); err != nil {
		log.Error().
			Err(err).
			Str("signal", signalString(sig)).
			Msg("nitz: failed to process time signal")
	}
}

func (m *Machine) applyTimeSignal(sig nitz.Signal) error {
	// The monotonic and wall clocks are read, and possibly written, while
	// the device is held awake.
	m.wakeLock.Acquire()
	defer m.wakeLock.Release()

	elapsedRealtime := m.timeService.ElapsedRealtimeMillis()
	sinceReceived := sig.AgeAt(elapsedRealtime)
	if sinceReceived < 0 || sinceReceived > math.MaxInt32 {
		log.Debug().
			Int64("elapsedRealtime", elapsedRealtime).
			Str("signal", sig.String()).
			Msg("nitz: not setting time, unexpected elapsed realtime")
		return nil
	}

	adjusted := sig.Value.AbsoluteTimeMillis + sinceReceived
	gained := adjusted - m.timeService.CurrentTimeMillis()

	if m.timeService.IsTimeDetectionEnabled() {
		msg := fmt.Sprintf(
			"updateTimeFromSignal: signal=%s adjustedCurrentTimeMillis=%d millisSinceReceived=%d gained=%d",
			sig, adjusted, sinceReceived, gained,
		)

		if m.state.SavedTime == nil {
			if err := m.setDeviceTime(msg+": First update received.", adjusted); err != nil {
				return err
			}
		} else {
			sinceLastSaved := m.timeService.ElapsedRealtimeMillis() - m.state.SavedTime.ReferenceTimeMillis
			spacing := m.deviceState.UpdateSpacingMillis()
			diff := m.deviceState.UpdateDiffMillis()
			if sinceLastSaved <= spacing && absMillis(gained) <= diff {
				// The saved time is deliberately left alone so the next
				// signal is compared against the last applied one.
				log.Debug().Msg("nitz: " + msg + ": Update throttled.")
				return nil
			}
			if err := m.setDeviceTime(msg+": New update received.", adjusted); err != nil {
				return err
			}
		}
	}

	saved := nitz.NewTimestamped(adjusted, sig.ReferenceTimeMillis)
	m.state.SavedTime = &saved
	return nil
}

// setDeviceTime writes the device clock and records the event.
func (m *Machine) setDeviceTime(msg string, timeMillis int64) error {
	if !m.wakeLock.Held() {
		log.Warn().Str("msg", msg).Msg("nitz: wake lock not held while setting device time")
	}

	msg = fmt.Sprintf("setDeviceTime: [Setting time to time=%d]:%s", timeMillis, msg)
	log.Debug().Msg("nitz: " + msg)
	m.timeLog.Log(msg)

	if err := m.timeService.SetDeviceTime(timeMillis); err != nil {
		return fmt.Errorf("failed to set device time: %w", err)
	}
	m.metrics.RecordNetworkTime(timeMillis)
	return nil
}

// handleAutoTimeEnabled re-applies the saved time, advanced by the monotonic
// time elapsed since it was saved.
func (m *Machine) handleAutoTimeEnabled() {
	saved := m.state.SavedTime
	log.Debug().Str("savedTime", savedTimeString(saved)).Msg("nitz: automatic time enabled, reverting to network time")
	if saved == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("savedTime", saved.String()).
				Msg("nitz: panic while reverting to network time")
		}
	}()

	m.wakeLock.Acquire()
	defer m.wakeLock.Release()

	elapsedRealtime := m.timeService.ElapsedRealtimeMillis()
	msg := fmt.Sprintf("savedTime: Reverting to network time elapsedRealtime=%d savedTime=%s",
		elapsedRealtime, saved)
	adjusted := saved.Value + saved.AgeAt(elapsedRealtime)
	if err := m.setDeviceTime(msg, adjusted); err != nil {
		log.Error().
			Err(err).
			Str("savedTime", saved.String()).
			Msg("nitz: failed to revert to network time")
	}
}

func absMillis(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
