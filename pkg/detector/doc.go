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

// Package detector decides, from intermittent network time signals and the
// network country code, what wall-clock time and time zone the device should
// adopt.
//
// # Triggers
//
// A Machine has five entry points, all of which must be called from a single
// goroutine (or otherwise serialized by the owner):
//
//   - HandleSignalReceived: a new network time signal arrived
//   - HandleCountryCodeSet: the network country code was observed
//   - HandleNetworkAvailable / HandleNetworkUnavailable
//   - detection toggles, delivered by the TimeService through a Listener
//
// # Time detection
//
// The time engine adjusts the signal by the monotonic time elapsed since it
// was received, then applies it to the device unless the previous applied
// time is both recent and close enough. When automatic time is disabled the
// computed time is still remembered so it can be applied immediately if the
// user re-enables automatic time.
//
// # Zone detection
//
// The zone engine resolves a zone from the latest signal and the country
// code, in order: override zone from the payload, nothing without a country,
// an offset-only lookup for an empty country, nothing without a signal,
// nothing for a bogus zero-offset signal, otherwise a country+offset lookup.
// Until a signal-based result exists, a country whose zones all share one
// offset is enough on its own.
//
// The Machine performs no locking and no I/O of its own. Errors and panics
// raised by collaborators while resolving are logged and treated as "no
// decision".
package detector
