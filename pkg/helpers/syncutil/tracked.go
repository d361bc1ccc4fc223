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

package syncutil

import "sync/atomic"

// TrackedMutex is an exclusive lock that also records whether it is
// currently held, so callers deep inside a critical section can check that
// the section was entered correctly.
type TrackedMutex struct {
	mu   Mutex
	held atomic.Bool
}

// Lock acquires the mutex.
func (m *TrackedMutex) Lock() {
	m.mu.Lock()
	m.held.Store(true)
}

// Unlock releases the mutex.
func (m *TrackedMutex) Unlock() {
	m.held.Store(false)
	m.mu.Unlock()
}

// Held reports whether some goroutine currently holds the mutex.
func (m *TrackedMutex) Held() bool {
	return m.held.Load()
}

// Do runs fn with the mutex held and releases it on every exit path,
// including a panic inside fn.
func (m *TrackedMutex) Do(fn func()) {
	m.Lock()
	defer m.Unlock()
	fn()
}
