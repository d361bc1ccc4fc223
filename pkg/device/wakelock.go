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
	"sync/atomic"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/helpers/syncutil"
)

// WakeLock keeps the device awake while held. On the host it is an
// exclusive lock that counts acquisitions.
type WakeLock struct {
	mu       syncutil.TrackedMutex
	acquired atomic.Int64
}

func (w *WakeLock) Acquire() {
	w.mu.Lock()
	w.acquired.Add(1)
}

func (w *WakeLock) Release() {
	w.mu.Unlock()
}

func (w *WakeLock) Held() bool {
	return w.mu.Held()
}

// Acquisitions returns how many times the lock has been taken.
func (w *WakeLock) Acquisitions() int64 {
	return w.acquired.Load()
}
