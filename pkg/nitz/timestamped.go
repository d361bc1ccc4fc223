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

package nitz

import "fmt"

// Timestamped pairs a value with a monotonic clock reading, in milliseconds,
// taken when the value was observed.
type Timestamped[T any] struct {
	Value               T
	ReferenceTimeMillis int64
}

// NewTimestamped returns a Timestamped holding value at referenceTimeMillis.
func NewTimestamped[T any](value T, referenceTimeMillis int64) Timestamped[T] {
	return Timestamped[T]{
		Value:               value,
		ReferenceTimeMillis: referenceTimeMillis,
	}
}

// AgeAt returns how long before nowMillis the value was observed. The result
// is negative when the reference time lies in the future.
func (t Timestamped[T]) AgeAt(nowMillis int64) int64 {
	return nowMillis - t.ReferenceTimeMillis
}

func (t Timestamped[T]) String() string {
	return fmt.Sprintf("Timestamped{referenceTimeMillis=%d, value=%v}", t.ReferenceTimeMillis, t.Value)
}

// Signal is a payload paired with the monotonic instant it was received.
type Signal = Timestamped[Payload]

// NewSignal returns a signal received at referenceTimeMillis.
func NewSignal(payload Payload, referenceTimeMillis int64) Signal {
	return NewTimestamped(payload, referenceTimeMillis)
}
