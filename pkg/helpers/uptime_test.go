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

package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSystemUptimeMonotonic(t *testing.T) {
	t.Parallel()

	first, err := GetSystemUptime()
	require.NoError(t, err)
	assert.Positive(t, first)

	time.Sleep(20 * time.Millisecond)

	second, err := GetSystemUptime()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, second, first, "uptime should never go backwards")
	assert.Less(t, second-first, 2*time.Second)
}
