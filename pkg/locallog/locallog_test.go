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

package locallog

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	l := New(0, nil)
	assert.Equal(t, DefaultSize, l.Cap())
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Entries())
}

func TestLogKeepsOrderBeforeWrap(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	l := New(3, clock)

	l.Log("first")
	clock.Advance(time.Second)
	l.Log("second")

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Message)
	assert.Equal(t, "second", entries[1].Message)
	assert.Equal(t, time.Second, entries[1].Time.Sub(entries[0].Time))
}

func TestLogEvictsOldest(t *testing.T) {
	t.Parallel()

	l := New(3, clockwork.NewFakeClock())
	for i := range 5 {
		l.Logf("entry %d", i)
	}

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "entry 2", entries[0].Message)
	assert.Equal(t, "entry 3", entries[1].Message)
	assert.Equal(t, "entry 4", entries[2].Message)
	assert.Equal(t, 3, l.Len())
}

func TestDumpFormat(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	l := New(DefaultSize, clock)
	l.Log("hello")

	var buf bytes.Buffer
	require.NoError(t, l.Dump(&buf, "  "))
	assert.Equal(t, "  2026-03-01T12:00:00.000Z - hello\n", buf.String())
}

func TestConcurrentLogAndDump(t *testing.T) {
	t.Parallel()

	l := New(DefaultSize, clockwork.NewFakeClock())

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 50 {
				l.Log(fmt.Sprintf("w%d-%d", n, j))
			}
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 50 {
			var buf bytes.Buffer
			_ = l.Dump(&buf, "")
			assert.LessOrEqual(t, strings.Count(buf.String(), "\n"), DefaultSize)
		}
	}()
	wg.Wait()

	assert.Equal(t, DefaultSize, l.Len())
}
