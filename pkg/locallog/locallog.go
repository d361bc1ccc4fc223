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

// Package locallog provides a small bounded, append-only log of timestamped
// text records, used to keep recent detection decisions available for
// diagnostic dumps after the main log file has rotated.
package locallog

import (
	"fmt"
	"io"
	"time"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
)

// DefaultSize is the number of records kept when no size is given.
const DefaultSize = 15

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is a single log record.
type Entry struct {
	Time    time.Time
	Message string
}

func (e Entry) String() string {
	return e.Time.Format(timestampLayout) + " - " + e.Message
}

// Log keeps the most recent records in a ring. Once full, each new record
// evicts the oldest one. Safe for concurrent use so dumps can be taken from
// another goroutine while the owner appends.
type Log struct {
	clock   clockwork.Clock
	entries []Entry
	next    int
	count   int
	mu      syncutil.Mutex
}

// New returns a log keeping at most size records. A nil clock uses the real
// clock and a non-positive size uses DefaultSize.
func New(size int, clock clockwork.Clock) *Log {
	if size <= 0 {
		size = DefaultSize
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Log{
		clock:   clock,
		entries: make([]Entry, size),
	}
}

// Log appends a record stamped with the current time.
func (l *Log) Log(msg string) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.next] = Entry{Time: now, Message: msg}
	l.next = (l.next + 1) % len(l.entries)
	if l.count < len(l.entries) {
		l.count++
	}
}

// Logf formats and appends a record.
func (l *Log) Logf(format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...))
}

// Entries returns the stored records, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, 0, l.count)
	start := (l.next - l.count + len(l.entries)) % len(l.entries)
	for i := range l.count {
		out = append(out, l.entries[(start+i)%len(l.entries)])
	}
	return out
}

// Len returns the number of stored records.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Cap returns the maximum number of records kept.
func (l *Log) Cap() int {
	return len(l.entries)
}

// Dump writes every stored record on its own line, oldest first, each
// prefixed with indent.
func (l *Log) Dump(w io.Writer, indent string) error {
	for _, e := range l.Entries() {
		if _, err := fmt.Fprintf(w, "%s%s\n", indent, e); err != nil {
			return fmt.Errorf("failed to write log entry: %w", err)
		}
	}
	return nil
}
