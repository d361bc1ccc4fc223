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

// Package ntp turns NTP server responses into network time signals, so a
// host without a cellular radio can feed the detector.
package ntp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/nitz"
	"github.com/beevik/ntp"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultServer  = "pool.ntp.org"
	DefaultTimeout = 5 * time.Second
)

var ErrUnreliableTime = errors.New("ntp server returned an unreliable time")

// QueryFunc performs a single NTP query.
type QueryFunc func(host string, opts ntp.QueryOptions) (*ntp.Response, error)

// Source queries an NTP server and builds signals stamped with the device
// monotonic clock.
type Source struct {
	query    QueryFunc
	clock    clockwork.Clock
	elapsed  func() int64
	location *time.Location
	host     string
	timeout  time.Duration
}

type Option func(*Source)

// WithQuery replaces the network query, mainly for tests.
func WithQuery(q QueryFunc) Option {
	return func(s *Source) {
		s.query = q
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(s *Source) {
		s.clock = clock
	}
}

// WithLocation sets the zone used for the signal's local offset and DST
// flag. Defaults to the host's local zone.
func WithLocation(loc *time.Location) Option {
	return func(s *Source) {
		s.location = loc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		s.timeout = d
	}
}

// NewSource returns a Source for host. elapsed reads the device monotonic
// clock in milliseconds.
func NewSource(host string, elapsed func() int64, opts ...Option) *Source {
	if host == "" {
		host = DefaultServer
	}
	s := &Source{
		host:    host,
		elapsed: elapsed,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.query == nil {
		s.query = ntp.QueryWithOptions
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.location == nil {
		s.location = time.Local
	}
	return s
}

// Host returns the server being queried.
func (s *Source) Host() string {
	return s.host
}

// Fetch queries the server once and converts the response to a signal.
func (s *Source) Fetch(ctx context.Context) (nitz.Signal, error) {
	if err := ctx.Err(); err != nil {
		return nitz.Signal{}, fmt.Errorf("ntp fetch cancelled: %w", err)
	}

	resp, err := s.query(s.host, ntp.QueryOptions{Timeout: s.timeout})
	if err != nil {
		return nitz.Signal{}, fmt.Errorf("failed to query %s: %w", s.host, err)
	}
	if err := resp.Validate(); err != nil {
		return nitz.Signal{}, fmt.Errorf("invalid response from %s: %w", s.host, err)
	}

	ref := s.elapsed()
	now := s.clock.Now().Add(resp.ClockOffset)
	if !helpers.IsClockReliable(now) {
		return nitz.Signal{}, fmt.Errorf("%w: %s", ErrUnreliableTime, now.UTC().Format(time.RFC3339))
	}

	local := now.In(s.location)
	_, offsetSeconds := local.Zone()
	payload := nitz.NewPayload(now.UnixMilli(), int32(offsetSeconds)*1000, local.IsDST())

	log.Debug().
		Str("host", s.host).
		Dur("clockOffset", resp.ClockOffset).
		Dur("rtt", resp.RTT).
		Uint8("stratum", resp.Stratum).
		Msg("ntp: response received")

	return nitz.NewSignal(payload, ref), nil
}

// Poll fetches a signal every interval until ctx is done and hands each one
// to fn. Failed queries are logged and count against the same rate limit, so
// an unreachable server is never queried more often than interval.
func (s *Source) Poll(ctx context.Context, interval time.Duration, fn func(nitz.Signal)) error {
	if interval <= 0 {
		return fmt.Errorf("invalid poll interval: %s", interval)
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("ntp poll limiter: %w", err)
		}

		sig, err := s.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Warn().Err(err).Str("host", s.host).Msg("ntp: query failed")
			continue
		}
		fn(sig)
	}
}
