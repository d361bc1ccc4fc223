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

// Package service runs a network time detector as a long-lived process. It
// owns the detector and its device collaborators and feeds them from the
// config watcher and an optional NTP source. Every detector entry point is
// called from a single goroutine.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/config"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/detector"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/device"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/metrics"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/nitz"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/sources/ntp"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrNotRunning = errors.New("service is not running")

type Service struct {
	cfg      *config.Instance
	state    *device.State
	ts       *device.TimeService
	machine  *detector.Machine
	recorder *metrics.Recorder
	source   Source
	events   chan func()
	done     chan struct{}
	bootID   string
	ntp      *ntpConfig
	watch    bool
}

type ntpConfig struct {
	host     string
	opts     []ntp.Option
	interval time.Duration
}

// Source delivers network time signals until ctx is done.
type Source interface {
	PollSignals(ctx context.Context, fn func(nitz.Signal)) error
}

type Option func(*Service)

// WithSource feeds signals from src while the service runs.
func WithSource(src Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithNTP polls host every interval once the device clock is known.
func WithNTP(host string, interval time.Duration, opts ...ntp.Option) Option {
	return func(s *Service) {
		s.ntp = &ntpConfig{host: host, interval: interval, opts: opts}
	}
}

// WithTimeService replaces the device clock, mainly for tests.
func WithTimeService(ts *device.TimeService) Option {
	return func(s *Service) {
		s.ts = ts
	}
}

// WithoutConfigWatch disables reloading the config file on change.
func WithoutConfigWatch() Option {
	return func(s *Service) {
		s.watch = false
	}
}

func New(cfg *config.Instance, lookup detector.ZoneLookup, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		events: make(chan func()),
		done:   make(chan struct{}),
		bootID: uuid.New().String(),
		watch:  true,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.ts == nil {
		s.ts = device.NewTimeService(cfg)
	}
	s.state = device.NewState(cfg)
	s.recorder = metrics.NewRecorder(nil)
	s.machine = detector.NewMachine(s.state, s.ts, lookup,
		detector.WithWakeLock(&device.WakeLock{}),
		detector.WithMetrics(s.recorder),
	)
	if s.ntp != nil && s.source == nil {
		src := ntp.NewSource(s.ntp.host, s.ts.ElapsedRealtimeMillis, s.ntp.opts...)
		s.source = NewNTPSource(src, s.ntp.interval)
	}
	return s
}

// ElapsedRealtimeMillis reads the monotonic clock of the device.
func (s *Service) ElapsedRealtimeMillis() int64 {
	return s.ts.ElapsedRealtimeMillis()
}

// BootID identifies this run in logs.
func (s *Service) BootID() string {
	return s.bootID
}

// Metrics returns the applied network time counters.
func (s *Service) Metrics() metrics.Snapshot {
	return s.recorder.Snapshot()
}

// Run processes events until ctx is cancelled or a component fails.
func (s *Service) Run(ctx context.Context) error {
	log.Info().
		Str("version", config.AppVersion).
		Str("bootID", s.bootID).
		Msg("starting netclock service")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(s.done)
		for {
			select {
			case <-ctx.Done():
				return nil
			case fn := <-s.events:
				fn()
			}
		}
	})

	if iso := s.cfg.InitialCountry(); iso != "" {
		g.Go(func() error {
			s.SetCountry(ctx, iso)
			return nil
		})
	}

	if s.watch {
		g.Go(func() error {
			return config.Watch(ctx, s.cfg, func(prev, next config.Values) {
				s.submit(ctx, func() {
					s.ts.ApplyConfigChange(prev, next)
				})
			})
		})
	}

	if s.source != nil {
		g.Go(func() error {
			return s.source.PollSignals(ctx, func(sig nitz.Signal) {
				s.SubmitSignal(ctx, sig)
			})
		})
	}

	err := g.Wait()
	log.Info().Msg("netclock service stopped")
	if err != nil {
		return fmt.Errorf("service failed: %w", err)
	}
	return nil
}

// submit runs fn on the event goroutine and waits for it to finish.
func (s *Service) submit(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}

	select {
	case s.events <- wrapped:
	case <-ctx.Done():
		return fmt.Errorf("submit cancelled: %w", ctx.Err())
	case <-s.done:
		return ErrNotRunning
	}
	<-finished
	return nil
}

func (s *Service) SubmitSignal(ctx context.Context, sig nitz.Signal) {
	if err := s.submit(ctx, func() { s.machine.HandleSignalReceived(sig) }); err != nil {
		log.Debug().Err(err).Msg("signal dropped")
	}
}

// SetCountry records the network country and notifies the detector.
func (s *Service) SetCountry(ctx context.Context, iso string) {
	err := s.submit(ctx, func() {
		changed := s.state.SetNetworkCountry(iso)
		s.machine.HandleCountryCodeSet(changed)
	})
	if err != nil {
		log.Debug().Err(err).Str("iso", iso).Msg("country update dropped")
	}
}

func (s *Service) NetworkAvailable(ctx context.Context) {
	if err := s.submit(ctx, s.machine.HandleNetworkAvailable); err != nil {
		log.Debug().Err(err).Msg("network available dropped")
	}
}

func (s *Service) NetworkUnavailable(ctx context.Context) {
	if err := s.submit(ctx, s.machine.HandleNetworkUnavailable); err != nil {
		log.Debug().Err(err).Msg("network unavailable dropped")
	}
}

// Dump writes the detector state and diagnostic logs to w.
func (s *Service) Dump(ctx context.Context, w io.Writer) error {
	var dumpErr error
	err := s.submit(ctx, func() {
		if err := s.machine.DumpState(w); err != nil {
			dumpErr = err
			return
		}
		dumpErr = s.machine.DumpLogs(w)
	})
	if err != nil {
		return err
	}
	return dumpErr
}
