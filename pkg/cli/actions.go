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

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/config"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/detector"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/scenario"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/service"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/sources/ntp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var ErrExpectationsFailed = errors.New("scenario expectations failed")

// LoadLookup returns the fixture lookup of the scenario at path. An empty
// path gives a lookup that never finds a zone.
func LoadLookup(fs afero.Fs, path string) (detector.ZoneLookup, error) {
	if path == "" {
		return scenario.NewFixtureLookup(scenario.Fixtures{}), nil
	}
	s, err := scenario.Load(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load lookup tables: %w", err)
	}
	return scenario.NewFixtureLookup(s.Lookup), nil
}

// RunScenario replays the scenario at path and prints the final state.
func RunScenario(fs afero.Fs, path string, out io.Writer) error {
	s, err := scenario.Load(fs, path)
	if err != nil {
		return err
	}

	res, err := scenario.Run(s)
	if err != nil {
		return fmt.Errorf("failed to run scenario: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Scenario: %s\n", s.Name)
	_, _ = fmt.Fprintf(out, " deviceTime=%s\n", res.TimeService.LocalTime().Format("2006-01-02T15:04:05.000Z07:00"))
	_, _ = fmt.Fprintf(out, " networkTimeUpdates=%d\n", res.Metrics.NetworkTimeCount)
	if err := res.Machine.DumpState(out); err != nil {
		return fmt.Errorf("failed to dump state: %w", err)
	}
	if err := res.Machine.DumpLogs(out); err != nil {
		return fmt.Errorf("failed to dump logs: %w", err)
	}

	if !res.Passed() {
		_, _ = fmt.Fprintf(out, "Failed expectations:\n   %s\n", strings.Join(res.Failures, "\n   "))
		return ErrExpectationsFailed
	}
	return nil
}

// NTPQuery selects the server and network country for a one-shot query.
type NTPQuery struct {
	Host    string
	Country string
	// Options are passed to the NTP source.
	Options []ntp.Option
}

// QueryNTP feeds one NTP response through a short-lived service and prints
// the resulting state.
func QueryNTP(ctx context.Context, cfg *config.Instance, lookup detector.ZoneLookup, q NTPQuery, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	svc := service.New(cfg, lookup, service.WithoutConfigWatch())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	if q.Country != "" {
		svc.SetCountry(ctx, q.Country)
	}

	src := ntp.NewSource(q.Host, svc.ElapsedRealtimeMillis, q.Options...)
	sig, err := src.Fetch(ctx)
	if err != nil {
		cancel()
		<-done
		return fmt.Errorf("ntp query failed: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Signal: %s\n", sig)
	svc.SubmitSignal(ctx, sig)

	dumpErr := svc.Dump(ctx, out)
	cancel()
	if err := <-done; err != nil {
		return err
	}
	return dumpErr
}

// Serve runs the service until ctx is cancelled, polling the configured NTP
// server if there is one, then prints the final state.
func Serve(ctx context.Context, cfg *config.Instance, lookup detector.ZoneLookup, out io.Writer) error {
	var opts []service.Option
	if host := cfg.NTPServer(); host != "" {
		opts = append(opts, service.WithNTP(host, cfg.NTPPollInterval()))
	} else {
		log.Info().Msg("no ntp server configured, waiting for config changes only")
	}

	svc := service.New(cfg, lookup, opts...)
	err := svc.Run(ctx)

	_, _ = fmt.Fprintf(out, "Stopped after %d network time updates\n", svc.Metrics().NetworkTimeCount)
	return err
}
