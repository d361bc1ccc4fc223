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

// Package cli holds the flag handling and startup shared by netclock
// binaries.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ZaparooProject/zaparoo-netclock/internal/telemetry"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/config"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/helpers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var ErrNoAction = errors.New("nothing to do: pass -scenario, -ntp or -serve")

type Flags struct {
	Scenario *string
	NTP      *string
	Country  *string
	Lookup   *string
	Serve    *bool
	Verbose  *bool
	Version  *bool
}

// SetupFlags defines the netclock flags on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Scenario: fs.String(
			"scenario",
			"",
			"replay a scenario file and print the detector state",
		),
		NTP: fs.String(
			"ntp",
			"",
			"query an NTP server once and feed the result to the detector",
		),
		Country: fs.String(
			"country",
			"",
			"network country code to report before querying",
		),
		Lookup: fs.String(
			"lookup",
			"",
			"scenario file whose lookup tables answer zone queries",
		),
		Serve: fs.Bool(
			"serve",
			false,
			"run until interrupted, polling the configured NTP server",
		),
		Verbose: fs.Bool(
			"verbose",
			false,
			"also write logs to stderr",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

// Pre parses args and handles flags that need no environment. It reports
// whether the program should exit.
func (f *Flags) Pre(fs *flag.FlagSet, args []string, out io.Writer) (bool, error) {
	if err := fs.Parse(args); err != nil {
		return true, fmt.Errorf("failed to parse flags: %w", err)
	}

	if *f.Version {
		_, _ = fmt.Fprintf(out, "Netclock v%s\n", config.AppVersion)
		return true, nil
	}
	return false, nil
}

// Setup prepares directories, logging, config and error reporting.
func (f *Flags) Setup(dirs helpers.Dirs) (*config.Instance, error) {
	if err := helpers.EnsureDirectories(dirs); err != nil {
		return nil, err
	}

	var writers []io.Writer
	if *f.Verbose {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if err := helpers.InitLogging(dirs.LogDir, writers); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.NewConfig(dirs.ConfigDir, config.BaseDefaults)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.SetDebugLogging(cfg.DebugLogging())

	err = telemetry.Init(telemetry.Options{
		LogWriter:   helpers.LogWriter(),
		DSN:         cfg.ErrorReportingDSN(),
		DeviceID:    cfg.DeviceID(),
		AppVersion:  config.AppVersion,
		Environment: "netclock",
		Enabled:     cfg.ErrorReporting(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to start error reporting")
	}

	return cfg, nil
}

// Post runs the action selected by the flags.
func (f *Flags) Post(ctx context.Context, cfg *config.Instance, fs afero.Fs, out io.Writer) error {
	switch {
	case *f.Scenario != "":
		return RunScenario(fs, *f.Scenario, out)
	case *f.NTP != "":
		lookup, err := LoadLookup(fs, *f.Lookup)
		if err != nil {
			return err
		}
		return QueryNTP(ctx, cfg, lookup, NTPQuery{Host: *f.NTP, Country: *f.Country}, out)
	case *f.Serve:
		lookup, err := LoadLookup(fs, *f.Lookup)
		if err != nil {
			return err
		}
		return Serve(ctx, cfg, lookup, out)
	default:
		return ErrNoAction
	}
}
