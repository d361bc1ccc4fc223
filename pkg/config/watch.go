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

package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch reloads the config file whenever it changes on disk and calls
// onChange with the values before and after the reload. It blocks until ctx
// is cancelled. A reload that fails keeps the previous values.
//
// The parent directory is watched rather than the file itself, so editors
// that replace the file on save are picked up.
func Watch(ctx context.Context, cfg *Instance, onChange func(prev, next Values)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close config watcher")
		}
	}()

	cfgPath := filepath.Clean(cfg.Path())
	if err := watcher.Add(filepath.Dir(cfgPath)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}
	log.Info().Str("path", cfgPath).Msg("watching config file")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != cfgPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			prev := cfg.Snapshot()
			if err := cfg.Load(); err != nil {
				log.Warn().Err(err).Msg("failed to reload config, keeping previous values")
				continue
			}
			log.Debug().Msg("config reloaded")
			if onChange != nil {
				onChange(prev, cfg.Snapshot())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("error in config watcher")
		}
	}
}

// DetectionEnabled reports which detection toggles went from off to on
// between prev and next.
//
//nolint:gocritic // config structs copied for immutability
func DetectionEnabled(prev, next Values) (autoTime, autoZone bool) {
	autoTime = !prev.Detection.autoTime() && next.Detection.autoTime()
	autoZone = !prev.Detection.autoZone() && next.Detection.autoZone()
	return autoTime, autoZone
}
