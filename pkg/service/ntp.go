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

package service

import (
	"context"
	"time"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/nitz"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/sources/ntp"
)

type ntpSource struct {
	src      *ntp.Source
	interval time.Duration
}

// NewNTPSource polls src every interval.
func NewNTPSource(src *ntp.Source, interval time.Duration) Source {
	return &ntpSource{src: src, interval: interval}
}

func (n *ntpSource) PollSignals(ctx context.Context, fn func(nitz.Signal)) error {
	//nolint:wrapcheck // poll errors are already descriptive
	return n.src.Poll(ctx, n.interval, fn)
}
