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

package mocks

import (
	"fmt"

	"github.com/ZaparooProject/zaparoo-netclock/pkg/detector"
	"github.com/ZaparooProject/zaparoo-netclock/pkg/nitz"
	"github.com/stretchr/testify/mock"
)

// MockZoneLookup is a mock implementation of detector.ZoneLookup using testify/mock
type MockZoneLookup struct {
	mock.Mock
}

// LookupByNitz finds a zone from payload offset fields only
func (m *MockZoneLookup) LookupByNitz(payload nitz.Payload) (*detector.OffsetResult, error) {
	args := m.Called(payload)
	result, _ := args.Get(0).(*detector.OffsetResult)
	if err := args.Error(1); err != nil {
		return result, fmt.Errorf("mock operation failed: %w", err)
	}
	return result, nil
}

// LookupByNitzCountry finds a zone from payload offset fields and a country
func (m *MockZoneLookup) LookupByNitzCountry(payload nitz.Payload, iso string) (*detector.OffsetResult, error) {
	args := m.Called(payload, iso)
	result, _ := args.Get(0).(*detector.OffsetResult)
	if err := args.Error(1); err != nil {
		return result, fmt.Errorf("mock operation failed: %w", err)
	}
	return result, nil
}

// LookupByCountry finds a zone from a country alone
func (m *MockZoneLookup) LookupByCountry(iso string, atTimeMillis int64) (*detector.CountryResult, error) {
	args := m.Called(iso, atTimeMillis)
	result, _ := args.Get(0).(*detector.CountryResult)
	if err := args.Error(1); err != nil {
		return result, fmt.Errorf("mock operation failed: %w", err)
	}
	return result, nil
}

// CountryUsesUTC reports whether any zone of the country sits at UTC
func (m *MockZoneLookup) CountryUsesUTC(iso string, atTimeMillis int64) (bool, error) {
	args := m.Called(iso, atTimeMillis)
	if err := args.Error(1); err != nil {
		return args.Bool(0), fmt.Errorf("mock operation failed: %w", err)
	}
	return args.Bool(0), nil
}

// MockDeviceState is a mock implementation of detector.DeviceState using testify/mock
type MockDeviceState struct {
	mock.Mock
}

// NetworkCountryISO returns the network country code
func (m *MockDeviceState) NetworkCountryISO() string {
	args := m.Called()
	return args.String(0)
}

// IgnoreNetworkTime reports whether network time is ignored
func (m *MockDeviceState) IgnoreNetworkTime() bool {
	args := m.Called()
	return args.Bool(0)
}

// UpdateSpacingMillis returns the minimum update spacing
func (m *MockDeviceState) UpdateSpacingMillis() int64 {
	args := m.Called()
	v, _ := args.Get(0).(int64)
	return v
}

// UpdateDiffMillis returns the minimum update difference
func (m *MockDeviceState) UpdateDiffMillis() int64 {
	args := m.Called()
	v, _ := args.Get(0).(int64)
	return v
}

// MockMetrics is a mock implementation of detector.Metrics using testify/mock
type MockMetrics struct {
	mock.Mock
}

// RecordNetworkTime records an applied network time
func (m *MockMetrics) RecordNetworkTime(timeMillis int64) {
	m.Called(timeMillis)
}

// SetupBasicMock configures the lookup to find nothing for every query and
// to report that no country uses UTC.
func (m *MockZoneLookup) SetupBasicMock() {
	m.On("LookupByNitz", mock.Anything).Return(nil, nil).Maybe()
	m.On("LookupByNitzCountry", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	m.On("LookupByCountry", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	m.On("CountryUsesUTC", mock.Anything, mock.Anything).Return(false, nil).Maybe()
}
