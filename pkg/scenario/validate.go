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

package scenario

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidScenario = errors.New("invalid scenario")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("duration", validateDuration)
	v.RegisterStructValidation(validateEvent, Event{})
	return v
}

// validateDuration checks if string is a valid Go duration.
func validateDuration(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	_, err := time.ParseDuration(val)
	return err == nil
}

// validateEvent checks the fields each event kind needs.
func validateEvent(sl validator.StructLevel) {
	ev, ok := sl.Current().Interface().(Event)
	if !ok {
		return
	}
	switch ev.Kind {
	case KindAdvance:
		if ev.Duration == "" {
			sl.ReportError(ev.Duration, "Duration", "duration", "required_for_kind", ev.Kind)
		} else if d, err := time.ParseDuration(ev.Duration); err == nil && d < 0 {
			sl.ReportError(ev.Duration, "Duration", "duration", "non_negative", "")
		}
	case KindSignal:
		if ev.Time == "" {
			sl.ReportError(ev.Time, "Time", "time", "required_for_kind", ev.Kind)
		}
	case KindAutoTime, KindAutoZone:
		if ev.Enabled == nil {
			sl.ReportError(ev.Enabled, "Enabled", "enabled", "required_for_kind", ev.Kind)
		}
	}
}

// Validate reports every problem in s as a single error.
func Validate(s *Scenario) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Scenario.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidScenario, strings.Join(msgs, "; "))
}
