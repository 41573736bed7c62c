// ABOUTME: Raw weekly inputs: recovery check-ins, energy checks, and completion counts.
// ABOUTME: These records are append-only; the engine keeps only a trailing window.
package models

import (
	"fmt"
	"strings"
	"time"
)

// WeeklyCheckIn is a sleep/stress/readiness self-report.
type WeeklyCheckIn struct {
	Sleep     SleepQuality `json:"sleep" yaml:"sleep"`
	Stress    StressLevel  `json:"stress" yaml:"stress"`
	Readiness Readiness    `json:"readiness" yaml:"readiness"`
}

// EnergyCheck is an energy reading paired with an eating-sufficiency read.
type EnergyCheck struct {
	Level  EnergyLevel       `json:"level" yaml:"level"`
	Eating EatingSufficiency `json:"eating" yaml:"eating"`
}

// WeeklyInput is everything the state-tracking collaborator supplies for one week.
type WeeklyInput struct {
	RawSessions  int            `json:"raw_sessions"`
	CheckIn      *WeeklyCheckIn `json:"check_in,omitempty"`
	EnergyCheck  *EnergyCheck   `json:"energy_check,omitempty"`
	PainFlags    []string       `json:"pain_flags,omitempty"`
	ActiveInjury bool           `json:"active_injury"`
	// WeekStart defaults to StartDate + 7×(week-1) when zero.
	WeekStart time.Time `json:"week_start,omitempty"`
}

// HasPain reports whether any non-empty pain flag was supplied.
func (in WeeklyInput) HasPain() bool {
	return len(in.NonEmptyPainFlags()) > 0
}

// NonEmptyPainFlags drops blank pain flag strings.
func (in WeeklyInput) NonEmptyPainFlags() []string {
	var out []string
	for _, f := range in.PainFlags {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseCheckIn builds a check-in from its three categories. All empty means no
// check-in was given; a partial check-in is an error.
func ParseCheckIn(sleep, stress, readiness string) (*WeeklyCheckIn, error) {
	if sleep == "" && stress == "" && readiness == "" {
		return nil, nil
	}
	if sleep == "" || stress == "" || readiness == "" {
		return nil, fmt.Errorf("%w: check-in needs sleep, stress, and readiness", ErrUnknownValue)
	}
	sq, err := ParseSleepQuality(sleep)
	if err != nil {
		return nil, err
	}
	sl, err := ParseStressLevel(stress)
	if err != nil {
		return nil, err
	}
	r, err := ParseReadiness(readiness)
	if err != nil {
		return nil, err
	}
	return &WeeklyCheckIn{Sleep: sq, Stress: sl, Readiness: r}, nil
}

// ParseEnergyCheck builds an energy check. Both empty means none was given.
func ParseEnergyCheck(level, eating string) (*EnergyCheck, error) {
	if level == "" && eating == "" {
		return nil, nil
	}
	if level == "" || eating == "" {
		return nil, fmt.Errorf("%w: energy check needs level and eating", ErrUnknownValue)
	}
	l, err := ParseEnergyLevel(level)
	if err != nil {
		return nil, err
	}
	e, err := ParseEatingSufficiency(eating)
	if err != nil {
		return nil, err
	}
	return &EnergyCheck{Level: l, Eating: e}, nil
}
