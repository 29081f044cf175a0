// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// PersonalityLevel controls how much styling output carries.
type PersonalityLevel string

const (
	// PersonalityFull uses colors, icons and boxes.
	PersonalityFull PersonalityLevel = "full"

	// PersonalityStandard is the default for unrecognised names.
	PersonalityStandard PersonalityLevel = "standard"

	// PersonalityMinimal keeps icons but drops colored text.
	PersonalityMinimal PersonalityLevel = "minimal"

	// PersonalityMachine prints plain lines for scripts and pipes.
	PersonalityMachine PersonalityLevel = "machine"
)

// PersonalityEnv overrides terminal detection when set.
const PersonalityEnv = "WAYFINDER_PERSONALITY"

// Personality holds output preferences.
type Personality struct {
	Level PersonalityLevel
}

var (
	currentPersonality = DefaultPersonality()
	personalityMu      sync.RWMutex
)

// DefaultPersonality returns the full personality.
func DefaultPersonality() Personality {
	return Personality{Level: PersonalityFull}
}

// GetPersonality returns the current personality.
func GetPersonality() Personality {
	personalityMu.RLock()
	defer personalityMu.RUnlock()
	return currentPersonality
}

// SetPersonality replaces the current personality.
func SetPersonality(p Personality) {
	personalityMu.Lock()
	defer personalityMu.Unlock()
	currentPersonality = p
}

// SetPersonalityLevel sets the current level.
func SetPersonalityLevel(level PersonalityLevel) {
	personalityMu.Lock()
	defer personalityMu.Unlock()
	currentPersonality.Level = level
}

// ParsePersonalityLevel maps a name or abbreviation to a level.
func ParsePersonalityLevel(s string) PersonalityLevel {
	switch strings.ToLower(s) {
	case "full", "f":
		return PersonalityFull
	case "standard", "std", "s":
		return PersonalityStandard
	case "minimal", "min", "m":
		return PersonalityMinimal
	case "machine", "quiet", "q":
		return PersonalityMachine
	default:
		return PersonalityStandard
	}
}

// InitPersonality picks a level from the environment or the terminal.
//
// WAYFINDER_PERSONALITY wins when set. Otherwise a terminal on stdout
// gets PersonalityFull and anything else gets PersonalityMachine.
func InitPersonality() {
	if envLevel := os.Getenv(PersonalityEnv); envLevel != "" {
		SetPersonalityLevel(ParsePersonalityLevel(envLevel))
		return
	}
	if !IsTerminal(os.Stdout) {
		SetPersonalityLevel(PersonalityMachine)
		return
	}
	SetPersonalityLevel(PersonalityFull)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// IsInteractive reports whether both stdin and stdout are terminals and
// the personality allows prompts with styling.
func IsInteractive() bool {
	return GetPersonality().Level != PersonalityMachine && IsTerminal(os.Stdin) && IsTerminal(os.Stdout)
}
