// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the wayfinder CLI.
//
// Every printer writes to an explicit io.Writer and adapts to the active
// PersonalityLevel: styled for people at a terminal, plain key/value
// lines for scripts.
package ux

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7")
	ColorTealPrimary = lipgloss.Color("#20B9B4")
	ColorTealDeep    = lipgloss.Color("#16858E")
	ColorSlate       = lipgloss.Color("#2C4A54")

	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Index     lipgloss.Style

	Box        lipgloss.Style
	WarningBox lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorTealPrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorTealBright).Bold(true),
	Index:     lipgloss.NewStyle().Foreground(ColorTealPrimary).Width(4).Align(lipgloss.Right),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTealDeep).
		Padding(0, 1),
	WarningBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorWarning).
		Padding(0, 1),
}

// Icon provides themed status icons.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
)

// Render returns the icon with appropriate styling.
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return string(i)
	}
}

// Title prints a styled title. Silent in machine mode.
func Title(w io.Writer, text string) {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	fmt.Fprintln(w, Styles.Title.Render(text))
}

// Success prints a success message with a checkmark.
func Success(w io.Writer, text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(w, "OK: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(w, "%s %s\n", IconSuccess.Render(), text)
	default:
		fmt.Fprintf(w, "%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
	}
}

// Warning prints a warning message.
func Warning(w io.Writer, text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(w, "WARN: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(w, "%s %s\n", IconWarning.Render(), text)
	default:
		fmt.Fprintf(w, "%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
	}
}

// Error prints an error message.
func Error(w io.Writer, text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(w, "ERROR: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(w, "%s %s\n", IconError.Render(), text)
	default:
		fmt.Fprintf(w, "%s %s\n", IconError.Render(), Styles.Error.Render(text))
	}
}

// Info prints an informational line.
func Info(w io.Writer, text string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintln(w, text)
		return
	}
	fmt.Fprintf(w, "%s %s\n", Styles.Muted.Render("│"), text)
}

// Muted prints secondary text. Silent in machine mode.
func Muted(w io.Writer, text string) {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	fmt.Fprintln(w, Styles.Muted.Render(text))
}

// Box prints text in a rounded box.
func Box(w io.Writer, title, content string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintf(w, "%s: %s\n", title, strings.ReplaceAll(content, "\n", " "))
		return
	}
	fmt.Fprintln(w, Styles.Box.Render(Styles.Title.Render(title)+"\n"+content))
}

// KeyValue prints aligned key/value rows.
func KeyValue(w io.Writer, rows [][2]string) {
	width := 0
	for _, row := range rows {
		width = max(width, len(row[0]))
	}

	machine := GetPersonality().Level == PersonalityMachine
	for _, row := range rows {
		if machine {
			fmt.Fprintf(w, "%s=%s\n", strings.ReplaceAll(strings.ToLower(row[0]), " ", "_"), row[1])
			continue
		}
		key := fmt.Sprintf("%-*s", width, row[0])
		fmt.Fprintf(w, "  %s  %s\n", Styles.Muted.Render(key), row[1])
	}
}
