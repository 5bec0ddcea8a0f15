// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux provides terminal output styling for the dsoptimizer CLI.
//
// Output goes to the writer set with SetOutput (stdout by default) and
// adapts to the current Personality: machine mode prints plain prefixed
// lines suitable for parsing.
package ux

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7") // highlights, winners
	ColorTealPrimary = lipgloss.Color("#20B9B4") // headings
	ColorTealDeep    = lipgloss.Color("#16858E") // borders
	ColorSlate       = lipgloss.Color("#2C4A54") // muted text

	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	Box        lipgloss.Style
	TableHead  lipgloss.Style
	TableCell  lipgloss.Style
	TableFirst lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorTealPrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorTealBright).Bold(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTealDeep).
		Padding(0, 1),
	TableHead:  lipgloss.NewStyle().Bold(true).Foreground(ColorTealPrimary).Padding(0, 1),
	TableCell:  lipgloss.NewStyle().Padding(0, 1),
	TableFirst: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(ColorTealBright),
}

// Icon provides status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
	IconTrophy  Icon = "★"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconTrophy:
		return Styles.Highlight.Render(string(i))
	default:
		return string(i)
	}
}

var (
	outMu sync.Mutex
	out   io.Writer = os.Stdout
	errW  io.Writer = os.Stderr
)

// SetOutput redirects regular and error output. Nil restores the defaults.
func SetOutput(stdout, stderr io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	out, errW = stdout, stderr
}

func writers() (io.Writer, io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	return out, errW
}

func printf(format string, args ...any) {
	w, _ := writers()
	fmt.Fprintf(w, format, args...)
}

func eprintf(format string, args ...any) {
	_, w := writers()
	fmt.Fprintf(w, format, args...)
}

// Title prints a styled title
func Title(text string) {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	printf("%s\n", Styles.Title.Render(text))
}

// Success prints a success message with checkmark
func Success(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		printf("OK: %s\n", text)
	case PersonalityMinimal:
		printf("%s %s\n", IconSuccess, text)
	default:
		printf("%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
	}
}

// Warning prints a warning message
func Warning(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		eprintf("WARN: %s\n", text)
	case PersonalityMinimal:
		printf("%s %s\n", IconWarning, text)
	default:
		printf("%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
	}
}

// Error prints an error message
func Error(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		eprintf("ERROR: %s\n", text)
	case PersonalityMinimal:
		printf("%s %s\n", IconError, text)
	default:
		printf("%s %s\n", IconError.Render(), Styles.Error.Render(text))
	}
}

// Info prints an informational message
func Info(text string) {
	if GetPersonality().Level == PersonalityMachine {
		printf("%s\n", text)
		return
	}
	printf("%s %s\n", Styles.Muted.Render("│"), text)
}

// Muted prints secondary text. Nothing in machine mode.
func Muted(text string) {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	printf("%s\n", Styles.Muted.Render(text))
}

// Plain prints text unchanged in every mode.
func Plain(text string) {
	printf("%s", text)
}

// Box prints content in a rounded box under a title
func Box(title, content string) {
	if GetPersonality().Level == PersonalityMachine {
		printf("%s: %s\n", title, content)
		return
	}
	printf("%s\n", Styles.Box.Render(Styles.Title.Render(title)+"\n"+content))
}

// Table renders rows under headers. The first data row is highlighted.
//
// Machine mode renders tab-separated lines with the headers first.
// Minimal mode renders a borderless table without colors.
func Table(headers []string, rows [][]string) string {
	level := GetPersonality().Level
	if level == PersonalityMachine {
		var b strings.Builder
		b.WriteString(strings.Join(headers, "\t"))
		b.WriteByte('\n')
		for _, r := range rows {
			b.WriteString(strings.Join(r, "\t"))
			b.WriteByte('\n')
		}
		return b.String()
	}

	t := table.New().Headers(headers...).Rows(rows...)
	if level == PersonalityMinimal {
		t = t.Border(lipgloss.HiddenBorder())
		return t.String() + "\n"
	}
	t = t.Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorTealDeep)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch row {
			case table.HeaderRow:
				return Styles.TableHead
			case 0:
				return Styles.TableFirst
			default:
				return Styles.TableCell
			}
		})
	return t.String() + "\n"
}

// ProgressBar renders a bar for pct in [0, 100]. Values outside the range
// are clamped.
func ProgressBar(pct, width int) string {
	pct = max(0, min(100, pct))
	if GetPersonality().Level == PersonalityMachine {
		return fmt.Sprintf("%d%%", pct)
	}
	filled := pct * width / 100
	bar := Styles.Success.Render(strings.Repeat("█", filled)) +
		Styles.Muted.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3d%%", bar, pct)
}
