// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Report summarizes one run.
type Report struct {
	RunID   string `json:"runId"`
	Command string `json:"command"`
	DryRun  bool   `json:"dryRun,omitempty"`

	// Elapsed sums the durations of the stages that ran.
	Elapsed time.Duration `json:"elapsed"`

	FilesScanned int `json:"filesScanned"`
	Bytes        int `json:"bytes"`
	Candidates   int `json:"candidates"`
	Rejected     int `json:"rejected"`
	Interpolated int `json:"interpolated"`
	Rewritten    int `json:"rewritten"`

	// KeysAdded lists the keys new to the base catalog.
	KeysAdded      []string `json:"keysAdded,omitempty"`
	AccessorsAdded []string `json:"accessorsAdded,omitempty"`

	// FilesModified lists every file written, or that would be written in a
	// dry run.
	FilesModified []string `json:"filesModified,omitempty"`

	Locales []*LocaleReport `json:"locales,omitempty"`
	Errors  []string        `json:"errors,omitempty"`
}

// LocaleReport holds the per-locale counters of a run.
type LocaleReport struct {
	Locale       string `json:"locale"`
	Added        int    `json:"added"`
	Orphaned     int    `json:"orphaned"`
	Resolved     int    `json:"resolved"`
	Unresolved   int    `json:"unresolved"`
	Missing      int    `json:"missing"`
	Placeholders int    `json:"placeholders"`
	Written      bool   `json:"written"`
	Error        string `json:"error,omitempty"`
}

// Locale returns the report of locale, adding it if needed.
func (r *Report) Locale(locale string) *LocaleReport {
	for _, l := range r.Locales {
		if l.Locale == locale {
			return l
		}
	}

	l := &LocaleReport{Locale: locale}
	r.Locales = append(r.Locales, l)

	return l
}

func (r *Report) modified(name string) {
	if !slices.Contains(r.FilesModified, name) {
		r.FilesModified = append(r.FilesModified, name)
	}
}

// WriteJSON writes r as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return nil
}

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.Bold, color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// WriteText writes r for humans. Colors follow color.NoColor.
func (r *Report) WriteText(w io.Writer) error {
	var sb strings.Builder

	title := fmt.Sprintf("locsync %s", r.Command)
	if r.DryRun {
		title += " (dry run)"
	}

	fmt.Fprintf(&sb, "%s  %s  %s\n", cyan(title), r.RunID, r.Elapsed.Round(time.Millisecond))

	if r.FilesScanned > 0 || r.Candidates > 0 {
		fmt.Fprintf(&sb, "  sources     %d files, %d candidates, %d rejected, %d interpolated\n",
			r.FilesScanned, r.Candidates, r.Rejected, r.Interpolated)
	}

	if r.Rewritten > 0 || len(r.KeysAdded) > 0 {
		fmt.Fprintf(&sb, "  keys        %s new, %d literals rewritten\n", green(len(r.KeysAdded)), r.Rewritten)
	}

	if len(r.AccessorsAdded) > 0 {
		fmt.Fprintf(&sb, "  accessors   %s declared\n", green(len(r.AccessorsAdded)))
	}

	for _, l := range r.Locales {
		r.writeLocale(&sb, l)
	}

	if len(r.FilesModified) > 0 {
		verb := "modified"
		if r.DryRun {
			verb = "would modify"
		}

		fmt.Fprintf(&sb, "  %s\n", bold(verb))

		for _, name := range r.FilesModified {
			fmt.Fprintf(&sb, "    %s\n", name)
		}
	}

	for _, e := range r.Errors {
		fmt.Fprintf(&sb, "  %s %s\n", red("error"), e)
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

func (r *Report) writeLocale(sb *strings.Builder, l *LocaleReport) {
	fmt.Fprintf(sb, "  %-10s ", bold(l.Locale))

	if l.Error != "" {
		fmt.Fprintf(sb, "%s\n", red(l.Error))

		return
	}

	var parts []string

	if l.Added > 0 {
		parts = append(parts, green(fmt.Sprintf("+%d added", l.Added)))
	}

	if l.Missing > 0 {
		parts = append(parts, red(fmt.Sprintf("%d missing", l.Missing)))
	}

	if l.Resolved > 0 {
		parts = append(parts, green(fmt.Sprintf("%d resolved", l.Resolved)))
	}

	if l.Unresolved > 0 {
		parts = append(parts, yellow(fmt.Sprintf("%d unresolved", l.Unresolved)))
	}

	if l.Orphaned > 0 {
		parts = append(parts, yellow(fmt.Sprintf("%d orphaned", l.Orphaned)))
	}

	parts = append(parts, fmt.Sprintf("%d placeholders", l.Placeholders))

	if l.Written {
		parts = append(parts, "written")
	}

	sb.WriteString(strings.Join(parts, ", ") + "\n")
}
