// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RouteView is a renderable path between two topics.
type RouteView struct {
	From  string
	To    string
	Found bool
	Steps []string
}

// Route prints a path or an explicit "no path" line.
//
// Found is the only branch: the hop count and steps are printed only
// when a path exists.
func Route(w io.Writer, r RouteView) {
	level := GetPersonality().Level

	if !r.Found {
		switch level {
		case PersonalityMachine:
			fmt.Fprintf(w, "NO_PATH\t%s\t%s\n", r.From, r.To)
		default:
			fmt.Fprintf(w, "%s There is no path from %s to %s\n",
				IconWarning.Render(), Styles.Bold.Render(r.From), Styles.Bold.Render(r.To))
		}
		return
	}

	hops := len(r.Steps) - 1
	switch level {
	case PersonalityMachine:
		fmt.Fprintf(w, "PATH\t%d\t%s\n", hops, strings.Join(r.Steps, "\t"))
	case PersonalityMinimal:
		fmt.Fprintf(w, "The shortest path from %s to %s is: (length %d)\n", r.From, r.To, hops)
		for _, step := range r.Steps {
			fmt.Fprintf(w, "- %s\n", step)
		}
	default:
		fmt.Fprintf(w, "%s The shortest path from %s to %s is %s\n",
			IconSuccess.Render(),
			Styles.Highlight.Render(r.From),
			Styles.Highlight.Render(r.To),
			Styles.Muted.Render(fmt.Sprintf("(length %d)", hops)))
		for i, step := range r.Steps {
			marker := IconBullet
			if i > 0 {
				marker = IconArrow
			}
			fmt.Fprintf(w, "  %s %s\n", Styles.Subtitle.Render(string(marker)), step)
		}
	}
}

// Choice is one numbered entry of a disambiguation list.
type Choice struct {
	Label  string
	Detail string
}

// ChoiceList prints numbered choices followed by a final "None" entry.
//
// Entries are numbered from 1; the "None" entry is len(choices)+1.
func ChoiceList(w io.Writer, heading string, choices []Choice) {
	machine := GetPersonality().Level == PersonalityMachine

	if heading != "" {
		if machine {
			fmt.Fprintln(w, heading)
		} else {
			fmt.Fprintln(w, Styles.Subtitle.Render(heading))
		}
	}

	for i, c := range choices {
		index := strconv.Itoa(i+1) + ")"
		if machine {
			fmt.Fprintf(w, "%s %s\n", index, c.Label)
			continue
		}
		line := fmt.Sprintf("%s %s", Styles.Index.Render(index), c.Label)
		if c.Detail != "" {
			line += " " + Styles.Muted.Render("("+c.Detail+")")
		}
		fmt.Fprintln(w, line)
	}

	none := strconv.Itoa(len(choices)+1) + ")"
	if machine {
		fmt.Fprintf(w, "%s None\n", none)
		return
	}
	fmt.Fprintf(w, "%s %s\n", Styles.Index.Render(none), Styles.Muted.Render("None of these"))
}

// Credits prints dataset attribution. Printed in every personality.
func Credits(w io.Writer, text string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintln(w, text)
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintln(w, Styles.Muted.Render(text))
	fmt.Fprintln(w)
}
