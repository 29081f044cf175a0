// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AleutianAI/wayfinder/pkg/ux"
	"github.com/AleutianAI/wayfinder/services/wayfinder/resolve"
	"github.com/charmbracelet/huh"
)

// errAborted reports that the user abandoned a prompt.
var errAborted = errors.New("prompt aborted")

// asker reads topic names and short-list choices from a person.
type asker interface {
	resolve.Chooser

	// Ask prompts with label and returns the trimmed answer.
	Ask(ctx context.Context, label string) (string, error)
}

// lineAsker prompts on a writer and reads answers line by line.
//
// Invalid choices are re-prompted until a valid index arrives.
type lineAsker struct {
	in  *bufio.Reader
	out io.Writer
}

func newLineAsker(in io.Reader, out io.Writer) *lineAsker {
	return &lineAsker{in: bufio.NewReader(in), out: out}
}

func (a *lineAsker) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: end of input", errAborted)
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask implements asker.
func (a *lineAsker) Ask(ctx context.Context, label string) (string, error) {
	for {
		fmt.Fprint(a.out, label)
		answer, err := a.readLine(ctx)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
}

// choicePrompt asks for a short-list number.
const choicePrompt = "Choice: "

// Choose implements resolve.Chooser.
func (a *lineAsker) Choose(ctx context.Context, query string, shortList []resolve.Candidate) (int, error) {
	ux.Warning(a.out, fmt.Sprintf("Could not find exact article: %s", query))
	ux.ChoiceList(a.out, "Other options:", choicesFor(shortList))

	none := len(shortList) + 1
	for {
		fmt.Fprint(a.out, choicePrompt)
		answer, err := a.readLine(ctx)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > none {
			ux.Muted(a.out, fmt.Sprintf("Enter a number from 1 to %d", none))
			continue
		}
		return n, nil
	}
}

// formAsker uses huh forms on an interactive terminal.
type formAsker struct{}

// Ask implements asker.
func (formAsker) Ask(ctx context.Context, label string) (string, error) {
	var answer string
	input := huh.NewInput().
		Title(label).
		Value(&answer).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("enter an article name")
			}
			return nil
		})
	if err := huh.NewForm(huh.NewGroup(input)).RunWithContext(ctx); err != nil {
		return "", formError(err)
	}
	return strings.TrimSpace(answer), nil
}

// Choose implements resolve.Chooser.
func (formAsker) Choose(ctx context.Context, query string, shortList []resolve.Candidate) (int, error) {
	options := make([]huh.Option[int], 0, len(shortList)+1)
	for i, c := range choicesFor(shortList) {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", c.Label, c.Detail), i+1))
	}
	options = append(options, huh.NewOption("None of these", len(shortList)+1))

	var choice int
	sel := huh.NewSelect[int]().
		Title(fmt.Sprintf("Could not find %q. Did you mean:", query)).
		Options(options...).
		Value(&choice)
	if err := huh.NewForm(huh.NewGroup(sel)).RunWithContext(ctx); err != nil {
		return 0, formError(err)
	}
	return choice, nil
}

func formError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return errAborted
	}
	return err
}

// autoChooser always takes the best-ranked candidate.
var autoChooser = resolve.ChooserFunc(func(context.Context, string, []resolve.Candidate) (int, error) {
	return 1, nil
})

// choicesFor converts a short list to display choices.
func choicesFor(shortList []resolve.Candidate) []ux.Choice {
	choices := make([]ux.Choice, len(shortList))
	for i, c := range shortList {
		edits := "edits"
		if c.Distance == 1 {
			edits = "edit"
		}
		choices[i] = ux.Choice{Label: c.ID, Detail: fmt.Sprintf("%d %s", c.Distance, edits)}
	}
	return choices
}
