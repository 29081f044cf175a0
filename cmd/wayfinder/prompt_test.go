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
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/AleutianAI/wayfinder/pkg/ux"
	"github.com/AleutianAI/wayfinder/services/wayfinder/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testShortList = []resolve.Candidate{
	{ID: "United States", Distance: 2},
	{ID: "United Kingdom", Distance: 7},
	{ID: "Unity", Distance: 1},
}

func machineMode(t *testing.T) {
	t.Helper()
	orig := ux.GetPersonality()
	t.Cleanup(func() { ux.SetPersonality(orig) })
	ux.SetPersonalityLevel(ux.PersonalityMachine)
}

func TestLineAsker_Choose(t *testing.T) {
	machineMode(t)

	var out bytes.Buffer
	a := newLineAsker(strings.NewReader("abc\n9\n0\n2\n"), &out)

	choice, err := a.Choose(context.Background(), "Untied States", testShortList)

	require.NoError(t, err)
	assert.Equal(t, 2, choice)
	assert.Contains(t, out.String(), "WARN: Could not find exact article: Untied States")
	assert.Contains(t, out.String(), "1) United States\n2) United Kingdom\n3) Unity\n4) None\n")
	assert.Equal(t, 4, strings.Count(out.String(), choicePrompt), "one prompt per answer")
}

func TestLineAsker_ChooseNone(t *testing.T) {
	machineMode(t)

	a := newLineAsker(strings.NewReader("4\n"), &bytes.Buffer{})
	choice, err := a.Choose(context.Background(), "Untied States", testShortList)

	require.NoError(t, err)
	assert.Equal(t, 4, choice)
}

func TestLineAsker_EndOfInput(t *testing.T) {
	machineMode(t)

	a := newLineAsker(strings.NewReader("abc\n"), &bytes.Buffer{})
	_, err := a.Choose(context.Background(), "Untied States", testShortList)
	assert.ErrorIs(t, err, errAborted)

	a = newLineAsker(strings.NewReader(""), &bytes.Buffer{})
	_, err = a.Ask(context.Background(), "Enter starting article: ")
	assert.ErrorIs(t, err, errAborted)
}

func TestLineAsker_AskSkipsBlankLines(t *testing.T) {
	var out bytes.Buffer
	a := newLineAsker(strings.NewReader("\n   \n  Zebra  "), &out)

	answer, err := a.Ask(context.Background(), "Enter starting article: ")

	require.NoError(t, err)
	assert.Equal(t, "Zebra", answer)
	assert.Equal(t, 3, strings.Count(out.String(), "Enter starting article: "))
}

func TestLineAsker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newLineAsker(strings.NewReader("Zebra\n"), &bytes.Buffer{})
	_, err := a.Ask(ctx, "Enter starting article: ")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAutoChooser(t *testing.T) {
	choice, err := autoChooser.Choose(context.Background(), "x", testShortList)
	require.NoError(t, err)
	assert.Equal(t, 1, choice)
}

func TestChoicesFor(t *testing.T) {
	choices := choicesFor(testShortList)

	require.Len(t, choices, 3)
	assert.Equal(t, ux.Choice{Label: "United States", Detail: "2 edits"}, choices[0])
	assert.Equal(t, ux.Choice{Label: "Unity", Detail: "1 edit"}, choices[2])
}
