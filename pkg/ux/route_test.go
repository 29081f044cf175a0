// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bytes"
	"strings"
	"testing"
)

func TestRoute_Found(t *testing.T) {
	view := RouteView{From: "Zebra", To: "Africa", Found: true, Steps: []string{"Zebra", "Mammal", "Africa"}}

	t.Run("machine", func(t *testing.T) {
		withLevel(t, PersonalityMachine)
		var buf bytes.Buffer
		Route(&buf, view)
		if buf.String() != "PATH\t2\tZebra\tMammal\tAfrica\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("minimal", func(t *testing.T) {
		withLevel(t, PersonalityMinimal)
		var buf bytes.Buffer
		Route(&buf, view)
		want := "The shortest path from Zebra to Africa is: (length 2)\n- Zebra\n- Mammal\n- Africa\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})

	t.Run("full", func(t *testing.T) {
		withLevel(t, PersonalityFull)
		var buf bytes.Buffer
		Route(&buf, view)
		out := buf.String()
		for _, s := range []string{"Zebra", "Mammal", "Africa", "length 2"} {
			if !strings.Contains(out, s) {
				t.Errorf("output missing %q: %s", s, out)
			}
		}
	})
}

func TestRoute_SameNode(t *testing.T) {
	withLevel(t, PersonalityMinimal)

	var buf bytes.Buffer
	Route(&buf, RouteView{From: "Zebra", To: "Zebra", Found: true, Steps: []string{"Zebra"}})

	if !strings.Contains(buf.String(), "(length 0)") {
		t.Errorf("got %q", buf.String())
	}
}

func TestRoute_NotFound(t *testing.T) {
	for _, level := range []PersonalityLevel{PersonalityMachine, PersonalityMinimal, PersonalityFull} {
		t.Run(string(level), func(t *testing.T) {
			withLevel(t, level)
			var buf bytes.Buffer
			Route(&buf, RouteView{From: "X", To: "Y"})

			out := buf.String()
			if strings.Contains(out, "length") || strings.HasPrefix(out, "PATH\t") {
				t.Errorf("no-path output must not report a length: %q", out)
			}
			if !strings.Contains(out, "X") || !strings.Contains(out, "Y") {
				t.Errorf("no-path output should name both endpoints: %q", out)
			}
		})
	}
}

func TestChoiceList(t *testing.T) {
	choices := []Choice{{Label: "United States", Detail: "2 edits"}, {Label: "United Kingdom"}}

	t.Run("machine", func(t *testing.T) {
		withLevel(t, PersonalityMachine)
		var buf bytes.Buffer
		ChoiceList(&buf, "Did you mean:", choices)
		want := "Did you mean:\n1) United States\n2) United Kingdom\n3) None\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})

	t.Run("full", func(t *testing.T) {
		withLevel(t, PersonalityFull)
		var buf bytes.Buffer
		ChoiceList(&buf, "", choices)
		out := buf.String()
		for _, s := range []string{"1)", "United States", "2 edits", "3)", "None of these"} {
			if !strings.Contains(out, s) {
				t.Errorf("output missing %q: %s", s, out)
			}
		}
	})
}

func TestCredits(t *testing.T) {
	withLevel(t, PersonalityMachine)

	var buf bytes.Buffer
	Credits(&buf, "Credit for the dataset")

	if buf.String() != "Credit for the dataset\n\n" {
		t.Errorf("got %q", buf.String())
	}
}
