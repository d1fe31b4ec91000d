package tui

import (
	"testing"

	"github.com/verte-zerg/typecard/internal/session"
)

func TestBuildStyledRunesCursor(t *testing.T) {
	sample := []rune("ab")
	marks := session.Classify(sample, []rune("a"))

	runes := buildStyledRunes(sample, marks, 1)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != cursorStyle.Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildStyledRunesNoCursorWhenComplete(t *testing.T) {
	sample := []rune("a")
	marks := session.Classify(sample, []rune("a"))

	runes := buildStyledRunes(sample, marks, -1)
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for completed rune")
	}
}

func TestBuildStyledRunesKeepsSampleOnMistype(t *testing.T) {
	sample := []rune("abc")
	marks := session.Classify(sample, []rune("ax"))

	runes := buildStyledRunes(sample, marks, 2)
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style showing the sample rune")
	}
	if runes[2].s != cursorStyle.Render("c") {
		t.Fatalf("expected neutral cursor rune")
	}
}

func TestBuildStyledRunesWrongSpaceDot(t *testing.T) {
	sample := []rune("a b")
	marks := session.Classify(sample, []rune("ax"))

	runes := buildStyledRunes(sample, marks, 2)
	if runes[1].s != incorrectStyle.Render("•") {
		t.Fatalf("expected red dot for wrong space")
	}
	if !runes[1].isSpace {
		t.Fatalf("dot must still wrap as a space")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	sample := []rune("one two three")
	runes := plainRunes(sample)

	got := wrapStyledRunes(runes, 8)
	want := "one two\nthree"
	if got != want {
		t.Fatalf("unexpected wrap:\n%q\nwant\n%q", got, want)
	}
}

func TestWrapStyledRunesSplitsLongWords(t *testing.T) {
	runes := plainRunes([]rune("abcdefgh"))

	got := wrapStyledRunes(runes, 3)
	if got != "abc\ndef\ngh" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapStyledRunesNoWidth(t *testing.T) {
	runes := plainRunes([]rune("one two"))
	if got := wrapStyledRunes(runes, 0); got != "one two" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func plainRunes(sample []rune) []styledRune {
	out := make([]styledRune, 0, len(sample))
	for _, r := range sample {
		out = append(out, styledRune{s: string(r), width: 1, isSpace: r == ' '})
	}
	return out
}

