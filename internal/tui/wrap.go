package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typecard/internal/session"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes styles each sample rune by its mark. A mistyped space
// is drawn as a dot so the error stays visible.
func buildStyledRunes(sample []rune, marks []session.Mark, cursorIndex int) []styledRune {
	out := make([]styledRune, 0, len(sample))
	for i, target := range sample {
		displayed := target
		style := pendingStyle
		switch marks[i] {
		case session.Correct:
			style = correctStyle
		case session.Incorrect:
			style = incorrectStyle
			if target == ' ' {
				displayed = '•'
			}
		}
		if i == cursorIndex {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits in width,
// or mid-word when a word is longer than the line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	var line []styledRune
	lineWidth := 0
	lastSpace := -1

	flush := func(upto, resume int) {
		out.WriteString(renderStyledRunes(line[:upto]))
		out.WriteRune('\n')
		line = append([]styledRune(nil), line[resume:]...)
		lineWidth = 0
		lastSpace = -1
		for i, item := range line {
			lineWidth += item.width
			if item.isSpace {
				lastSpace = i
			}
		}
	}

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				flush(lastSpace, lastSpace+1)
			} else {
				flush(len(line), len(line))
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}
