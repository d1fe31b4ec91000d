// Package card draws the 1200x630 share card served to frame clients.
package card

import (
	"github.com/verte-zerg/typecard/internal/model"
)

// Variant is the card content chosen from the request parameters.
type Variant int

const (
	Default Variant = iota
	Typing
	Challenge
)

func (v Variant) String() string {
	switch v {
	case Typing:
		return "typing"
	case Challenge:
		return "challenge"
	default:
		return "default"
	}
}

// Select picks the variant. typing wins regardless of any score; challenge
// needs both wpm and accuracy; anything else is the default card.
func Select(p model.CardParams) Variant {
	switch {
	case p.State == model.CardTyping:
		return Typing
	case p.State == model.CardChallenge && p.Carry.Complete():
		return Challenge
	default:
		return Default
	}
}

// FontStyle selects one of the embedded Go fonts.
type FontStyle int

const (
	Regular FontStyle = iota
	Bold
	Italic
)

// Text is one centered, wrapped paragraph.
type Text struct {
	Value     string
	Size      float64
	Style     FontStyle
	Color     string
	MarginTop float64
}

// Tile is a boxed label/value pair.
type Tile struct {
	Label      string
	Value      string
	Background string
	LabelColor string
	ValueColor string
}

// Layout is everything drawn inside the white panel.
type Layout struct {
	Variant Variant
	Title   Text
	Lines   []Text
	Tiles   []Tile
}

const (
	headlineColor = "#1f2937"
	bodyColor     = "#4b5563"
)

// Build resolves the card content for p. Score values are printed verbatim.
func Build(p model.CardParams) Layout {
	l := Layout{
		Variant: Select(p),
		Title:   Text{Value: "Typing Speed Test", Size: 48, Style: Bold, Color: headlineColor},
	}
	switch l.Variant {
	case Typing:
		l.Lines = []Text{
			{Value: "Type the following text:", Size: 24, Color: bodyColor, MarginTop: 20},
			{Value: `"` + model.SampleText + `"`, Size: 24, Style: Italic, Color: bodyColor, MarginTop: 12},
		}
	case Challenge:
		l.Lines = []Text{
			{Value: "You've been challenged!", Size: 24, Color: bodyColor, MarginTop: 20},
		}
		l.Tiles = []Tile{
			{Label: "WPM", Value: p.Carry.WPM, Background: "#eef2ff", LabelColor: "#4f46e5", ValueColor: "#312e81"},
			{Label: "Accuracy", Value: p.Carry.Accuracy + "%", Background: "#ecfdf5", LabelColor: "#059669", ValueColor: "#064e3b"},
		}
	default:
		l.Lines = []Text{
			{Value: "Test your typing speed and challenge your friends!", Size: 24, Color: bodyColor, MarginTop: 20},
			{Value: `Click "Start Typing Test" to begin`, Size: 18, Color: bodyColor, MarginTop: 12},
		}
	}
	return l
}
