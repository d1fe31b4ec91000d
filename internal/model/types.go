// Package model defines shared data structures.
package model

import "net/url"

// SampleText is the sentence every typing test presents.
const SampleText = "The quick brown fox jumps over the lazy dog."

// Route paths shared by the frame handler and the card renderer.
const (
	FramePath = "/api/frame"
	CardPath  = "/api/og"
)

// Config defines typing test settings.
type Config struct {
	Sample     string
	ComposeURL string
}

// Stats captures the result of a completed typing test.
type Stats struct {
	WPM      int
	Accuracy int
	Seconds  int
}

// CardState selects which share card variant to draw.
type CardState string

const (
	CardDefault   CardState = ""
	CardTyping    CardState = "typing"
	CardChallenge CardState = "challenge"
)

// CarriedState is the previously reported score round-tripped through
// frame payloads and card links. Values are caller-supplied text and are
// never validated.
type CarriedState struct {
	WPM      string
	Accuracy string
}

// Complete reports whether both values are present.
func (c CarriedState) Complete() bool {
	return c.WPM != "" && c.Accuracy != ""
}

// CarriedStateFromQuery reads wpm and accuracy from a query string.
func CarriedStateFromQuery(q url.Values) CarriedState {
	return CarriedState{
		WPM:      q.Get("wpm"),
		Accuracy: q.Get("accuracy"),
	}
}

// CardParams are the inputs of the share card renderer.
type CardParams struct {
	State CardState
	Carry CarriedState
}

// CardParamsFromQuery parses card parameters from a query string.
func CardParamsFromQuery(q url.Values) CardParams {
	return CardParams{
		State: CardState(q.Get("state")),
		Carry: CarriedStateFromQuery(q),
	}
}

// Query encodes the parameters in state, wpm, accuracy order. Empty state
// yields an empty string.
func (p CardParams) Query() string {
	if p.State == CardDefault {
		return ""
	}
	q := "state=" + url.QueryEscape(string(p.State))
	if p.State == CardChallenge {
		q += "&wpm=" + url.QueryEscape(p.Carry.WPM)
		q += "&accuracy=" + url.QueryEscape(p.Carry.Accuracy)
	}
	return q
}
