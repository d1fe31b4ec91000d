// Package share builds and opens the score share link.
package share

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"

	"github.com/verte-zerg/typecard/internal/model"
)

// DefaultComposeURL is the compose endpoint the summary is sent to.
const DefaultComposeURL = "https://warpcast.com/~/compose"

// Summary renders the human-readable share text for a result.
func Summary(st model.Stats) string {
	return fmt.Sprintf("🏃‍♂️ Just completed a typing test!\n\n⚡️ WPM: %d\n🎯 Accuracy: %d%%\n⏱️ Time: %ds\n\nCan you beat my score? Try it now!",
		st.WPM, st.Accuracy, st.Seconds)
}

// ComposeLink returns composeURL with the summary as its text parameter.
func ComposeLink(composeURL string, st model.Stats) string {
	if composeURL == "" {
		composeURL = DefaultComposeURL
	}
	sep := "?"
	if strings.Contains(composeURL, "?") {
		sep = "&"
	}
	return composeURL + sep + "text=" + url.QueryEscape(Summary(st))
}

// Opener hands a link to something outside the process.
type Opener interface {
	Deliver(link string) (Outcome, error)
}

// Outcome describes how a link was delivered.
type Outcome int

const (
	Opened Outcome = iota
	Copied
)

// BrowserOpener opens links with the system browser and falls back to
// copying the link to the clipboard.
type BrowserOpener struct {
	openURL   func(string) error
	writeClip func(string) error
}

// NewBrowserOpener returns an opener backed by the system browser.
func NewBrowserOpener() *BrowserOpener {
	// Launcher output would land on top of the alt screen.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &BrowserOpener{
		openURL:   browser.OpenURL,
		writeClip: clipboard.WriteAll,
	}
}

// Deliver opens the link, falling back to the clipboard when no browser
// can be launched.
func (o *BrowserOpener) Deliver(link string) (Outcome, error) {
	openErr := o.openURL(link)
	if openErr == nil {
		return Opened, nil
	}
	if err := o.writeClip(link); err != nil {
		return Opened, fmt.Errorf("failed to open share link: %v; clipboard: %w", openErr, err)
	}
	return Copied, nil
}
