// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/typecard/internal/model"
)

// MinElapsed is the floor applied to elapsed time before any rate is
// computed, so sub-second completions report a finite WPM.
const MinElapsed = time.Second

// Compute derives WPM, accuracy and elapsed seconds for a finished test.
func Compute(sample, typed string, startedAt, endedAt time.Time) model.Stats {
	elapsed := endedAt.Sub(startedAt)
	if elapsed < MinElapsed {
		elapsed = MinElapsed
	}
	minutes := float64(elapsed.Milliseconds()) / 60000.0
	return model.Stats{
		WPM:      int(math.Round(float64(WordCount(typed)) / minutes)),
		Accuracy: Accuracy([]rune(sample), []rune(typed)),
		Seconds:  int(math.Round(minutes * 60)),
	}
}

// WordCount counts whitespace-delimited tokens in the trimmed text.
func WordCount(typed string) int {
	return len(strings.Fields(typed))
}

// Accuracy returns the rounded percentage of sample positions matched by
// the typed rune at the same position. Untyped positions never match.
func Accuracy(sample, typed []rune) int {
	if len(sample) == 0 {
		return 0
	}
	correct := 0
	for i, r := range sample {
		if i < len(typed) && typed[i] == r {
			correct++
		}
	}
	return int(math.Round(float64(correct) / float64(len(sample)) * 100))
}

// FormatClock renders whole seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// RenderSummary prints a results table for a completed test.
func RenderSummary(w io.Writer, res model.Stats) error {
	if _, err := fmt.Fprintln(w, "Typing Speed Test"); err != nil {
		return err
	}
	headers := []string{"Metric", "Value"}
	rows := [][]string{
		{"WPM", fmt.Sprintf("%d", res.WPM)},
		{"Accuracy", fmt.Sprintf("%d%%", res.Accuracy)},
		{"Time", fmt.Sprintf("%ds", res.Seconds)},
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
