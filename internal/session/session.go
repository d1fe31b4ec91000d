// Package session holds the typing test state machine.
package session

import (
	"time"

	"github.com/verte-zerg/typecard/internal/model"
	"github.com/verte-zerg/typecard/internal/stats"
)

// Phase is the lifecycle stage of a session.
type Phase int

const (
	Idle Phase = iota
	Running
	Complete
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Transition reports what a Change did to the phase.
type Transition int

const (
	NoTransition Transition = iota
	Started
	Completed
)

// Mark classifies one sample character against the typed input.
type Mark int

const (
	Neutral Mark = iota
	Correct
	Incorrect
)

// Session tracks one typing test from first keystroke to completion.
//
// The per-second counter is driven by a timer lease: entering Running
// acquires a new lease generation and leaving Running, by completion or
// reset, releases it. Ticks carrying any other generation are dropped.
type Session struct {
	sample []rune
	input  []rune

	startedAt time.Time
	endedAt   time.Time
	elapsed   int

	stats    *model.Stats
	complete bool

	timerGen    int
	timerActive bool
}

// New returns an idle session for the given sample.
func New(sample string) *Session {
	return &Session{sample: []rune(sample)}
}

// Sample returns the sentence being typed.
func (s *Session) Sample() string {
	return string(s.sample)
}

// Input returns the typed text, never longer than the sample.
func (s *Session) Input() string {
	return string(s.input)
}

// Phase reports the current lifecycle stage.
func (s *Session) Phase() Phase {
	switch {
	case s.complete:
		return Complete
	case !s.startedAt.IsZero():
		return Running
	default:
		return Idle
	}
}

// StartedAt returns the start timestamp, zero when idle.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// EndedAt returns the completion timestamp, zero until complete.
func (s *Session) EndedAt() time.Time {
	return s.endedAt
}

// Elapsed returns the visible per-second counter.
func (s *Session) Elapsed() int {
	return s.elapsed
}

// Stats returns the computed statistics once the session is complete.
func (s *Session) Stats() (model.Stats, bool) {
	if s.stats == nil {
		return model.Stats{}, false
	}
	return *s.stats, true
}

// Change replaces the typed text. Input is truncated to the sample length.
// The first non-empty change starts the session; reaching the sample length
// completes it regardless of correctness. Changes after completion are
// ignored.
func (s *Session) Change(text string, now time.Time) Transition {
	if s.complete {
		return NoTransition
	}
	runes := []rune(text)
	if len(runes) > len(s.sample) {
		runes = runes[:len(s.sample)]
	}

	transition := NoTransition
	if s.startedAt.IsZero() && len(runes) > 0 {
		s.startedAt = now
		s.acquireTimer()
		transition = Started
	}
	s.input = runes

	if len(s.input) == len(s.sample) && !s.startedAt.IsZero() {
		s.endedAt = now
		s.complete = true
		s.releaseTimer()
		computed := stats.Compute(string(s.sample), string(s.input), s.startedAt, s.endedAt)
		s.stats = &computed
		return Completed
	}
	return transition
}

// Reset returns the session to its initial idle state.
func (s *Session) Reset() {
	s.releaseTimer()
	s.input = nil
	s.startedAt = time.Time{}
	s.endedAt = time.Time{}
	s.elapsed = 0
	s.stats = nil
	s.complete = false
}

// TimerGen returns the generation of the current timer lease.
func (s *Session) TimerGen() int {
	return s.timerGen
}

// TimerActive reports whether a timer lease is held.
func (s *Session) TimerActive() bool {
	return s.timerActive
}

// Tick advances the counter when gen matches the held lease. It returns
// false when the tick is stale and must not be rescheduled.
func (s *Session) Tick(gen int) bool {
	if !s.timerActive || gen != s.timerGen {
		return false
	}
	s.elapsed++
	return true
}

func (s *Session) acquireTimer() {
	s.timerGen++
	s.timerActive = true
}

func (s *Session) releaseTimer() {
	if !s.timerActive {
		return
	}
	s.timerGen++
	s.timerActive = false
}

// Marks classifies every sample character against the current input.
func (s *Session) Marks() []Mark {
	return Classify(s.sample, s.input)
}

// Classify marks each sample position as neutral when untyped, correct
// when the typed rune matches, incorrect otherwise.
func Classify(sample, typed []rune) []Mark {
	marks := make([]Mark, len(sample))
	for i, r := range sample {
		switch {
		case i >= len(typed):
			marks[i] = Neutral
		case typed[i] == r:
			marks[i] = Correct
		default:
			marks[i] = Incorrect
		}
	}
	return marks
}
