package round

import (
	"strconv"
	"sync"
)

// Cue is an audio or haptic signal.
type Cue uint8

const (
	// CueMusic starts the background loop; it runs until CueRoundEnd.
	CueMusic Cue = iota
	CuePenalty
	CueReward
	// CueRoundEnd stops the background loop and plays the end jingle.
	CueRoundEnd
)

func (c Cue) String() string {
	switch c {
	case CueMusic:
		return "music"
	case CuePenalty:
		return "penalty"
	case CueReward:
		return "reward"
	case CueRoundEnd:
		return "round-end"
	}
	return "cue(" + strconv.Itoa(int(c)) + ")"
}

// Feedback receives cues. Cue must return promptly; the round calls it from
// the simulation goroutine.
type Feedback interface {
	Cue(Cue)
}

// FeedbackFunc adapts a function to Feedback.
type FeedbackFunc func(Cue)

func (f FeedbackFunc) Cue(c Cue) { f(c) }

// Display shows the literal score and timer text.
type Display interface {
	ShowScore(text string)
	ShowTimer(text string)
	ShowGameOver(finalScore string)
}

type nopFeedback struct{}

func (nopFeedback) Cue(Cue) {}

type nopDisplay struct{}

func (nopDisplay) ShowScore(string)    {}
func (nopDisplay) ShowTimer(string)    {}
func (nopDisplay) ShowGameOver(string) {}

// Feedbacks fans one cue out to several sinks in order.
type Feedbacks []Feedback

func (fs Feedbacks) Cue(c Cue) {
	for _, f := range fs {
		f.Cue(c)
	}
}

// TextDisplay keeps the last texts pushed by a round so a renderer can draw
// them on its own schedule. The zero value is ready to use.
type TextDisplay struct {
	mu                  sync.Mutex
	score, timer, final string
	over                bool
}

func (d *TextDisplay) ShowScore(text string) {
	d.mu.Lock()
	d.score = text
	d.mu.Unlock()
}

func (d *TextDisplay) ShowTimer(text string) {
	d.mu.Lock()
	d.timer = text
	d.mu.Unlock()
}

func (d *TextDisplay) ShowGameOver(finalScore string) {
	d.mu.Lock()
	d.final, d.over = finalScore, true
	d.mu.Unlock()
}

// Texts returns the score, timer and final score texts. Unset texts read as
// "-". over reports whether ShowGameOver was called.
func (d *TextDisplay) Texts() (score, timer, final string, over bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return orDash(d.score), orDash(d.timer), orDash(d.final), d.over
}

// Reset clears the texts for a new round.
func (d *TextDisplay) Reset() {
	d.mu.Lock()
	d.score, d.timer, d.final, d.over = "", "", "", false
	d.mu.Unlock()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
