// Package view holds the windowed playback state of a chart.
package view

import (
	"fmt"
	"strings"
	"time"
)

const (
	// WindowSize is the number of quarters visible at once.
	WindowSize = 12
	// TickInterval is the playback step period.
	TickInterval = 800 * time.Millisecond
)

// ScaleMode selects the y-axis display unit.
type ScaleMode string

const (
	ScaleRaw       ScaleMode = "raw"
	ScaleThousands ScaleMode = "k"
	ScaleMillions  ScaleMode = "m"
)

// ParseScaleMode accepts "raw", "k"/"thousands" and "m"/"millions".
func ParseScaleMode(s string) (ScaleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw":
		return ScaleRaw, nil
	case "k", "thousands":
		return ScaleThousands, nil
	case "m", "millions":
		return ScaleMillions, nil
	default:
		return ScaleRaw, fmt.Errorf("invalid scale: %s (must be raw, k, or m)", s)
	}
}

// Next cycles raw → k → m → raw.
func (m ScaleMode) Next() ScaleMode {
	switch m {
	case ScaleRaw:
		return ScaleThousands
	case ScaleThousands:
		return ScaleMillions
	default:
		return ScaleRaw
	}
}

// State is the mutable view of one chart. It is Idle while Playing is
// false; Tick only advances a Playing state. State has no timers of its
// own; the owner drives Tick and must cancel its timer whenever Playing
// turns false.
type State struct {
	WindowStart int
	WindowSize  int
	Scale       ScaleMode
	Playing     bool
	// Selected is the category chosen for editing, "" for none.
	Selected string

	quarters int
}

// NewState returns an idle state for a dataset with quarterCount quarters.
func NewState(quarterCount int) *State {
	return &State{
		WindowSize: WindowSize,
		Scale:      ScaleRaw,
		quarters:   max(0, quarterCount),
	}
}

// Reset rewinds to the first window of a freshly loaded dataset.
// The scale mode is kept.
func (s *State) Reset(quarterCount int) {
	s.quarters = max(0, quarterCount)
	s.WindowStart = 0
	s.Playing = false
	s.Selected = ""
}

// QuarterCount returns the number of quarters of the current dataset.
func (s *State) QuarterCount() int {
	return s.quarters
}

// MaxStart is the last valid window start.
func (s *State) MaxStart() int {
	return max(0, s.quarters-s.WindowSize)
}

// AtEnd reports whether the window shows the last quarters.
func (s *State) AtEnd() bool {
	return s.WindowStart >= s.MaxStart()
}

// Play enters the Playing state. Playing from the last window first
// rewinds to 0; rewound reports whether that happened.
func (s *State) Play() (rewound bool) {
	if s.AtEnd() {
		s.WindowStart = 0
		rewound = true
	}
	s.Playing = true
	return rewound
}

// Pause returns to Idle.
func (s *State) Pause() {
	s.Playing = false
}

// Tick advances a playing window by one quarter and pauses on reaching
// the end. It reports whether the state was playing.
func (s *State) Tick() bool {
	if !s.Playing {
		return false
	}
	s.WindowStart = min(s.MaxStart(), s.WindowStart+1)
	if s.WindowStart >= s.MaxStart() {
		s.Playing = false
	}
	return true
}

// Seek pauses and moves the window to start, clamped to [0, MaxStart].
func (s *State) Seek(start int) {
	s.Playing = false
	s.WindowStart = max(0, min(s.MaxStart(), start))
}

// PlayLabel is "Replay" when playing would rewind, else "Play".
func (s *State) PlayLabel() string {
	if s.quarters > 0 && s.AtEnd() {
		return "Replay"
	}
	return "Play"
}
