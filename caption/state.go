package caption

import (
	"math"

	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/sign-captions/model"
)

// ClickOffset is added to a word's start when seeking to it, so the playhead
// lands inside the window rather than on its edge.
const ClickOffset = 0.01

// Reason is what caused a dispatch.
type Reason string

const (
	TimeUpdate Reason = "timeupdate"
	Seeking    Reason = "seeking"
	Seeked     Reason = "seeked"
	RateChange Reason = "ratechange"
	Play       Reason = "play"
	Click      Reason = "click"
	Ended      Reason = "ended"
)

var (
	ErrUnknownReason = errors.New("unknown event reason")
	ErrNoWord        = errors.New("no caption word at that index")
)

// Event is one playback occurrence. T is used by time reasons, Index by Click.
type Event struct {
	Reason Reason
	T      float64
	Index  int
}

// Update is the result of a dispatch. The view repaints only when Changed.
type Update struct {
	Changed bool
	Active  int // -1 when nothing is highlighted
	Word    string
	Pose    Pose
	Seek    *float64
	Cleared bool
}

// State is the view state of one caption strip: the words, their timing
// windows, and which word is highlighted.
type State struct {
	rnd      Rand
	words    []model.Word
	duration float64
	timings  []model.WordTiming
	active   int
}

func NewState(rnd Rand) *State {
	return &State{rnd: rnd, active: -1, timings: []model.WordTiming{}}
}

// Load replaces the transcript and resets highlighting. A duration <= 0
// means unknown.
func (s *State) Load(words []model.Word, duration float64) []model.WordTiming {
	s.words = append([]model.Word(nil), words...)
	s.duration = duration
	s.active = -1
	return s.recompute()
}

// SetDuration recomputes the windows once the real media duration is known.
func (s *State) SetDuration(duration float64) []model.WordTiming {
	s.duration = duration
	return s.recompute()
}

func (s *State) recompute() []model.WordTiming {
	s.timings = Timings(s.words, s.duration)
	return s.Timings()
}

// Timings returns a copy of the current windows.
func (s *State) Timings() []model.WordTiming {
	out := make([]model.WordTiming, len(s.timings))
	copy(out, s.timings)
	return out
}

// Total is the duration the windows cover.
func (s *State) Total() float64 {
	return TotalDuration(len(s.words), s.duration)
}

// Active is the highlighted word index, or -1.
func (s *State) Active() int {
	return s.active
}

// WordIndexForTime returns floor(t / perWord) clamped to [0, N-1], or -1
// with no words.
func (s *State) WordIndexForTime(t float64) int {
	n := len(s.timings)
	if n == 0 {
		return -1
	}
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	per := s.Total() / float64(n)
	idx := int(math.Floor(t / per))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	// Division can land one window off at an exact boundary; the stored
	// windows are authoritative.
	if idx < n-1 && t >= s.timings[idx+1].Start {
		idx++
	} else if idx > 0 && t < s.timings[idx].Start {
		idx--
	}
	return idx
}

// Dispatch handles one playback event: compute the active index, diff it
// against the previous one, and report whether to repaint.
func (s *State) Dispatch(ev Event) (Update, error) {
	switch ev.Reason {
	case TimeUpdate, Seeking, Seeked, RateChange, Play:
		idx := s.WordIndexForTime(ev.T)
		if idx < 0 {
			return Update{Active: -1}, nil
		}
		return s.highlight(idx, false), nil

	case Click:
		if ev.Index < 0 || ev.Index >= len(s.timings) {
			return Update{Active: s.active}, errors.Wrapf(ErrNoWord, "index %d", ev.Index)
		}
		seek := s.timings[ev.Index].Start + ClickOffset
		u := s.highlight(ev.Index, true)
		u.Seek = &seek
		return u, nil

	case Ended:
		s.active = -1
		return Update{Changed: true, Active: -1, Cleared: true}, nil
	}
	return Update{Active: s.active}, errors.Wrapf(ErrUnknownReason, "%q", ev.Reason)
}

func (s *State) highlight(idx int, force bool) Update {
	if !force && idx == s.active {
		return Update{Active: idx}
	}
	s.active = idx
	word := s.words[idx].W
	return Update{
		Changed: true,
		Active:  idx,
		Word:    word,
		Pose:    PoseFor(word, s.rnd),
	}
}
