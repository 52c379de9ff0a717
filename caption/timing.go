// Package caption holds the renderer's view state: per-word timing windows,
// the active word, and the hand pose shown for it.
package caption

import (
	"math"

	"github.com/mrsingh-rishi/sign-captions/model"
)

// SecondsPerWord is the assumed pace when the media duration is unknown.
const SecondsPerWord = 0.6

// TotalDuration returns duration if it is usable, otherwise n × SecondsPerWord.
func TotalDuration(n int, duration float64) float64 {
	if duration > 0 && !math.IsInf(duration, 0) && !math.IsNaN(duration) {
		return duration
	}
	return float64(n) * SecondsPerWord
}

// Timings splits [0, D] into len(words) equal windows. The last window ends
// at exactly D so the union covers the whole range.
func Timings(words []model.Word, duration float64) []model.WordTiming {
	n := len(words)
	if n == 0 {
		return []model.WordTiming{}
	}
	total := TotalDuration(n, duration)
	per := total / float64(n)

	out := make([]model.WordTiming, n)
	for i, w := range words {
		out[i] = model.WordTiming{
			Index: i,
			Text:  w.W,
			Start: float64(i) * per,
			End:   float64(i+1) * per,
		}
	}
	out[n-1].End = total
	return out
}
