package model

// Frame types exchanged on the playback sync websocket.
const (
	FrameLoad     = "load"
	FrameDuration = "duration"
	FrameTime     = "time"
	FrameClick    = "click"
	FrameEnded    = "ended"

	FrameTimings   = "timings"
	FrameHighlight = "highlight"
	FrameSeek      = "seek"
	FrameClear     = "clear"
	FrameError     = "error"
)

// ClientFrame is any message the browser sends on /api/sync.
type ClientFrame struct {
	Type     string  `json:"type"`
	Words    []Word  `json:"words,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Reason   string  `json:"reason,omitempty"`
	T        float64 `json:"t,omitempty"`
	Index    int     `json:"index,omitempty"`
}

// WordTiming is the [Start, End) window during which a word is current.
type WordTiming struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type TimingsFrame struct {
	Type     string       `json:"type"`
	Duration float64      `json:"duration"`
	Timings  []WordTiming `json:"timings"`
}

type HighlightFrame struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	Word  string `json:"word"`
	Pose  string `json:"pose"`
}

type SeekFrame struct {
	Type string  `json:"type"`
	T    float64 `json:"t"`
}

// ServerFrame covers the frames that carry no payload besides an optional detail.
type ServerFrame struct {
	Type   string `json:"type"`
	Detail string `json:"detail,omitempty"`
}
