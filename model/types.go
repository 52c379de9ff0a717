package model

// Word is one token of a transcript. Indices are contiguous from zero.
type Word struct {
	I int    `json:"i"`
	W string `json:"w"`
}

// TranscribeResponse is the body of a successful POST /api/transcribe.
type TranscribeResponse struct {
	Text     string   `json:"text"`
	Words    []Word   `json:"words"`
	Duration *float64 `json:"duration,omitempty"`
}

// ErrorResponse is the body of every non-200 API response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// FFmpegStatus reports how the extraction tool was resolved.
type FFmpegStatus struct {
	Configured string  `json:"configured"`
	Resolved   *string `json:"resolved"`
	Available  bool    `json:"available"`
}

type TranscriptionStatus struct {
	Credential bool     `json:"credential"`
	Models     []string `json:"models"`
}

type ConfigResponse struct {
	FFmpeg        FFmpegStatus        `json:"ffmpeg"`
	Transcription TranscriptionStatus `json:"transcription"`
}
