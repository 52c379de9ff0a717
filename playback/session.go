package playback

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mrsingh-rishi/sign-captions/caption"
	"github.com/mrsingh-rishi/sign-captions/model"
)

var (
	ErrUnknownFrame = errors.New("unknown frame type")
	// ErrNotLoaded is returned for time and click frames that arrive before
	// a load frame on this connection. Clients answer it by replaying load.
	ErrNotLoaded = errors.New("no captions loaded")
)

// Conn is the part of a websocket connection a session needs.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

// Session syncs one browser's playback with its caption state. Sessions
// share nothing with each other.
type Session struct {
	ID     string
	ws     Conn
	state  *caption.State
	out    *Output
	logger zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	loaded bool
}

func NewSession(ctx context.Context, ws Conn, rnd caption.Rand) (*Session, error) {
	if ws == nil {
		return nil, errors.New("websocket connection is required")
	}
	if rnd == nil {
		return nil, errors.New("random source is required")
	}
	id := uuid.NewString()
	logger := log.With().Str("session", id).Logger()

	ctx, cancel := context.WithCancel(ctx)
	out, err := NewOutput(ctx, ws, logger)
	if err != nil {
		cancel()
		return nil, err
	}
	return &Session{
		ID:     id,
		ws:     ws,
		state:  caption.NewState(rnd),
		out:    out,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Run reads frames until the connection closes. It blocks.
func (s *Session) Run() {
	s.out.Start()
	defer s.cleanup()
	s.logger.Debug().Msg("playback session started")

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		_, msg, err := s.ws.ReadMessage()
		if err != nil {
			s.logger.Debug().Err(err).Msg("playback session closed")
			return
		}

		var frame model.ClientFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			s.out.Send(model.ServerFrame{Type: model.FrameError, Detail: "invalid JSON"})
			continue
		}

		replies, err := s.Handle(frame)
		if err != nil {
			s.logger.Debug().Err(err).Str("type", frame.Type).Msg("rejected frame")
			replies = append(replies, model.ServerFrame{Type: model.FrameError, Detail: err.Error()})
		}
		for _, r := range replies {
			if !s.out.Send(r) {
				return
			}
		}
	}
}

// Handle applies one client frame to the caption state and returns the
// frames to send back, in order.
func (s *Session) Handle(frame model.ClientFrame) ([]interface{}, error) {
	switch frame.Type {
	case model.FrameLoad:
		s.loaded = true
		return []interface{}{s.timingsFrame(s.state.Load(frame.Words, frame.Duration))}, nil

	case model.FrameDuration:
		return []interface{}{s.timingsFrame(s.state.SetDuration(frame.Duration))}, nil

	case model.FrameTime:
		if !s.loaded {
			return nil, ErrNotLoaded
		}
		reason := caption.Reason(frame.Reason)
		if reason == "" {
			reason = caption.TimeUpdate
		}
		if reason == caption.Click || reason == caption.Ended {
			return nil, errors.Wrapf(caption.ErrUnknownReason, "%q is not a time reason", reason)
		}
		u, err := s.state.Dispatch(caption.Event{Reason: reason, T: frame.T})
		if err != nil || !u.Changed {
			return nil, err
		}
		return []interface{}{highlightFrame(u)}, nil

	case model.FrameClick:
		if !s.loaded {
			return nil, ErrNotLoaded
		}
		u, err := s.state.Dispatch(caption.Event{Reason: caption.Click, Index: frame.Index})
		if err != nil {
			return nil, err
		}
		return []interface{}{
			model.SeekFrame{Type: model.FrameSeek, T: *u.Seek},
			highlightFrame(u),
		}, nil

	case model.FrameEnded:
		if _, err := s.state.Dispatch(caption.Event{Reason: caption.Ended}); err != nil {
			return nil, err
		}
		return []interface{}{model.ServerFrame{Type: model.FrameClear}}, nil
	}
	return nil, errors.Wrapf(ErrUnknownFrame, "%q", frame.Type)
}

func (s *Session) timingsFrame(ts []model.WordTiming) model.TimingsFrame {
	return model.TimingsFrame{Type: model.FrameTimings, Duration: s.state.Total(), Timings: ts}
}

func highlightFrame(u caption.Update) model.HighlightFrame {
	return model.HighlightFrame{Type: model.FrameHighlight, Index: u.Active, Word: u.Word, Pose: string(u.Pose)}
}

// cleanup releases everything the session owns.
func (s *Session) cleanup() {
	s.out.Stop()
	s.cancel()
	if err := s.ws.Close(); err != nil {
		s.logger.Debug().Err(err).Msg("websocket close")
	}
}
