package playback

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Output is the single writer for a session's websocket. Frames are written
// in the order they are sent.
type Output struct {
	ctx    context.Context
	cancel context.CancelFunc
	frames chan interface{}
	ws     Conn
	logger zerolog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewOutput(ctx context.Context, ws Conn, logger zerolog.Logger) (*Output, error) {
	if ws == nil {
		return nil, errors.New("websocket connection is required")
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Output{
		ctx:    ctx,
		cancel: cancel,
		frames: make(chan interface{}, 16),
		ws:     ws,
		logger: logger,
	}, nil
}

func (o *Output) Start() {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for {
			select {
			case <-o.ctx.Done():
				return
			case frame, ok := <-o.frames:
				if !ok {
					return
				}
				if err := o.ws.WriteJSON(frame); err != nil {
					o.logger.Warn().Err(err).Msg("playback write error")
					o.cancel()
					return
				}
			}
		}
	}()
}

// Send queues a frame. It returns false once the output has stopped.
func (o *Output) Send(frame interface{}) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return false
	}
	select {
	case <-o.ctx.Done():
		return false
	case o.frames <- frame:
		return true
	}
}

// Stop lets the writer drain queued frames, then releases it.
func (o *Output) Stop() {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.frames)
	}
	o.mu.Unlock()
	o.wg.Wait()
	o.cancel()
}
