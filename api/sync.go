package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"

	"github.com/mrsingh-rishi/sign-captions/playback"
)

// requireUpgrade rejects plain HTTP requests to the sync endpoint.
func requireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// sync serves GET /api/sync: one playback session per connection.
func (s *Server) sync() fiber.Handler {
	return websocket.New(func(ws *websocket.Conn) {
		sess, err := playback.NewSession(context.Background(), ws, s.NewRand())
		if err != nil {
			log.Error().Err(err).Msg("could not start playback session")
			return
		}
		sess.Run()
	})
}
