package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/mrsingh-rishi/sign-captions/model"
	"github.com/mrsingh-rishi/sign-captions/service"
)

// transcribe handles POST /api/transcribe with a single multipart "file" field.
func (s *Server) transcribe(c *fiber.Ctx) error {
	logger := log.With().Str("request_id", uuid.NewString()).Logger()
	ctx := logger.WithContext(c.UserContext())

	fh, err := c.FormFile("file")
	if err != nil {
		logger.Debug().Err(err).Msg("no file in request")
		return detail(c, fiber.StatusBadRequest, service.ErrMissingFile.Error())
	}
	f, err := fh.Open()
	if err != nil {
		return detail(c, fiber.StatusBadRequest, service.ErrUnreadableUpload.Error())
	}
	defer f.Close()

	logger.Info().Str("filename", fh.Filename).Int64("size", fh.Size).Msg("transcription requested")
	res, err := s.Transcription.Transcribe(ctx, fh.Filename, f)
	if err != nil {
		code, msg := classify(err)
		if code >= fiber.StatusInternalServerError {
			logger.Error().Err(err).Msg("transcription failed")
		}
		return detail(c, code, msg)
	}
	return c.JSON(res.Response())
}

// classify maps pipeline errors onto a status code and client-facing message.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrMissingFile):
		return fiber.StatusBadRequest, service.ErrMissingFile.Error()
	case errors.Is(err, service.ErrUnsupportedType):
		return fiber.StatusBadRequest, service.ErrUnsupportedType.Error()
	case errors.Is(err, service.ErrUnreadableUpload):
		return fiber.StatusBadRequest, service.ErrUnreadableUpload.Error()
	case errors.Is(err, service.ErrExtractorUnavailable):
		return fiber.StatusInternalServerError, service.ErrExtractorUnavailable.Error()
	}
	return fiber.StatusInternalServerError, err.Error()
}

func detail(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(model.ErrorResponse{Detail: msg})
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(model.HealthResponse{Status: "ok"})
}

// config reports how the extraction tool resolves right now.
func (s *Server) config(c *fiber.Ctx) error {
	res := s.Resolver.Resolve(c.UserContext())

	status := model.FFmpegStatus{Configured: res.Configured, Available: res.Available}
	if res.Resolved != "" {
		resolved := res.Resolved
		status.Resolved = &resolved
	}
	return c.JSON(model.ConfigResponse{
		FFmpeg: status,
		Transcription: model.TranscriptionStatus{
			Credential: s.Config.HasCredential(),
			Models:     s.Models,
		},
	})
}
