package api

import (
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/mrsingh-rishi/sign-captions/caption"
	"github.com/mrsingh-rishi/sign-captions/config"
	"github.com/mrsingh-rishi/sign-captions/media"
	"github.com/mrsingh-rishi/sign-captions/model"
	"github.com/mrsingh-rishi/sign-captions/service"
	"github.com/mrsingh-rishi/sign-captions/stt"
	"github.com/mrsingh-rishi/sign-captions/web"
)

// MaxBodyBytes caps the request body fasthttp will buffer.
const MaxBodyBytes = 1 << 30

// Server holds the handlers' collaborators.
type Server struct {
	Config        *config.Config
	Resolver      *media.Resolver
	Transcription *service.Transcription
	Models        []string
	// NewRand seeds the pose picker of each playback session.
	NewRand  func() caption.Rand
	Frontend http.FileSystem
}

// NewServer wires the default collaborators from cfg.
func NewServer(cfg *config.Config) (*Server, error) {
	resolver := media.NewResolver(cfg.FFmpegPath)
	tr, err := service.NewTranscription(media.NewFFmpeg(resolver), stt.New(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "create transcription service")
	}

	var frontend http.FileSystem = web.FS()
	if cfg.FrontendDir != "" {
		if fi, err := os.Stat(cfg.FrontendDir); err == nil && fi.IsDir() {
			frontend = http.Dir(cfg.FrontendDir)
		} else {
			log.Warn().Str("dir", cfg.FrontendDir).Msg("FRONTEND_DIR not found, using embedded frontend")
		}
	}

	return &Server{
		Config:        cfg,
		Resolver:      resolver,
		Transcription: tr,
		Models:        stt.Models,
		NewRand: func() caption.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		Frontend: frontend,
	}, nil
}

// App builds the fiber application with every route registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "sign-captions",
		BodyLimit:             MaxBodyBytes,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(s.Config.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowCredentials: false,
	}))

	api := app.Group("/api")
	api.Post("/transcribe", s.transcribe)
	api.Get("/health", s.health)
	api.Get("/config", s.config)
	api.Use("/sync", requireUpgrade)
	api.Get("/sync", s.sync())

	s.registerFrontend(app)
	return app
}

// errorHandler renders every unhandled error as {"detail": ...}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(model.ErrorResponse{Detail: err.Error()})
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		log.Debug().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
