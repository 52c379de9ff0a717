package api

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
)

func (s *Server) registerFrontend(app *fiber.App) {
	if s.Frontend != nil {
		app.Use("/static", filesystem.New(filesystem.Config{Root: s.Frontend}))
	}
	app.Get("/", s.index)
}

// index serves the frontend page, or a JSON note when there is none.
func (s *Server) index(c *fiber.Ctx) error {
	if s.Frontend == nil {
		return c.JSON(fiber.Map{"message": "frontend not found"})
	}
	f, err := s.Frontend.Open("/index.html")
	if err != nil {
		return c.JSON(fiber.Map{"message": "frontend not found"})
	}
	defer f.Close()

	page, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	c.Type("html")
	return c.Send(page)
}
