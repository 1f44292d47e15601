// Package http provides the HTTP server and the SSE chat transport.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewServer creates and configures the echo server with the chat and
// session routes registered. CORS middleware also answers the OPTIONS
// preflight with permissive headers.
func NewServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	return e
}
