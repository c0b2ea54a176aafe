// Package server is the presentation layer: a JSON API over the tracker.
// Display rounding happens here and nowhere else.
package server

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"PortfolioTracker/internal/tracker"
)

// Server wires the tracker into an echo instance.
type Server struct {
	echo    *echo.Echo
	tracker *tracker.Tracker
}

// New builds the server with logging and recovery middleware and all routes
// registered.
func New(t *tracker.Tracker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				log.Printf("[INFO] %d %s", v.Status, v.URI)
			} else {
				log.Printf("[WARN] %d %s - %v", v.Status, v.URI, v.Error)
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	s := &Server{echo: e, tracker: t}

	e.GET("/health", s.health)
	api := e.Group("/api")
	api.GET("/holdings", s.listHoldings)
	api.POST("/holdings", s.addHolding)
	api.DELETE("/holdings/:name", s.deleteHolding)
	api.GET("/portfolio", s.portfolio)

	return s
}

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
