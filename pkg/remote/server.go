package remote

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/tmscore/control/internal/log"
)

// Server exposes the neuronavigation websocket endpoint and a small
// HTTP status surface over the Hub, modeled on a small fiber app
// wiring trimmed to this core's one client relationship.
type Server struct {
	app  *fiber.App
	port string
	hub  *Hub
}

// NewServer builds a Server broadcasting through hub on the given port.
func NewServer(port string, hub *Hub) *Server {
	s := &Server{port: port, hub: hub}

	app := fiber.New(fiber.Config{
		AppName:               "tms-control-remote",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	app.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"clients": s.hub.ClientCount()})
	})

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		NewClient(s.hub, conn).Run()
	}))

	s.app = app
	return s
}

// Start runs the hub loop and serves the websocket endpoint; blocks
// until the listener stops.
func (s *Server) Start() error {
	go s.hub.Run()
	log.Info("remote control sink listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync runs Start in a goroutine, logging a fatal-looking error
// on failure without tearing down the rest of the process.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("remote control server stopped", "error", err)
		}
	}()
}

// Shutdown gracefully stops the websocket server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
