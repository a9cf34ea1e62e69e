package service

import (
	"strings"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/agentwire/agentwire/pkg/agent"
	"github.com/agentwire/agentwire/pkg/errors"
	"github.com/agentwire/agentwire/pkg/task"
)

/*
Server exposes an agent over the wire protocol: discovery, synchronous and
streaming entrypoints, and the asynchronous task surface. It owns the task
manager; the agent is supplied by the embedder.
*/
type Server struct {
	app     *fiber.App
	agent   *agent.Agent
	manager *task.Manager
	cfg     Config

	cardMu   sync.Mutex
	cardJSON []byte
	cardRev  uint64

	// subscribeOpts is overridden by tests to shorten heartbeats.
	subscribeOpts task.SubscribeOptions
}

/*
Config is the per-server configuration. URL is the public base URL
published on the agent card; Extensions ride into the card untouched so
collaborators (payments, identity) can claim their slots.
*/
type Config struct {
	Name        string
	Version     string
	Description string
	URL         string
	Extensions  map[string]any
}

func New(cfg Config, ag *agent.Agent) *Server {
	srv := &Server{
		app: fiber.New(fiber.Config{
			AppName:           cfg.Name,
			ServerHeader:      "AgentWire-Server",
			StreamRequestBody: true,
		}),
		agent:   ag,
		manager: task.NewManager(ag),
		cfg:     cfg,
	}
	srv.routes()
	return srv
}

// Manager returns the server's task manager, mainly for embedders that
// want to run eviction on their own schedule.
func (srv *Server) Manager() *task.Manager { return srv.manager }

// App exposes the underlying fiber app for mounting and tests.
func (srv *Server) App() *fiber.App { return srv.app }

func (srv *Server) routes() {
	srv.app.Use(logger.New(logger.Config{
		// SSE connections are long-lived; logging them is only noise.
		Next: func(c fiber.Ctx) bool {
			return strings.HasSuffix(c.Path(), "/subscribe") || strings.HasSuffix(c.Path(), "/stream")
		},
	}))

	srv.app.Get("/health", srv.handleHealth)
	srv.app.Get("/.well-known/agent-card.json", srv.handleAgentCard)

	srv.app.Get("/entrypoints", srv.handleEntrypoints)
	srv.app.Post("/entrypoints/:key/invoke", srv.handleInvoke)
	srv.app.Post("/entrypoints/:key/stream", srv.handleStream)

	srv.app.Post("/tasks", srv.handleCreateTask)
	srv.app.Get("/tasks", srv.handleListTasks)
	srv.app.Get("/tasks/:taskId", srv.handleGetTask)
	srv.app.Post("/tasks/:taskId/cancel", srv.handleCancelTask)
	srv.app.Get("/tasks/:taskId/subscribe", srv.handleSubscribe)
}

// Listen starts serving on addr and blocks.
func (srv *Server) Listen(addr string) error {
	return srv.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown gracefully stops the server.
func (srv *Server) Shutdown() error {
	return srv.app.Shutdown()
}

func (srv *Server) handleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true, "version": srv.cfg.Version})
}

// writeError renders any error as the wire error body at its mapped
// status. Untyped errors become internal_error.
func writeError(c fiber.Ctx, err error) error {
	ae, ok := errors.As(err)
	if !ok {
		ae = errors.ErrInternal.WithMessagef("%v", err)
	}
	return c.Status(ae.HTTPStatus()).JSON(fiber.Map{"error": ae})
}

// headersFrom flattens the request headers for opaque pass-through to
// handlers. Multi-valued headers keep their first value.
func headersFrom(c fiber.Ctx) map[string]string {
	out := make(map[string]string)
	for key, values := range c.GetReqHeaders() {
		if len(values) > 0 {
			out[key] = values[0]
		}
	}
	return out
}
