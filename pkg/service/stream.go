package service

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	fiberadaptor "github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"

	"github.com/agentwire/agentwire/pkg/a2a"
	"github.com/agentwire/agentwire/pkg/agent"
	"github.com/agentwire/agentwire/pkg/errors"
	"github.com/agentwire/agentwire/pkg/sse"
	"github.com/agentwire/agentwire/pkg/task"
)

func (srv *Server) handleInvoke(c fiber.Ctx) error {
	var req a2a.InvokeRequest
	if err := c.Bind().Body(&req); err != nil {
		return writeError(c, errors.ErrInvalidRequest.WithMessagef("malformed body: %v", err))
	}

	runID := uuid.NewString()

	res, err := srv.agent.Invoke(c, agent.Request{
		Key:     c.Params("key"),
		Input:   req.Input,
		Headers: headersFrom(c),
		RunID:   runID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(a2a.InvokeResponse{
		RunID:  runID,
		Status: "completed",
		Output: res.Output,
		Usage:  res.Usage,
		Model:  res.Model,
	})
}

/*
handleStream upgrades to SSE and runs the skill's stream handler inside a
framing run. Lookup and capability checks happen before the upgrade so
protocol errors still surface as JSON.
*/
func (srv *Server) handleStream(c fiber.Ctx) error {
	key := c.Params("key")

	var req a2a.InvokeRequest
	if err := c.Bind().Body(&req); err != nil {
		return writeError(c, errors.ErrInvalidRequest.WithMessagef("malformed body: %v", err))
	}

	sk, ok := srv.agent.Skill(key)
	if !ok {
		return writeError(c, errors.ErrSkillNotFound.WithMessagef("unknown skill %q", key))
	}
	if sk.Stream == nil {
		return writeError(c, errors.ErrStreamNotSupported.WithMessagef("skill %q has no stream handler", key))
	}

	runID := uuid.NewString()
	headers := headersFrom(c)

	handler := func(w http.ResponseWriter, r *http.Request) {
		writer, err := sse.NewWriter(w)
		if err != nil {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		run := sse.NewRun(writer, runID)
		if err := run.Start(); err != nil {
			return
		}

		res, err := srv.agent.Stream(r.Context(), agent.Request{
			Key:     key,
			Input:   req.Input,
			Headers: headers,
			RunID:   runID,
		}, run.Emit)
		if err != nil {
			_ = run.Fail(err)
			return
		}

		fields := map[string]any{"output": res.Output}
		if len(res.Usage) > 0 {
			fields["usage"] = res.Usage
		}
		if res.Model != "" {
			fields["model"] = res.Model
		}
		_ = run.End("completed", fields)
	}

	return fiberadaptor.HTTPHandler(http.HandlerFunc(handler))(c)
}

/*
handleSubscribe attaches an SSE subscriber to a task. The not-found case
is answered as JSON before the connection upgrades.
*/
func (srv *Server) handleSubscribe(c fiber.Ctx) error {
	id := c.Params("taskId")

	if _, err := srv.manager.Get(id); err != nil {
		return writeError(c, err)
	}

	opts := srv.subscribeOpts

	handler := func(w http.ResponseWriter, r *http.Request) {
		writer, err := sse.NewWriter(w)
		if err != nil {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		_ = srv.manager.Subscribe(r.Context(), id, &sseSink{writer: writer}, opts)
	}

	return fiberadaptor.HTTPHandler(http.HandlerFunc(handler))(c)
}

// sseSink adapts an SSE writer to the task manager's subscription sink.
type sseSink struct {
	writer *sse.Writer
}

var _ task.Sink = (*sseSink)(nil)

func (s *sseSink) Send(event string, data a2a.StatusUpdateEvent) error {
	return s.writer.Send("", event, data)
}

func (s *sseSink) Heartbeat() error {
	return s.writer.Comment("heartbeat")
}
