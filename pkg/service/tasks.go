package service

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/agentwire/agentwire/pkg/a2a"
	"github.com/agentwire/agentwire/pkg/errors"
)

func (srv *Server) handleCreateTask(c fiber.Ctx) error {
	var params a2a.CreateTaskParams
	if err := c.Bind().Body(&params); err != nil {
		return writeError(c, errors.ErrInvalidRequest.WithMessagef("malformed body: %v", err))
	}
	if params.SkillID == "" {
		return writeError(c, errors.ErrInvalidRequest.WithMessagef("skillId is required"))
	}

	ref, err := srv.manager.Create(params, headersFrom(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(ref)
}

func (srv *Server) handleGetTask(c fiber.Ctx) error {
	snap, err := srv.manager.Get(c.Params("taskId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(snap)
}

func (srv *Server) handleCancelTask(c fiber.Ctx) error {
	snap, err := srv.manager.Cancel(c.Params("taskId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(snap)
}

func (srv *Server) handleListTasks(c fiber.Ctx) error {
	query := a2a.ListQuery{
		ContextID: c.Query("contextId"),
		Status:    c.Query("status"),
	}

	var err error
	if query.Limit, err = intQuery(c, "limit"); err != nil {
		return writeError(c, err)
	}
	if query.Offset, err = intQuery(c, "offset"); err != nil {
		return writeError(c, err)
	}

	list, err := srv.manager.List(query)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(list)
}

func intQuery(c fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.ErrInvalidRequest.WithMessagef("%s must be a non-negative integer", name)
	}
	return n, nil
}
