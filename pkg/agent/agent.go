package agent

import (
	"context"
	stderr "errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/agentwire/agentwire/pkg/errors"
	"github.com/agentwire/agentwire/pkg/skill"
)

/*
Agent owns a skill registry and dispatches invocations to handlers,
validating inputs and outputs against the declared schemas on the way in
and out. It knows nothing about HTTP or tasks; those layers sit on top.
*/
type Agent struct {
	name        string
	version     string
	description string
	caller      skill.Caller
	registry    *skill.Registry
}

// Config is the explicit constructor configuration for an agent. There is
// no process-wide runtime state.
type Config struct {
	Name        string
	Version     string
	Description string

	// Caller is handed to every handler context so skills can drive tasks
	// on other agents. Optional.
	Caller skill.Caller
}

func New(cfg Config) *Agent {
	return &Agent{
		name:        cfg.Name,
		version:     cfg.Version,
		description: cfg.Description,
		caller:      cfg.Caller,
		registry:    skill.NewRegistry(),
	}
}

func (a *Agent) Name() string              { return a.name }
func (a *Agent) Version() string           { return a.version }
func (a *Agent) Description() string       { return a.description }
func (a *Agent) Registry() *skill.Registry { return a.registry }

// AddSkill registers a skill on the agent's registry.
func (a *Agent) AddSkill(s *skill.Skill) error {
	return a.registry.Add(s)
}

// Skill returns the registered skill for key.
func (a *Agent) Skill(key string) (*skill.Skill, bool) {
	return a.registry.Get(key)
}

/*
Request describes one invocation. RunID may be left empty, in which case a
fresh one is generated.
*/
type Request struct {
	Key     string
	Input   any
	Headers map[string]string
	RunID   string
}

/*
Invoke runs the synchronous handler of a skill: lookup, input validation,
dispatch, output validation. Validation failures surface as invalid_input /
invalid_output with the issue list in the details; other handler errors
surface as internal_error. A context cancellation is passed through
unchanged so callers can classify it.
*/
func (a *Agent) Invoke(ctx context.Context, req Request) (*skill.Result, error) {
	sk, ok := a.registry.Get(req.Key)
	if !ok {
		return nil, errors.ErrSkillNotFound.WithMessagef("unknown skill %q", req.Key)
	}
	if sk.Invoke == nil {
		return nil, errors.ErrNotImplemented.WithMessagef("skill %q has no invoke handler", req.Key)
	}

	hctx, err := a.handlerContext(ctx, sk, req)
	if err != nil {
		return nil, err
	}

	res, err := sk.Invoke(hctx)
	if err != nil {
		return nil, a.classify(err)
	}

	return a.checkOutput(sk, res)
}

/*
Stream runs the streaming handler of a skill. Chunks flow through emit; the
aggregated result comes back the same way Invoke results do.
*/
func (a *Agent) Stream(ctx context.Context, req Request, emit skill.Emit) (*skill.Result, error) {
	sk, ok := a.registry.Get(req.Key)
	if !ok {
		return nil, errors.ErrSkillNotFound.WithMessagef("unknown skill %q", req.Key)
	}
	if sk.Stream == nil {
		return nil, errors.ErrStreamNotSupported.WithMessagef("skill %q has no stream handler", req.Key)
	}

	hctx, err := a.handlerContext(ctx, sk, req)
	if err != nil {
		return nil, err
	}

	res, err := sk.Stream(hctx, emit)
	if err != nil {
		return nil, a.classify(err)
	}

	return a.checkOutput(sk, res)
}

func (a *Agent) handlerContext(ctx context.Context, sk *skill.Skill, req Request) (*skill.Context, error) {
	input := req.Input

	if sk.InputSchema != nil {
		canonical, issues := sk.InputSchema.Validate(input)
		if issues != nil {
			return nil, errors.ErrInvalidInput.WithDetails(issues)
		}
		input = canonical
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	return &skill.Context{
		Context: ctx,
		Key:     req.Key,
		Input:   input,
		Headers: req.Headers,
		RunID:   runID,
		Caller:  a.caller,
	}, nil
}

func (a *Agent) checkOutput(sk *skill.Skill, res *skill.Result) (*skill.Result, error) {
	if res == nil {
		res = &skill.Result{}
	}

	if sk.OutputSchema != nil {
		canonical, issues := sk.OutputSchema.Validate(res.Output)
		if issues != nil {
			return nil, errors.ErrInvalidOutput.WithDetails(issues)
		}
		res.Output = canonical
	}

	return res, nil
}

// classify folds handler errors into the taxonomy, leaving already-typed
// errors and cancellations alone.
func (a *Agent) classify(err error) error {
	if stderr.Is(err, context.Canceled) {
		return err
	}
	if _, ok := errors.As(err); ok {
		return err
	}

	log.Error("handler failed", "error", err)
	return errors.ErrInternal.WithMessagef("%v", err)
}
