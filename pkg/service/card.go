package service

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"github.com/agentwire/agentwire/pkg/a2a"
	"github.com/agentwire/agentwire/pkg/skill"
)

var defaultModes = []string{"application/json"}

/*
Card builds the agent card from the server configuration and the current
skill registry.
*/
func (srv *Server) Card() a2a.AgentCard {
	skills := srv.agent.Registry().List()

	streaming := false
	summaries := make([]a2a.AgentSkill, 0, len(skills))
	for _, sk := range skills {
		if sk.IsStreaming() {
			streaming = true
		}
		summaries = append(summaries, summarize(sk))
	}

	return a2a.AgentCard{
		Name:               srv.cfg.Name,
		Description:        srv.cfg.Description,
		URL:                srv.cfg.URL,
		Version:            srv.cfg.Version,
		Capabilities:       a2a.AgentCapabilities{Streaming: streaming},
		DefaultInputModes:  defaultModes,
		DefaultOutputModes: defaultModes,
		Skills:             summaries,
		Extensions:         srv.cfg.Extensions,
	}
}

func summarize(sk *skill.Skill) a2a.AgentSkill {
	return a2a.AgentSkill{
		ID:           sk.Key,
		Description:  sk.Description,
		InputModes:   defaultModes,
		OutputModes:  defaultModes,
		Streaming:    sk.IsStreaming(),
		InputSchema:  sk.InputSchema.Portable(),
		OutputSchema: sk.OutputSchema.Portable(),
		Pricing:      sk.Pricing,
	}
}

/*
handleAgentCard serves the card as cached bytes, rebuilt only when the
registry changes. Re-fetches from an unchanged registry are byte-equal.
*/
func (srv *Server) handleAgentCard(c fiber.Ctx) error {
	srv.cardMu.Lock()
	rev := srv.agent.Registry().Revision()
	if srv.cardJSON == nil || srv.cardRev != rev {
		raw, err := json.Marshal(srv.Card())
		if err != nil {
			srv.cardMu.Unlock()
			return writeError(c, err)
		}
		srv.cardJSON = raw
		srv.cardRev = rev
	}
	payload := srv.cardJSON
	srv.cardMu.Unlock()

	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Send(payload)
}

func (srv *Server) handleEntrypoints(c fiber.Ctx) error {
	skills := srv.agent.Registry().List()

	items := make([]a2a.AgentSkill, 0, len(skills))
	for _, sk := range skills {
		items = append(items, summarize(sk))
	}

	return c.JSON(fiber.Map{"items": items})
}
