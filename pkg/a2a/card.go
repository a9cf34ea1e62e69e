package a2a

/*
AgentCard is the public JSON document served from
/.well-known/agent-card.json. It describes the agent's identity and the
skills it exposes, and carries opaque extension slots for collaborators
(payments, identity) the runtime itself does not interpret.
*/
type AgentCard struct {
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	URL                string            `json:"url"`
	Version            string            `json:"version"`
	Capabilities       AgentCapabilities `json:"capabilities"`
	DefaultInputModes  []string          `json:"defaultInputModes,omitempty"`
	DefaultOutputModes []string          `json:"defaultOutputModes,omitempty"`
	Skills             []AgentSkill      `json:"skills"`
	Extensions         map[string]any    `json:"extensions,omitempty"`
}

// AgentCapabilities describes protocol-level capabilities of an agent.
type AgentCapabilities struct {
	Streaming bool `json:"streaming,omitempty"`
}

/*
AgentSkill is the discovery summary of one skill. Schemas are portable
JSON-Schema documents or absent; Pricing is an opaque hint block.
*/
type AgentSkill struct {
	ID           string         `json:"id"`
	Description  string         `json:"description,omitempty"`
	InputModes   []string       `json:"inputModes,omitempty"`
	OutputModes  []string       `json:"outputModes,omitempty"`
	Streaming    bool           `json:"streaming,omitempty"`
	InputSchema  map[string]any `json:"inputSchema,omitempty"`
	OutputSchema map[string]any `json:"outputSchema,omitempty"`
	Pricing      map[string]any `json:"pricing,omitempty"`
}

// FindSkill locates a skill summary by id, or nil when absent.
func (card *AgentCard) FindSkill(id string) *AgentSkill {
	for i := range card.Skills {
		if card.Skills[i].ID == id {
			return &card.Skills[i]
		}
	}
	return nil
}
