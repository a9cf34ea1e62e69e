package a2a

import "encoding/json"

/*
Message is the client-supplied payload of a task creation request. The
interesting part is Content, whose text field carries an encoded skill
input.
*/
type Message struct {
	Role     string         `json:"role"`
	Content  Content        `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

/*
Content carries either an encoded text input or a list of parts. Text is a
pointer so that an explicitly present empty string is distinguishable from
an absent field.
*/
type Content struct {
	Text  *string `json:"text,omitempty"`
	Parts []Part  `json:"parts,omitempty"`
}

/*
Part is a single content fragment. Only text parts participate in input
extraction; data parts ride along untouched. Text is a pointer for the
same present-versus-absent distinction Content.Text makes.
*/
type Part struct {
	Type string         `json:"type,omitempty"`
	Text *string        `json:"text,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// NewTextMessage builds a message whose content text is the given string.
func NewTextMessage(role, text string) Message {
	return Message{Role: role, Content: Content{Text: &text}}
}

// NewJSONMessage encodes input as JSON into the content text, the way
// structured clients transmit skill inputs.
func NewJSONMessage(role string, input any) (Message, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return Message{}, err
	}
	return NewTextMessage(role, string(raw)), nil
}

/*
ExtractInput recovers the skill input from a message. The rule is fixed so
that clients sending either a JSON-encoded object or a bare string
interoperate:

 1. content.text present: parse as JSON if possible, otherwise the raw string;
 2. otherwise content.parts[0].text present: that text verbatim;
 3. otherwise the content object itself.
*/
func (m Message) ExtractInput() any {
	if m.Content.Text != nil {
		var parsed any
		if err := json.Unmarshal([]byte(*m.Content.Text), &parsed); err == nil {
			return parsed
		}
		return *m.Content.Text
	}

	if len(m.Content.Parts) > 0 && m.Content.Parts[0].Text != nil {
		return *m.Content.Parts[0].Text
	}

	raw, err := json.Marshal(m.Content)
	if err != nil {
		return nil
	}
	var asMap any
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil
	}
	return asMap
}
