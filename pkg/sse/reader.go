package sse

import (
	"bufio"
	"io"
	"strings"
)

// Event represents a received Server-Sent Event.
type Event struct {
	ID    string
	Event string
	Data  []byte
}

/*
Reader parses a text/event-stream body into events. Comment lines are
skipped; multi-line data fields are joined with newlines per the SSE spec.
*/
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Read returns the next complete event, or an error (io.EOF at end of
// stream).
func (r *Reader) Read() (*Event, error) {
	event := &Event{}
	var data strings.Builder
	inEvent := false

	for {
		line, err := r.r.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimRight(line, "\n\r")

		// Blank line terminates the current event.
		if line == "" {
			if inEvent {
				event.Data = []byte(data.String())
				return event, nil
			}
			continue
		}

		if strings.HasPrefix(line, ":") {
			// heartbeat
			continue
		}

		inEvent = true

		switch {
		case strings.HasPrefix(line, "id:"):
			event.ID = strings.TrimSpace(line[3:])
		case strings.HasPrefix(line, "event:"):
			event.Event = strings.TrimSpace(line[6:])
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteString("\n")
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
}
