package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

/*
Writer frames Server-Sent Events onto an HTTP response. Each record is

	id: <id>\n        (when an id is provided)
	event: <name>\n
	data: <line>\n    (one per newline-separated line of the payload)
	\n

and is flushed immediately. Safe for concurrent use.
*/
type Writer struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

/*
NewWriter prepares w for event streaming. It fails when the underlying
writer cannot flush, which would leave events buffered indefinitely.
*/
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")

	return &Writer{w: w, flusher: flusher}, nil
}

/*
Send writes one event. data is written as-is when it is a string or byte
slice and JSON-encoded otherwise.
*/
func (w *Writer) Send(id, event string, data any) error {
	payload, err := encodePayload(data)
	if err != nil {
		return err
	}

	var sb strings.Builder
	if id != "" {
		sb.WriteString("id: " + id + "\n")
	}
	if event != "" {
		sb.WriteString("event: " + event + "\n")
	}
	for _, line := range strings.Split(payload, "\n") {
		sb.WriteString("data: " + line + "\n")
	}
	sb.WriteString("\n")

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.w.Write([]byte(sb.String())); err != nil {
		return err
	}
	w.flusher.Flush()
	return nil
}

// Comment writes a comment line, used as a keep-alive heartbeat against
// proxies that close idle connections.
func (w *Writer) Comment(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.w.Write([]byte(": " + text + "\n\n")); err != nil {
		return err
	}
	w.flusher.Flush()
	return nil
}

func encodePayload(data any) (string, error) {
	switch v := data.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}
