package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/agentwire/agentwire/pkg/a2a"
	"github.com/agentwire/agentwire/pkg/errors"
	"github.com/agentwire/agentwire/pkg/sse"
)

/*
Subscribe follows a task's status events until a terminal status arrives or
the context ends. The underlying stream reconnects with Last-Event-ID when
the connection drops mid-task, so a transient network failure does not lose
the subscription. Events whose payload cannot be decoded are delivered as
parse_error with the raw data in the error details, so a broken producer is
observable instead of silent.
*/
func (c *Client) Subscribe(ctx context.Context, base, taskID string, handler func(event string, data a2a.StatusUpdateEvent)) error {
	stream := sse.NewClient(base + "/tasks/" + taskID + "/subscribe")
	stream.HTTPClient = c.doer
	for k, v := range c.headers {
		stream.Headers[k] = v
	}

	return stream.Subscribe(ctx, "", func(ev *sse.Event) {
		var data a2a.StatusUpdateEvent
		if err := json.Unmarshal(ev.Data, &data); err != nil {
			handler("parse_error", a2a.StatusUpdateEvent{
				TaskID: taskID,
				Error:  errors.ErrParseError.WithDetails(string(ev.Data)),
			})
			// Reconnecting to a producer that sends garbage replays the
			// garbage; stop instead.
			stream.Close()
			return
		}

		handler(ev.Event, data)

		// The server ends the stream after a terminal event. Closing here
		// keeps the resume logic from re-dialing a finished task.
		if data.Status.Terminal() {
			stream.Close()
		}
	})
}

/*
StreamSkill runs a streaming entrypoint and hands every envelope event to
the handler as received, ending when the server closes the run.
*/
func (c *Client) StreamSkill(ctx context.Context, base, key string, input any, handler func(*sse.Event)) error {
	return c.consume(ctx, http.MethodPost, base+"/entrypoints/"+key+"/stream", a2a.InvokeRequest{Input: input}, handler)
}

func (c *Client) consume(ctx context.Context, method, target string, body any, handler func(*sse.Event)) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	events := sse.NewReader(resp.Body)
	for {
		ev, err := events.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		handler(ev)
	}
}
