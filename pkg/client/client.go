package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/agentwire/agentwire/pkg/a2a"
	"github.com/agentwire/agentwire/pkg/errors"
)

/*
Doer is the injectable fetch-style transport. The library never constructs
a concrete HTTP runtime beyond the default; embedders swap in their own
for retries, tracing or tests.
*/
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

/*
Client drives the task protocol of a remote agent.
*/
type Client struct {
	doer    Doer
	headers map[string]string
}

type Option func(*Client)

// WithDoer replaces the HTTP transport.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithHeader adds a header to every outgoing request, typically an opaque
// authorization token the server passes through to handlers.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

func New(opts ...Option) *Client {
	c := &Client{
		doer:    http.DefaultClient,
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

/*
FetchCard retrieves the agent card from the well-known path under base.
*/
func (c *Client) FetchCard(ctx context.Context, base string) (*a2a.AgentCard, error) {
	var card a2a.AgentCard

	err := c.do(ctx, http.MethodGet, cardURL(base), nil, &card)
	if err != nil {
		if ae, ok := errors.As(err); ok && ae.Code == errors.CodeInternal {
			return nil, errors.ErrCardFetchFailed.WithMessagef("%s", ae.Message)
		}
		return nil, errors.ErrCardFetchFailed.WithMessagef("%v", err)
	}

	log.Debug("fetched agent card", "name", card.Name, "skills", len(card.Skills))
	return &card, nil
}

// FindSkill locates a skill summary on a card by id.
func FindSkill(card *a2a.AgentCard, id string) (*a2a.AgentSkill, error) {
	if sk := card.FindSkill(id); sk != nil {
		return sk, nil
	}
	return nil, errors.ErrSkillNotFound.WithMessagef("card for %q has no skill %q", card.Name, id)
}

// SendMessage creates a task on the remote agent.
func (c *Client) SendMessage(ctx context.Context, base string, params a2a.CreateTaskParams) (*a2a.TaskRef, error) {
	var ref a2a.TaskRef
	if err := c.do(ctx, http.MethodPost, base+"/tasks", params, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// GetTask fetches the current task record.
func (c *Client) GetTask(ctx context.Context, base, taskID string) (*a2a.Task, error) {
	var t a2a.Task
	if err := c.do(ctx, http.MethodGet, base+"/tasks/"+taskID, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CancelTask cancels a running task and returns the updated record.
func (c *Client) CancelTask(ctx context.Context, base, taskID string) (*a2a.Task, error) {
	var t a2a.Task
	if err := c.do(ctx, http.MethodPost, base+"/tasks/"+taskID+"/cancel", nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasks queries the remote task index.
func (c *Client) ListTasks(ctx context.Context, base string, query a2a.ListQuery) (*a2a.TaskList, error) {
	values := url.Values{}
	if query.ContextID != "" {
		values.Set("contextId", query.ContextID)
	}
	if query.Status != "" {
		values.Set("status", query.Status)
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		values.Set("offset", strconv.Itoa(query.Offset))
	}

	target := base + "/tasks"
	if encoded := values.Encode(); encoded != "" {
		target += "?" + encoded
	}

	var list a2a.TaskList
	if err := c.do(ctx, http.MethodGet, target, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Invoke runs a skill synchronously on the remote agent.
func (c *Client) Invoke(ctx context.Context, base, key string, input any) (*a2a.InvokeResponse, error) {
	var res a2a.InvokeResponse
	err := c.do(ctx, http.MethodPost, base+"/entrypoints/"+key+"/invoke", a2a.InvokeRequest{Input: input}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
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

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeError recovers the wire error body, falling back to a generic
// internal error when the body is not in the expected shape.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var wire struct {
		Error *errors.AgentError `json:"error"`
	}
	if err := json.Unmarshal(raw, &wire); err == nil && wire.Error != nil && wire.Error.Code != "" {
		return wire.Error
	}

	return errors.ErrInternal.WithMessagef("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}

func cardURL(base string) string {
	return fmt.Sprintf("%s/.well-known/agent-card.json", strings.TrimRight(base, "/"))
}
