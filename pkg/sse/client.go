package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/agentwire/agentwire/pkg/errors"
)

// Doer matches the Do method of *http.Client so the transport stays
// injectable.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

/*
Client consumes a remote SSE endpoint with bounded reconnection. The HTTP
transport is injectable so tests and embedders never depend on a concrete
runtime.
*/
type Client struct {
	URL     string
	Headers map[string]string

	// HTTPClient defaults to http.DefaultClient. Response bodies stream
	// for as long as the server keeps the connection open.
	HTTPClient Doer

	// Retry bounds the connect attempts per (re)connection. Nil uses the
	// default retry budget.
	Retry *errors.RetryConfig

	mu            sync.RWMutex
	conn          *http.Response
	reader        *Reader
	reconnectChan chan struct{}
	stopChan      chan struct{}
}

// NewClient creates a client for the given stream URL.
func NewClient(url string) *Client {
	return &Client{
		URL:           url,
		Headers:       make(map[string]string),
		reconnectChan: make(chan struct{}, 1),
		stopChan:      make(chan struct{}),
	}
}

/*
Subscribe connects and delivers every received event to handler until the
context is cancelled, Close is called or the server ends the stream. Each
(re)connection is retried with exponential backoff; Last-Event-ID resumes
from the last delivered event. A typed wire error from the server ends the
subscription immediately rather than burning the retry budget.
*/
func (c *Client) Subscribe(ctx context.Context, lastEventID string, handler func(*Event)) error {
	retry := c.Retry
	if retry == nil {
		retry = errors.DefaultRetryConfig()
	}

	for {
		select {
		case <-ctx.Done():
			c.cleanup()
			return ctx.Err()
		case <-c.stopChan:
			c.cleanup()
			return nil
		default:
		}

		err := errors.RetryWithBackoff(ctx, retry, func() error {
			return c.connect(ctx, lastEventID)
		})
		if err != nil {
			return err
		}

		err = c.processEvents(ctx, &lastEventID, handler)
		switch {
		case err == nil:
			return nil
		case err == io.EOF || err == io.ErrUnexpectedEOF:
			c.cleanup()
			continue
		default:
			c.cleanup()
			return err
		}
	}
}

func (c *Client) connect(ctx context.Context, lastEventID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if lastEventID != "" {
		req.Header.Set("Last-Event-ID", lastEventID)
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		var wire struct {
			Error *errors.AgentError `json:"error"`
		}
		if jsonErr := json.Unmarshal(body, &wire); jsonErr == nil && wire.Error != nil && wire.Error.Code != "" {
			return wire.Error
		}
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	c.mu.Lock()
	c.conn = resp
	c.reader = NewReader(resp.Body)
	c.mu.Unlock()

	return nil
}

func (c *Client) processEvents(ctx context.Context, lastEventID *string, handler func(*Event)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopChan:
			return nil
		case <-c.reconnectChan:
			return io.EOF
		default:
		}

		c.mu.RLock()
		reader := c.reader
		c.mu.RUnlock()

		if reader == nil {
			return io.EOF
		}

		event, err := reader.Read()
		if err != nil {
			return err
		}

		if event.ID != "" {
			*lastEventID = event.ID
		}
		handler(event)
	}
}

func (c *Client) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Body.Close()
		c.conn = nil
		c.reader = nil
	}
}

// Close terminates the subscription.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.stopChan:
	default:
		close(c.stopChan)
	}

	if c.conn != nil {
		return c.conn.Body.Close()
	}
	return nil
}

// Reconnect drops the current connection and dials again.
func (c *Client) Reconnect() {
	select {
	case c.reconnectChan <- struct{}{}:
	default:
	}
}
