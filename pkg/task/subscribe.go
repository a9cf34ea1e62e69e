package task

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/agentwire/agentwire/pkg/a2a"
)

// Subscription events, named after what the transition delivers.
const (
	EventStatusUpdate = "statusUpdate"
	EventResultUpdate = "resultUpdate"
	EventError        = "error"
)

/*
Sink receives subscription events. The HTTP layer backs it with an SSE
writer; tests back it with a slice.
*/
type Sink interface {
	Send(event string, data a2a.StatusUpdateEvent) error
	Heartbeat() error
}

/*
SubscribeOptions tunes the subscription loop. Zero values mean the
defaults: 100ms poll cadence, 25s heartbeats, 5 minute connection cap.
*/
type SubscribeOptions struct {
	PollInterval      time.Duration
	HeartbeatInterval time.Duration
	MaxDuration       time.Duration
}

func (o *SubscribeOptions) withDefaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = 100 * time.Millisecond
	}
	if o.HeartbeatInterval <= 0 {
		o.HeartbeatInterval = 25 * time.Second
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = 5 * time.Minute
	}
}

/*
Subscribe delivers one event per observed state transition of the task
until it reaches a terminal state. A task that is already terminal on
connect produces exactly one event describing it. The loop ends when the
task settles, the caller's context is cancelled or the absolute cap
elapses.

Polling the record is deliberate: the manager is in-process, subscriber
counts are small and a poll loop cannot miss a terminal transition.
*/
func (m *Manager) Subscribe(ctx context.Context, id string, sink Sink, opts SubscribeOptions) error {
	opts.withDefaults()

	snap, err := m.Get(id)
	if err != nil {
		return err
	}

	if snap.Status.Terminal() {
		return sink.Send(eventFor(snap), eventData(snap))
	}

	poll := time.NewTicker(opts.PollInterval)
	defer poll.Stop()
	heartbeat := time.NewTicker(opts.HeartbeatInterval)
	defer heartbeat.Stop()
	deadline := time.NewTimer(opts.MaxDuration)
	defer deadline.Stop()

	last := snap.Status

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-deadline.C:
			log.Debug("subscription cap reached", "taskId", id)
			return nil
		case <-heartbeat.C:
			if err := sink.Heartbeat(); err != nil {
				return nil
			}
		case <-poll.C:
			snap, err := m.Get(id)
			if err != nil {
				// Evicted mid-subscription; nothing further will happen.
				return nil
			}
			if snap.Status == last {
				continue
			}
			last = snap.Status

			if err := sink.Send(eventFor(snap), eventData(snap)); err != nil {
				return nil
			}
			if snap.Status.Terminal() {
				return nil
			}
		}
	}
}

func eventFor(t *a2a.Task) string {
	switch t.Status {
	case a2a.TaskStateCompleted:
		return EventResultUpdate
	case a2a.TaskStateFailed:
		return EventError
	default:
		return EventStatusUpdate
	}
}

func eventData(t *a2a.Task) a2a.StatusUpdateEvent {
	return a2a.StatusUpdateEvent{
		TaskID: t.TaskID,
		Status: t.Status,
		Result: t.Result,
		Error:  t.Error,
	}
}
