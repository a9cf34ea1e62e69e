package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentwire/agentwire/pkg/errors"
)

func noopInvoke(ctx *Context) (*Result, error) {
	return &Result{}, nil
}

func TestRegistry_AddAndGet(t *testing.T) {
	r := NewRegistry()

	err := r.Add(&Skill{Key: "echo", Invoke: noopInvoke})
	assert.NoError(t, err)

	sk, ok := r.Get("echo")
	assert.True(t, ok)
	assert.Equal(t, "echo", sk.Key)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_RejectsBlankKey(t *testing.T) {
	r := NewRegistry()

	err := r.Add(&Skill{Key: "", Invoke: noopInvoke})
	assert.Error(t, err)

	ae, ok := errors.As(err)
	assert.True(t, ok)
	assert.Equal(t, errors.CodeInvalidSkill, ae.Code)
	assert.NotNil(t, ae.Details)
}

func TestRegistry_RejectsHandlerlessSkill(t *testing.T) {
	r := NewRegistry()

	err := r.Add(&Skill{Key: "empty"})
	ae, ok := errors.As(err)
	assert.True(t, ok)
	assert.Equal(t, errors.CodeInvalidSkill, ae.Code)
}

func TestRegistry_RejectsDuplicateKey(t *testing.T) {
	r := NewRegistry()

	assert.NoError(t, r.Add(&Skill{Key: "echo", Invoke: noopInvoke}))

	err := r.Add(&Skill{Key: "echo", Invoke: noopInvoke})
	ae, ok := errors.As(err)
	assert.True(t, ok)
	assert.Equal(t, errors.CodeDuplicateSkill, ae.Code)
}

func TestRegistry_ListKeepsInsertionOrder(t *testing.T) {
	r := NewRegistry()

	for _, key := range []string{"charlie", "alpha", "bravo"} {
		assert.NoError(t, r.Add(&Skill{Key: key, Invoke: noopInvoke}))
	}

	var keys []string
	for _, sk := range r.List() {
		keys = append(keys, sk.Key)
	}
	assert.Equal(t, []string{"charlie", "alpha", "bravo"}, keys)
}

func TestRegistry_RevisionAdvancesOnAdd(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, uint64(0), r.Revision())

	assert.NoError(t, r.Add(&Skill{Key: "one", Invoke: noopInvoke}))
	assert.Equal(t, uint64(1), r.Revision())

	// Failed adds do not advance the revision.
	assert.Error(t, r.Add(&Skill{Key: "one", Invoke: noopInvoke}))
	assert.Equal(t, uint64(1), r.Revision())
}

func TestSkill_IsStreaming(t *testing.T) {
	assert.False(t, (&Skill{Invoke: noopInvoke}).IsStreaming())
	assert.True(t, (&Skill{Streaming: true}).IsStreaming())
	assert.True(t, (&Skill{Stream: func(ctx *Context, emit Emit) (*Result, error) {
		return nil, nil
	}}).IsStreaming())
}
