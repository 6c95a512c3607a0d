package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTopUp struct {
	calls chan struct{}
	err   error
}

func (c *countingTopUp) TopUp(ctx context.Context) error {
	c.calls <- struct{}{}
	return c.err
}

func TestScheduler_RunsTopUp(t *testing.T) {
	topUp := &countingTopUp{calls: make(chan struct{}, 10), err: errors.New("dictionary down")}
	s := NewScheduler(topUp, "@every 1s")

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case <-topUp.calls:
	case <-time.After(3 * time.Second):
		t.Fatal("top-up job did not run")
	}
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := NewScheduler(&countingTopUp{calls: make(chan struct{}, 1)}, "every now and then")
	err := s.Start(context.Background())
	assert.ErrorContains(t, err, "invalid room name refill schedule")
}
