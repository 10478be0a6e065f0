package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/events"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/logger"
)

func TestSweeperRunOnce(t *testing.T) {
	r, _, clk := newTestRegistry(t)
	rec := &events.Recorder{}
	s := NewSweeper(r, time.Minute, rec, logger.Discard())

	login(t, r, "u1", "a")
	clk.Advance(12 * time.Hour)
	login(t, r, "u1", "b")
	clk.Advance(13 * time.Hour)

	assert.Equal(t, 1, s.RunOnce(context.Background()))

	evs := rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.SessionsCleaned, evs[0].Event)
	assert.Equal(t, 1, evs[0].Fields["pruned"])
	assert.Equal(t, 1, evs[0].Fields["online"])
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	rec := &events.Recorder{}
	s := NewSweeper(r, 5*time.Millisecond, rec, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(rec.Names()) > 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
