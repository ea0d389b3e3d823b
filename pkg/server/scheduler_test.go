package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerAfterPostsCallback(t *testing.T) {
	posted := make(chan func(), 1)
	s := NewScheduler(func(fn func()) { posted <- fn })
	s.Start()
	defer s.Stop()

	fired := false
	s.After(150*time.Millisecond, func() { fired = true })

	select {
	case fn := <-posted:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("callback was never posted")
	}
	assert.True(t, fired)
}

func TestTaskStopCancels(t *testing.T) {
	posted := make(chan func(), 1)
	s := NewScheduler(func(fn func()) { posted <- fn })
	s.Start()
	defer s.Stop()

	task := s.After(300*time.Millisecond, func() {})
	assert.True(t, task.Stop())

	select {
	case <-posted:
		t.Fatal("stopped task still fired")
	case <-time.After(600 * time.Millisecond):
	}
	assert.False(t, task.Stop(), "second stop reports already stopped")
}
