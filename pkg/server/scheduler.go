package server

import (
	"time"

	"github.com/RussellLuo/timingwheel"
)

// Scheduler runs deferred continuations (grace-window teardowns, periodic
// sweeps) on a hashed timing wheel. Callbacks never run on the wheel's
// goroutine: they are posted back into the owning action loop, so every
// continuation sees the same single-writer world as a network action and
// can re-check terminal state before acting.
type Scheduler struct {
	tw   *timingwheel.TimingWheel
	post func(func())
}

// NewScheduler creates a stopped scheduler posting callbacks through post.
func NewScheduler(post func(func())) *Scheduler {
	return &Scheduler{
		tw:   timingwheel.NewTimingWheel(100*time.Millisecond, 600),
		post: post,
	}
}

// Start spins the wheel.
func (s *Scheduler) Start() { s.tw.Start() }

// Stop halts the wheel; pending tasks never fire.
func (s *Scheduler) Stop() { s.tw.Stop() }

// Task is a cancellable scheduled continuation.
type Task struct {
	timer *timingwheel.Timer
}

// After schedules fn to be posted into the action loop after d.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	return &Task{timer: s.tw.AfterFunc(d, func() { s.post(fn) })}
}

// Stop cancels the task; it reports false when the task already fired or
// was stopped before.
func (t *Task) Stop() bool { return t.timer.Stop() }
