package app

import (
	"sync"
	"time"
)

// Timer is the subset of *time.Timer the scheduler needs.
type Timer interface {
	Stop() bool
}

// AfterFunc matches time.AfterFunc and lets tests substitute a manual clock.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Scheduler holds at most one pending deferred action. Arming while another
// action is pending cancels the old one first.
type Scheduler struct {
	afterFunc AfterFunc

	mu      sync.Mutex
	pending *armedTimer
}

type armedTimer struct {
	timer Timer
}

// NewScheduler builds a scheduler on afterFunc; nil means real time.
func NewScheduler(afterFunc AfterFunc) *Scheduler {
	if afterFunc == nil {
		afterFunc = realAfterFunc
	}
	return &Scheduler{afterFunc: afterFunc}
}

// Arm schedules callback to run once after delay. The returned func cancels it.
func (s *Scheduler) Arm(delay time.Duration, callback func()) func() {
	armed := &armedTimer{}

	s.mu.Lock()
	s.stopLocked()
	s.pending = armed
	armed.timer = s.afterFunc(delay, func() {
		if !s.claim(armed) {
			return
		}
		callback()
	})
	s.mu.Unlock()

	return func() { s.cancel(armed) }
}

// claim marks armed as fired; it fails if armed was cancelled or replaced.
func (s *Scheduler) claim(armed *armedTimer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != armed {
		return false
	}
	s.pending = nil
	return true
}

func (s *Scheduler) cancel(armed *armedTimer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == armed {
		s.stopLocked()
	}
}

func (s *Scheduler) stopLocked() {
	if s.pending == nil {
		return
	}
	if s.pending.timer != nil {
		s.pending.timer.Stop()
	}
	s.pending = nil
}
