package utils

import (
	"sync"
	"time"

	"github.com/iLeonidze/tg-attendances-bot/logging"
)

// PeriodicRoutine invokes fn on a fixed period until stopped. Errors are
// logged and do not stop the routine.
type PeriodicRoutine struct {
	period  time.Duration
	timer   *time.Ticker
	closing chan bool
	fn      func() error
	mtx     sync.Mutex
	wg      sync.WaitGroup
	started bool
}

func NewPeriodicRoutine(period time.Duration, fn func() error) *PeriodicRoutine {
	return &PeriodicRoutine{
		closing: make(chan bool, 1),
		period:  period,
		fn:      fn,
	}
}

func (s *PeriodicRoutine) routine() {
loop:
	for {
		select {
		case _, ok := <-s.timer.C:
			if !ok {
				break loop
			}
			if err := s.fn(); err != nil {
				logging.Logger.Errorw("periodic routine iteration failed", "error", err)
			}
		case <-s.closing:
			break loop
		}
	}
	s.wg.Done()
}

func (s *PeriodicRoutine) Start() {
	s.mtx.Lock()
	if !s.started {
		s.wg.Add(1)
		s.started = true
		s.timer = time.NewTicker(s.period)
		go s.routine()
	}
	s.mtx.Unlock()
}

func (s *PeriodicRoutine) Destroy() {
	s.mtx.Lock()
	if s.started {
		s.timer.Stop()
		select {
		case s.closing <- true:
		default:
		}
		s.wg.Wait()
	}
	s.mtx.Unlock()
}
