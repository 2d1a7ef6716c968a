package utils

import (
	"sync"
	"time"

	"github.com/iLeonidze/tg-attendances-bot/logging"
)

// RetryRoutine runs fn on a fixed period until it succeeds or the retry
// budget is exhausted, then reports the outcome through fnDone. The routine
// is single-shot: once finished it cannot be restarted.
type RetryRoutine struct {
	period  time.Duration
	timer   *time.Ticker
	closing chan bool
	fn      func() error
	fnDone  func(error)
	counter uint64
	retries uint64
	mtx     sync.Mutex
	wg      sync.WaitGroup
	started bool
}

func NewRetryRoutine(periodMs uint64, retries uint64, fn func() error, fnDone func(error)) *RetryRoutine {
	return &RetryRoutine{
		closing: make(chan bool, 1),
		period:  time.Duration(periodMs) * time.Millisecond,
		fn:      fn,
		fnDone:  fnDone,
		retries: retries,
	}
}

func (s *RetryRoutine) routine() {
loop:
	for {
		select {
		case _, ok := <-s.timer.C:
			if !ok {
				break loop
			}
			err := s.fn()
			s.counter++
			if err == nil {
				if s.fnDone != nil {
					s.fnDone(nil)
				}
				break loop
			}
			if s.counter >= s.retries {
				logging.Logger.Debugw("retry routine ending exhausting retries", "retries", s.retries, "error", err)
				if s.fnDone != nil {
					s.fnDone(err)
				}
				break loop
			}
		case <-s.closing:
			break loop
		}
	}
	logging.Logger.Debug("retry routine finished")
	s.wg.Done()
}

func (s *RetryRoutine) Start() {
	s.mtx.Lock()
	if !s.started {
		s.wg.Add(1)
		s.started = true
		s.timer = time.NewTicker(s.period)
		go s.routine()
	}
	s.mtx.Unlock()
}

func (s *RetryRoutine) Destroy() {
	s.mtx.Lock()
	s.timer.Stop()
	// The started flag stays set, the routine runs at most once. The send
	// must not block when the routine already finished on its own.
	select {
	case s.closing <- true:
	default:
	}
	s.wg.Wait()
	s.mtx.Unlock()
}
