package view

import (
	"sync"
	"time"
)

// Task is a handle to a scheduled periodic callback.
type Task interface {
	// Cancel stops future callbacks. It is safe to call more than once.
	Cancel()
}

// Scheduler starts periodic callbacks.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Task
}

// TimerScheduler runs callbacks on a time.Ticker goroutine.
type TimerScheduler struct{}

type tickerTask struct {
	stop chan struct{}
	once sync.Once
}

func (t *tickerTask) Cancel() {
	t.once.Do(func() { close(t.stop) })
}

// Every calls fn every interval until the returned task is canceled.
// fn runs on the ticker goroutine and must not block indefinitely.
func (TimerScheduler) Every(interval time.Duration, fn func()) Task {
	task := &tickerTask{stop: make(chan struct{})}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-task.stop:
				return
			case <-ticker.C:
				select {
				case <-task.stop:
					return
				default:
				}
				fn()
			}
		}
	}()
	return task
}
