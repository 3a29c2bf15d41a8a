package view

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTimerSchedulerCancel(t *testing.T) {
	var calls atomic.Int32
	fired := make(chan struct{}, 1)
	task := TimerScheduler{}.Every(time.Millisecond, func() {
		calls.Add(1)
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker never fired")
	}
	task.Cancel()
	task.Cancel()

	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}
