// Package loggingtest provides an in-memory logger implementation for
// asserting on log output from other packages' tests without capturing
// the global logrus output.
package loggingtest

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrWaitTimeout is returned by WaitFor/WaitForN when the expected
// message count was not observed before the deadline.
var ErrWaitTimeout = errors.New("loggingtest: timeout waiting for message")

// Logger is an in-memory logger recording every message it receives,
// queryable by exact string match, for use as a mock logging.DefaultLog
// substitute in tests.
type Logger struct {
	mx      sync.Mutex
	cond    *sync.Cond
	counts  map[string]int
	muted   bool
}

// New creates a ready-to-use Logger.
func New() *Logger {
	l := &Logger{counts: make(map[string]int)}
	l.cond = sync.NewCond(&l.mx)
	return l
}

// Close releases any waiters blocked in WaitFor/WaitForN.
func (l *Logger) Close() {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.cond.Broadcast()
}

func (l *Logger) record(msg string) {
	l.mx.Lock()
	defer l.mx.Unlock()
	if l.muted {
		return
	}
	l.counts[msg]++
	l.cond.Broadcast()
}

func (l *Logger) Debug(args ...interface{})            { l.record(fmt.Sprint(args...)) }
func (l *Logger) Debugf(f string, args ...interface{}) { l.record(fmt.Sprintf(f, args...)) }
func (l *Logger) Info(args ...interface{})             { l.record(fmt.Sprint(args...)) }
func (l *Logger) Infof(f string, args ...interface{})  { l.record(fmt.Sprintf(f, args...)) }
func (l *Logger) Warn(args ...interface{})             { l.record(fmt.Sprint(args...)) }
func (l *Logger) Warnf(f string, args ...interface{})  { l.record(fmt.Sprintf(f, args...)) }
func (l *Logger) Error(args ...interface{})            { l.record(fmt.Sprint(args...)) }
func (l *Logger) Errorf(f string, args ...interface{}) { l.record(fmt.Sprintf(f, args...)) }

// Mute suppresses recording of further messages.
func (l *Logger) Mute() {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.muted = true
}

// Unmute resumes recording.
func (l *Logger) Unmute() {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.muted = false
}

// Count returns how many times msg was recorded.
func (l *Logger) Count(msg string) int {
	l.mx.Lock()
	defer l.mx.Unlock()
	return l.counts[msg]
}

// Reset clears all recorded messages.
func (l *Logger) Reset() {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.counts = make(map[string]int)
}

// WaitFor blocks until msg has been recorded at least once, or timeout
// elapses.
func (l *Logger) WaitFor(msg string, timeout time.Duration) error {
	return l.WaitForN(msg, 1, timeout)
}

// WaitForN blocks until msg has been recorded at least n times, or
// timeout elapses.
func (l *Logger) WaitForN(msg string, n int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	done := make(chan struct{})
	go func() {
		l.mx.Lock()
		defer l.mx.Unlock()
		for l.counts[msg] < n {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				close(done)
				return
			}
			t := time.AfterFunc(remaining, func() {
				l.mx.Lock()
				l.cond.Broadcast()
				l.mx.Unlock()
			})
			l.cond.Wait()
			t.Stop()
		}
		close(done)
	}()

	<-done

	l.mx.Lock()
	defer l.mx.Unlock()
	if l.counts[msg] < n {
		return ErrWaitTimeout
	}
	return nil
}
