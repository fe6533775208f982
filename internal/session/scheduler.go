package session

import (
	"sync"
	"time"
)

// TickPeriod is the countdown resolution.
const TickPeriod = time.Second

// Task is a running periodic job.
type Task interface {
	// Stop cancels the job. Safe to call more than once and from inside
	// the job itself.
	Stop()
}

// Scheduler runs fn every period until the returned Task is stopped.
type Scheduler interface {
	Every(period time.Duration, fn func()) Task
}

// TickerScheduler runs jobs on a time.Ticker goroutine.
type TickerScheduler struct{}

func (TickerScheduler) Every(period time.Duration, fn func()) Task {
	t := &tickerTask{done: make(chan struct{})}
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return t
}

type tickerTask struct {
	once sync.Once
	done chan struct{}
}

func (t *tickerTask) Stop() { t.once.Do(func() { close(t.done) }) }

// ManualScheduler fires jobs only when Tick is called. Used in tests and
// by callers that drive time themselves.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	mu      sync.Mutex
	fn      func()
	stopped bool
}

func (t *manualTask) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *manualTask) live() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped
}

func (m *ManualScheduler) Every(_ time.Duration, fn func()) Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTask{fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Tick fires every live job n times.
func (m *ManualScheduler) Tick(n int) {
	for i := 0; i < n; i++ {
		for _, t := range m.liveTasks() {
			if t.live() {
				t.fn()
			}
		}
	}
}

// Active returns the number of jobs that have not been stopped.
func (m *ManualScheduler) Active() int {
	return len(m.liveTasks())
}

func (m *ManualScheduler) liveTasks() []*manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*manualTask
	for _, t := range m.tasks {
		if t.live() {
			out = append(out, t)
		}
	}
	return out
}
