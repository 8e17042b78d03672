package rules

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// EvalObserver is notified after each evaluation with its outcome, the size
// of the matched set and the wall time spent.
type EvalObserver interface {
	ObserveEvaluation(decision Decision, matched int, duration time.Duration)
}

// EvalLogger logs evaluation outcomes through slog.
type EvalLogger struct {
	logger *slog.Logger
}

func NewEvalLogger(logger *slog.Logger) *EvalLogger {
	return &EvalLogger{logger: logger}
}

func (l *EvalLogger) ObserveEvaluation(decision Decision, matched int, duration time.Duration) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Info("rule evaluation",
		"decision", string(decision),
		"matched", matched,
		"duration_ms", float64(duration.Microseconds())/1000.0,
	)
}

// AsyncEvalObserver fans evaluation events out to another observer on a
// separate goroutine so the matcher's hot path never blocks on observation.
// Events that do not fit the buffer are dropped and counted.
type AsyncEvalObserver struct {
	next    EvalObserver
	events  chan evalEvent
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type evalEvent struct {
	decision Decision
	matched  int
	duration time.Duration
}

func NewAsyncEvalObserver(next EvalObserver, buffer int) *AsyncEvalObserver {
	if buffer <= 0 {
		buffer = 1
	}

	o := &AsyncEvalObserver{
		next:   next,
		events: make(chan evalEvent, buffer),
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for ev := range o.events {
			if o.next == nil {
				continue
			}
			o.next.ObserveEvaluation(ev.decision, ev.matched, ev.duration)
		}
	}()

	return o
}

func (o *AsyncEvalObserver) ObserveEvaluation(decision Decision, matched int, duration time.Duration) {
	if o == nil {
		return
	}
	o.mu.RLock()
	if o.closed {
		o.mu.RUnlock()
		o.dropped.Add(1)
		return
	}
	select {
	case o.events <- evalEvent{decision: decision, matched: matched, duration: duration}:
	default:
		o.dropped.Add(1)
	}
	o.mu.RUnlock()
}

func (o *AsyncEvalObserver) Dropped() uint64 {
	if o == nil {
		return 0
	}
	return o.dropped.Load()
}

// Close drains pending events and stops the delivery goroutine. Observations
// arriving after Close are counted as dropped.
func (o *AsyncEvalObserver) Close() {
	if o == nil {
		return
	}
	o.once.Do(func() {
		o.mu.Lock()
		o.closed = true
		close(o.events)
		o.mu.Unlock()
		o.wg.Wait()
	})
}
