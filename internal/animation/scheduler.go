package animation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"moneyviz/internal/logger"
)

// DefaultFrame is one display frame at 60 Hz.
const DefaultFrame = 16 * time.Millisecond

// Frame is one progress report of a running task.
type Frame struct {
	Linear   float64 // elapsed/duration, clamped to [0,1]
	Progress float64 // eased Linear
	Elapsed  time.Duration
	Duration time.Duration
	Final    bool
}

// Step receives every frame of a task, the last one with Final set.
type Step func(Frame)

// Task is a running animation.
type Task struct {
	id        uint64
	duration  time.Duration
	easing    Easing
	step      Step
	start     time.Time
	done      chan struct{}
	once      sync.Once
	cancelled atomic.Bool
	sched     *Scheduler
}

// Cancel stops the task without delivering a final frame. Cancelling a
// finished task does nothing.
func (t *Task) Cancel() {
	if t.sched.remove(t.id) {
		t.cancelled.Store(true)
		t.finish()
	}
}

// Done is closed once the task has finished or been cancelled.
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancelled reports whether the task ended through Cancel.
func (t *Task) Cancelled() bool { return t.cancelled.Load() }

// Wait blocks until the task ends or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Task) finish() { t.once.Do(func() { close(t.done) }) }

func (t *Task) frame(now time.Time) Frame {
	elapsed := now.Sub(t.start)
	linear := 1.0
	if t.duration > 0 {
		linear = float64(elapsed) / float64(t.duration)
	}
	if linear > 1 {
		linear = 1
	}
	if linear < 0 {
		linear = 0
	}
	return Frame{Linear: linear, Progress: t.easing(linear), Elapsed: elapsed, Duration: t.duration, Final: linear >= 1}
}

// Scheduler advances every running task on one frame clock. The clock only
// ticks while tasks are running.
type Scheduler struct {
	frame time.Duration
	log   *logger.Logger

	mu     sync.Mutex
	tasks  map[uint64]*Task
	next   uint64
	closed bool

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewScheduler starts a scheduler ticking every frame; frame defaults to
// DefaultFrame.
func NewScheduler(frame time.Duration) *Scheduler {
	if frame <= 0 {
		frame = DefaultFrame
	}
	s := &Scheduler{
		frame: frame,
		log:   logger.Component("animation"),
		tasks: make(map[uint64]*Task),
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Animate schedules step over duration with the given easing (linear when
// nil). On a closed scheduler only the final frame is delivered, at once
// and on its own goroutine.
func (s *Scheduler) Animate(duration time.Duration, easing Easing, step Step) *Task {
	if easing == nil {
		easing = MustEasing("linear")
	}
	t := &Task{
		duration: duration,
		easing:   easing,
		step:     step,
		start:    time.Now(),
		done:     make(chan struct{}),
		sched:    s,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		go func() {
			s.deliver(t, Frame{Linear: 1, Progress: easing(1), Elapsed: duration, Duration: duration, Final: true})
			t.finish()
		}()
		return t
	}
	s.next++
	t.id = s.next
	s.tasks[t.id] = t
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return t
}

// Active returns the number of running tasks.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Close cancels every running task and stops the clock.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	pending := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		pending = append(pending, t)
	}
	s.tasks = map[uint64]*Task{}
	s.mu.Unlock()

	for _, t := range pending {
		t.cancelled.Store(true)
		t.finish()
	}
	close(s.stop)
	s.wg.Wait()
}

func (s *Scheduler) remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	var ticker *time.Ticker
	var tick <-chan time.Time
	for {
		select {
		case <-s.stop:
			if ticker != nil {
				ticker.Stop()
			}
			return
		case <-s.wake:
			if ticker == nil {
				ticker = time.NewTicker(s.frame)
				tick = ticker.C
			}
		case now := <-tick:
			if s.advance(now) == 0 {
				ticker.Stop()
				ticker, tick = nil, nil
			}
		}
	}
}

// advance delivers one frame to every task, oldest first, and returns how
// many are still running.
func (s *Scheduler) advance(now time.Time) int {
	s.mu.Lock()
	running := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		running = append(running, t)
	}
	s.mu.Unlock()
	sort.Slice(running, func(i, j int) bool { return running[i].id < running[j].id })

	for _, t := range running {
		if t.cancelled.Load() {
			continue
		}
		f := t.frame(now)
		ok := s.deliver(t, f)
		if f.Final || !ok {
			if s.remove(t.id) {
				t.finish()
			}
		}
	}

	return s.Active()
}

func (s *Scheduler) deliver(t *Task, f Frame) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			s.log.Error("animation step panicked", fmt.Errorf("%v", p), logger.Fields{"task": t.id})
			ok = false
		}
	}()
	t.step(f)
	return true
}
