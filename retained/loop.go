package retained

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultForceInterval is the forced full-repaint cadence (about 40 Hz).
const DefaultForceInterval = 25 * time.Millisecond

// DefaultIdleSleep is how long Run sleeps after an iteration with no input.
const DefaultIdleSleep = 4 * time.Millisecond

// ============================================================================
// Clock
// ============================================================================

// Clock supplies the time used by the scheduler.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// ============================================================================
// Scheduler
// ============================================================================

// ForcedMode selects what a forced frame repaints.
type ForcedMode uint8

const (
	// ForceFull repaints the whole client area of every window.
	ForceFull ForcedMode = iota
	// ForceAnimated merges each widget's animated region into damage and
	// repaints only that.
	ForceAnimated
)

func (m ForcedMode) String() string {
	if m == ForceAnimated {
		return "animated"
	}
	return "full"
}

// ParseForcedMode parses "full" or "animated".
func ParseForcedMode(s string) (ForcedMode, error) {
	switch s {
	case "", "full":
		return ForceFull, nil
	case "animated":
		return ForceAnimated, nil
	}
	return ForceFull, fmt.Errorf("retained: unknown forced mode %q", s)
}

// Scheduler decides whether a pump iteration forces a repaint. A frame is
// forced once more than Interval has elapsed since the last forced frame.
type Scheduler struct {
	clock      Clock
	interval   time.Duration
	mode       ForcedMode
	lastForced time.Time
}

// NewScheduler creates a scheduler. The forced-frame timer starts now.
func NewScheduler(clock Clock, interval time.Duration, mode ForcedMode) *Scheduler {
	if clock == nil {
		clock = SystemClock()
	}
	if interval <= 0 {
		interval = DefaultForceInterval
	}
	return &Scheduler{
		clock:      clock,
		interval:   interval,
		mode:       mode,
		lastForced: clock.Now(),
	}
}

// Interval returns the forced-frame threshold.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Mode returns what forced frames repaint.
func (s *Scheduler) Mode() ForcedMode { return s.mode }

// Due reports whether the threshold has been exceeded.
func (s *Scheduler) Due() bool {
	return s.clock.Now().Sub(s.lastForced) > s.interval
}

// MarkForced restarts the forced-frame timer.
func (s *Scheduler) MarkForced() {
	s.lastForced = s.clock.Now()
}

// ============================================================================
// Loop
// ============================================================================

// MessageSource yields pending platform messages without blocking.
type MessageSource interface {
	Poll() (Message, bool)
}

// LoopConfig configures the pump.
type LoopConfig struct {
	ForceInterval time.Duration
	IdleSleep     time.Duration
	ForcedMode    ForcedMode
	Clock         Clock
}

// LoopStats counts pump activity.
type LoopStats struct {
	Iterations    uint64
	Messages      uint64
	Dropped       uint64
	ForcedFrames  uint64
	PartialFrames uint64
	PaintErrors   uint64
}

// Loop is the cooperative message pump. Each iteration runs posted work,
// drains every message source and then offers every window a repaint. All
// tree mutation happens on the goroutine calling Step or Run.
type Loop struct {
	windows map[WindowHandle]*Window
	order   []*Window
	sources []MessageSource

	sched      *Scheduler
	animations *AnimationRegistry
	idleSleep  time.Duration

	postMu   sync.Mutex
	posted   []func()
	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	iterations    atomic.Uint64
	messages      atomic.Uint64
	dropped       atomic.Uint64
	forcedFrames  atomic.Uint64
	partialFrames atomic.Uint64
	paintErrors   atomic.Uint64
}

// NewLoop creates a pump.
func NewLoop(config LoopConfig) *Loop {
	if config.IdleSleep <= 0 {
		config.IdleSleep = DefaultIdleSleep
	}
	sched := NewScheduler(config.Clock, config.ForceInterval, config.ForcedMode)
	return &Loop{
		windows:    make(map[WindowHandle]*Window),
		sched:      sched,
		animations: NewAnimationRegistry(sched.clock),
		idleSleep:  config.IdleSleep,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
	}
}

// Scheduler returns the forced-frame scheduler.
func (l *Loop) Scheduler() *Scheduler { return l.sched }

// Animations returns the registry ticked by every iteration.
func (l *Loop) Animations() *AnimationRegistry { return l.animations }

// AddWindow registers a window with the pump.
func (l *Loop) AddWindow(win *Window) {
	if _, ok := l.windows[win.handle]; ok {
		return
	}
	l.windows[win.handle] = win
	l.order = append(l.order, win)
}

// RemoveWindow unregisters a window without destroying it.
func (l *Loop) RemoveWindow(h WindowHandle) {
	win, ok := l.windows[h]
	if !ok {
		return
	}
	delete(l.windows, h)
	for i, w := range l.order {
		if w == win {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Window looks up a registered window.
func (l *Loop) Window(h WindowHandle) (*Window, bool) {
	win, ok := l.windows[h]
	return win, ok
}

// Windows returns the registered windows in registration order.
func (l *Loop) Windows() []*Window {
	result := make([]*Window, len(l.order))
	copy(result, l.order)
	return result
}

// AddSource registers a message source.
func (l *Loop) AddSource(src MessageSource) {
	l.sources = append(l.sources, src)
}

// Post queues fn to run on the pump goroutine. It never blocks and is safe
// from any goroutine, including the pump itself. Work posted while posted
// work runs waits for the next iteration.
func (l *Loop) Post(fn func()) {
	l.postMu.Lock()
	l.posted = append(l.posted, fn)
	l.postMu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Deliver routes one message to its window. Messages for unknown windows are
// dropped. A close message destroys the window and unregisters it.
func (l *Loop) Deliver(msg Message) bool {
	l.messages.Add(1)
	win, ok := l.windows[msg.Window]
	if !ok {
		l.dropped.Add(1)
		logger.Debug("message dropped", "kind", msg.Kind, "window", msg.Window)
		return false
	}
	handled := win.Dispatch(&msg)
	if win.destroyed {
		l.RemoveWindow(win.handle)
	}
	return handled
}

// Step runs one pump iteration: posted work, every pending message, one
// animation tick and a repaint offer. It returns the number of messages
// delivered and the joined paint errors of this iteration, if any.
func (l *Loop) Step() (int, error) {
	l.iterations.Add(1)
	l.runPosted()

	n := 0
	for _, src := range l.sources {
		for {
			msg, ok := src.Poll()
			if !ok {
				break
			}
			l.Deliver(msg)
			n++
		}
	}
	l.animations.Tick(l.sched.clock.Now())
	return n, l.repaint()
}

// runPosted runs the work queued before this call.
func (l *Loop) runPosted() {
	l.postMu.Lock()
	batch := l.posted
	l.posted = nil
	l.postMu.Unlock()
	for _, fn := range batch {
		fn()
	}
}

// repaint offers every window a paint: forced (full or animated) when the
// scheduler says so, damage-only otherwise.
func (l *Loop) repaint() error {
	forced := l.sched.Due()
	if forced {
		l.sched.MarkForced()
		l.forcedFrames.Add(1)
	}

	var errs []error
	for _, win := range l.Windows() {
		before := win.frames
		var err error
		switch {
		case forced && l.sched.mode == ForceFull:
			err = win.Paint(true)
		case forced:
			win.invalidateAnimated()
			err = win.Paint(false)
		default:
			err = win.Paint(false)
		}
		if err != nil {
			l.paintErrors.Add(1)
			logger.Warn("paint failed", "window", win.handle, "err", err)
			errs = append(errs, err)
			continue
		}
		if win.frames != before && !win.lastPaint.Full {
			l.partialFrames.Add(1)
		}
	}
	return errors.Join(errs...)
}

// Run pumps until ctx is cancelled, Stop is called or no windows remain.
// Paint errors are logged and retried on later iterations.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("retained: loop already running")
	}
	defer l.running.Store(false)

	logger.Info("loop started", "windows", len(l.order), "force_interval", l.sched.interval, "forced_mode", l.sched.mode)
	timer := time.NewTimer(l.idleSleep)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			return nil
		default:
		}

		n, _ := l.Step()
		if len(l.windows) == 0 {
			logger.Info("loop finished", "reason", "no windows")
			return nil
		}
		if n > 0 {
			continue
		}

		timer.Reset(l.idleSleep)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			return nil
		case <-l.wake:
		case <-timer.C:
		}
	}
}

// Stop ends Run. Safe from any goroutine.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// IsRunning reports whether Run is active.
func (l *Loop) IsRunning() bool { return l.running.Load() }

// Stats returns pump counters.
func (l *Loop) Stats() LoopStats {
	return LoopStats{
		Iterations:    l.iterations.Load(),
		Messages:      l.messages.Load(),
		Dropped:       l.dropped.Load(),
		ForcedFrames:  l.forcedFrames.Load(),
		PartialFrames: l.partialFrames.Load(),
		PaintErrors:   l.paintErrors.Load(),
	}
}
