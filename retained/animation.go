package retained

import (
	"math"
	"sync/atomic"
	"time"
)

// AnimationID uniquely identifies an animation.
type AnimationID uint64

var nextAnimationID atomic.Uint64

// EasingFunc maps time progress (0-1) to value progress (0-1).
type EasingFunc func(t float64) float64

// Common easing functions
var (
	EaseLinear EasingFunc = func(t float64) float64 { return t }

	EaseInQuad EasingFunc = func(t float64) float64 { return t * t }

	EaseOutQuad EasingFunc = func(t float64) float64 { return t * (2 - t) }

	EaseInOutQuad EasingFunc = func(t float64) float64 {
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	}

	EaseOutCubic EasingFunc = func(t float64) float64 {
		t--
		return t*t*t + 1
	}

	EaseOutElastic EasingFunc = func(t float64) float64 {
		if t == 0 || t == 1 {
			return t
		}
		c4 := (2 * math.Pi) / 3
		return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
	}
)

// EasingByName returns the easing function for a name, or nil.
func EasingByName(name string) EasingFunc {
	switch name {
	case "linear":
		return EaseLinear
	case "ease-in":
		return EaseInQuad
	case "ease-out":
		return EaseOutQuad
	case "ease", "ease-in-out":
		return EaseInOutQuad
	case "cubic":
		return EaseOutCubic
	case "elastic":
		return EaseOutElastic
	}
	return nil
}

// Animation drives a widget property over time. Its update function mutates
// the widget through normal setters, so every step is damaged like any other
// change.
type Animation struct {
	id         AnimationID
	widget     *Widget
	start      time.Time
	duration   time.Duration
	easing     EasingFunc
	update     func(progress float64)
	onComplete func()
	loop       bool
	cancelled  bool
}

// ID returns the animation identifier.
func (a *Animation) ID() AnimationID { return a.id }

// Cancel stops the animation at its current value.
func (a *Animation) Cancel() { a.cancelled = true }

// IsCancelled reports whether Cancel was called.
func (a *Animation) IsCancelled() bool { return a.cancelled }

// ============================================================================
// Animation Registry
// ============================================================================

// AnimationRegistry holds running animations. The loop ticks it once per
// iteration before offering repaints.
type AnimationRegistry struct {
	clock      Clock
	animations []*Animation
}

// NewAnimationRegistry creates a registry reading time from clock.
func NewAnimationRegistry(clock Clock) *AnimationRegistry {
	if clock == nil {
		clock = SystemClock()
	}
	return &AnimationRegistry{clock: clock}
}

// Count returns the number of running animations.
func (r *AnimationRegistry) Count() int { return len(r.animations) }

// HasActive reports whether any animation is running.
func (r *AnimationRegistry) HasActive() bool { return len(r.animations) > 0 }

func (r *AnimationRegistry) add(a *Animation) *Animation {
	a.id = AnimationID(nextAnimationID.Add(1))
	a.start = r.clock.Now()
	if a.easing == nil {
		a.easing = EaseLinear
	}
	if a.duration <= 0 {
		a.duration = time.Millisecond
	}
	r.animations = append(r.animations, a)
	return a
}

// Tick advances every animation to now and drops finished, cancelled and
// orphaned ones. Returns true while any remain.
func (r *AnimationRegistry) Tick(now time.Time) bool {
	var done []*Animation
	kept := r.animations[:0]
	for _, a := range r.animations {
		if a.cancelled || a.widget.destroyed {
			continue
		}
		elapsed := now.Sub(a.start)
		if elapsed >= a.duration {
			if a.loop {
				a.start = now
				elapsed = 0
			} else {
				a.update(a.easing(1))
				done = append(done, a)
				continue
			}
		}
		a.update(a.easing(float64(elapsed) / float64(a.duration)))
		kept = append(kept, a)
	}
	clear(r.animations[len(kept):])
	r.animations = kept

	for _, a := range done {
		if a.onComplete != nil {
			a.onComplete()
		}
	}
	return len(r.animations) > 0
}

// ============================================================================
// Animation Builder
// ============================================================================

// AnimationBuilder configures an animation before it starts.
type AnimationBuilder struct {
	registry   *AnimationRegistry
	widget     *Widget
	duration   time.Duration
	easing     EasingFunc
	loop       bool
	onComplete func()
}

// Animate starts building an animation on c.
func (r *AnimationRegistry) Animate(c Control) *AnimationBuilder {
	return &AnimationBuilder{
		registry: r,
		widget:   c.AsWidget(),
		duration: 300 * time.Millisecond,
		easing:   EaseOutQuad,
	}
}

// Duration sets the animation length.
func (b *AnimationBuilder) Duration(d time.Duration) *AnimationBuilder {
	b.duration = d
	return b
}

// Easing sets the easing curve.
func (b *AnimationBuilder) Easing(fn EasingFunc) *AnimationBuilder {
	b.easing = fn
	return b
}

// Loop repeats the animation until cancelled.
func (b *AnimationBuilder) Loop() *AnimationBuilder {
	b.loop = true
	return b
}

// OnComplete sets a callback fired once a non-looping animation ends.
func (b *AnimationBuilder) OnComplete(fn func()) *AnimationBuilder {
	b.onComplete = fn
	return b
}

func (b *AnimationBuilder) start(update func(p float64)) *Animation {
	return b.registry.add(&Animation{
		widget:     b.widget,
		duration:   b.duration,
		easing:     b.easing,
		update:     update,
		onComplete: b.onComplete,
		loop:       b.loop,
	})
}

// Position moves the widget to (x, y).
func (b *AnimationBuilder) Position(x, y int) *Animation {
	w := b.widget
	from := w.Position()
	return b.start(func(p float64) {
		w.SetPosition(lerpInt(from.X, x, p), lerpInt(from.Y, y, p))
	})
}

// Size resizes the widget to (width, height).
func (b *AnimationBuilder) Size(width, height int) *Animation {
	w := b.widget
	from := w.Size()
	return b.start(func(p float64) {
		w.SetSize(lerpInt(from.Width, width, p), lerpInt(from.Height, height, p))
	})
}

// Background fades the background colour to c, blending in Lab space.
func (b *AnimationBuilder) Background(c Color) *Animation {
	w := b.widget
	from := w.background
	return b.start(func(p float64) {
		w.SetBackground(from.Blend(c, p))
	})
}

// Custom calls update with the eased progress every tick.
func (b *AnimationBuilder) Custom(update func(progress float64)) *Animation {
	return b.start(update)
}

func lerpInt(a, b int, t float64) int {
	return a + int(math.Round(float64(b-a)*t))
}
