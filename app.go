package formkit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/agiangrant/formkit/backend/native"
	"github.com/agiangrant/formkit/backend/terminal"
	"github.com/agiangrant/formkit/retained"
)

// BackendKind selects where windows are drawn.
type BackendKind string

const (
	BackendAuto     BackendKind = ""
	BackendTerminal BackendKind = "terminal"
	BackendNative   BackendKind = "native"
	BackendHeadless BackendKind = "headless"
)

// ErrNoTerminal is returned when the terminal backend is chosen but stdout is
// not a terminal.
var ErrNoTerminal = errors.New("formkit: the terminal backend needs a terminal on stdout")

// isTerminal is replaced in tests.
var isTerminal = IsTerminal

// ParseBackendKind validates a backend.kind setting.
func ParseBackendKind(s string) (BackendKind, error) {
	switch k := BackendKind(s); k {
	case BackendAuto, BackendTerminal, BackendNative, BackendHeadless:
		return k, nil
	}
	return BackendAuto, fmt.Errorf("backend.kind: unknown backend %q", s)
}

// ============================================================================
// App
// ============================================================================

// App owns one window, its backend and the pump that drives them.
type App struct {
	Config  Config
	Backend BackendKind
	Loop    *retained.Loop
	Window  *retained.Window

	closers []func()
}

// Option customizes NewApp.
type Option func(*appOptions)

type appOptions struct {
	screen tcell.Screen
	clock  retained.Clock
}

// WithScreen makes the terminal backend draw on screen instead of the
// controlling terminal.
func WithScreen(screen tcell.Screen) Option {
	return func(o *appOptions) { o.screen = screen }
}

// WithClock sets the clock driving the forced repaint scheduler.
func WithClock(clock retained.Clock) Option {
	return func(o *appOptions) { o.clock = clock }
}

// NewApp validates cfg, opens the configured backend and creates the window.
func NewApp(cfg Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}
	kind, _ := ParseBackendKind(cfg.Backend.Kind)
	if kind == BackendAuto {
		kind = autoBackend(cfg, o)
	}
	// Checked after auto-selection too, so a fallback to the terminal fails
	// with a readable error instead of a screen init failure.
	if kind == BackendTerminal && o.screen == nil && !isTerminal() {
		return nil, ErrNoTerminal
	}

	loopConfig := cfg.LoopConfig()
	loopConfig.Clock = o.clock
	app := &App{
		Config:  cfg,
		Backend: kind,
		Loop:    retained.NewLoop(loopConfig),
	}

	var err error
	switch kind {
	case BackendTerminal:
		err = app.openTerminal(o.screen)
	case BackendNative:
		err = app.openNative()
	case BackendHeadless:
		app.Window = retained.NewWindow(nil, cfg.WindowOptions())
	}
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Loop.AddWindow(app.Window)
	slog.Info("app ready", "backend", kind, "window", app.Window.Handle(), "size", app.Window.Size())
	return app, nil
}

// autoBackend prefers the native renderer and falls back to the terminal.
func autoBackend(cfg Config, o appOptions) BackendKind {
	if o.screen != nil {
		return BackendTerminal
	}
	if CurrentPlatform().SupportsNative() && native.Available(cfg.Backend.Library) {
		return BackendNative
	}
	return BackendTerminal
}

func (a *App) openTerminal(screen tcell.Screen) error {
	var (
		surface *terminal.Surface
		err     error
	)
	if screen != nil {
		surface, err = terminal.OpenScreen(screen)
	} else {
		surface, err = terminal.Open()
	}
	if err != nil {
		return err
	}
	a.closers = append(a.closers, surface.Close)

	// One cell is one unit of client space; the terminal decides the size.
	opts := a.Config.WindowOptions()
	size := surface.Size()
	opts.Width, opts.Height, opts.DPI = size.Width, size.Height, retained.BaseDPI
	a.Window = retained.NewWindow(surface, opts)

	source := terminal.NewSource(surface.Screen(), a.Window.Handle())
	source.Start()
	a.closers = append(a.closers, source.Stop)
	a.Loop.AddSource(source)
	return nil
}

func (a *App) openNative() error {
	opts := a.Config.WindowOptions()
	surface, err := native.Open(native.Options{
		Library: a.Config.Backend.Library,
		Width:   opts.Width,
		Height:  opts.Height,
		DPI:     opts.DPI,
	})
	if err != nil {
		return err
	}
	a.closers = append(a.closers, surface.Close)
	a.Window = retained.NewWindow(surface, opts)
	a.Loop.AddSource(surface.Source(a.Window.Handle()))
	return nil
}

// Run pumps until ctx is cancelled or the window closes. Cancellation is not
// reported as an error.
func (a *App) Run(ctx context.Context) error {
	err := a.Loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close releases the backend in reverse order of acquisition. It is safe to
// call more than once.
func (a *App) Close() {
	a.Loop.Stop()
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
