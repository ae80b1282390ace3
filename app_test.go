package formkit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/agiangrant/formkit/retained"
)

func TestParseBackendKind(t *testing.T) {
	for _, s := range []string{"", "terminal", "native", "headless"} {
		if _, err := ParseBackendKind(s); err != nil {
			t.Errorf("ParseBackendKind(%q): %v", s, err)
		}
	}
	if _, err := ParseBackendKind("web"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestNewAppHeadless(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend.Kind = "headless"
	cfg.Window.Width, cfg.Window.Height = 320, 200

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer app.Close()

	if app.Backend != BackendHeadless {
		t.Errorf("Backend = %q", app.Backend)
	}
	if got := app.Window.Size(); got != (retained.Size{Width: 320, Height: 200}) {
		t.Errorf("window size = %+v", got)
	}
	if _, ok := app.Loop.Window(app.Window.Handle()); !ok {
		t.Error("window not registered with the loop")
	}
	if _, err := app.Loop.Step(); err != nil {
		t.Errorf("Step: %v", err)
	}
}

func TestNewAppRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Frame.ForcedMode = "never"
	if _, err := NewApp(cfg); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestNewAppWithoutTerminal(t *testing.T) {
	prev := isTerminal
	isTerminal = func() bool { return false }
	defer func() { isTerminal = prev }()

	t.Run("explicit terminal", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Backend.Kind = "terminal"
		if _, err := NewApp(cfg); !errors.Is(err, ErrNoTerminal) {
			t.Errorf("err = %v, want ErrNoTerminal", err)
		}
	})

	t.Run("auto falls back to terminal", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Backend.Library = filepath.Join(t.TempDir(), "missing-renderer")
		if _, err := NewApp(cfg); !errors.Is(err, ErrNoTerminal) {
			t.Errorf("err = %v, want ErrNoTerminal", err)
		}
	})
}

func TestNewAppTerminal(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	screen.SetSize(40, 12)

	cfg := DefaultConfig()
	app, err := NewApp(cfg, WithScreen(screen))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer app.Close()

	if app.Backend != BackendTerminal {
		t.Fatalf("Backend = %q, want terminal", app.Backend)
	}
	// the terminal decides the window size
	if got := app.Window.Size(); got != (retained.Size{Width: 40, Height: 12}) {
		t.Errorf("window size = %+v, want 40x12", got)
	}

	clicks := 0
	button := retained.NewButton("Go")
	button.SetBounds(retained.Rect{X: 1, Y: 1, Width: 8, Height: 3})
	button.OnClick(func() { clicks++ })
	app.Window.MustAddChild(button)

	if _, err := app.Loop.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !strings.Contains(screenText(screen), "Go") {
		t.Errorf("button caption not painted:\n%s", screenText(screen))
	}

	screen.PostEvent(tcell.NewEventMouse(3, 2, tcell.Button1, tcell.ModNone))
	screen.PostEvent(tcell.NewEventMouse(3, 2, tcell.ButtonNone, tcell.ModNone))
	waitFor(t, func() bool {
		app.Loop.Step()
		return clicks == 1
	})
}

func TestAppRunStopsOnClose(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	screen.SetSize(20, 5)

	app, err := NewApp(DefaultConfig(), WithScreen(screen))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer app.Close()

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()
	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Ctrl-C")
	}
	if !app.Window.IsDestroyed() {
		t.Error("window should be destroyed")
	}
}

func TestAppRunCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend.Kind = "headless"
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.Run(ctx); err != nil {
		t.Errorf("Run after cancel = %v, want nil", err)
	}
}

func TestSetupLogging(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	defer slog.SetDefault(prev)
	defer retained.SetLogLevel(slog.LevelInfo)

	logger := SetupLogging(&buf, slog.LevelWarn)
	logger.Info("hidden")
	slog.Warn("shown", "k", 1)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "k=1") {
		t.Errorf("warn record missing: %q", out)
	}
}

func screenText(screen tcell.SimulationScreen) string {
	cells, w, h := screen.GetContents()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) == 0 {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteString(string(c.Runes))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}
