package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/agiangrant/formkit"
	"github.com/agiangrant/formkit/retained"
)

// runDemo implements 'formkit demo'
func runDemo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	path := fs.String("config", "", "Config file (default formkit.toml)")
	backend := fs.String("backend", "", "Backend: terminal, native or headless")
	library := fs.String("library", "", "Renderer library for the native backend")
	logFile := fs.String("log", "", "Write logs to this file")
	fs.Parse(args)

	cfg, err := formkit.LoadConfig(*path)
	if err != nil {
		return err
	}
	if *backend != "" {
		cfg.Backend.Kind = *backend
	}
	if *library != "" {
		cfg.Backend.Library = *library
	}

	var logOut io.Writer = os.Stderr
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	formkit.SetupLogging(logOut, cfg.LogLevel())

	app, err := formkit.NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	// The terminal backend owns the tty; logs go to a file or are dropped.
	if app.Backend == formkit.BackendTerminal && *logFile == "" {
		formkit.SetupLogging(io.Discard, cfg.LogLevel())
	}

	buildDemo(app.Window, app.Loop.Animations(), unitFor(app.Backend))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = app.Run(ctx)
	slog.Info("demo finished", "stats", app.Loop.Stats())
	return err
}

// unitFor is the size of one text cell in client units.
func unitFor(kind formkit.BackendKind) retained.Size {
	if kind == formkit.BackendTerminal {
		return retained.Size{Width: 1, Height: 1}
	}
	return retained.Size{Width: 8, Height: 20}
}

// buildDemo fills win with one of each reference control.
func buildDemo(win *retained.Window, anims *retained.AnimationRegistry, unit retained.Size) {
	cols := func(n int) int { return n * unit.Width }
	rows := func(n int) int { return n * unit.Height }

	root := retained.NewPanel(retained.VStack(rows(1) / 2))
	root.SetLayoutHints(retained.LayoutHints{
		Dock:    retained.DockFill,
		Padding: retained.Insets{Top: rows(1) / 2, Left: cols(2), Right: cols(2)},
	})
	root.SetKeepSelection(true)

	status := retained.NewLabel("Pick a size and press Order.")
	status.SetSize(cols(40), rows(1))

	name := retained.NewTextField(nil).SetPlaceholder("Name")
	name.SetSize(cols(24), rows(1))
	name.SetLayoutHints(retained.LayoutHints{Padding: retained.Insets{Left: cols(1), Right: cols(1)}})

	size := retained.NewDropdown("Small", "Medium", "Large").SetItemHeight(rows(1))
	size.SetSize(cols(16), rows(1))

	order := retained.NewButton("Order")
	order.SetSize(cols(10), rows(3))
	order.OnClick(func() {
		who := name.Text()
		if who == "" {
			who = "someone"
		}
		choice := size.Value()
		if choice == "" {
			choice = "no size"
		}
		status.SetText(fmt.Sprintf("Ordered %s for %s.", choice, who))
		// flash the status line and fade back to the window colour
		status.SetBackground(retained.LightGray)
		anims.Animate(status).Duration(400 * time.Millisecond).Background(win.Background())
	})
	size.OnChange(func(_ int, value string) {
		status.SetText("Size: " + value)
	})

	root.MustAddChild(status, name, size, order)
	win.MustAddChild(root)
}
