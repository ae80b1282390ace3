package retained

import (
	"errors"
	"slices"
	"testing"
)

func TestNewWindowDefaults(t *testing.T) {
	win := NewWindow(nil, WindowOptions{})
	def := DefaultWindowOptions()
	if win.Title() != def.Title || win.Size() != (Size{def.Width, def.Height}) {
		t.Errorf("title=%q size=%v", win.Title(), win.Size())
	}
	if win.DPI() != BaseDPI {
		t.Errorf("dpi = %d, want %d", win.DPI(), BaseDPI)
	}
	if !win.Visible() || !win.Enabled() {
		t.Error("new windows are visible and enabled")
	}
	if !win.ContentChanged() {
		t.Error("new windows need a first paint")
	}
	if NewWindow(nil, WindowOptions{}).Handle() == win.Handle() {
		t.Error("handles must be unique")
	}
}

func TestPaintFullAndPartial(t *testing.T) {
	win, s := flushedWindow(200, 100)
	if !win.LastPaint().Full {
		t.Fatal("first paint must be full")
	}
	a := newProbe("a", 0, 0, 20, 20)
	b := newProbe("b", 100, 50, 20, 20)
	win.MustAddChild(a, b)
	_ = win.Paint(false)

	t.Run("nothing changed", func(t *testing.T) {
		frames := s.frames
		if err := win.Paint(false); err != nil {
			t.Fatal(err)
		}
		if s.frames != frames {
			t.Error("idle paint produced a frame")
		}
	})

	t.Run("partial", func(t *testing.T) {
		a.paints, b.paints = 0, 0
		a.RequestRepaint()
		if err := win.Paint(false); err != nil {
			t.Fatal(err)
		}
		report := win.LastPaint()
		if report.Full || len(report.Regions) != 1 || report.Regions[0] != (Rect{0, 0, 20, 20}) {
			t.Errorf("report = %+v", report)
		}
		if a.paints != 1 || b.paints != 0 {
			t.Errorf("paints a=%d b=%d, want 1/0", a.paints, b.paints)
		}
		if s.clipDepth != 0 {
			t.Errorf("clip depth = %d after frame", s.clipDepth)
		}
		if win.ContentChanged() {
			t.Error("content still marked changed")
		}
	})

	t.Run("full", func(t *testing.T) {
		a.paints, b.paints = 0, 0
		if err := win.Paint(true); err != nil {
			t.Fatal(err)
		}
		report := win.LastPaint()
		if !report.Full || report.Regions[0] != win.ClientRect() {
			t.Errorf("report = %+v", report)
		}
		if a.paints != 1 || b.paints != 1 {
			t.Errorf("paints a=%d b=%d, want 1/1", a.paints, b.paints)
		}
	})

	t.Run("damage outside the client area", func(t *testing.T) {
		frames := s.frames
		win.InvalidateRect(Rect{500, 500, 10, 10})
		if err := win.Paint(false); err != nil {
			t.Fatal(err)
		}
		if s.frames != frames {
			t.Error("offscreen damage produced a frame")
		}
		if !win.Damage().Empty() {
			t.Error("offscreen damage not discarded")
		}
	})
}

func TestPaintBackendErrorsKeepDamage(t *testing.T) {
	tests := []struct {
		name string
		set  func(s *recordingSurface)
	}{
		{"begin", func(s *recordingSurface) { s.failBegin = errBackend }},
		{"end", func(s *recordingSurface) { s.failEnd = errBackend }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win, s := flushedWindow(200, 100)
			p := newProbe("p", 0, 0, 10, 10)
			win.MustAddChild(p)
			tt.set(s)

			err := win.Paint(false)
			if !errors.Is(err, errBackend) {
				t.Fatalf("err = %v, want errBackend", err)
			}
			if win.Damage().Empty() || !win.ContentChanged() {
				t.Error("damage dropped")
			}
			frame := win.LastPaint().Frame
			*s = recordingSurface{}
			if err := win.Paint(false); err != nil {
				t.Fatal(err)
			}
			if win.LastPaint().Frame != frame+1 {
				t.Errorf("frame = %d, want %d", win.LastPaint().Frame, frame+1)
			}
		})
	}
}

func TestPaintSkipsHiddenAndHeadlessWindows(t *testing.T) {
	win, s := flushedWindow(200, 100)
	win.SetVisible(false)
	frames := s.frames
	if err := win.Paint(true); err != nil || s.frames != frames {
		t.Errorf("hidden window painted: err=%v frames=%d", err, s.frames)
	}
	win.SetVisible(true)
	_ = win.Paint(false)
	if s.frames != frames+1 || !win.LastPaint().Full {
		t.Error("showing did not force a full repaint")
	}

	headless := NewWindow(nil, WindowOptions{})
	if err := headless.Paint(true); err != nil {
		t.Errorf("headless paint err = %v", err)
	}
}

func TestPaintOrderOverlayLast(t *testing.T) {
	win, s := flushedWindow(200, 100)
	first := NewLabel("first")
	first.SetBounds(Rect{0, 0, 100, 20})
	menu := NewLabel("menu")
	menu.SetBounds(Rect{0, 0, 100, 60})
	second := NewLabel("second")
	second.SetBounds(Rect{0, 10, 100, 20})
	win.MustAddChild(first, menu, second)
	win.SetOverlay(menu)

	if err := win.Paint(true); err != nil {
		t.Fatal(err)
	}
	if want := []string{"first", "second", "menu"}; !slices.Equal(s.texts, want) {
		t.Errorf("paint order = %v, want %v", s.texts, want)
	}
}

func TestTitleBar(t *testing.T) {
	s := &recordingSurface{}
	win := NewWindow(s, WindowOptions{Title: "demo", Width: 200, Height: 100, TitleBarHeight: 20})
	l := NewLabel("body")
	l.SetBounds(Rect{0, 0, 50, 20})
	win.MustAddChild(l)
	if err := win.Paint(false); err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(s.texts, "demo") {
		t.Errorf("title not drawn: %v", s.texts)
	}
	if got := win.ContentRect(); got != (Rect{0, 20, 200, 80}) {
		t.Errorf("content rect = %v", got)
	}

	win.SetTitle("renamed")
	if got := win.Damage().Bounds(); got != (Rect{0, 0, 200, 20}) {
		t.Errorf("title damage = %v", got)
	}
}

func TestResizeRefitsDockFillRoots(t *testing.T) {
	win, s := flushedWindow(200, 100)
	root := NewPanel(VStack(0))
	root.SetLayoutHints(LayoutHints{Dock: DockFill})
	row := NewWidget().SetSize(10, 10).SetLayoutHints(LayoutHints{Align: AlignStretch})
	root.MustAddChild(row)
	win.MustAddChild(root)
	if got := root.Size(); got != (Size{200, 100}) {
		t.Fatalf("root size = %v, want window size", got)
	}

	if err := win.Resize(300, 150); err != nil {
		t.Fatal(err)
	}
	if got := root.Size(); got != (Size{300, 150}) {
		t.Errorf("root size = %v, want 300x150", got)
	}
	if got := row.Size(); got != (Size{300, 10}) {
		t.Errorf("stretched row = %v, want 300x10", got)
	}
	if s.resized != (Size{300, 150}) {
		t.Errorf("surface resized to %v", s.resized)
	}
	_ = win.Paint(false)
	if !win.LastPaint().Full {
		t.Error("resize must repaint the whole window")
	}
}

func TestLifecycleMessages(t *testing.T) {
	win, _ := flushedWindow(200, 100)
	p := NewPanel(nil)
	p.SetBounds(Rect{10, 10, 50, 50})
	win.MustAddChild(p)
	h := win.Handle()

	win.Dispatch(&Message{Kind: MsgMove, Window: h, Pos: Point{40, 60}})
	if win.Position() != (Point{40, 60}) {
		t.Errorf("position = %v", win.Position())
	}
	win.Dispatch(&Message{Kind: MsgSize, Window: h, Width: 320, Height: 240})
	if win.Size() != (Size{320, 240}) {
		t.Errorf("size = %v", win.Size())
	}
	win.Dispatch(&Message{Kind: MsgDPIChanged, Window: h, DPI: 192})
	if win.DPI() != 192 || win.Size() != (Size{640, 480}) || p.Bounds() != (Rect{20, 20, 100, 100}) {
		t.Errorf("after dpi change: dpi=%d size=%v bounds=%v", win.DPI(), win.Size(), p.Bounds())
	}
	win.Dispatch(&Message{Kind: MsgClose, Window: h})
	if !win.IsDestroyed() || !p.IsDestroyed() {
		t.Error("close did not destroy")
	}
	if err := win.AddChild(NewWidget()); !errors.Is(err, ErrDestroyed) {
		t.Errorf("add after close err = %v", err)
	}
}

func TestRescaleScenario(t *testing.T) {
	win, _ := flushedWindow(200, 100)
	if err := win.Rescale(192); err != nil {
		t.Fatal(err)
	}
	if win.Size() != (Size{400, 200}) {
		t.Errorf("size = %v, want 400x200", win.Size())
	}
	if ScaleInt(50, 96, 192) != 100 {
		t.Error("ScaleInt(50, 96, 192) != 100")
	}
	// same dpi is a no-op
	if err := win.Rescale(192); err != nil || win.Size() != (Size{400, 200}) {
		t.Errorf("rescale to same dpi changed size: %v %v", win.Size(), err)
	}
}

func TestOverlaySlot(t *testing.T) {
	win, _ := flushedWindow(200, 100)
	a := newProbe("a", 0, 0, 10, 10)
	b := newProbe("b", 20, 0, 10, 10)
	hidden := newProbe("hidden", 40, 0, 10, 10)
	win.MustAddChild(a, b, hidden)
	hidden.SetVisible(false)

	if win.SetOverlay(hidden) {
		t.Error("hidden widget became overlay")
	}
	if win.SetOverlay(newProbe("loose", 0, 0, 1, 1)) {
		t.Error("detached widget became overlay")
	}
	win.SetOverlay(a)
	win.SetOverlay(b)
	if win.Overlay() != Control(b) {
		t.Errorf("overlay = %s, want b", describe(win.Overlay()))
	}
	if a.count(MsgOverlayDismiss) != 1 {
		t.Errorf("previous holder dismissed %d times, want 1", a.count(MsgOverlayDismiss))
	}
	win.DismissOverlay()
	if win.Overlay() != nil || b.count(MsgOverlayDismiss) != 1 {
		t.Error("DismissOverlay did not clear and notify")
	}
}

func TestFindByName(t *testing.T) {
	win, _ := flushedWindow(200, 100)
	p := NewPanel(nil)
	p.SetName("outer")
	inner := NewWidget().SetName("inner")
	p.MustAddChild(inner)
	win.MustAddChild(p)

	if got := win.FindByName("inner"); got != Control(inner) {
		t.Errorf("FindByName = %s", describe(got))
	}
	if got := win.FindByName("missing"); got != nil {
		t.Errorf("FindByName(missing) = %s", describe(got))
	}
}
