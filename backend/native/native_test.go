package native

import (
	"errors"
	"testing"

	"github.com/agiangrant/formkit/internal/ffi"
	"github.com/agiangrant/formkit/retained"
)

var errRenderer = errors.New("renderer failure")

// fakeRenderer records submitted frames and replays queued events.
type fakeRenderer struct {
	created    [2]int
	submitted  [][]ffi.Command
	resized    [2]int
	destroyed  bool
	events     []ffi.Event
	cursors    []uint32
	measure    bool
	failSubmit error
}

func (f *fakeRenderer) Create(width, height int, _ float32) (ffi.SurfaceID, error) {
	f.created = [2]int{width, height}
	return 7, nil
}

func (f *fakeRenderer) Destroy(ffi.SurfaceID) { f.destroyed = true }

func (f *fakeRenderer) Resize(_ ffi.SurfaceID, width, height int) error {
	f.resized = [2]int{width, height}
	return nil
}

func (f *fakeRenderer) Submit(_ ffi.SurfaceID, batch []byte) error {
	if f.failSubmit != nil {
		return f.failSubmit
	}
	cmds, err := ffi.DecodeBatch(append([]byte(nil), batch...))
	if err != nil {
		return err
	}
	f.submitted = append(f.submitted, cmds)
	return nil
}

func (f *fakeRenderer) Poll(ffi.SurfaceID) (ffi.Event, bool) {
	if len(f.events) == 0 {
		return ffi.Event{}, false
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, true
}

func (f *fakeRenderer) SetCursor(_ ffi.SurfaceID, kind uint32) bool {
	f.cursors = append(f.cursors, kind)
	return true
}

func (f *fakeRenderer) MeasureText(text, _ string, _ float32) (ffi.TextMeasurementC, bool) {
	if !f.measure {
		return ffi.TextMeasurementC{}, false
	}
	return ffi.TextMeasurementC{Width: float32(len(text)) * 7.5, Height: 16.2}, true
}

func newTestSurface(t *testing.T) (*Surface, *fakeRenderer) {
	t.Helper()
	f := &fakeRenderer{}
	s, err := newSurface(f, Options{Width: 320, Height: 200})
	if err != nil {
		t.Fatal(err)
	}
	return s, f
}

func commandTypes(cmds []ffi.Command) []ffi.CommandType {
	out := make([]ffi.CommandType, len(cmds))
	for i, c := range cmds {
		out[i] = c.Type
	}
	return out
}

func TestSurfaceRecordsOneBatchPerFrame(t *testing.T) {
	s, f := newTestSurface(t)
	if f.created != [2]int{320, 200} {
		t.Errorf("created = %v", f.created)
	}

	if err := s.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	s.PushClip(retained.Rect{X: 0, Y: 0, Width: 100, Height: 50})
	s.FillRect(retained.Rect{X: 0, Y: 0, Width: 100, Height: 50}, retained.White)
	s.FillRect(retained.Rect{X: 0, Y: 0, Width: 100, Height: 50}, retained.Transparent)
	s.DrawText("ok", retained.Point{X: 4, Y: 4}, &retained.Font{Family: "mono", Size: 12, Bold: true}, retained.Black)
	s.FillRoundedRect(retained.Rect{X: 1, Y: 1, Width: 5, Height: 5}, 0, retained.Blue)
	if err := s.EndFrame(); err != nil {
		t.Fatal(err)
	}

	if len(f.submitted) != 1 {
		t.Fatalf("submitted %d frames, want 1", len(f.submitted))
	}
	got := commandTypes(f.submitted[0])
	want := []ffi.CommandType{ffi.CmdPushClip, ffi.CmdFillRect, ffi.CmdDrawText, ffi.CmdFillRect, ffi.CmdPopClip}
	if len(got) != len(want) {
		t.Fatalf("commands = %#x, want %#x", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command %d = %#x, want %#x", i, got[i], want[i])
		}
	}
	text := f.submitted[0][2]
	if text.Uint32(4) != ffi.TextBold {
		t.Errorf("text flags = %d, want bold", text.Uint32(4))
	}
}

func TestSurfaceErrors(t *testing.T) {
	t.Run("submit failure is wrapped", func(t *testing.T) {
		s, f := newTestSurface(t)
		f.failSubmit = errRenderer
		_ = s.BeginFrame()
		if err := s.EndFrame(); !errors.Is(err, errRenderer) {
			t.Errorf("err = %v, want errRenderer", err)
		}
	})
	t.Run("closed", func(t *testing.T) {
		s, f := newTestSurface(t)
		s.Close()
		s.Close()
		if !f.destroyed {
			t.Error("renderer surface not destroyed")
		}
		if err := s.BeginFrame(); !errors.Is(err, ErrClosed) {
			t.Errorf("BeginFrame err = %v", err)
		}
		if err := s.Resize(10, 10); !errors.Is(err, ErrClosed) {
			t.Errorf("Resize err = %v", err)
		}
	})
}

func TestSurfaceMeasureText(t *testing.T) {
	font := &retained.Font{Family: "system", Size: 10}
	s, f := newTestSurface(t)
	if got := s.MeasureText("abcd", font); got != retained.EstimateText("abcd", font) {
		t.Errorf("fallback = %v", got)
	}
	f.measure = true
	if got := s.MeasureText("abcd", font); got != (retained.Size{Width: 30, Height: 17}) {
		t.Errorf("measured = %v, want 30x17", got)
	}
}

func TestSurfaceCursorDeduplicates(t *testing.T) {
	s, f := newTestSurface(t)
	s.SetCursor(retained.CursorHand)
	s.SetCursor(retained.CursorHand)
	s.SetCursor(retained.CursorIBeam)
	if len(f.cursors) != 2 {
		t.Errorf("cursor calls = %v, want 2", f.cursors)
	}
}

func TestWindowPaintsThroughNativeSurface(t *testing.T) {
	s, f := newTestSurface(t)
	win := retained.NewWindow(s, retained.WindowOptions{Width: 320, Height: 200})
	b := retained.NewButton("Save")
	b.SetBounds(retained.Rect{X: 10, Y: 10, Width: 80, Height: 24})
	win.MustAddChild(b)

	if err := win.Paint(false); err != nil {
		t.Fatal(err)
	}
	if len(f.submitted) != 1 || len(f.submitted[0]) == 0 {
		t.Fatalf("submitted = %v", f.submitted)
	}
	if err := win.Resize(400, 300); err != nil {
		t.Fatal(err)
	}
	if f.resized != [2]int{400, 300} {
		t.Errorf("renderer resized to %v", f.resized)
	}
}

func TestSourceConvertsEvents(t *testing.T) {
	s, f := newTestSurface(t)
	f.events = []ffi.Event{
		{Type: ffi.EventMousePressed, X: 10.7, Y: 20.2, Button: ffi.MouseLeft, Modifiers: ffi.ModShift},
		{Type: ffi.EventNone},
		{Type: ffi.EventKeyPressed, Keycode: ffi.KeyEnter},
		{Type: ffi.EventCharInput, Char: 'x'},
		{Type: ffi.EventMouseWheel, DeltaY: -2.6},
		{Type: ffi.EventScaleChanged, Scale: 1.5},
		{Type: ffi.EventImePreedit, Text: "にほ"},
		{Type: ffi.EventResized, Width: 800, Height: 600},
		{Type: ffi.EventCloseRequested},
	}
	src := s.Source(42)

	want := []retained.Message{
		{Kind: retained.MsgPointerDown, Pos: retained.Point{X: 10, Y: 20}, Button: retained.MouseButtonLeft, Modifiers: retained.ModShift},
		{Kind: retained.MsgKeyDown, Key: "Enter"},
		{Kind: retained.MsgChar, Char: 'x'},
		{Kind: retained.MsgWheel, DeltaY: -3},
		{Kind: retained.MsgDPIChanged, DPI: 144},
		{Kind: retained.MsgComposition, Text: "にほ"},
		{Kind: retained.MsgSize, Width: 800, Height: 600},
		{Kind: retained.MsgClose},
	}
	for i, w := range want {
		got, ok := src.Poll()
		if !ok {
			t.Fatalf("message %d missing", i)
		}
		if got.Window != 42 {
			t.Errorf("message %d window = %d", i, got.Window)
		}
		if got.Kind != w.Kind || got.Pos != w.Pos || got.Button != w.Button || got.Modifiers != w.Modifiers ||
			got.Key != w.Key || got.Char != w.Char || got.DeltaY != w.DeltaY || got.DPI != w.DPI ||
			got.Text != w.Text || got.Width != w.Width || got.Height != w.Height {
			t.Errorf("message %d = %+v, want %+v", i, got, w)
		}
	}
	if _, ok := src.Poll(); ok {
		t.Error("source not drained")
	}
}
