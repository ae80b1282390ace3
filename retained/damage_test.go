package retained

import "testing"

func TestDamageTrackerAdd(t *testing.T) {
	a, b := NewWidget(), NewWidget()
	tests := []struct {
		name    string
		apply   func(d *DamageTracker)
		wantLen int
		bounds  Rect
	}{
		{
			name: "same rect twice is one entry",
			apply: func(d *DamageTracker) {
				d.Add(a, Rect{0, 0, 10, 10})
				d.Add(a, Rect{0, 0, 10, 10})
			},
			wantLen: 1,
			bounds:  Rect{0, 0, 10, 10},
		},
		{
			name: "repeat requests union",
			apply: func(d *DamageTracker) {
				d.Add(a, Rect{0, 0, 10, 10})
				d.Add(a, Rect{20, 20, 10, 10})
			},
			wantLen: 1,
			bounds:  Rect{0, 0, 30, 30},
		},
		{
			name: "two widgets",
			apply: func(d *DamageTracker) {
				d.Add(a, Rect{0, 0, 10, 10})
				d.Add(b, Rect{50, 0, 10, 10})
			},
			wantLen: 2,
			bounds:  Rect{0, 0, 60, 10},
		},
		{
			name: "empty rects ignored",
			apply: func(d *DamageTracker) {
				d.Add(a, Rect{})
				d.AddRect(Rect{5, 5, 0, 3})
			},
			wantLen: 0,
		},
		{
			name: "unattributed",
			apply: func(d *DamageTracker) {
				d.AddRect(Rect{1, 2, 3, 4})
			},
			wantLen: 1,
			bounds:  Rect{1, 2, 3, 4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDamageTracker()
			tt.apply(d)
			if d.Len() != tt.wantLen {
				t.Errorf("Len = %d, want %d", d.Len(), tt.wantLen)
			}
			if got := d.Bounds(); got != tt.bounds {
				t.Errorf("Bounds = %v, want %v", got, tt.bounds)
			}
			if d.Empty() != (tt.wantLen == 0) {
				t.Errorf("Empty = %v", d.Empty())
			}
		})
	}
}

func TestDamageTrackerRegionsMergeOverlaps(t *testing.T) {
	a, b, c := NewWidget(), NewWidget(), NewWidget()
	d := NewDamageTracker()
	d.Add(a, Rect{0, 0, 50, 20})
	d.Add(b, Rect{30, 0, 50, 20})
	d.Add(c, Rect{200, 200, 10, 10})

	regions := d.Regions()
	if len(regions) != 2 {
		t.Fatalf("regions = %v, want 2", regions)
	}
	if regions[0] != (Rect{0, 0, 80, 20}) {
		t.Errorf("merged = %v, want {0 0 80 20}", regions[0])
	}
	if regions[1] != (Rect{200, 200, 10, 10}) {
		t.Errorf("separate = %v", regions[1])
	}
}

func TestDamageTrackerForget(t *testing.T) {
	a := NewWidget()
	d := NewDamageTracker()
	d.Add(a, Rect{0, 0, 10, 10})
	d.Forget(a)

	if _, ok := d.PendingFor(a); ok {
		t.Error("widget still referenced")
	}
	if d.Len() != 1 || d.Bounds() != (Rect{0, 0, 10, 10}) {
		t.Errorf("area lost: len=%d bounds=%v", d.Len(), d.Bounds())
	}

	// forgetting an unknown widget is harmless
	d.Forget(NewWidget())
	if d.Len() != 1 {
		t.Errorf("Len = %d, want 1", d.Len())
	}

	d.Reset()
	if !d.Empty() {
		t.Error("Reset left damage behind")
	}
}

func TestRepaintRequestsAreIdempotentPerWidget(t *testing.T) {
	win, _ := flushedWindow(200, 100)
	p := newProbe("p", 10, 10, 20, 20)
	win.MustAddChild(p)
	win.Damage().Reset()

	p.RequestRepaint()
	p.RequestRepaint()
	if win.Damage().Len() != 1 {
		t.Fatalf("damage len = %d, want 1", win.Damage().Len())
	}
	if r, _ := win.Damage().PendingFor(&p.Widget); r != (Rect{10, 10, 20, 20}) {
		t.Errorf("pending = %v", r)
	}
}

func TestRepaintIgnoredWhenNotVisible(t *testing.T) {
	win, _ := flushedWindow(200, 100)
	p := newProbe("p", 10, 10, 20, 20)

	p.RequestRepaint()
	win.RequestRepaint(p)
	if !win.Damage().Empty() {
		t.Error("detached widget produced damage")
	}

	win.MustAddChild(p)
	p.SetVisible(false)
	win.Damage().Reset()
	p.RequestRepaint()
	if !win.Damage().Empty() {
		t.Error("hidden widget produced damage")
	}
}

func TestRepaintOffsetByTitleBar(t *testing.T) {
	s := &recordingSurface{}
	win := NewWindow(s, WindowOptions{Width: 200, Height: 100, TitleBarHeight: 24})
	_ = win.Paint(false)
	p := newProbe("p", 10, 10, 20, 20)
	win.MustAddChild(p)
	win.Damage().Reset()

	p.RequestRepaint()
	if got := win.Damage().Bounds(); got != (Rect{10, 34, 20, 20}) {
		t.Errorf("damage = %v, want {10 34 20 20}", got)
	}
}
