package ffi

import "testing"

func TestKeycodeName(t *testing.T) {
	tests := []struct {
		key  Keycode
		want string
	}{
		{KeyA, "a"},
		{KeyZ, "z"},
		{Key0 + 7, "7"},
		{KeyF1, "F1"},
		{KeyF12, "F12"},
		{KeyEnter, "Enter"},
		{KeyBackspace, "Backspace"},
		{KeyLeft, "Left"},
		{KeySpace, " "},
		{KeyUnknown, ""},
	}
	for _, tt := range tests {
		if got := tt.key.Name(); got != tt.want {
			t.Errorf("Keycode(%d).Name() = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestEventCDecode(t *testing.T) {
	c := EventC{
		Type:      uint32(EventImePreedit),
		Modifiers: uint32(ModShift | ModCtrl),
		X:         12.5,
		Char:      'é',
		Width:     640,
	}
	copy(c.Text[:], "かな")

	ev := c.toEvent()
	if ev.Type != EventImePreedit || ev.Modifiers != ModShift|ModCtrl {
		t.Errorf("type=%d mods=%d", ev.Type, ev.Modifiers)
	}
	if ev.Text != "かな" {
		t.Errorf("text = %q, want かな", ev.Text)
	}
	if ev.Char != 'é' || ev.Width != 640 || ev.X != 12.5 {
		t.Errorf("event = %+v", ev)
	}
}
