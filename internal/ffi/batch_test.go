package ffi

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestBatchWireLayout(t *testing.T) {
	b := NewBatch()
	b.FillRect(1, 2, 3, 4, 0x112233FF)
	data := b.Bytes()

	if len(data) != 4+6+20 {
		t.Fatalf("len = %d, want 30", len(data))
	}
	if got := binary.LittleEndian.Uint32(data[0:4]); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
	if got := CommandType(binary.LittleEndian.Uint16(data[4:6])); got != CmdFillRect {
		t.Errorf("cmd = %#x, want %#x", got, CmdFillRect)
	}
	if got := binary.LittleEndian.Uint32(data[6:10]); got != 20 {
		t.Errorf("payload len = %d, want 20", got)
	}
	if got := binary.LittleEndian.Uint32(data[26:30]); got != 0x112233FF {
		t.Errorf("color = %#x", got)
	}
}

func TestBatchCommands(t *testing.T) {
	tests := []struct {
		name  string
		emit  func(b *Batch)
		want  CommandType
		check func(t *testing.T, c Command)
	}{
		{
			name: "stroke rect",
			emit: func(b *Batch) { b.StrokeRect(10, 20, 30, 40, 0xFF, 2) },
			want: CmdStrokeRect,
			check: func(t *testing.T, c Command) {
				if c.Int(0) != 10 || c.Int(3) != 40 || c.Uint32(4) != 0xFF || c.Int(5) != 2 {
					t.Errorf("payload = %v", c.Payload)
				}
			},
		},
		{
			name: "rounded rect",
			emit: func(b *Batch) { b.FillRoundedRect(0, 0, 8, 8, 3, 0xABCDEF01) },
			want: CmdFillRoundedRect,
			check: func(t *testing.T, c Command) {
				if c.Int(4) != 3 || c.Uint32(5) != 0xABCDEF01 {
					t.Errorf("radius=%d color=%#x", c.Int(4), c.Uint32(5))
				}
			},
		},
		{
			name: "negative coordinates survive",
			emit: func(b *Batch) { b.DrawLine(-5, -1, 7, 9, 0, 1) },
			want: CmdDrawLine,
			check: func(t *testing.T, c Command) {
				if c.Int(0) != -5 || c.Int(1) != -1 {
					t.Errorf("from = (%d,%d), want (-5,-1)", c.Int(0), c.Int(1))
				}
			},
		},
		{
			name: "text",
			emit: func(b *Batch) { b.DrawText(4, 5, "héllo", "mono", 14, TextBold, 0x000000FF) },
			want: CmdDrawText,
			check: func(t *testing.T, c Command) {
				if c.Int(0) != 4 || c.Int(1) != 5 || c.Float32(3) != 14 || c.Uint32(4) != TextBold {
					t.Errorf("header fields = %v", c.Payload[:20])
				}
				family, off := c.Str(20)
				text, end := c.Str(off)
				if family != "mono" || text != "héllo" {
					t.Errorf("family=%q text=%q", family, text)
				}
				if end != len(c.Payload) {
					t.Errorf("trailing bytes: end=%d len=%d", end, len(c.Payload))
				}
			},
		},
		{
			name: "image",
			emit: func(b *Batch) { b.DrawImage(0, 0, 16, 16, "icons/save.png") },
			want: CmdDrawImage,
			check: func(t *testing.T, c Command) {
				if src, _ := c.Str(16); src != "icons/save.png" {
					t.Errorf("source = %q", src)
				}
			},
		},
		{
			name: "pop clip has no payload",
			emit: func(b *Batch) { b.PopClip() },
			want: CmdPopClip,
			check: func(t *testing.T, c Command) {
				if len(c.Payload) != 0 {
					t.Errorf("payload = %v", c.Payload)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBatch()
			tt.emit(b)
			cmds, err := DecodeBatch(b.Bytes())
			if err != nil {
				t.Fatal(err)
			}
			if len(cmds) != 1 || cmds[0].Type != tt.want {
				t.Fatalf("cmds = %+v", cmds)
			}
			tt.check(t, cmds[0])
		})
	}
}

func TestBatchResetReusesBuffer(t *testing.T) {
	b := NewBatch()
	b.PushClip(0, 0, 10, 10)
	b.FillRect(0, 0, 10, 10, 0)
	b.PopClip()
	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3", b.Len())
	}
	b.Reset()
	if b.Len() != 0 || len(b.Bytes()) != 4 {
		t.Errorf("after reset: len=%d bytes=%d", b.Len(), len(b.Bytes()))
	}
	cmds, err := DecodeBatch(b.Bytes())
	if err != nil || len(cmds) != 0 {
		t.Errorf("empty batch decoded to %v, %v", cmds, err)
	}
}

func TestDecodeBatchTruncated(t *testing.T) {
	b := NewBatch()
	b.FillRect(1, 2, 3, 4, 5)
	full := append([]byte(nil), b.Bytes()...)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"header cut", full[:7]},
		{"payload cut", full[:len(full)-1]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeBatch(tt.data); !errors.Is(err, ErrTruncated) {
				t.Errorf("err = %v, want ErrTruncated", err)
			}
		})
	}
}

func BenchmarkBatchFrame(b *testing.B) {
	batch := NewBatch()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		batch.Reset()
		for j := 0; j < 64; j++ {
			batch.PushClip(j, j, 100, 20)
			batch.FillRect(j, j, 100, 20, 0xEEEEEEFF)
			batch.DrawText(j+4, j+2, "button label", "system", 14, 0, 0x000000FF)
			batch.PopClip()
		}
		_ = batch.Bytes()
	}
}
