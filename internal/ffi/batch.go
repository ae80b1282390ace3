package ffi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ============================================================================
// Render Commands
// ============================================================================

// CommandType identifies one render command in a frame batch.
// These must match the renderer side exactly.
type CommandType uint16

const (
	CmdFillRect        CommandType = 0x0200
	CmdStrokeRect      CommandType = 0x0201
	CmdFillRoundedRect CommandType = 0x0202
	CmdDrawLine        CommandType = 0x0203
	CmdDrawText        CommandType = 0x0204
	CmdDrawImage       CommandType = 0x0205
	CmdPushClip        CommandType = 0x0210
	CmdPopClip         CommandType = 0x0211
)

// Text style flags carried by CmdDrawText
const (
	TextBold   uint32 = 1 << 0
	TextItalic uint32 = 1 << 1
)

// ErrTruncated is returned when decoding a batch that ends early.
var ErrTruncated = errors.New("ffi: batch truncated")

// Batch accumulates render commands for one frame.
//
// Wire format: count(4) + [cmd(2) + payloadLen(4) + payload]..., all
// little-endian. Coordinates are int32, colours are RGBA uint32, strings are
// length-prefixed.
type Batch struct {
	buf   []byte
	count uint32
}

// NewBatch returns an empty batch with some capacity preallocated.
func NewBatch() *Batch {
	return &Batch{buf: make([]byte, 4, 4096)}
}

// Reset empties the batch, keeping its buffer.
func (b *Batch) Reset() {
	b.buf = b.buf[:4]
	b.count = 0
}

// Len returns the number of commands in the batch.
func (b *Batch) Len() int { return int(b.count) }

// Bytes returns the encoded batch. The slice is reused by the next Reset.
func (b *Batch) Bytes() []byte {
	binary.LittleEndian.PutUint32(b.buf[0:4], b.count)
	return b.buf
}

// begin writes a command header and returns the offset of the length field.
func (b *Batch) begin(cmd CommandType) int {
	b.count++
	b.buf = binary.LittleEndian.AppendUint16(b.buf, uint16(cmd))
	at := len(b.buf)
	b.buf = append(b.buf, 0, 0, 0, 0)
	return at
}

func (b *Batch) end(at int) {
	binary.LittleEndian.PutUint32(b.buf[at:at+4], uint32(len(b.buf)-at-4))
}

func (b *Batch) putInt(v int) {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(int32(v)))
}

func (b *Batch) putUint32(v uint32) {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, v)
}

func (b *Batch) putFloat32(v float32) {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, math.Float32bits(v))
}

func (b *Batch) putString(s string) {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(len(s)))
	b.buf = append(b.buf, s...)
}

func (b *Batch) putRect(x, y, w, h int) {
	b.putInt(x)
	b.putInt(y)
	b.putInt(w)
	b.putInt(h)
}

func (b *Batch) FillRect(x, y, w, h int, color uint32) {
	at := b.begin(CmdFillRect)
	b.putRect(x, y, w, h)
	b.putUint32(color)
	b.end(at)
}

func (b *Batch) StrokeRect(x, y, w, h int, color uint32, width int) {
	at := b.begin(CmdStrokeRect)
	b.putRect(x, y, w, h)
	b.putUint32(color)
	b.putInt(width)
	b.end(at)
}

func (b *Batch) FillRoundedRect(x, y, w, h, radius int, color uint32) {
	at := b.begin(CmdFillRoundedRect)
	b.putRect(x, y, w, h)
	b.putInt(radius)
	b.putUint32(color)
	b.end(at)
}

func (b *Batch) DrawLine(x1, y1, x2, y2 int, color uint32, width int) {
	at := b.begin(CmdDrawLine)
	b.putRect(x1, y1, x2, y2)
	b.putUint32(color)
	b.putInt(width)
	b.end(at)
}

// DrawText encodes a text run at a baseline-agnostic top-left origin.
func (b *Batch) DrawText(x, y int, text, family string, size float32, flags, color uint32) {
	at := b.begin(CmdDrawText)
	b.putInt(x)
	b.putInt(y)
	b.putUint32(color)
	b.putFloat32(size)
	b.putUint32(flags)
	b.putString(family)
	b.putString(text)
	b.end(at)
}

func (b *Batch) DrawImage(x, y, w, h int, source string) {
	at := b.begin(CmdDrawImage)
	b.putRect(x, y, w, h)
	b.putString(source)
	b.end(at)
}

func (b *Batch) PushClip(x, y, w, h int) {
	at := b.begin(CmdPushClip)
	b.putRect(x, y, w, h)
	b.end(at)
}

func (b *Batch) PopClip() {
	b.end(b.begin(CmdPopClip))
}

// ============================================================================
// Decoding
// ============================================================================

// Command is one decoded batch entry. Payload aliases the batch buffer.
type Command struct {
	Type    CommandType
	Payload []byte
}

// DecodeBatch splits an encoded batch into its commands.
func DecodeBatch(data []byte) ([]Command, error) {
	if len(data) < 4 {
		return nil, ErrTruncated
	}
	count := int(binary.LittleEndian.Uint32(data[0:4]))
	offset := 4
	cmds := make([]Command, 0, min(count, len(data)/6))
	for i := 0; i < count; i++ {
		if offset+6 > len(data) {
			return nil, fmt.Errorf("%w: header of command %d", ErrTruncated, i)
		}
		cmd := CommandType(binary.LittleEndian.Uint16(data[offset : offset+2]))
		n := int(binary.LittleEndian.Uint32(data[offset+2 : offset+6]))
		offset += 6
		if offset+n > len(data) {
			return nil, fmt.Errorf("%w: payload of command %d", ErrTruncated, i)
		}
		cmds = append(cmds, Command{Type: cmd, Payload: data[offset : offset+n]})
		offset += n
	}
	return cmds, nil
}

// Int reads the i'th int32 field of a payload.
func (c Command) Int(i int) int {
	return int(int32(binary.LittleEndian.Uint32(c.Payload[i*4:])))
}

// Uint32 reads the i'th uint32 field of a payload.
func (c Command) Uint32(i int) uint32 {
	return binary.LittleEndian.Uint32(c.Payload[i*4:])
}

// Float32 reads the i'th float32 field of a payload.
func (c Command) Float32(i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(c.Payload[i*4:]))
}

// Str reads a length-prefixed string at byte offset off and returns it with
// the offset just past it.
func (c Command) Str(off int) (string, int) {
	n := int(binary.LittleEndian.Uint32(c.Payload[off:]))
	return string(c.Payload[off+4 : off+4+n]), off + 4 + n
}
