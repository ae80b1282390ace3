package retained

// Font describes a typeface request. Shaping is the surface's business.
type Font struct {
	Family string
	Size   int
	Bold   bool
	Italic bool
}

var defaultFont = &Font{Family: "system", Size: 14}

// DefaultFont returns the process-wide fallback font.
func DefaultFont() *Font {
	return defaultFont
}

// SetDefaultFont replaces the process-wide fallback font. Must be called from
// the pump thread (or before the pump starts).
func SetDefaultFont(f *Font) {
	if f != nil {
		defaultFont = f
	}
}

// scaled returns a copy of f with its size converted between DPIs.
func (f *Font) scaled(from, to int) *Font {
	c := *f
	c.Size = ScaleIntRound(f.Size, from, to)
	return &c
}
