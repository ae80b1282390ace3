package native

import "github.com/agiangrant/formkit/internal/ffi"

// renderer is the slice of the renderer library a Surface and Source use.
// The library-backed implementation lives in lib.go.
type renderer interface {
	Create(width, height int, scale float32) (ffi.SurfaceID, error)
	Destroy(id ffi.SurfaceID)
	Resize(id ffi.SurfaceID, width, height int) error
	Submit(id ffi.SurfaceID, batch []byte) error
	Poll(id ffi.SurfaceID) (ffi.Event, bool)
	SetCursor(id ffi.SurfaceID, kind uint32) bool
	MeasureText(text, family string, size float32) (ffi.TextMeasurementC, bool)
}
