//go:build darwin || linux || freebsd || windows

package native

import (
	"fmt"

	"github.com/agiangrant/formkit/internal/ffi"
	"github.com/agiangrant/formkit/retained"
)

type libRenderer struct{}

func (libRenderer) Create(width, height int, scale float32) (ffi.SurfaceID, error) {
	return ffi.CreateSurface(width, height, scale)
}

func (libRenderer) Destroy(id ffi.SurfaceID) { ffi.DestroySurface(id) }

func (libRenderer) Resize(id ffi.SurfaceID, width, height int) error {
	return ffi.ResizeSurface(id, width, height)
}

func (libRenderer) Submit(id ffi.SurfaceID, batch []byte) error { return ffi.Submit(id, batch) }

func (libRenderer) Poll(id ffi.SurfaceID) (ffi.Event, bool) { return ffi.PollEvent(id) }

func (libRenderer) SetCursor(id ffi.SurfaceID, kind uint32) bool { return ffi.SetCursor(id, kind) }

func (libRenderer) MeasureText(text, family string, size float32) (ffi.TextMeasurementC, bool) {
	return ffi.MeasureText(text, family, size)
}

// Open loads the renderer library and creates a surface for one window.
func Open(opts Options) (*Surface, error) {
	opts = opts.withDefaults()
	if err := ffi.Load(opts.Library); err != nil {
		return nil, fmt.Errorf("native: %w", err)
	}
	return newSurface(libRenderer{}, opts)
}

// Available reports whether the renderer library can be loaded.
func Available(library string) bool {
	if err := ffi.Load(library); err != nil {
		retained.Logger().Debug("native renderer unavailable", "err", err)
		return false
	}
	return true
}
