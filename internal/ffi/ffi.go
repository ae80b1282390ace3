//go:build darwin || linux || freebsd || windows

// Package ffi binds the native surface renderer library via purego.
// No cgo is involved; the library is located and opened at runtime.
package ffi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/agiangrant/formkit/retained"
)

// logger shares the engine's level, so retained.SetLogLevel covers loading.
var logger = retained.Logger().With("component", "ffi")

// LibraryEnv names the environment variable that overrides the library path.
const LibraryEnv = "FORMKIT_SURFACE_LIB"

var (
	// ErrNotLoaded is returned by calls made before Load succeeded.
	ErrNotLoaded = errors.New("ffi: surface library not loaded")

	// ErrSubmit is returned when the renderer rejects a command batch.
	ErrSubmit = errors.New("ffi: submit failed")
)

// ============================================================================
// Library Loading
// ============================================================================

var (
	libHandle uintptr
	libOnce   sync.Once
	libErr    error
	loaded    bool
)

// Library function pointers (populated by Load)
var (
	fnSurfaceCreate  func(width, height uint32, scale float32) uint64
	fnSurfaceDestroy func(id uint64)
	fnSurfaceResize  func(id uint64, width, height uint32) int32
	fnSurfaceSubmit  func(id uint64, buf uintptr, length uintptr) int32
	fnSurfacePoll    func(id uint64, out uintptr) int32

	// Optional
	fnSurfaceSetCursor func(id uint64, kind uint32) int32
	fnMeasureText      func(text uintptr, family uintptr, size float32, out uintptr) int32
)

func libraryName() string {
	switch runtime.GOOS {
	case "darwin":
		return "libformkit_surface.dylib"
	case "windows":
		return "formkit_surface.dll"
	default:
		return "libformkit_surface.so"
	}
}

// LibraryPath resolves the renderer library location. An explicit path wins,
// then the environment override, then the usual development locations. When
// nothing is found the bare library name is returned for the system loader.
func LibraryPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if path := os.Getenv(LibraryEnv); path != "" {
		return path
	}

	libName := libraryName()
	searchPaths := []string{
		libName,
		filepath.Join("renderer", "target", "release", libName),
		filepath.Join("renderer", "target", "debug", libName),
	}
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		searchPaths = append(searchPaths,
			filepath.Join(execDir, libName),
			filepath.Join(execDir, "..", "lib", libName),
		)
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return libName
}

// Load opens the renderer library and registers its entry points. Only the
// first call does any work; later calls return the first result.
func Load(path string) error {
	libOnce.Do(func() {
		libPath := LibraryPath(path)
		logger.Debug("loading surface library", "path", libPath, "os", runtime.GOOS, "arch", runtime.GOARCH)

		libHandle, libErr = openLibrary(libPath)
		if libErr != nil {
			libErr = fmt.Errorf("ffi: load surface library from %s: %w", libPath, libErr)
			logger.Debug("surface library unavailable", "path", libPath, "err", libErr)
			return
		}
		if libErr = registerCoreFunctions(); libErr != nil {
			return
		}
		registerOptionalFunc(&fnSurfaceSetCursor, "formkit_surface_set_cursor")
		registerOptionalFunc(&fnMeasureText, "formkit_measure_text")
		loaded = true
	})
	return libErr
}

// Loaded reports whether Load has succeeded.
func Loaded() bool { return loaded }

func registerCoreFunctions() error {
	for _, name := range []string{
		"formkit_surface_create",
		"formkit_surface_destroy",
		"formkit_surface_resize",
		"formkit_surface_submit",
		"formkit_surface_poll",
	} {
		if _, err := getSymbol(libHandle, name); err != nil {
			return fmt.Errorf("ffi: missing symbol %s: %w", name, err)
		}
	}
	purego.RegisterLibFunc(&fnSurfaceCreate, libHandle, "formkit_surface_create")
	purego.RegisterLibFunc(&fnSurfaceDestroy, libHandle, "formkit_surface_destroy")
	purego.RegisterLibFunc(&fnSurfaceResize, libHandle, "formkit_surface_resize")
	purego.RegisterLibFunc(&fnSurfaceSubmit, libHandle, "formkit_surface_submit")
	purego.RegisterLibFunc(&fnSurfacePoll, libHandle, "formkit_surface_poll")
	return nil
}

// registerOptionalFunc binds fn when the library exports name and leaves it
// nil otherwise.
func registerOptionalFunc[T any](fn *T, name string) {
	addr, err := getSymbol(libHandle, name)
	if err != nil || addr == 0 {
		return
	}
	purego.RegisterFunc(fn, addr)
}

// cString returns a NUL-terminated copy of s. Callers must keep the slice
// alive across the call.
func cString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// ============================================================================
// Surfaces
// ============================================================================

// SurfaceID identifies a renderer-side surface (one per window).
type SurfaceID uint64

// CreateSurface opens a native window surface of the given pixel size.
func CreateSurface(width, height int, scale float32) (SurfaceID, error) {
	if !loaded {
		return 0, ErrNotLoaded
	}
	id := fnSurfaceCreate(uint32(width), uint32(height), scale)
	if id == 0 {
		return 0, fmt.Errorf("ffi: create surface %dx%d failed", width, height)
	}
	return SurfaceID(id), nil
}

// DestroySurface releases a surface. Unknown ids are ignored by the renderer.
func DestroySurface(id SurfaceID) {
	if loaded {
		fnSurfaceDestroy(uint64(id))
	}
}

// ResizeSurface resizes the backing store of a surface.
func ResizeSurface(id SurfaceID, width, height int) error {
	if !loaded {
		return ErrNotLoaded
	}
	if rc := fnSurfaceResize(uint64(id), uint32(width), uint32(height)); rc < 0 {
		return fmt.Errorf("ffi: resize surface %d: code %d", id, rc)
	}
	return nil
}

// Submit hands one encoded frame batch to the renderer.
func Submit(id SurfaceID, batch []byte) error {
	if !loaded {
		return ErrNotLoaded
	}
	if len(batch) == 0 {
		return nil
	}
	rc := fnSurfaceSubmit(uint64(id), uintptr(unsafe.Pointer(&batch[0])), uintptr(len(batch)))
	runtime.KeepAlive(batch)
	if rc < 0 {
		return fmt.Errorf("%w: surface %d code %d", ErrSubmit, id, rc)
	}
	return nil
}

// PollEvent returns the next queued platform event for a surface, if any.
func PollEvent(id SurfaceID) (Event, bool) {
	if !loaded {
		return Event{}, false
	}
	var ev EventC
	if fnSurfacePoll(uint64(id), uintptr(unsafe.Pointer(&ev))) <= 0 {
		return Event{}, false
	}
	return ev.toEvent(), true
}

// SetCursor changes the pointer shape over a surface. It reports false when
// the renderer does not support cursors.
func SetCursor(id SurfaceID, kind uint32) bool {
	if !loaded || fnSurfaceSetCursor == nil {
		return false
	}
	return fnSurfaceSetCursor(uint64(id), kind) >= 0
}

// TextMeasurementC matches the C struct layout for text measurement results.
type TextMeasurementC struct {
	Width   float32
	Height  float32
	Ascent  float32
	Descent float32
}

// MeasureText asks the renderer for text metrics. ok is false when the
// renderer has no text measurement entry point.
func MeasureText(text, family string, size float32) (m TextMeasurementC, ok bool) {
	if !loaded || fnMeasureText == nil {
		return m, false
	}
	textBytes := cString(text)
	familyBytes := cString(family)
	rc := fnMeasureText(
		uintptr(unsafe.Pointer(&textBytes[0])),
		uintptr(unsafe.Pointer(&familyBytes[0])),
		size,
		uintptr(unsafe.Pointer(&m)),
	)
	runtime.KeepAlive(textBytes)
	runtime.KeepAlive(familyBytes)
	return m, rc >= 0
}
