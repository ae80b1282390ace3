//go:build darwin || linux || freebsd

package ffi

import "github.com/ebitengine/purego"

// The renderer's symbols stay private to this package; nothing else in the
// process should resolve against them.
func openLibrary(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_LAZY|purego.RTLD_LOCAL)
}

func getSymbol(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}
