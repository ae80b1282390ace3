//go:build windows

package ffi

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// rendererDLL is kept so symbol lookups go through FindProc instead of raw
// GetProcAddress on the handle.
var rendererDLL *windows.DLL

func openLibrary(path string) (uintptr, error) {
	dll, err := windows.LoadDLL(path)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	rendererDLL = dll
	return uintptr(dll.Handle), nil
}

// getSymbol ignores the handle; there is only one renderer DLL.
func getSymbol(_ uintptr, name string) (uintptr, error) {
	if rendererDLL == nil {
		return 0, ErrNotLoaded
	}
	proc, err := rendererDLL.FindProc(name)
	if err != nil {
		return 0, fmt.Errorf("symbol %s: %w", name, err)
	}
	return proc.Addr(), nil
}
