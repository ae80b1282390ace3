//go:build !(darwin || linux || freebsd || windows)

package native

import "errors"

// ErrUnsupported is returned on platforms without a renderer library loader.
var ErrUnsupported = errors.New("native: renderer library not supported on this platform")

func Open(Options) (*Surface, error) { return nil, ErrUnsupported }

func Available(string) bool { return false }
