package formkit

import (
	"os"
	"runtime"

	"golang.org/x/term"
)

// Platform represents the current operating system/platform
type Platform string

const (
	PlatformMacOS   Platform = "darwin"
	PlatformLinux   Platform = "linux"
	PlatformFreeBSD Platform = "freebsd"
	PlatformWindows Platform = "windows"
	PlatformUnknown Platform = "unknown"
)

// CurrentPlatform returns the platform the app is running on
func CurrentPlatform() Platform {
	return platformFor(runtime.GOOS)
}

func platformFor(goos string) Platform {
	switch goos {
	case "darwin":
		return PlatformMacOS
	case "linux":
		return PlatformLinux
	case "freebsd":
		return PlatformFreeBSD
	case "windows":
		return PlatformWindows
	default:
		return PlatformUnknown
	}
}

// SupportsNative reports whether the platform can load the renderer library.
func (p Platform) SupportsNative() bool {
	return p != PlatformUnknown
}

// IsTerminal reports whether stdout is attached to a terminal, which the
// terminal backend needs.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
