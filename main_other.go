//go:build !linux

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

// Hotkey registration must happen on the main thread on macOS and Windows.
func main() {
	mainthread.Init(run)
}
