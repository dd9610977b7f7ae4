package keytap

import (
	"runtime"
	"strconv"
)

// Per-platform raw keycodes for the modifier keys, left and right variants.
// Darwin codes come from Carbon Events.h, Linux from input-event-codes.h,
// Windows from winuser.h virtual keys.
var modifierCodes = func() map[uint16]string {
	switch runtime.GOOS {
	case "darwin":
		return map[uint16]string{
			56: "shift", 60: "shift",
			55: "cmd", 54: "cmd",
			58: "alt", 61: "alt",
			59: "ctrl", 62: "ctrl",
		}
	case "windows":
		return map[uint16]string{
			160: "shift", 161: "shift",
			162: "ctrl", 163: "ctrl",
			164: "alt", 165: "alt",
			91: "cmd", 92: "cmd",
		}
	default: // linux evdev
		return map[uint16]string{
			42: "shift", 54: "shift",
			29: "ctrl", 97: "ctrl",
			56: "alt", 100: "alt",
			125: "cmd", 126: "cmd",
		}
	}
}()

// keyName normalizes a raw keycode: modifiers get their logical name, every
// other key gets a distinct opaque identifier. The detector only needs
// identity for non-modifiers, not semantics.
func keyName(rawcode uint16) string {
	if name, ok := modifierCodes[rawcode]; ok {
		return name
	}
	return "key" + strconv.Itoa(int(rawcode))
}
