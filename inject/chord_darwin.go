//go:build darwin

package inject

import "github.com/micmonay/keybd_event"

const vkEnter = keybd_event.VK_RETURN

func pasteChord(kb *keybd_event.KeyBonding) {
	kb.HasSuper(true) // Cmd+V
}
