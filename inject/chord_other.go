//go:build !darwin

package inject

import "github.com/micmonay/keybd_event"

const vkEnter = keybd_event.VK_ENTER

func pasteChord(kb *keybd_event.KeyBonding) {
	kb.HasCTRL(true)
}
