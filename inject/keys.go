package inject

import "github.com/micmonay/keybd_event"

var letterVK = map[rune]int{
	'a': keybd_event.VK_A, 'b': keybd_event.VK_B, 'c': keybd_event.VK_C,
	'd': keybd_event.VK_D, 'e': keybd_event.VK_E, 'f': keybd_event.VK_F,
	'g': keybd_event.VK_G, 'h': keybd_event.VK_H, 'i': keybd_event.VK_I,
	'j': keybd_event.VK_J, 'k': keybd_event.VK_K, 'l': keybd_event.VK_L,
	'm': keybd_event.VK_M, 'n': keybd_event.VK_N, 'o': keybd_event.VK_O,
	'p': keybd_event.VK_P, 'q': keybd_event.VK_Q, 'r': keybd_event.VK_R,
	's': keybd_event.VK_S, 't': keybd_event.VK_T, 'u': keybd_event.VK_U,
	'v': keybd_event.VK_V, 'w': keybd_event.VK_W, 'x': keybd_event.VK_X,
	'y': keybd_event.VK_Y, 'z': keybd_event.VK_Z,
}

var digitVK = map[rune]int{
	'0': keybd_event.VK_0, '1': keybd_event.VK_1, '2': keybd_event.VK_2,
	'3': keybd_event.VK_3, '4': keybd_event.VK_4, '5': keybd_event.VK_5,
	'6': keybd_event.VK_6, '7': keybd_event.VK_7, '8': keybd_event.VK_8,
	'9': keybd_event.VK_9,
}

// charVK maps a rune to a virtual key code. Uppercase letters map to the
// lowercase key with shift held. Punctuation key positions are layout
// dependent, so anything beyond letters, digits and whitespace reports
// unmappable and the caller pastes instead.
func charVK(r rune) (code int, shift bool, ok bool) {
	if r >= 'a' && r <= 'z' {
		return letterVK[r], false, true
	}
	if r >= 'A' && r <= 'Z' {
		return letterVK[r+('a'-'A')], true, true
	}
	if r >= '0' && r <= '9' {
		return digitVK[r], false, true
	}
	switch r {
	case ' ':
		return keybd_event.VK_SPACE, false, true
	case '\n':
		return vkEnter, false, true
	}
	return 0, false, false
}

// typeable reports whether every rune of text has a key mapping. A trailing
// space never decides the path; it is always mappable.
func typeable(text string) bool {
	for _, r := range text {
		if _, _, ok := charVK(r); !ok {
			return false
		}
	}
	return true
}
