package keytap

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// Combo is the fallback activation path: a registered modifier+key hotkey
// whose keydown toggles the session, for setups where the raw keyboard hook
// cannot be granted. Only ctrl/shift modifiers are accepted because they are
// the ones defined on every supported platform.
type Combo struct {
	hk      *hotkey.Hotkey
	toggles chan struct{}
	stop    chan struct{}
}

var comboKeys = map[string]hotkey.Key{
	"space": hotkey.KeySpace,
	"a":     hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
}

// NewCombo parses a spec like "ctrl+shift+space".
func NewCombo(spec string) (*Combo, error) {
	var mods []hotkey.Modifier
	var key hotkey.Key
	haveKey := false

	for _, part := range strings.Split(strings.ToLower(strings.ReplaceAll(spec, " ", "")), "+") {
		switch part {
		case "ctrl", "control":
			mods = append(mods, hotkey.ModCtrl)
		case "shift":
			mods = append(mods, hotkey.ModShift)
		default:
			k, ok := comboKeys[part]
			if !ok {
				return nil, fmt.Errorf("unsupported key %q in shortcut %q", part, spec)
			}
			key = k
			haveKey = true
		}
	}
	if !haveKey {
		return nil, fmt.Errorf("shortcut %q has no non-modifier key", spec)
	}
	return &Combo{
		hk:      hotkey.New(mods, key),
		toggles: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}, nil
}

func (c *Combo) Register() error {
	if err := c.hk.Register(); err != nil {
		return fmt.Errorf("registering shortcut: %w", err)
	}
	go func() {
		for {
			select {
			case <-c.hk.Keydown():
				select {
				case c.toggles <- struct{}{}:
				default:
				}
			case <-c.stop:
				return
			}
		}
	}()
	return nil
}

func (c *Combo) Unregister() {
	close(c.stop)
	c.hk.Unregister()
}

// Toggles fires once per hotkey press.
func (c *Combo) Toggles() <-chan struct{} { return c.toggles }
