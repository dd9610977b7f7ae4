// Package inject delivers transcribed text into the focused application as
// synthetic keyboard input. The default path copies the text to the system
// clipboard and sends the platform paste chord; "type" mode emits
// per-character keystrokes and falls back to pasting when the text contains
// characters with no key mapping.
package inject

import (
	"fmt"
	"sync"
	"time"

	cb "github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

type Injector interface {
	Inject(text string) error
}

type Options struct {
	Mode       string // "paste" (default) or "type"
	AutoSubmit bool   // press Enter after each injection
	Overrides  map[string]string
}

// Keyboard injects via synthetic key events. Safe for use from a single
// goroutine; the dispatcher serializes injections by construction.
type Keyboard struct {
	rew        *Rewriter
	mode       string
	autoSubmit bool

	kbOnce sync.Once
	kb     keybd_event.KeyBonding
	kbErr  error
}

func New(opts Options) (*Keyboard, error) {
	switch opts.Mode {
	case "", "paste", "type":
	default:
		return nil, fmt.Errorf("unknown inject mode %q (use paste or type)", opts.Mode)
	}
	return &Keyboard{
		rew:        NewRewriter(opts.Overrides),
		mode:       opts.Mode,
		autoSubmit: opts.AutoSubmit,
	}, nil
}

func (k *Keyboard) bonding() (*keybd_event.KeyBonding, error) {
	k.kbOnce.Do(func() {
		k.kb, k.kbErr = keybd_event.NewKeyBonding()
	})
	if k.kbErr != nil {
		return nil, k.kbErr
	}
	return &k.kb, nil
}

func (k *Keyboard) Inject(text string) error {
	out := k.rew.Apply(text)
	if out == "" {
		return nil
	}

	var err error
	if k.mode == "type" && typeable(out) {
		err = k.typeText(out)
	} else {
		err = k.paste(out)
	}
	if err != nil {
		return err
	}

	if k.autoSubmit {
		time.Sleep(50 * time.Millisecond)
		return k.pressEnter()
	}
	return nil
}

func (k *Keyboard) paste(text string) error {
	if err := cb.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	// Let the clipboard owner settle before the chord lands.
	time.Sleep(50 * time.Millisecond)

	kb, err := k.bonding()
	if err != nil {
		return err
	}
	kb.Clear()
	kb.SetKeys(keybd_event.VK_V)
	pasteChord(kb)
	return kb.Launching()
}

func (k *Keyboard) typeText(text string) error {
	kb, err := k.bonding()
	if err != nil {
		return err
	}
	for _, r := range text {
		code, shift, ok := charVK(r)
		if !ok {
			continue
		}
		kb.Clear()
		kb.SetKeys(code)
		kb.HasSHIFT(shift)
		if err := kb.Launching(); err != nil {
			return err
		}
	}
	return nil
}

func (k *Keyboard) pressEnter() error {
	kb, err := k.bonding()
	if err != nil {
		return err
	}
	kb.Clear()
	kb.SetKeys(vkEnter)
	return kb.Launching()
}
