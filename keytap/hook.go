package keytap

import (
	"fmt"
	"sync"
	"time"

	hook "github.com/robotn/gohook"
)

// hookSource delivers raw key transitions via a global event hook.
type hookSource struct {
	events chan KeyEvent
	stop   chan struct{}
	once   sync.Once
}

// NewHook returns a Source backed by the OS-global keyboard hook.
func NewHook() Source {
	return &hookSource{
		events: make(chan KeyEvent, 16),
		stop:   make(chan struct{}),
	}
}

func (h *hookSource) Register() error {
	raw := hook.Start()

	// The hook signals readiness with a HookEnabled event. If it never
	// arrives the tap could not be installed, which on macOS means the
	// accessibility permission is missing.
	enabled := make(chan struct{}, 1)
	go func() {
		for ev := range raw {
			switch ev.Kind {
			case hook.HookEnabled:
				select {
				case enabled <- struct{}{}:
				default:
				}
			case hook.KeyDown:
				h.emit(KeyEvent{Key: keyName(ev.Rawcode), Transition: Down, At: ev.When})
			case hook.KeyUp:
				h.emit(KeyEvent{Key: keyName(ev.Rawcode), Transition: Up, At: ev.When})
			}
			select {
			case <-h.stop:
				return
			default:
			}
		}
	}()

	select {
	case <-enabled:
		return nil
	case <-time.After(2 * time.Second):
		hook.End()
		return fmt.Errorf("keyboard hook did not start (grant Accessibility permission: System Settings -> Privacy & Security -> Accessibility)")
	}
}

func (h *hookSource) emit(ev KeyEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case h.events <- ev:
	case <-h.stop:
	}
}

func (h *hookSource) Unregister() {
	h.once.Do(func() {
		close(h.stop)
		hook.End()
	})
}

func (h *hookSource) Events() <-chan KeyEvent { return h.events }
