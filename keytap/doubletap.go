package keytap

import "time"

// modifierNames are the keys whose concurrent hold vetoes a tap.
var modifierNames = map[string]bool{
	"shift": true,
	"ctrl":  true,
	"alt":   true,
	"cmd":   true,
}

// Detector recognizes a double tap of a single key: two qualifying taps
// within the window, measured release to release. A qualifying tap is a Down
// immediately followed by an Up of the watched key with no other modifier
// held. Any event for a different key, or any other modifier held during the
// tap, invalidates the gesture.
//
// Timing is taken from the raw event timestamps, not from wall-clock reads
// in the consumer, so scheduling jitter cannot widen or shrink the window.
type Detector struct {
	key      string
	window   time.Duration
	isActive func() bool

	held        map[string]bool
	pendingDown bool
	haveTap     bool
	lastTap     time.Time
}

// NewDetector watches key (e.g. "shift"). isActive reports whether a
// dictation session is currently recording; it decides whether a recognized
// gesture means Start or Stop.
func NewDetector(key string, window time.Duration, isActive func() bool) *Detector {
	return &Detector{
		key:      key,
		window:   window,
		isActive: isActive,
		held:     make(map[string]bool),
	}
}

// OnKeyEvent consumes one raw key transition and reports a Toggle when the
// gesture completes. Not safe for concurrent use; feed it from a single
// event loop.
func (d *Detector) OnKeyEvent(ev KeyEvent) (Toggle, bool) {
	if ev.Key != d.key {
		if modifierNames[ev.Key] {
			switch ev.Transition {
			case Down:
				d.held[ev.Key] = true
			case Up:
				delete(d.held, ev.Key)
			}
		}
		// Foreign key activity breaks the gesture either way.
		d.invalidate()
		return 0, false
	}

	switch ev.Transition {
	case Down:
		if len(d.held) > 0 {
			d.invalidate()
			return 0, false
		}
		d.pendingDown = true

	case Up:
		if !d.pendingDown {
			return 0, false
		}
		d.pendingDown = false
		if len(d.held) > 0 {
			d.haveTap = false
			return 0, false
		}
		if d.haveTap && ev.At.Sub(d.lastTap) <= d.window {
			d.haveTap = false
			if d.isActive() {
				return ToggleStop, true
			}
			return ToggleStart, true
		}
		d.haveTap = true
		d.lastTap = ev.At
	}
	return 0, false
}

func (d *Detector) invalidate() {
	d.pendingDown = false
	d.haveTap = false
}
