// Package keytap watches raw system-wide key transitions and recognizes
// the double-tap activation gesture.
package keytap

import "time"

// Transition is the direction of a key edge.
type Transition int

const (
	Down Transition = iota
	Up
)

// KeyEvent is a single raw key transition. Key is a normalized name for
// modifier keys ("shift", "ctrl", "alt", "cmd" — left and right variants
// collapse to one name) and an opaque per-keycode identifier otherwise.
type KeyEvent struct {
	Key        string
	Transition Transition
	At         time.Time
}

// Source delivers every key transition system-wide. Acquiring it typically
// needs elevated accessibility permission; Register reports that failure.
type Source interface {
	Register() error
	Unregister()
	Events() <-chan KeyEvent
}

// Toggle is the activation signal emitted by the Detector.
type Toggle int

const (
	ToggleStart Toggle = iota + 1
	ToggleStop
)

func (t Toggle) String() string {
	if t == ToggleStart {
		return "start"
	}
	return "stop"
}
