package keytap

import (
	"testing"
	"time"
)

const testWindow = 400 * time.Millisecond

func tapAt(d *Detector, key string, at time.Time) (Toggle, bool) {
	if _, ok := d.OnKeyEvent(KeyEvent{Key: key, Transition: Down, At: at}); ok {
		panic("toggle fired on key down")
	}
	return d.OnKeyEvent(KeyEvent{Key: key, Transition: Up, At: at.Add(20 * time.Millisecond)})
}

func TestDoubleTapWithinWindowStarts(t *testing.T) {
	d := NewDetector("shift", testWindow, func() bool { return false })
	t0 := time.Now()

	if _, ok := tapAt(d, "shift", t0); ok {
		t.Fatal("single tap should not toggle")
	}
	tg, ok := tapAt(d, "shift", t0.Add(220*time.Millisecond))
	if !ok || tg != ToggleStart {
		t.Fatalf("expected ToggleStart, got %v ok=%v", tg, ok)
	}
}

func TestDoubleTapWhileActiveStops(t *testing.T) {
	d := NewDetector("shift", testWindow, func() bool { return true })
	t0 := time.Now()
	tapAt(d, "shift", t0)
	tg, ok := tapAt(d, "shift", t0.Add(100*time.Millisecond))
	if !ok || tg != ToggleStop {
		t.Fatalf("expected ToggleStop, got %v ok=%v", tg, ok)
	}
}

func TestExactWindowBoundaryToggles(t *testing.T) {
	d := NewDetector("shift", testWindow, func() bool { return false })
	t0 := time.Now()
	// First tap releases at t0+20ms; second release lands exactly window later.
	tapAt(d, "shift", t0)
	firstRelease := t0.Add(20 * time.Millisecond)
	d.OnKeyEvent(KeyEvent{Key: "shift", Transition: Down, At: firstRelease.Add(testWindow - time.Millisecond)})
	if _, ok := d.OnKeyEvent(KeyEvent{Key: "shift", Transition: Up, At: firstRelease.Add(testWindow)}); !ok {
		t.Fatal("tap gap of exactly the window must toggle")
	}
}

func TestBeyondWindowDoesNotToggle(t *testing.T) {
	d := NewDetector("shift", testWindow, func() bool { return false })
	t0 := time.Now()
	tapAt(d, "shift", t0)
	if _, ok := tapAt(d, "shift", t0.Add(testWindow+100*time.Millisecond)); ok {
		t.Fatal("tap gap beyond the window must not toggle")
	}
}

func TestSlowTapResetsAsNewFirstTap(t *testing.T) {
	d := NewDetector("shift", testWindow, func() bool { return false })
	t0 := time.Now()
	tapAt(d, "shift", t0)
	// Too slow — becomes the new first tap.
	tapAt(d, "shift", t0.Add(time.Second))
	// Quick follow-up now completes the gesture.
	if _, ok := tapAt(d, "shift", t0.Add(time.Second+200*time.Millisecond)); !ok {
		t.Fatal("expected toggle after reset tap plus quick tap")
	}
}

func TestOtherKeyInvalidatesPendingTap(t *testing.T) {
	d := NewDetector("shift", testWindow, func() bool { return false })
	t0 := time.Now()
	tapAt(d, "shift", t0)
	tapAt(d, "key30", t0.Add(50*time.Millisecond))
	if _, ok := tapAt(d, "shift", t0.Add(150*time.Millisecond)); ok {
		t.Fatal("intervening key must invalidate the pending tap")
	}
}

func TestHeldModifierVetoesTap(t *testing.T) {
	d := NewDetector("shift", testWindow, func() bool { return false })
	t0 := time.Now()
	d.OnKeyEvent(KeyEvent{Key: "ctrl", Transition: Down, At: t0})

	// Ctrl held across both taps: nothing may fire.
	if _, ok := tapAt(d, "shift", t0.Add(10*time.Millisecond)); ok {
		t.Fatal("tap with ctrl held must not count")
	}
	if _, ok := tapAt(d, "shift", t0.Add(120*time.Millisecond)); ok {
		t.Fatal("second tap with ctrl held must not toggle")
	}

	d.OnKeyEvent(KeyEvent{Key: "ctrl", Transition: Up, At: t0.Add(200 * time.Millisecond)})

	// With ctrl released the gesture works again, from scratch.
	tapAt(d, "shift", t0.Add(300*time.Millisecond))
	if _, ok := tapAt(d, "shift", t0.Add(400*time.Millisecond)); !ok {
		t.Fatal("expected toggle after modifier released")
	}
}

func TestModifierPressedMidTapInvalidates(t *testing.T) {
	d := NewDetector("shift", testWindow, func() bool { return false })
	t0 := time.Now()
	tapAt(d, "shift", t0)
	// Cmd pressed between the taps.
	d.OnKeyEvent(KeyEvent{Key: "cmd", Transition: Down, At: t0.Add(50 * time.Millisecond)})
	d.OnKeyEvent(KeyEvent{Key: "cmd", Transition: Up, At: t0.Add(80 * time.Millisecond)})
	if _, ok := tapAt(d, "shift", t0.Add(150*time.Millisecond)); ok {
		t.Fatal("modifier press between taps must invalidate")
	}
}

func TestUpWithoutDownIgnored(t *testing.T) {
	d := NewDetector("shift", testWindow, func() bool { return false })
	t0 := time.Now()
	if _, ok := d.OnKeyEvent(KeyEvent{Key: "shift", Transition: Up, At: t0}); ok {
		t.Fatal("stray key-up must not count as a tap")
	}
	// And it must not have primed a tap either.
	if _, ok := d.OnKeyEvent(KeyEvent{Key: "shift", Transition: Up, At: t0.Add(100 * time.Millisecond)}); ok {
		t.Fatal("two stray key-ups must not toggle")
	}
}

func TestTripleTapFiresOnce(t *testing.T) {
	d := NewDetector("shift", testWindow, func() bool { return false })
	t0 := time.Now()
	tapAt(d, "shift", t0)
	if _, ok := tapAt(d, "shift", t0.Add(100*time.Millisecond)); !ok {
		t.Fatal("second tap should toggle")
	}
	// Third tap starts a fresh gesture rather than re-firing.
	if _, ok := tapAt(d, "shift", t0.Add(200*time.Millisecond)); ok {
		t.Fatal("third tap must not toggle again")
	}
}
