package dispatch

import (
	"errors"
	"testing"
	"time"

	"murmur/transcriber"
	"murmur/vad"
)

func seg(index uint64) vad.Segment {
	return vad.Segment{Samples: make([]int16, 1600), Index: index}
}

func collect(t *testing.T, d *Dispatcher, n int) []Result {
	t.Helper()
	var out []Result
	for res := range d.Results() {
		out = append(out, res)
		if len(out) == n {
			break
		}
	}
	return out
}

func TestResultsDeliveredInOrder(t *testing.T) {
	fake := transcriber.NewFake("one", "two", "three")
	// First segment finishes last.
	fake.SetDelay(0, 80*time.Millisecond)

	d := New(fake, Config{Workers: 3})
	for i := uint64(0); i < 3; i++ {
		if !d.Submit(seg(i)) {
			t.Fatal("submit rejected")
		}
	}

	results := collect(t, d, 3)
	d.Close(time.Second)

	want := []string{"one", "two", "three"}
	for i, res := range results {
		if res.Index != uint64(i) {
			t.Errorf("result %d has index %d", i, res.Index)
		}
		if res.Text != want[i] {
			t.Errorf("result %d text = %q, want %q", i, res.Text, want[i])
		}
	}
}

func TestFailedSegmentDoesNotBlockLaterOnes(t *testing.T) {
	fake := transcriber.NewFake("first", "", "third")
	fake.SetErr(1, errors.New("engine crashed"))

	d := New(fake, Config{Workers: 2})
	for i := uint64(0); i < 3; i++ {
		d.Submit(seg(i))
	}

	results := collect(t, d, 3)
	d.Close(time.Second)

	if results[1].Err == nil {
		t.Error("expected error on segment 1")
	}
	if results[0].Text != "first" || results[2].Text != "third" {
		t.Errorf("surrounding results corrupted: %q %q", results[0].Text, results[2].Text)
	}
	for i, res := range results {
		if res.Index != uint64(i) {
			t.Errorf("result %d has index %d", i, res.Index)
		}
	}
}

func TestCloseWaitsForInFlight(t *testing.T) {
	fake := transcriber.NewFake("slowish")
	fake.SetDelay(0, 50*time.Millisecond)

	d := New(fake, Config{Workers: 1})
	d.Submit(seg(0))

	done := make(chan []Result, 1)
	go func() { done <- collect(t, d, 1) }()

	if !d.Close(time.Second) {
		t.Error("Close should report clean shutdown")
	}
	results := <-done
	if results[0].Text != "slowish" {
		t.Errorf("text = %q", results[0].Text)
	}
}

func TestCloseAbandonsStragglers(t *testing.T) {
	fake := transcriber.NewFake("never")
	fake.SetDelay(0, 10*time.Second)

	d := New(fake, Config{Workers: 1})
	d.Submit(seg(0))

	go func() {
		for range d.Results() {
		}
	}()

	start := time.Now()
	if d.Close(50 * time.Millisecond) {
		t.Error("Close should report abandoned work")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Close took %v, grace was 50ms", elapsed)
	}
}

func TestSubmitAfterCloseRejected(t *testing.T) {
	d := New(transcriber.NewFake(), Config{Workers: 1})
	d.Close(time.Second)
	if d.Submit(seg(0)) {
		t.Error("Submit after Close should be rejected")
	}
}

func TestCloseIdempotent(t *testing.T) {
	d := New(transcriber.NewFake(), Config{Workers: 1})
	d.Close(time.Second)
	if !d.Close(time.Second) {
		t.Error("second Close should succeed")
	}
}
