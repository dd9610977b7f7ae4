package transcriber

import (
	"context"
	"sync"
	"time"
)

// Fake returns canned transcripts in call order and records every request.
// Per-call delays let tests force out of order completion downstream.
type Fake struct {
	mu      sync.Mutex
	texts   []string
	delays  []time.Duration
	errs    []error
	calls   int
	Lengths []int
}

func NewFake(texts ...string) *Fake {
	return &Fake{texts: texts}
}

// SetDelay makes the nth call sleep before returning.
func (f *Fake) SetDelay(n int, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.delays) <= n {
		f.delays = append(f.delays, 0)
	}
	f.delays[n] = d
}

// SetErr makes the nth call fail.
func (f *Fake) SetErr(n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.errs) <= n {
		f.errs = append(f.errs, nil)
	}
	f.errs[n] = err
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Transcribe(ctx context.Context, pcm []int16, _ int) (string, error) {
	f.mu.Lock()
	n := f.calls
	f.calls++
	f.Lengths = append(f.Lengths, len(pcm))
	var delay time.Duration
	if n < len(f.delays) {
		delay = f.delays[n]
	}
	var err error
	if n < len(f.errs) {
		err = f.errs[n]
	}
	var text string
	if n < len(f.texts) {
		text = f.texts[n]
	}
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
