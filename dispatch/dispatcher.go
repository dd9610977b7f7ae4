// Package dispatch runs transcriptions concurrently while delivering their
// results strictly in segment order. Segment N+1 may finish before segment N;
// its result is parked in a reorder buffer until N is released.
package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"murmur/transcriber"
	"murmur/vad"
)

// Result is one transcribed segment. Err is set when the engine failed or
// the dispatcher was shut down mid-flight; failed results still occupy their
// slot in the order so later segments are never blocked by them.
type Result struct {
	Index   uint64
	Text    string
	Err     error
	Audio   time.Duration // duration of the segment's audio
	Elapsed time.Duration // wall time the engine took
}

type Config struct {
	Workers    int
	QueueDepth int
	SampleRate int
}

func (c *Config) setDefaults() {
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.QueueDepth <= 0 {
		c.QueueDepth = 16
	}
	if c.SampleRate <= 0 {
		c.SampleRate = 16000
	}
}

type Dispatcher struct {
	tr   transcriber.Transcriber
	rate int

	in  chan vad.Segment
	out chan Result

	mu      sync.Mutex // guards pending and next
	pending map[uint64]Result
	next    uint64

	closeMu sync.RWMutex
	closed  atomic.Bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func New(tr transcriber.Transcriber, cfg Config) *Dispatcher {
	cfg.setDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		tr:      tr,
		rate:    cfg.SampleRate,
		in:      make(chan vad.Segment, cfg.QueueDepth),
		out:     make(chan Result, cfg.QueueDepth),
		pending: make(map[uint64]Result),
		ctx:     ctx,
		cancel:  cancel,
	}
	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.worker()
	}
	go func() {
		d.wg.Wait()
		close(d.out)
	}()
	return d
}

// Submit queues a segment for transcription. It blocks when the queue is
// full and reports false after Close.
func (d *Dispatcher) Submit(seg vad.Segment) bool {
	d.closeMu.RLock()
	defer d.closeMu.RUnlock()
	if d.closed.Load() {
		return false
	}
	d.in <- seg
	return true
}

// Results yields transcriptions in segment order. The channel is closed
// once Close has been called and every worker has returned. Callers must
// keep draining it until it closes or workers stall on a full buffer.
func (d *Dispatcher) Results() <-chan Result {
	return d.out
}

// Close stops accepting segments and waits up to grace for in-flight
// transcriptions. Past the grace period remaining work is cancelled; its
// results surface with Err set. Returns false if the grace period expired.
func (d *Dispatcher) Close(grace time.Duration) bool {
	d.closeMu.Lock()
	if d.closed.Swap(true) {
		d.closeMu.Unlock()
		return true
	}
	close(d.in)
	d.closeMu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return true
	case <-time.After(grace):
		d.cancel()
		return false
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for seg := range d.in {
		start := time.Now()
		text, err := d.tr.Transcribe(d.ctx, seg.Samples, d.rate)
		d.release(Result{
			Index:   seg.Index,
			Text:    text,
			Err:     err,
			Audio:   time.Duration(len(seg.Samples)) * time.Second / time.Duration(d.rate),
			Elapsed: time.Since(start),
		})
	}
}

// release parks the result and emits every consecutive result starting at
// next. Emission happens under the lock so two workers releasing at once
// cannot interleave out of order.
func (d *Dispatcher) release(res Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[res.Index] = res
	for {
		r, ok := d.pending[d.next]
		if !ok {
			return
		}
		delete(d.pending, d.next)
		d.next++
		d.out <- r
	}
}
