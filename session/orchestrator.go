// Package session owns the dictation session lifecycle: one toggle starts
// capture and wires microphone frames through segmentation, transcription
// and injection; the next toggle stops capture, flushes the trailing
// segment, and drains the pipeline before the session is declared over.
package session

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"murmur/audio"
	"murmur/dispatch"
	"murmur/inject"
	"murmur/keytap"
	"murmur/transcriber"
	"murmur/vad"
)

type State int32

const (
	Idle State = iota
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

type Config struct {
	VAD        vad.Config
	Dispatch   dispatch.Config
	QueueDepth int           // audio frame queue depth
	CloseGrace time.Duration // wait for in-flight transcriptions on stop
}

func (c *Config) setDefaults() {
	if c.CloseGrace <= 0 {
		c.CloseGrace = 5 * time.Second
	}
	if c.Dispatch.SampleRate <= 0 {
		c.Dispatch.SampleRate = audio.SampleRate
	}
	if c.VAD.SampleRate <= 0 {
		c.VAD.SampleRate = audio.SampleRate
	}
}

// Recorder persists finished transcriptions. The history store implements
// it; a nil Recorder disables persistence.
type Recorder interface {
	Record(sessionID string, index uint64, text string, audio, elapsed time.Duration) error
}

// Orchestrator runs at most one recording session at a time. Toggle calls
// may arrive from the key-event goroutine at any moment; starts and stops
// are serialized and redundant toggles are no-ops.
type Orchestrator struct {
	cfg     Config
	capture audio.CaptureDevice
	tr      transcriber.Transcriber
	inj     inject.Injector
	sink    EventSink
	rec     Recorder

	mu    sync.Mutex // serializes Start and Stop
	state atomic.Int32

	// per-session, valid only while recording
	id   string
	src  *audio.Source
	done chan struct{}
}

func NewOrchestrator(cfg Config, capture audio.CaptureDevice, tr transcriber.Transcriber, inj inject.Injector, sink EventSink, rec Recorder) *Orchestrator {
	cfg.setDefaults()
	if sink == nil {
		sink = NopSink{}
	}
	return &Orchestrator{
		cfg:     cfg,
		capture: capture,
		tr:      tr,
		inj:     inj,
		sink:    sink,
		rec:     rec,
	}
}

func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Toggle routes an activation event. Unknown or redundant toggles do
// nothing.
func (o *Orchestrator) Toggle(t keytap.Toggle) error {
	switch t {
	case keytap.ToggleStart:
		return o.Start()
	case keytap.ToggleStop:
		return o.Stop()
	}
	return nil
}

// Start begins a recording session. Starting while recording is a no-op.
func (o *Orchestrator) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.State() == Recording {
		return nil
	}

	id := uuid.NewString()
	src := audio.NewSource(o.capture, o.cfg.QueueDepth, func(total uint64) {
		o.sink.Overrun(total)
	})
	if err := src.Start(); err != nil {
		return fmt.Errorf("starting capture: %w", err)
	}

	disp := dispatch.New(o.tr, o.cfg.Dispatch)
	seg := vad.New(o.cfg.VAD)
	done := make(chan struct{})

	go o.feed(src, seg, disp)
	go o.deliver(id, disp, done)

	o.id = id
	o.src = src
	o.done = done
	o.state.Store(int32(Recording))
	o.sink.SessionStart(id)
	return nil
}

// Stop ends the session: capture halts, the buffered tail is flushed as a
// final segment, and in-flight transcriptions get the close grace period to
// land. Stopping while idle is a no-op.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.State() != Recording {
		return nil
	}

	o.src.Stop()

	// The feed goroutine flushes and closes the dispatcher once the frame
	// channel drains; deliver closes done when the result stream ends. An
	// engine that ignores cancellation could pin a worker forever, so the
	// wait is bounded.
	select {
	case <-o.done:
	case <-time.After(o.cfg.CloseGrace + 2*time.Second):
	}

	o.sink.SessionStop(o.id)
	o.src = nil
	o.done = nil
	o.state.Store(int32(Idle))
	return nil
}

// feed pushes capture frames through the segmenter and submits finished
// segments in index order. It owns the dispatcher's input side: after the
// frame stream ends it flushes the segmenter and only then closes the
// dispatcher, so a trailing utterance is never lost.
func (o *Orchestrator) feed(src *audio.Source, seg *vad.Segmenter, disp *dispatch.Dispatcher) {
	rate := o.cfg.VAD.SampleRate
	for frame := range src.Frames() {
		if s, ok := seg.Push(frame); ok {
			o.sink.SegmentDetected(s.Index, s.Duration(rate))
			disp.Submit(s)
		}
	}
	if s, ok := seg.Flush(time.Now()); ok {
		o.sink.SegmentDetected(s.Index, s.Duration(rate))
		disp.Submit(s)
	}
	disp.Close(o.cfg.CloseGrace)
}

// deliver injects ordered results as they are released. Failed or empty
// results are reported and skipped without disturbing later segments.
func (o *Orchestrator) deliver(id string, disp *dispatch.Dispatcher, done chan struct{}) {
	defer close(done)
	for res := range disp.Results() {
		if res.Err != nil {
			o.sink.TranscriptionError(res.Index, res.Err)
			continue
		}
		if res.Text == "" {
			continue
		}
		if err := o.inj.Inject(res.Text); err != nil {
			o.sink.InjectionError(res.Index, err)
			continue
		}
		o.sink.Transcription(res.Index, res.Text, res.Elapsed)
		if o.rec != nil {
			// History is best effort; the text already reached the user.
			_ = o.rec.Record(id, res.Index, res.Text, res.Audio, res.Elapsed)
		}
	}
}
