package audio

import (
	"encoding/binary"
	"sync"
	"sync/atomic"
	"time"
)

// Frame is one fixed-size block of captured PCM. Index is strictly
// increasing within a session; a gap in indices marks frames lost to an
// overrun. Frames are immutable after creation.
type Frame struct {
	Samples []int16
	Index   uint64
	At      time.Time
}

// Duration is the frame's span at the given sample rate.
func (f Frame) Duration(sampleRate int) time.Duration {
	return time.Duration(len(f.Samples)) * time.Second / time.Duration(sampleRate)
}

// DefaultQueueDepth bounds the frame queue between the capture callback and
// the consumer. At ~64ms per hardware buffer this is several seconds of
// slack before an overrun.
const DefaultQueueDepth = 64

// Source adapts a CaptureDevice's callback into a bounded channel of Frames.
// The capture callback never blocks: when the queue is full the frame is
// counted as an overrun and reported, not silently discarded. Stop ends the
// stream synchronously; the closed channel is the terminal signal.
type Source struct {
	capture CaptureDevice
	frames  chan Frame

	index     uint64 // touched only by the capture callback
	stopped   atomic.Bool
	overruns  atomic.Uint64
	onOverrun func(total uint64)

	stopOnce sync.Once
}

// NewSource wraps capture. onOverrun, if non-nil, is called from the capture
// context with the running overrun total each time a frame is shed.
func NewSource(capture CaptureDevice, depth int, onOverrun func(total uint64)) *Source {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &Source{
		capture:   capture,
		frames:    make(chan Frame, depth),
		onOverrun: onOverrun,
	}
}

// Start installs the callback and begins capture. Frame indices restart at
// zero for every Source, i.e. for every session.
func (s *Source) Start() error {
	s.capture.SetCallback(func(data []byte, frameCount uint32) {
		if s.stopped.Load() || len(data) < 2 {
			return
		}
		samples := make([]int16, len(data)/2)
		for i := range samples {
			samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
		}
		frame := Frame{Samples: samples, Index: s.index, At: time.Now()}
		s.index++

		select {
		case s.frames <- frame:
		default:
			// Consumer fell behind and the queue is saturated. Shedding a
			// whole frame keeps segment boundaries intact; the count makes
			// the loss visible to the caller.
			total := s.overruns.Add(1)
			if s.onOverrun != nil {
				s.onOverrun(total)
			}
		}
	})

	if err := s.capture.Start(); err != nil {
		s.capture.ClearCallback()
		return err
	}
	return nil
}

// Frames is the capture stream. It is closed by Stop; closure is the only
// way the stream ends.
func (s *Source) Frames() <-chan Frame { return s.frames }

// Overruns reports how many frames were shed so far.
func (s *Source) Overruns() uint64 { return s.overruns.Load() }

// Stop halts capture and closes the frame channel before returning. Safe to
// call more than once.
func (s *Source) Stop() {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		s.capture.Stop()
		s.capture.ClearCallback()
		close(s.frames)
	})
}
