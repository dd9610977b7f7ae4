// Package vad segments a PCM frame stream into speech chunks using an
// energy threshold: leading silence is discarded, a long-enough pause closes
// the chunk, and chunks shorter than a minimum are treated as noise.
package vad

import (
	"math"
	"time"

	"murmur/audio"
)

// Defaults mirror the tuning the dictation pipeline ships with.
const (
	DefaultThreshold  = 0.01
	DefaultSilence    = 700 * time.Millisecond
	DefaultMinChunk   = 300 * time.Millisecond
)

type Config struct {
	SampleRate int
	// Threshold is the normalized RMS level at or above which a frame
	// counts as speech.
	Threshold float64
	// SilenceDuration of consecutive silence closes an accumulating chunk.
	SilenceDuration time.Duration
	// MinChunkDuration below which an emitted chunk is discarded as noise.
	MinChunkDuration time.Duration
	// KeepTrailingSilence retains the qualifying silence window in emitted
	// segments instead of trimming it.
	KeepTrailingSilence bool
}

func (c *Config) applyDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = audio.SampleRate
	}
	if c.Threshold == 0 {
		c.Threshold = DefaultThreshold
	}
	if c.SilenceDuration == 0 {
		c.SilenceDuration = DefaultSilence
	}
	if c.MinChunkDuration == 0 {
		c.MinChunkDuration = DefaultMinChunk
	}
}

// Segment is a bounded span of speech audio. Ownership transfers to the
// caller on emission; the segmenter keeps no reference to Samples.
type Segment struct {
	Samples   []int16
	Index     uint64
	StartedAt time.Time
	EndedAt   time.Time
}

// Duration is the segment's audio length at the given sample rate.
func (s Segment) Duration(sampleRate int) time.Duration {
	return time.Duration(len(s.Samples)) * time.Second / time.Duration(sampleRate)
}

type state int

const (
	stateSilent state = iota
	stateAccumulating
)

// Segmenter is a per-session state machine. It is not safe for concurrent
// use; frames are pushed from the single audio-consuming goroutine.
type Segmenter struct {
	cfg Config

	st             state
	buf            []int16
	silenceRun     time.Duration
	silenceSamples int
	startedAt      time.Time
	next           uint64
}

func New(cfg Config) *Segmenter {
	cfg.applyDefaults()
	return &Segmenter{cfg: cfg}
}

// rms is the frame's short-term energy with samples normalized to [0,1].
func rms(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		n := float64(s) / 32768.0
		sum += n * n
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Push classifies one frame and returns a completed segment when a
// qualifying pause closes the current chunk.
func (g *Segmenter) Push(f audio.Frame) (Segment, bool) {
	speech := rms(f.Samples) >= g.cfg.Threshold
	frameDur := f.Duration(g.cfg.SampleRate)

	switch g.st {
	case stateSilent:
		if !speech {
			// Leading silence is not part of any segment.
			return Segment{}, false
		}
		g.st = stateAccumulating
		g.startedAt = f.At
		g.buf = append(g.buf[:0:0], f.Samples...)
		g.silenceRun = 0
		g.silenceSamples = 0
		return Segment{}, false

	case stateAccumulating:
		g.buf = append(g.buf, f.Samples...)
		if speech {
			g.silenceRun = 0
			g.silenceSamples = 0
			return Segment{}, false
		}
		g.silenceRun += frameDur
		g.silenceSamples += len(f.Samples)
		if g.silenceRun < g.cfg.SilenceDuration {
			return Segment{}, false
		}

		samples := g.buf
		if !g.cfg.KeepTrailingSilence {
			samples = samples[:len(samples)-g.silenceSamples]
		}
		seg, ok := g.take(samples, f.At.Add(frameDur))
		g.reset()
		return seg, ok
	}
	return Segment{}, false
}

// Flush closes the session: whatever is buffered is emitted regardless of
// trailing silence, unless it is shorter than the minimum chunk.
func (g *Segmenter) Flush(now time.Time) (Segment, bool) {
	if g.st != stateAccumulating {
		return Segment{}, false
	}
	seg, ok := g.take(g.buf, now)
	g.reset()
	return seg, ok
}

// take copies samples into a Segment if they meet the minimum duration.
// The copy keeps emitted segments independent of the internal buffer.
func (g *Segmenter) take(samples []int16, endedAt time.Time) (Segment, bool) {
	dur := time.Duration(len(samples)) * time.Second / time.Duration(g.cfg.SampleRate)
	if dur < g.cfg.MinChunkDuration {
		return Segment{}, false
	}
	out := make([]int16, len(samples))
	copy(out, samples)
	seg := Segment{
		Samples:   out,
		Index:     g.next,
		StartedAt: g.startedAt,
		EndedAt:   endedAt,
	}
	g.next++
	return seg, true
}

func (g *Segmenter) reset() {
	g.st = stateSilent
	g.buf = nil
	g.silenceRun = 0
	g.silenceSamples = 0
}
