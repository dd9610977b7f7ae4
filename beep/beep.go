// Package beep plays short audible cues so the user knows when dictation
// starts and stops without looking at a screen. Playback failures are
// silent; a missing output device must never break dictation.
package beep

import (
	"math"
	"sync"
)

var disabled bool

// Disable mutes all cues.
func Disable() { disabled = true }

const (
	sampleRate = 44100

	// Recording started: high pitch, short
	startFreq   = 1200.0
	startVolume = 0.5
	startDecay  = 60.0

	// Recording stopped: medium pitch, slightly longer
	endFreq   = 900.0
	endVolume = 0.5
	endDecay  = 40.0

	// Error: low pitch double-beep
	errorFreq   = 350.0
	errorVolume = 0.6
	errorDecay  = 30.0
)

var (
	startSamples []int16
	endSamples   []int16
	errorSamples []int16
	soundOnce    sync.Once
)

func initSound() {
	startSamples = tone(startFreq, 0.06, startVolume, startDecay)
	endSamples = tone(endFreq, 0.08, endVolume, endDecay)
	errorSamples = doubleTone(errorFreq, 0.08, 0.05, errorVolume, errorDecay)
	initPlayback()
}

// tone renders an exponentially decaying mono sine.
func tone(freq, duration, volume, decay float64) []int16 {
	n := int(sampleRate * duration)
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		envelope := math.Exp(-t * decay)
		samples[i] = int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
	}
	return samples
}

func doubleTone(freq, beepDur, gapDur, volume, decay float64) []int16 {
	single := tone(freq, beepDur, volume, decay)
	gap := make([]int16, int(sampleRate*gapDur))
	out := make([]int16, 0, len(single)*2+len(gap))
	out = append(out, single...)
	out = append(out, gap...)
	out = append(out, single...)
	return out
}

func Init() {
	soundOnce.Do(initSound)
}

// PlayStart cues the beginning of a recording session.
func PlayStart() {
	if disabled {
		return
	}
	soundOnce.Do(initSound)
	play(startSamples)
}

// PlayEnd cues the end of a recording session.
func PlayEnd() {
	if disabled {
		return
	}
	soundOnce.Do(initSound)
	play(endSamples)
}

// PlayError cues a failed transcription.
func PlayError() {
	if disabled {
		return
	}
	soundOnce.Do(initSound)
	play(errorSamples)
}
