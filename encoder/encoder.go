// Package encoder converts raw PCM16 capture into the container formats the
// transcription backends accept: WAV for the local engine, FLAC for upload.
package encoder

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)
