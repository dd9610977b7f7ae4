// Package audio wraps microphone capture behind a platform-neutral context
// and exposes the capture stream as fixed-size PCM frames.
package audio

// SampleRate is the capture rate the transcription engines expect.
const SampleRate = 16000

// Channels is fixed: dictation audio is mono.
const Channels = 1

type DataCallback func(data []byte, frameCount uint32)

type CaptureConfig struct {
	SampleRate uint32
	Channels   uint32
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

type Context interface {
	Devices() ([]DeviceInfo, error)
	NewCapture(device *DeviceInfo, config CaptureConfig) (CaptureDevice, error)
	Close()
}

type CaptureDevice interface {
	Start() error
	Stop()
	Close()
	SetCallback(cb DataCallback)
	ClearCallback()
	DeviceName() string
}
