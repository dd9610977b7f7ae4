package encoder

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func genTone(freq float64, durationMs int) []int16 {
	n := SampleRate * durationMs / 1000
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(12000 * math.Sin(2*math.Pi*freq*float64(i)/SampleRate))
	}
	return samples
}

func TestFlacEncodeAll(t *testing.T) {
	samples := genTone(440, 500)

	flacData, err := EncodeAll(samples)
	if err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}
	if len(flacData) < 4 || string(flacData[:4]) != "fLaC" {
		t.Fatal("output does not start with FLAC magic")
	}
}

func TestFlacTotalFrames(t *testing.T) {
	samples := genTone(440, 300)
	enc, err := NewFlac()
	if err != nil {
		t.Fatalf("NewFlac: %v", err)
	}
	var fed uint64
	for i := 0; i < len(samples); i += BlockSize {
		end := min(i+BlockSize, len(samples))
		if err := enc.EncodeBlock(samples[i:end]); err != nil {
			t.Fatalf("EncodeBlock at %d: %v", i, err)
		}
		fed += uint64(end - i)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if enc.TotalFrames() != fed {
		t.Errorf("TotalFrames = %d, want %d", enc.TotalFrames(), fed)
	}
}

func TestWriteWAVHeaderAndPayload(t *testing.T) {
	samples := genTone(440, 100)

	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteWAV(f, samples, SampleRate); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 44 {
		t.Fatalf("wav too short: %d bytes", len(data))
	}
	if string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE header")
	}
	// 16-bit mono at the configured rate.
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != SampleRate {
		t.Fatalf("sample rate %d in header, want %d", rate, SampleRate)
	}
}
