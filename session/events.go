package session

import "time"

// EventSink receives pipeline milestones. The foreground console view and
// the log surface both implement it; sinks must not block.
type EventSink interface {
	SessionStart(id string)
	SessionStop(id string)
	SegmentDetected(index uint64, duration time.Duration)
	Transcription(index uint64, text string, elapsed time.Duration)
	TranscriptionError(index uint64, err error)
	InjectionError(index uint64, err error)
	Overrun(total uint64)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) SessionStart(string)                         {}
func (NopSink) SessionStop(string)                          {}
func (NopSink) SegmentDetected(uint64, time.Duration)       {}
func (NopSink) Transcription(uint64, string, time.Duration) {}
func (NopSink) TranscriptionError(uint64, error)            {}
func (NopSink) InjectionError(uint64, error)                {}
func (NopSink) Overrun(uint64)                              {}
