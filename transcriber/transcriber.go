// Package transcriber defines the inference-engine contract and its
// backends: a local whisper.cpp subprocess and an OpenAI-compatible REST
// endpoint.
package transcriber

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Transcriber is the external inference engine: PCM in, text out. Calls may
// take hundreds of milliseconds and are treated as blocking; the dispatcher
// is responsible for concurrency and ordering.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, pcm []int16, sampleRate int) (string, error)
}

// Options selects and configures a backend.
type Options struct {
	Backend   string // "local" (default) or "rest-api"
	Command   string // local: engine command line, e.g. "whisper-cli -nt"
	ModelPath string // local: model file path
	Language  string // empty = auto-detect
	Prompt    string // initial prompt hint, if the backend supports one

	EndpointURL string        // rest-api
	APIKey      string        // rest-api
	Model       string        // rest-api model selector
	Timeout     time.Duration // rest-api request timeout
}

// New builds the configured backend. All backends get transcript cleanup
// (sound-effect and hallucination filtering) applied on top.
func New(opts Options) (Transcriber, error) {
	var t Transcriber
	var err error
	switch opts.Backend {
	case "", "local":
		t, err = newLocal(opts)
	case "rest-api":
		t, err = newREST(opts)
	default:
		return nil, fmt.Errorf("unknown transcription backend %q (use local or rest-api)", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return &cleaned{inner: t}, nil
}

type cleaned struct {
	inner Transcriber
}

func (c *cleaned) Name() string { return c.inner.Name() }

func (c *cleaned) Transcribe(ctx context.Context, pcm []int16, sampleRate int) (string, error) {
	text, err := c.inner.Transcribe(ctx, pcm, sampleRate)
	if err != nil {
		return "", err
	}
	return CleanTranscript(text), nil
}

// soundEffectPattern matches bracketed non-speech annotations the engine
// sometimes emits: (sighs), [whooshing], [music], ...
var soundEffectPattern = regexp.MustCompile(`[\[(]\s*[a-zA-Z\s\-]+\s*[\])]`)

// hallucinations are whole-output markers produced on silent or noisy audio.
var hallucinations = map[string]bool{
	"":              true,
	"blank audio":   true,
	"blank":         true,
	"music":         true,
	"music playing": true,
}

// CleanTranscript strips sound-effect annotations, normalizes whitespace,
// and drops outputs that are nothing but a hallucination marker.
func CleanTranscript(text string) string {
	text = soundEffectPattern.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(text), " ")

	normalized := strings.ToLower(strings.ReplaceAll(text, "_", " "))
	normalized = strings.Trim(normalized, "[]() .")
	if hallucinations[normalized] {
		return ""
	}
	return text
}
