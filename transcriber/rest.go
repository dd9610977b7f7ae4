package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"murmur/encoder"
)

// rest posts each segment to an OpenAI compatible /audio/transcriptions
// endpoint as a FLAC multipart upload.
type rest struct {
	endpoint string
	apiKey   string
	model    string
	language string
	prompt   string
	client   *http.Client
}

func newREST(opts Options) (Transcriber, error) {
	if opts.EndpointURL == "" {
		return nil, fmt.Errorf("rest-api backend requires an endpoint URL")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &rest{
		endpoint: opts.EndpointURL,
		apiKey:   opts.APIKey,
		model:    opts.Model,
		language: opts.Language,
		prompt:   opts.Prompt,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

func (r *rest) Name() string { return "rest-api" }

type restResponse struct {
	Text string `json:"text"`
}

func (r *rest) Transcribe(ctx context.Context, pcm []int16, _ int) (string, error) {
	audioData, err := encoder.EncodeAll(pcm)
	if err != nil {
		return "", fmt.Errorf("flac encode: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.flac")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audioData); err != nil {
		return "", err
	}

	if r.model != "" {
		writer.WriteField("model", r.model)
	}
	writer.WriteField("response_format", "json")
	if r.language != "" {
		writer.WriteField("language", r.language)
	}
	if r.prompt != "" {
		writer.WriteField("prompt", r.prompt)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", r.endpoint, &body)
	if err != nil {
		return "", err
	}
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("transcription API error %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed restResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("transcription response parse error: %w", err)
	}
	return parsed.Text, nil
}
