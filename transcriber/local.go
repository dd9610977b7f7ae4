package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	shellwords "github.com/mattn/go-shellwords"

	"murmur/encoder"
)

// local runs a whisper.cpp style engine binary per segment: the PCM goes to
// a temp WAV, the command is expected to print either a JSON object with a
// "text" field or the bare transcript on stdout.
type local struct {
	cmd       []string
	modelPath string
	language  string
	prompt    string
}

func newLocal(opts Options) (Transcriber, error) {
	command := opts.Command
	if command == "" {
		command = "whisper-cli --no-prints"
	}
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse engine command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("engine command is empty")
	}
	return &local{
		cmd:       args,
		modelPath: opts.ModelPath,
		language:  opts.Language,
		prompt:    opts.Prompt,
	}, nil
}

func (l *local) Name() string { return "local" }

type localResult struct {
	Text string `json:"text"`
}

func (l *local) Transcribe(ctx context.Context, pcm []int16, sampleRate int) (string, error) {
	file, err := os.CreateTemp("", "murmur_seg_*.wav")
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(file.Name())
	defer file.Close()

	if err := encoder.WriteWAV(file, pcm, sampleRate); err != nil {
		return "", err
	}

	args := append([]string{}, l.cmd[1:]...)
	args = append(args, "-f", file.Name())
	if l.modelPath != "" {
		args = append(args, "-m", l.modelPath)
	}
	if l.language != "" {
		args = append(args, "-l", l.language)
	}
	if l.prompt != "" {
		args = append(args, "--prompt", l.prompt)
	}

	command := exec.CommandContext(ctx, l.cmd[0], args...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("engine run: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	out := strings.TrimSpace(stdout.String())
	var res localResult
	if json.Unmarshal([]byte(out), &res) == nil && res.Text != "" {
		return res.Text, nil
	}
	return out, nil
}
