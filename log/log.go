// Package log writes two files under the log directory: a zerolog
// diagnostics log and a plain transcript log, one line per injected
// transcription. Until Init is called every function is a no-op, so
// library code can log unconditionally.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog        zerolog.Logger
	diagFile       *os.File
	transcribeFile *os.File
	logMu          sync.Mutex
	logReady       bool
	pid            int
	dir            string
	echoStderr     bool
)

// ResolveDir picks the log directory: the -logpath flag wins, then
// MURMUR_LOG_PATH, then the platform default.
func ResolveDir(flagPath string) (string, error) {
	if flagPath != "" {
		return absolutize(flagPath)
	}
	if envPath := os.Getenv("MURMUR_LOG_PATH"); envPath != "" {
		return absolutize(envPath)
	}
	return getDefaultDir()
}

func absolutize(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, path), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

// EchoStderr mirrors diagnostics to stderr. Used by foreground mode; must
// be set before Init.
func EchoStderr(on bool) {
	echoStderr = on
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	transcribePath := filepath.Join(dir, "transcribe_log.txt")
	transcribeFile, err = os.OpenFile(transcribePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	var out io.Writer = diagFile
	if echoStderr {
		out = io.MultiWriter(diagFile, os.Stderr)
	}
	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if transcribeFile != nil {
		transcribeFile.Close()
		transcribeFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// TranscriptionText appends one line to the transcript log.
func TranscriptionText(text string) {
	if !logReady {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	line := fmt.Sprintf("%s\t[%d]\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, text)
	transcribeFile.WriteString(line)
}

func SessionStart(id, backend, device string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("session", id).
		Str("backend", backend).
		Str("device", device).
		Msg("session_start")
}

func SessionEnd(id string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("session", id).
		Msg("session_end")
}

func Segment(index uint64, duration time.Duration) {
	if !logReady {
		return
	}
	diagLog.Info().
		Uint64("segment", index).
		Float64("audio_s", duration.Seconds()).
		Msg("segment_detected")
}

func Transcription(index uint64, text string, elapsed time.Duration) {
	if !logReady {
		return
	}
	diagLog.Info().
		Uint64("segment", index).
		Int("chars", len(text)).
		Float64("engine_ms", float64(elapsed.Microseconds())/1000).
		Msg("transcription")
}

func Overrun(total uint64) {
	if !logReady {
		return
	}
	diagLog.Warn().
		Uint64("total", total).
		Msg("frame_overrun")
}
