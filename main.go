package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"murmur/audio"
	"murmur/beep"
	"murmur/config"
	"murmur/dispatch"
	"murmur/history"
	"murmur/inject"
	"murmur/keytap"
	"murmur/log"
	"murmur/session"
	"murmur/transcriber"
	"murmur/vad"
)

var version = "dev"

func run() {
	configFlag := flag.String("config", "", "config file path (default: ~/.config/murmur/config.json)")
	foregroundFlag := flag.Bool("foreground", false, "stay attached to the terminal and echo events to stderr")
	setupFlag := flag.Bool("setup", false, "select microphone device interactively")
	deviceFlag := flag.String("device", "", "use named microphone device")
	historyFlag := flag.Int("history", 0, "print the last N transcriptions and exit")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location)")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version)
		return
	}

	cfgPath := *configFlag
	if cfgPath == "" {
		var err error
		cfgPath, err = config.DefaultPath()
		if err != nil {
			fatalf("cannot locate config directory: %v", err)
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	if *historyFlag > 0 {
		printHistory(*historyFlag)
		return
	}

	logDir, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fatalf("cannot resolve log directory: %v", err)
	}
	log.SetDir(logDir)

	if *deviceFlag == "" {
		*deviceFlag = cfg.Device
	}

	// Resolve -setup into -device before daemonizing so the prompt happens
	// in the attached terminal.
	if *setupFlag && *deviceFlag == "" {
		ctx, err := audio.NewContext()
		if err != nil {
			fatalf("initializing audio: %v", err)
		}
		if dev, _ := audio.SelectDevice(ctx); dev != nil {
			*deviceFlag = dev.Name
		}
		ctx.Close()
	}

	// Default mode: re-exec detached in the background and return the
	// shell prompt.
	if !*foregroundFlag && os.Getenv("_MURMUR_BG") == "" {
		args := os.Args[1:]
		if *deviceFlag != "" {
			args = append(args, "-device", *deviceFlag)
		}
		exe, _ := os.Executable()
		cmd := exec.Command(exe, args...)
		cmd.Env = append(os.Environ(), "_MURMUR_BG=1")
		devnull, _ := os.Open(os.DevNull)
		cmd.Stdin, cmd.Stdout, cmd.Stderr = devnull, devnull, devnull
		if err := cmd.Start(); err != nil {
			fatalf("starting background process: %v", err)
		}
		fmt.Printf("murmur running in background (pid %d), logs in %s\n", cmd.Process.Pid, logDir)
		return
	}

	log.EchoStderr(*foregroundFlag)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	if err := serve(cfg, *deviceFlag); err != nil {
		log.Errorf("%v", err)
		fatalf("%v", err)
	}
}

// serve wires the pipeline and blocks on the activation loop until a
// termination signal arrives.
func serve(cfg config.Config, deviceName string) error {
	ctx, err := audio.NewContext()
	if err != nil {
		return fmt.Errorf("initializing audio: %w (check that the microphone is accessible and capture permission is granted)", err)
	}
	defer ctx.Close()

	var selected *audio.DeviceInfo
	if deviceName != "" {
		devices, err := ctx.Devices()
		if err != nil {
			return fmt.Errorf("enumerating devices: %w", err)
		}
		for i := range devices {
			if devices[i].Name == deviceName {
				selected = &devices[i]
				break
			}
		}
		if selected == nil {
			return fmt.Errorf("capture device %q not found", deviceName)
		}
	}

	capture, err := ctx.NewCapture(selected, audio.CaptureConfig{
		SampleRate: audio.SampleRate,
		Channels:   audio.Channels,
	})
	if err != nil {
		return fmt.Errorf("initializing capture device: %w", err)
	}
	defer capture.Close()

	tr, err := transcriber.New(transcriber.Options{
		Backend:     cfg.Backend,
		Command:     cfg.EngineCommand,
		ModelPath:   cfg.ModelPath,
		Language:    cfg.Language,
		Prompt:      cfg.WhisperPrompt,
		EndpointURL: cfg.RestEndpoint,
		APIKey:      cfg.RestAPIKey,
		Model:       cfg.Model,
		Timeout:     cfg.RestTimeout(),
	})
	if err != nil {
		return fmt.Errorf("initializing transcriber: %w", err)
	}

	inj, err := inject.New(inject.Options{
		Mode:       cfg.InjectMode,
		AutoSubmit: cfg.AutoSubmit,
		Overrides:  cfg.WordOverrides,
	})
	if err != nil {
		return fmt.Errorf("initializing injector: %w", err)
	}

	var rec session.Recorder
	if cfg.HistoryEnabled {
		path, err := history.DefaultPath()
		if err == nil {
			store, err := history.Open(path)
			if err != nil {
				log.Warnf("history disabled: %v", err)
			} else {
				defer store.Close()
				rec = store
			}
		}
	}

	if cfg.AudioCues {
		beep.Init()
	} else {
		beep.Disable()
	}

	sink := &logSink{backend: tr.Name(), device: capture.DeviceName()}

	orch := session.NewOrchestrator(session.Config{
		VAD: vad.Config{
			SampleRate:          audio.SampleRate,
			Threshold:           cfg.SilenceThreshold,
			SilenceDuration:     cfg.SilenceDurationDuration(),
			MinChunkDuration:    cfg.MinChunkDurationDuration(),
			KeepTrailingSilence: cfg.KeepTrailingSilence,
		},
		Dispatch: dispatch.Config{
			Workers:    cfg.Workers,
			SampleRate: audio.SampleRate,
		},
	}, capture, tr, inj, sink, rec)

	keySrc := keytap.NewHook()
	if err := keySrc.Register(); err != nil {
		return fmt.Errorf("key event tap unavailable: %w (grant input monitoring permission, or configure a \"shortcut\" fallback)", err)
	}
	defer keySrc.Unregister()

	detector := keytap.NewDetector(cfg.DoubleTapKey, cfg.DoubleTapWindowDuration(), func() bool {
		return orch.State() == session.Recording
	})

	var comboToggles <-chan struct{}
	if cfg.Shortcut != "" {
		combo, err := keytap.NewCombo(cfg.Shortcut)
		if err != nil {
			return fmt.Errorf("shortcut %q: %w", cfg.Shortcut, err)
		}
		if err := combo.Register(); err != nil {
			return fmt.Errorf("registering shortcut %q: %w", cfg.Shortcut, err)
		}
		defer combo.Unregister()
		comboToggles = combo.Toggles()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	log.Infof("ready: double-tap %s to dictate (backend=%s device=%s)",
		cfg.DoubleTapKey, tr.Name(), capture.DeviceName())

	for {
		select {
		case ev, ok := <-keySrc.Events():
			if !ok {
				return fmt.Errorf("key event stream ended unexpectedly")
			}
			if toggle, ok := detector.OnKeyEvent(ev); ok {
				if err := orch.Toggle(toggle); err != nil {
					log.Errorf("toggle %s: %v", toggle, err)
				}
			}
		case <-comboToggles:
			var err error
			if orch.State() == session.Recording {
				err = orch.Stop()
			} else {
				err = orch.Start()
			}
			if err != nil {
				log.Errorf("shortcut toggle: %v", err)
			}
		case <-sig:
			log.Info("shutting down")
			return orch.Stop()
		}
	}
}

func printHistory(n int) {
	path, err := history.DefaultPath()
	if err != nil {
		fatalf("cannot locate history: %v", err)
	}
	store, err := history.Open(path)
	if err != nil {
		fatalf("opening history: %v", err)
	}
	defer store.Close()

	entries, err := store.Recent(n)
	if err != nil {
		fatalf("reading history: %v", err)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		fmt.Printf("%s  %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Text)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// logSink forwards pipeline events to the log package.
type logSink struct {
	backend string
	device  string
}

func (s *logSink) SessionStart(id string) {
	beep.PlayStart()
	log.SessionStart(id, s.backend, s.device)
}

func (s *logSink) SessionStop(id string) {
	beep.PlayEnd()
	log.SessionEnd(id)
}

func (s *logSink) SegmentDetected(index uint64, duration time.Duration) {
	log.Segment(index, duration)
}

func (s *logSink) Transcription(index uint64, text string, elapsed time.Duration) {
	log.Transcription(index, text, elapsed)
	log.TranscriptionText(text)
}

func (s *logSink) TranscriptionError(index uint64, err error) {
	beep.PlayError()
	log.Errorf("segment %d transcription failed: %v", index, err)
}

func (s *logSink) InjectionError(index uint64, err error) {
	log.Errorf("segment %d injection failed: %v", index, err)
}

func (s *logSink) Overrun(total uint64) {
	log.Overrun(total)
}
