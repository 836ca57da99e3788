package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"scrollsnap/src/config"
	"scrollsnap/src/extract"
	"scrollsnap/src/hotkey"
	"scrollsnap/src/httpserver"
	"scrollsnap/src/llm"
	"scrollsnap/src/logutil"
	"scrollsnap/src/ocr"
	"scrollsnap/src/replay"
	"scrollsnap/src/screenshot"
	"scrollsnap/src/session"
	"scrollsnap/src/stitch"
	"scrollsnap/src/store"
	"scrollsnap/src/worker"
)

// buildExtractor picks the primary extraction engine from config: an external
// command if one is configured, otherwise the vision LLM when credentials
// exist. Returns nil when extraction is disabled or unconfigured.
func buildExtractor(cfg *config.Config) extract.Extractor {
	if !cfg.UseExtractor {
		log.Printf("Primary extractor disabled by config")
		return nil
	}

	if len(cfg.ExtractorCmd) > 0 {
		log.Printf("Using external extractor: %v", cfg.ExtractorCmd)
		return extract.CommandExtractor{Argv: cfg.ExtractorCmd}
	}

	if cfg.APIKey != "" && cfg.Model != "" {
		llm.Init(&llm.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			Providers: cfg.Providers,
		})
		if err := llm.Ping(); err != nil {
			log.Printf("Warning: LLM connectivity check failed: %v", err)
		}
		log.Printf("Using vision LLM extractor (model: %s)", cfg.Model)
		return extract.LLMExtractor{}
	}

	log.Printf("No extractor configured (set EXTRACTOR_CMD or OPENROUTER_API_KEY+MODEL)")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logutil.Setup(cfg.EnableFileLogging)
	log.Printf("Starting scrollsnap (output dir: %s)", cfg.OutputDir)

	if err := replay.Init(); err != nil {
		log.Fatalf("Failed to initialize clipboard: %v", err)
	}

	session.CleanupTemp(cfg.OutputDir)

	extractor := buildExtractor(cfg)

	var ocrFunc session.OCRFunc
	if cfg.AllowOCR {
		ocrFunc = ocr.RecognizeFile
		log.Printf("OCR fallback enabled")
	}

	captureStore := store.New()
	replayer := replay.Replayer{TypeMode: cfg.TypeMode}

	// One worker per concern, single slot each: a second capture or type
	// request while one is in flight is dropped, not queued.
	capturePool := worker.New("capture", 1)
	typePool := worker.New("type", 1)
	defer capturePool.Close()
	defer typePool.Close()

	dispatchType := func(text string) bool {
		return typePool.Submit(func(context.Context) {
			if err := replayer.Replay(text); err != nil {
				log.Printf("Replay failed: %v", err)
				replay.SignalFailure()
			}
		})
	}

	captureScreen := func(ctx context.Context) (string, error) {
		session.CleanupTemp(cfg.OutputDir)
		region, err := screenshot.LeftRegion(cfg.RegionFraction)
		if err != nil {
			return "", err
		}
		return stitch.CaptureToFile(ctx, region, stitch.CaptureOptions{
			Scroll:     cfg.ScrollCapture,
			MaxScrolls: cfg.MaxScrolls,
			Pause:      cfg.ScrollPause,
			OutputDir:  cfg.OutputDir,
		})
	}

	sessionOpts := session.Options{
		Capture:    captureScreen,
		Extractor:  extractor,
		OCR:        ocrFunc,
		Deadline:   cfg.ExtractDeadline(),
		AutoAnswer: cfg.AutoAnswer,
		Store:      captureStore,
		Mirror:     replay.Copy,
		Indicate: func(success bool) {
			if success {
				replay.SignalSuccess()
			} else {
				replay.SignalFailure()
			}
		},
	}
	if cfg.AutoTypeOnCapture {
		sessionOpts.AutoType = func(text string) { dispatchType(text) }
	}

	triggerCapture := func() bool {
		return capturePool.Submit(func(ctx context.Context) {
			if _, err := session.Execute(ctx, sessionOpts); err != nil {
				log.Printf("Capture session failed: %v", err)
			}
		})
	}

	hotkey.Listen(cfg.CaptureHotkey, func() {
		log.Printf("Capture hotkey pressed")
		triggerCapture()
	})
	hotkey.Listen(cfg.TypeHotkey, func() {
		text, ok := captureStore.Get()
		if !ok {
			log.Printf("Type hotkey pressed but nothing captured yet")
			replay.SignalFailure()
			return
		}
		dispatchType(text)
	})
	log.Printf("Hotkeys registered: %s (capture), %s (type)", cfg.CaptureHotkey, cfg.TypeHotkey)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.EnableHTTP {
		srv := httpserver.New(&httpserver.Server{
			Store:          captureStore,
			OutputDir:      cfg.OutputDir,
			TriggerCapture: triggerCapture,
			DispatchType:   dispatchType,
			Copy:           replay.Copy,
			ProcessImage: func(ctx context.Context, path string) (string, error) {
				return session.Execute(ctx, sessionOpts.ForSubmittedImage(path))
			},
		})
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.HTTPPort); err != nil {
				log.Printf("Control server error: %v", err)
			}
		}()
	}

	<-ctx.Done()
	log.Printf("Shutting down")
}
