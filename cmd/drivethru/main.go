package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"

	"drivethru/internal/audio"
	"drivethru/internal/config"
	"drivethru/internal/conversation"
	"drivethru/internal/kitchen"
	"drivethru/internal/llm"
	"drivethru/internal/order"
	"drivethru/internal/proxy"
	"drivethru/internal/session"
	"drivethru/internal/tts"
	"drivethru/internal/voice"
	"drivethru/pkg/stt"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Error("Bad configuration", "err", err)
		os.Exit(2)
	}

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: cfg.LogLevel,
	})))

	log.Info("Booting up")

	if err := run(cfg); err != nil {
		log.Error("Session failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	httpClient, err := proxy.NewHTTPClient(cfg.Proxy)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", cfg.Proxy, "err", err)
		return err
	}

	client := llm.NewClient(cfg.APIKey, httpClient)

	rec := audio.NewRecorder(cfg.WorkDir, cfg.SampleRate, cfg.Record)
	if err := rec.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		return err
	}
	defer rec.Close()

	log.Debug("Loaded recorder")

	transcriber, closeSTT, err := newTranscriber(cfg, client)
	if err != nil {
		return err
	}
	defer closeSTT()

	log.Debug("Loaded transcriber", "backend", cfg.STT)

	synth, err := tts.NewGoogle(ctx, cfg.WorkDir)
	if err != nil {
		log.Error("Failed to init text-to-speech", "err", err)
		return err
	}
	defer synth.Close()

	player := audio.NewPlayer()
	speaker := voice.New(cfg.Voice, synth, player)

	var tickets order.Ticketer
	if cfg.KitchenURL != "" {
		feed, err := kitchen.Dial(ctx, cfg.KitchenURL, cfg.Lane, cfg.KitchenTimeout)
		if err != nil {
			log.Error("Failed to connect kitchen feed", "url", cfg.KitchenURL, "err", err)
			return err
		}
		defer feed.Close()
		tickets = feed
	}

	driver := conversation.NewDriver(
		llm.NewChat(client, cfg.Model),
		order.NewActions(speaker, tickets),
	)

	log.Info("Boot up - successful")

	loop := session.New(session.Config{
		Recorder:    rec,
		Transcriber: transcriber,
		Driver:      driver,
		Speaker:     speaker,
		Cue:         player,
		CuePath:     cfg.CuePath,
	}, conversation.NewStore(cfg.Persona))

	return loop.Run(ctx)
}

func newTranscriber(cfg config.Config, client openai.Client) (session.Transcriber, func(), error) {
	if cfg.STT != config.STTWhisper {
		return stt.NewOpenAI(client), func() {}, nil
	}

	w, err := stt.NewWhisper(cfg.WhisperModel, whisperOptions(cfg))
	if err != nil {
		log.Error("Failed to init whisper", "err", err)
		return nil, nil, err
	}

	return w, func() { w.Close() }, nil
}

func whisperOptions(cfg config.Config) stt.Options {
	return stt.Options{
		Language:      "en",
		InitialPrompt: cfg.WhisperPrompt,
	}
}
