package config

import (
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

type Config struct {
	EnvFile  string
	LogLevel log.Level
	Proxy    string
	WorkDir  string

	APIKey string
	Model  string
	Voice  string

	Record     time.Duration
	SampleRate int

	STT           string
	WhisperModel  string
	WhisperPrompt string

	KitchenURL     string
	KitchenTimeout time.Duration
	Lane           string

	CuePath string
	Persona string
}

const (
	STTOpenAI  = "openai"
	STTWhisper = "whisper"
)

// Load parses args, reads the env file and the environment.
func Load(args []string) (Config, error) {
	fs := cli.NewFlagSet("drivethru", cli.ContinueOnError)

	var (
		cfg     Config
		level   string
		persona string
	)

	fs.StringVarP(&cfg.EnvFile, "env", "e", ".env", "Env file path")
	fs.StringVarP(&level, "log", "l", "info", "Log level")
	fs.StringVarP(&cfg.Proxy, "proxy", "p", "", "Socks proxy address for the OpenAI API")
	fs.StringVarP(&cfg.WorkDir, "workdir", "w", "audio", "Directory for recordings and synthesized speech")
	fs.StringVarP(&cfg.Model, "model", "m", "", "Chat model")
	fs.StringVar(&cfg.Voice, "voice", "en-US-Wavenet-F", "Text-to-speech voice")
	fs.DurationVarP(&cfg.Record, "duration", "d", 5*time.Second, "Length of each recording window")
	fs.IntVar(&cfg.SampleRate, "rate", 44100, "Recording sample rate")
	fs.StringVar(&cfg.STT, "stt", STTOpenAI, "Speech-to-text backend (openai|whisper)")
	fs.StringVar(&cfg.WhisperModel, "whisper-model", "third_party/whisper.cpp/models/ggml-base.en.bin", "whisper.cpp model path")
	fs.StringVar(&cfg.WhisperPrompt, "whisper-prompt", DefaultWhisperPrompt, "Vocabulary hint for local whisper decoding")
	fs.StringVarP(&cfg.KitchenURL, "kitchen", "k", "", "Kitchen display websocket URL")
	fs.DurationVar(&cfg.KitchenTimeout, "kitchen-timeout", 5*time.Second, "Write timeout for kitchen tickets (0 disables)")
	fs.StringVar(&cfg.Lane, "lane", "lane-1", "Lane name sent with kitchen tickets")
	fs.StringVar(&cfg.CuePath, "cue", "", "Sound played before each recording window")
	fs.StringVar(&persona, "persona", "", "File with the assistant persona")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	lvl, ok := logLevelMap[level]
	if !ok {
		return Config{}, fmt.Errorf("unknown log level %q", level)
	}
	cfg.LogLevel = lvl

	if cfg.KitchenTimeout < 0 {
		return Config{}, fmt.Errorf("negative kitchen timeout %s", cfg.KitchenTimeout)
	}

	if cfg.STT != STTOpenAI && cfg.STT != STTWhisper {
		return Config{}, fmt.Errorf("unknown stt backend %q", cfg.STT)
	}

	if err := godotenv.Load(cfg.EnvFile); err != nil && fs.Changed("env") {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.APIKey == "" {
		return Config{}, errors.New("OPENAI_API_KEY not set")
	}

	cfg.Persona = DefaultPersona
	if persona != "" {
		b, err := os.ReadFile(persona)
		if err != nil {
			return Config{}, fmt.Errorf("read persona: %w", err)
		}
		cfg.Persona = string(b)
	}

	return cfg, nil
}
