package session

import (
	"context"
	"fmt"
	log "log/slog"

	"drivethru/internal/conversation"
)

type Recorder interface {
	Record(ctx context.Context) (string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

type Driver interface {
	Step(ctx context.Context, store *conversation.Store) (conversation.Result, error)
}

type Speaker interface {
	Say(ctx context.Context, text string) error
}

// Cue plays a short sound before each recording window.
type Cue interface {
	Play(ctx context.Context, path string) error
}

type Config struct {
	Recorder    Recorder
	Transcriber Transcriber
	Driver      Driver
	Speaker     Speaker

	// optional listening cue
	Cue     Cue
	CuePath string
}

// Loop runs one drive-through conversation.
type Loop struct {
	cfg   Config
	store *conversation.Store
}

func New(cfg Config, store *conversation.Store) *Loop {
	return &Loop{cfg: cfg, store: store}
}

// Run listens, answers and repeats until the order has been ended. It
// returns nil once the session reached its end and the first error
// otherwise.
func (l *Loop) Run(ctx context.Context) error {
	for turn := 1; ; turn++ {
		cont, err := l.cycle(ctx)
		if err != nil {
			return fmt.Errorf("turn %d: %w", turn, err)
		}
		if !cont {
			log.Info("Order complete", "turns", l.store.Len())
			return nil
		}
	}
}

func (l *Loop) cycle(ctx context.Context) (bool, error) {
	if l.cfg.Cue != nil && l.cfg.CuePath != "" {
		if err := l.cfg.Cue.Play(ctx, l.cfg.CuePath); err != nil {
			return false, fmt.Errorf("cue: %w", err)
		}
	}

	path, err := l.cfg.Recorder.Record(ctx)
	if err != nil {
		return false, fmt.Errorf("record: %w", err)
	}

	text, err := l.cfg.Transcriber.Transcribe(ctx, path)
	if err != nil {
		return false, fmt.Errorf("transcribe: %w", err)
	}

	log.Info("You:", "text", text)

	if err := l.store.Append(conversation.UserTurn(text)); err != nil {
		return false, err
	}

	res, err := l.cfg.Driver.Step(ctx, l.store)
	if err != nil {
		return false, err
	}

	if !res.Continue {
		return false, nil
	}

	log.Info("Assistant:", "text", res.Reply.Content)

	if err := l.cfg.Speaker.Say(ctx, res.Reply.Content); err != nil {
		return false, fmt.Errorf("speak: %w", err)
	}

	return true, nil
}
