package voice

import (
	"context"
	"fmt"
	log "log/slog"
)

type Synthesizer interface {
	Synthesize(ctx context.Context, voice, text string) (string, error)
}

type Player interface {
	Play(ctx context.Context, path string) error
}

// Voice speaks text to the customer with a fixed voice.
type Voice struct {
	name   string
	synth  Synthesizer
	player Player
}

func New(name string, synth Synthesizer, player Player) *Voice {
	return &Voice{name: name, synth: synth, player: player}
}

// Say returns once the line has finished playing.
func (v *Voice) Say(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	path, err := v.synth.Synthesize(ctx, v.name, text)
	if err != nil {
		return err
	}

	log.Debug("Speaking", "text", text, "path", path)

	if err := v.player.Play(ctx, path); err != nil {
		return fmt.Errorf("play %s: %w", path, err)
	}

	return nil
}
