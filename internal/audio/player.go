package audio

import (
	"context"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Player plays audio files on the default output device.
type Player struct {
	mu   sync.Mutex
	rate beep.SampleRate
}

func NewPlayer() *Player { return &Player{} }

// Play blocks until the clip has finished playing. Completion comes from the
// speaker itself rather than from the clip's computed length.
func (p *Player) Play(ctx context.Context, path string) error {
	streamer, format, err := open(path)
	if err != nil {
		return err
	}
	defer streamer.Close()

	rate, err := p.init(format.SampleRate)
	if err != nil {
		return err
	}

	var s beep.Streamer = streamer
	if format.SampleRate != rate {
		s = beep.Resample(4, format.SampleRate, rate, streamer)
	}

	log.Debug("Playing", "path", path, "length", clipLength(path, format, streamer))

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

// clipLength prefers the WAV header and falls back to the decoded stream.
func clipLength(path string, format beep.Format, s beep.StreamSeeker) time.Duration {
	if strings.ToLower(filepath.Ext(path)) == ".wav" {
		if d, err := Duration(path); err == nil {
			return d
		}
	}
	return format.SampleRate.D(s.Len())
}

func (p *Player) init(sr beep.SampleRate) (beep.SampleRate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rate != 0 {
		return p.rate, nil
	}

	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return 0, fmt.Errorf("init speaker: %w", err)
	}
	p.rate = sr

	return sr, nil
}

func open(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		s, format, err = mp3.Decode(f)
	default:
		s, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}

	return s, format, nil
}
