package audio

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	DefaultSampleRate = 44100
	DefaultLength     = 5 * time.Second

	frameSize = 1024
)

// Recorder captures a fixed window of mono audio from the default input
// device. It does not stop early on silence.
type Recorder struct {
	dir        string
	sampleRate int
	length     time.Duration
}

func NewRecorder(dir string, sampleRate int, length time.Duration) *Recorder {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if length <= 0 {
		length = DefaultLength
	}
	return &Recorder{dir: dir, sampleRate: sampleRate, length: length}
}

func (r *Recorder) Init() error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create audio dir: %w", err)
	}
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Record blocks for the whole capture window and returns the path of the
// written WAV file. Each call overwrites the previous recording.
func (r *Recorder) Record(_ context.Context) (string, error) {
	log.Info("Recording audio", "seconds", r.length.Seconds())

	pcm, err := r.capture()
	if err != nil {
		return "", fmt.Errorf("capture: %w", err)
	}

	path := filepath.Join(r.dir, "order.wav")
	if err := WriteWAV(path, pcm, r.sampleRate); err != nil {
		return "", err
	}

	log.Debug("Recorded", "samples", len(pcm), "path", path)
	return path, nil
}

func (r *Recorder) capture() ([]int, error) {
	buf := make([]int16, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(r.sampleRate), len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	total := int(float64(r.sampleRate) * r.length.Seconds())
	out := make([]int, 0, total+frameSize)

	for len(out) < total {
		if err := stream.Read(); err != nil {
			return nil, err
		}
		for _, s := range buf {
			out = append(out, int(s))
		}
	}

	if len(out) == 0 {
		return nil, errors.New("no audio recorded")
	}

	return out[:total], nil
}
