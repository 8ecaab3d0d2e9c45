package tts

import (
	"context"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

const DefaultVoice = "en-US-Wavenet-F"

type synthesizeClient interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	Close() error
}

// Google writes LINEAR16 WAV files produced by Cloud Text-to-Speech.
type Google struct {
	client synthesizeClient
	dir    string
	now    func() time.Time
}

func NewGoogle(ctx context.Context, dir string, opts ...option.ClientOption) (*Google, error) {
	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Google tts client: %w", err)
	}
	return &Google{client: client, dir: dir, now: time.Now}, nil
}

func (g *Google) Close() error {
	return g.client.Close()
}

// Synthesize speaks text with the named voice and returns the path of the
// written audio file.
func (g *Google) Synthesize(ctx context.Context, voice, text string) (string, error) {
	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: LanguageCode(voice),
			Name:         voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_LINEAR16,
		},
	}

	resp, err := g.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return "", fmt.Errorf("synthesizing speech: %w", err)
	}

	path := filepath.Join(g.dir, fileName(voice, g.now()))
	if err := os.WriteFile(path, resp.GetAudioContent(), 0o644); err != nil {
		return "", fmt.Errorf("write speech: %w", err)
	}

	log.Debug("Generated speech", "path", path)
	return path, nil
}

// LanguageCode derives "en-US" from a voice name such as "en-US-Wavenet-F".
func LanguageCode(voice string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) < 2 {
		return voice
	}
	return parts[0] + "-" + parts[1]
}

func fileName(voice string, at time.Time) string {
	return fmt.Sprintf("%s+%s.wav", voice, at.Format("20060102-150405"))
}
