package voice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSynth struct {
	voices, texts []string
	err           error
}

func (f *fakeSynth) Synthesize(_ context.Context, voice, text string) (string, error) {
	f.voices = append(f.voices, voice)
	f.texts = append(f.texts, text)
	return "audio/" + text + ".wav", f.err
}

type fakePlayer struct {
	played []string
}

func (f *fakePlayer) Play(_ context.Context, path string) error {
	f.played = append(f.played, path)
	return nil
}

func TestSay(t *testing.T) {
	synth := &fakeSynth{}
	player := &fakePlayer{}
	v := New("en-US-Wavenet-F", synth, player)

	require.NoError(t, v.Say(context.Background(), "hello"))
	assert.Equal(t, []string{"en-US-Wavenet-F"}, synth.voices)
	assert.Equal(t, []string{"audio/hello.wav"}, player.played)
}

func TestSayEmptyIsSilent(t *testing.T) {
	synth := &fakeSynth{}
	player := &fakePlayer{}
	require.NoError(t, New("v", synth, player).Say(context.Background(), ""))
	assert.Empty(t, synth.texts)
	assert.Empty(t, player.played)
}

func TestSaySynthFailure(t *testing.T) {
	boom := errors.New("boom")
	player := &fakePlayer{}
	err := New("v", &fakeSynth{err: boom}, player).Say(context.Background(), "hi")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, player.played)
}
