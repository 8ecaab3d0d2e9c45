package audio

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWAVDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	samples := make([]int, 22050)
	for i := range samples {
		samples[i] = (i % 200) * 100
	}

	require.NoError(t, WriteWAV(path, samples, 44100))

	d, err := Duration(path)
	require.NoError(t, err)
	assert.InDelta(t, float64(500*time.Millisecond), float64(d), float64(time.Millisecond))
}

func TestOpenDecodesWrittenWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, WriteWAV(path, make([]int, 16000), 16000))

	s, format, err := open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 16000, int(format.SampleRate))
	assert.Equal(t, 1, format.NumChannels)
	assert.Equal(t, 16000, s.Len())
}

func TestClipLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.wav")
	require.NoError(t, WriteWAV(path, make([]int, 8000), 16000))

	s, format, err := open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.InDelta(t, float64(500*time.Millisecond), float64(clipLength(path, format, s)), float64(time.Millisecond))

	other := filepath.Join(t.TempDir(), "reply.raw")
	assert.Equal(t, format.SampleRate.D(s.Len()), clipLength(other, format, s),
		"non-wav paths use the stream length")
}

func TestDurationRejectsGarbage(t *testing.T) {
	_, err := Duration(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestNewRecorderDefaults(t *testing.T) {
	r := NewRecorder(t.TempDir(), 0, 0)
	assert.Equal(t, DefaultSampleRate, r.sampleRate)
	assert.Equal(t, DefaultLength, r.length)
}
