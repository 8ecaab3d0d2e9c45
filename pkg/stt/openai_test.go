package stt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAITranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		_, _, err := r.FormFile("file")
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"One Big Mac, no pickles"}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "order.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o644))

	client := openai.NewClient(
		option.WithAPIKey("test"),
		option.WithBaseURL(srv.URL),
		option.WithMaxRetries(0),
	)

	text, err := NewOpenAI(client).Transcribe(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "One Big Mac, no pickles", text)
}

func TestOpenAITranscribeMissingFile(t *testing.T) {
	client := openai.NewClient(option.WithAPIKey("test"))
	_, err := NewOpenAI(client).Transcribe(context.Background(), filepath.Join(t.TempDir(), "none.wav"))
	assert.Error(t, err)
}

func TestNewWhisperRequiresModel(t *testing.T) {
	_, err := NewWhisper("", Options{})
	assert.Error(t, err)
}
