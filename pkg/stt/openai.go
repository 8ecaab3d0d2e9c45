package stt

import (
	"context"
	"fmt"
	"os"

	openai "github.com/openai/openai-go/v3"
)

// OpenAI transcribes recordings with the hosted whisper-1 model.
type OpenAI struct {
	client openai.Client
	model  openai.AudioModel
}

func NewOpenAI(client openai.Client) *OpenAI {
	return &OpenAI{client: client, model: openai.AudioModelWhisper1}
}

func (o *OpenAI) Transcribe(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	res, err := o.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  f,
		Model: o.model,
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}

	return res.Text, nil
}
