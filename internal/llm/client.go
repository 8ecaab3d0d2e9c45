package llm

import (
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// NewClient builds the OpenAI client shared by chat and transcription. The SDK
// retries are turned off: a failed request fails the step. Extra options are
// applied last.
func NewClient(apiKey string, httpClient *http.Client, opts ...option.RequestOption) openai.Client {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		base = append(base, option.WithHTTPClient(httpClient))
	}
	return openai.NewClient(append(base, opts...)...)
}
