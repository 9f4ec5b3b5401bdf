// Package openai wraps the OpenAI-compatible API surface the pipeline
// needs: whisper transcription and chat completion.
package openai

import (
	"context"
	"net/http"
	"net/url"

	openai "github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
}

func NewClient(baseUrl, apiKey, proxyAddr string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseUrl != "" {
		cfg.BaseURL = baseUrl
	}

	transport := &http.Transport{}
	if proxyAddr != "" {
		if proxyUrl, err := url.Parse(proxyAddr); err == nil {
			transport.Proxy = http.ProxyURL(proxyUrl)
		}
	}

	cfg.HTTPClient = &http.Client{
		Transport: transport,
		// No client timeout; transcription of long audio can run for minutes
		// and callers bound the wait with their context.
	}

	client := openai.NewClientWithConfig(cfg)
	return &Client{client: client}
}

// Transcribe runs whisper over the audio file and returns the full text.
func (c *Client) Transcribe(ctx context.Context, audioPath, model string) (string, error) {
	if model == "" {
		model = openai.Whisper1
	}

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularityWord,
		},
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// ChatCompletion submits a single user prompt and returns the reply text.
func (c *Client) ChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: 2000,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
