package anthropic

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	apiVersion       = "2023-06-01"
	maxTokens        = 4096
	statusOverloaded = 529
)

var (
	// ErrAPI wraps every non-2xx answer of the Messages API.
	ErrAPI = errors.New("anthropic api error")
	// ErrEmptyResponse is returned when the model answers without any text block.
	ErrEmptyResponse = errors.New("empty response from ai")
)

// Document is a scanned or exported file handed to the model.
type Document struct {
	MediaType string // application/pdf, image/png, image/jpeg, ...
	Data      []byte
}

// Client extracts structured JSON from documents.
type Client interface {
	// ExtractJSON asks the model to read doc following instruction and returns
	// the raw JSON object it produced.
	ExtractJSON(ctx context.Context, instruction string, doc Document) ([]byte, error)
}

// Config configures the Messages API client.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
	RetryWait  time.Duration
	Timeout    time.Duration
}

type anthropicClient struct {
	httpClient *resty.Client
	model      string
}

// NewClient creates a configured Anthropic client. Overload responses (429,
// 503, 529) are retried up to MaxRetries times, waiting attempt*RetryWait
// between tries.
func NewClient(cfg Config) Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 2 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryWait * time.Duration(cfg.MaxRetries+1)).
		SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
			return time.Duration(resp.Request.Attempt) * cfg.RetryWait, nil
		}).
		AddRetryCondition(func(resp *resty.Response, _ error) bool {
			return resp != nil && retryable(resp.StatusCode())
		})

	return &anthropicClient{httpClient: client, model: cfg.Model}
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, statusOverloaded:
		return true
	}
	return false
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *blockSource `json:"source,omitempty"`
}

type blockSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

const systemPrompt = `You read fuel station paperwork and transcribe it into JSON.
Reply with a single JSON object only. Use ISO dates (YYYY-MM-DD) and plain numbers without currency symbols or thousands separators.
Leave a field out rather than guessing it.`

func (c *anthropicClient) ExtractJSON(ctx context.Context, instruction string, doc Document) ([]byte, error) {
	if len(doc.Data) == 0 {
		return nil, errors.New("document is empty")
	}

	reqBody := messageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages: []message{
			{Role: "user", Content: []contentBlock{documentBlock(doc), {Type: "text", Text: instruction}}},
			// Prefill the assistant response to force JSON
			{Role: "assistant", Content: "{"},
		},
	}

	var (
		respBody messageResponse
		errBody  apiError
	)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(&errBody).
		Post("/v1/messages")
	if err != nil {
		return nil, fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		if errBody.Error.Message != "" {
			return nil, fmt.Errorf("%w (status %d, %s): %s", ErrAPI, resp.StatusCode(), errBody.Error.Type, errBody.Error.Message)
		}
		return nil, fmt.Errorf("%w (status %d): %s", ErrAPI, resp.StatusCode(), resp.String())
	}

	var text strings.Builder
	for _, block := range respBody.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, ErrEmptyResponse
	}

	return []byte(cleanJSON("{" + text.String())), nil
}

func documentBlock(doc Document) contentBlock {
	kind := "image"
	if doc.MediaType == "application/pdf" {
		kind = "document"
	}
	return contentBlock{
		Type: kind,
		Source: &blockSource{
			Type:      "base64",
			MediaType: doc.MediaType,
			Data:      base64.StdEncoding.EncodeToString(doc.Data),
		},
	}
}

// cleanJSON strips markdown fences the model sometimes wraps around JSON.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{```") {
		s = strings.TrimPrefix(s, "{")
	}
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
