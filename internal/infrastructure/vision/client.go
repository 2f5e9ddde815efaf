// Package vision calls an OpenAI-compatible chat completions endpoint (OpenAI
// itself, Azure OpenAI deployments, vLLM, LiteLLM, ...) with one user message
// made of a text instruction and an inline image.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"expiry-scanner-api/config"
	"expiry-scanner-api/internal/domain/apperr"
)

const (
	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
)

type Client struct {
	logger      *zap.Logger
	provider    string
	baseURL     string
	apiKey      string
	model       string
	apiVersion  string
	temperature float64
	httpClient  *http.Client
}

func New(logger *zap.Logger, cfg config.AI) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		logger:      logger,
		provider:    strings.ToLower(strings.TrimSpace(cfg.Provider)),
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       strings.TrimSpace(cfg.Model),
		apiVersion:  strings.TrimSpace(cfg.APIVersion),
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) endpoint() (string, error) {
	if c.baseURL == "" {
		return "", apperr.New(apperr.ErrConfiguration, "AI_BASE_URL is not set")
	}
	if c.model == "" {
		return "", apperr.New(apperr.ErrConfiguration, "AI_MODEL is not set")
	}

	switch c.provider {
	case ProviderAzure:
		q := url.Values{}
		q.Set("api-version", c.apiVersion)
		return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?%s",
			c.baseURL, url.PathEscape(c.model), q.Encode()), nil
	case ProviderOpenAI, "":
		return c.baseURL + "/chat/completions", nil
	default:
		return "", apperr.New(apperr.ErrConfiguration, fmt.Sprintf("unknown AI_PROVIDER %q", c.provider))
	}
}

// Describe sends prompt together with the image (a data: URL) and returns the
// raw text of the first choice. Exactly one request is made.
func (c *Client) Describe(ctx context.Context, prompt, imageDataURL string) (string, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return "", err
	}

	temperature := c.temperature
	reqBody := chatRequest{
		Temperature: &temperature,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: &imageURL{URL: imageDataURL}},
				},
			},
		},
	}
	if c.provider != ProviderAzure {
		reqBody.Model = c.model
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrAnalysis, "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", apperr.Wrap(apperr.ErrAnalysis, "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		if c.provider == ProviderAzure {
			req.Header.Set("api-key", c.apiKey)
		} else {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrAnalysis, "", fmt.Errorf("vision request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error.Message != "" {
			return "", apperr.New(apperr.ErrAnalysis, errResp.Error.Message)
		}
		return "", apperr.Wrap(apperr.ErrAnalysis, "", fmt.Errorf("vision api error: %s", resp.Status))
	}

	var chatResp chatResponse
	if err = json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", apperr.Wrap(apperr.ErrAnalysis, "", fmt.Errorf("vision decode: %w", err))
	}
	if len(chatResp.Choices) == 0 {
		return "", nil
	}

	c.logger.Debug("vision completion",
		zap.String("model", c.model),
		zap.String("finish_reason", chatResp.Choices[0].FinishReason),
	)

	return chatResp.Choices[0].Message.Content, nil
}

type imageURL struct {
	URL string `json:"url"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
