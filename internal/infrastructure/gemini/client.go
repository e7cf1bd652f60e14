package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"hydroguide/internal/config"
	"hydroguide/internal/domain/hydration"
)

var (
	ErrNotConfigured = errors.New("gemini api key not configured")
	ErrEmptyResponse = errors.New("gemini returned no text")
)

// Client calls the generateContent endpoint of the Gemini REST API.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
	logger  *log.Logger
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func NewClient(cfg config.RecommendationConfig, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		model:   strings.TrimSpace(cfg.Model),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// Generate sends the request prompt and returns the concatenated text parts
// of the first candidate.
func (c *Client) Generate(ctx context.Context, r hydration.RecommendationRequest) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("nil gemini client")
	}
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))

	body := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: r.Prompt()}}}},
		GenerationConfig: generationConfig{Temperature: 0.4, ResponseMIMEType: "application/json"},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(rb))
		var ae apiError
		if json.Unmarshal(rb, &ae) == nil && ae.Error.Message != "" {
			msg = ae.Error.Message
		}
		if c.logger != nil {
			c.logger.Printf("[Gemini] generateContent error model=%s status=%d msg=%q", c.model, resp.StatusCode, msg)
		}
		return "", fmt.Errorf("gemini generateContent failed: status=%d: %s", resp.StatusCode, msg)
	}

	var out generateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
