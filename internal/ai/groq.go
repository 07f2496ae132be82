package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"docscan/internal/apperr"
	"docscan/internal/config"
)

// GroqClient implements Analyzer against a Groq/OpenAI-compatible
// chat-completions endpoint. Exactly one attempt per call; no retry.
type GroqClient struct {
	httpClient *http.Client
	cfg        config.AIConfig
	logger     *slog.Logger
}

var _ Analyzer = (*GroqClient)(nil)

// NewGroqClient builds an Analyzer from configuration.
func NewGroqClient(cfg config.AIConfig, httpClient *http.Client, logger *slog.Logger) *GroqClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GroqClient{httpClient: httpClient, cfg: cfg, logger: logger}
}

type chatCompletion struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalyzeImage sends the fixed extraction prompt plus the image as a data URL
// attachment and returns the raw model text. An empty response body or a
// transport failure surfaces as an ai_service error.
func (c *GroqClient) AnalyzeImage(ctx context.Context, imageDataURL string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": extractionPrompt},
					{"type": "image_url", "image_url": map[string]any{"url": imageDataURL}},
				},
			},
		},
		"temperature":           c.cfg.Temperature,
		"top_p":                 c.cfg.TopP,
		"max_completion_tokens": c.cfg.MaxTokens,
		"stream":                false,
	}

	bs, err := json.Marshal(body)
	if err != nil {
		return "", apperr.AIService("failed to encode completion request", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bs))
	if err != nil {
		return "", apperr.AIService("failed to build completion request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	c.logger.Info("ai.request", "req_id", rid, "model", c.cfg.Model, "content_length", len(bs))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("ai.request_failed", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", apperr.AIService("failed to process image with ai service", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.AIService("failed to read ai service response", err)
	}
	if resp.StatusCode/100 != 2 {
		c.logger.Error("ai.non_2xx", "req_id", rid, "status", resp.StatusCode, "bytes", len(raw))
		return "", apperr.AIService(
			fmt.Sprintf("ai service returned status %d", resp.StatusCode), nil)
	}

	var cc chatCompletion
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", apperr.AIService("failed to decode ai service response", err)
	}
	if len(cc.Choices) == 0 || cc.Choices[0].Message.Content == "" {
		return "", apperr.AIService("no content received from ai service", nil)
	}

	c.logger.Info("ai.response", "req_id", rid,
		"content_length", len(cc.Choices[0].Message.Content),
		"elapsed_ms", time.Since(start).Milliseconds())

	return cc.Choices[0].Message.Content, nil
}
