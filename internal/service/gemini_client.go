package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mockprep/internal/config"
)

// Generator sends a prompt to a text-generation model and returns its text.
// Failures are always *GenerationError; a nil error means non-empty text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Gemini generateContent REST endpoint for one model
type GeminiClient struct {
	config *config.AIConfig
	model  string
	client *http.Client
	logger *slog.Logger
}

// NewGeminiClient creates a client bound to a single model
func NewGeminiClient(cfg *config.AIConfig, model string, logger *slog.Logger) *GeminiClient {
	return &GeminiClient{
		config: cfg,
		model:  model,
		client: &http.Client{
			Timeout: cfg.Timeout(),
		},
		logger: logger.With("component", "gemini", "model", model),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents       []geminiContent        `json:"contents"`
	SafetySettings []config.SafetySetting `json:"safetySettings,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type geminiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// finish reasons that mean the output was withheld by the provider
var blockedFinishReasons = map[string]bool{
	"SAFETY":             true,
	"BLOCKLIST":          true,
	"PROHIBITED_CONTENT": true,
	"SPII":               true,
	"RECITATION":         true,
}

// Generate implements Generator
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.config.IsEnabled() {
		return "", &GenerationError{Kind: GenNotConfigured, Message: "GEMINI_API_KEY is not set"}
	}

	reqBody := geminiRequest{
		Contents:       []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		SafetySettings: c.config.SafetySettings,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", &GenerationError{Kind: GenTransport, Err: err}
	}

	endpoint := fmt.Sprintf("%s?key=%s", c.config.ModelEndpoint(c.model), url.QueryEscape(c.config.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", &GenerationError{Kind: GenTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "error", err)
		return "", &GenerationError{Kind: GenTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Kind: GenTransport, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("response received",
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &GenerationError{Kind: GenRateLimited, StatusCode: resp.StatusCode, Message: providerMessage(body)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Warn("provider error", "status", resp.StatusCode, "message", providerMessage(body))
		return "", &GenerationError{Kind: GenProvider, StatusCode: resp.StatusCode, Message: providerMessage(body)}
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", &GenerationError{Kind: GenProvider, StatusCode: resp.StatusCode, Message: "unreadable response", Err: err}
	}

	if reason := geminiResp.PromptFeedback.BlockReason; reason != "" {
		return "", &GenerationError{Kind: GenBlocked, Message: "prompt blocked: " + reason}
	}
	if len(geminiResp.Candidates) == 0 {
		return "", &GenerationError{Kind: GenEmpty, Message: "no candidates"}
	}

	candidate := geminiResp.Candidates[0]
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	text := sb.String()

	if strings.TrimSpace(text) == "" {
		if blockedFinishReasons[candidate.FinishReason] {
			return "", &GenerationError{Kind: GenBlocked, Message: "finish reason " + candidate.FinishReason}
		}
		return "", &GenerationError{Kind: GenEmpty, Message: "empty text"}
	}

	return text, nil
}

func providerMessage(body []byte) string {
	var e geminiErrorBody
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
