package ai

import (
	"AdStudio/internal/gemini"
	"context"
	"errors"
	"fmt"
	"strings"
)

const DefaultGeminiModel = "gemini-3-flash-preview"

// GeminiTextClient генерация текста через Gemini generateContent.
type GeminiTextClient struct {
	api         *gemini.Transport
	model       string
	temperature float64
}

func NewGeminiTextClient(api *gemini.Transport, model string) *GeminiTextClient {
	if strings.TrimSpace(model) == "" {
		model = DefaultGeminiModel
	}
	return &GeminiTextClient{api: api, model: model, temperature: 1}
}

func (c *GeminiTextClient) SendRequest(ctx context.Context, prompt string) (string, error) {
	temp := c.temperature
	body, err := c.api.GenerateContent(ctx, c.model, gemini.GenerateRequest{
		Contents:         gemini.UserText(prompt),
		GenerationConfig: &gemini.GenerationConfig{Temperature: &temp},
	})
	if err != nil {
		return "", fmt.Errorf("gemini text: %w", err)
	}
	if reason := gemini.BlockReason(body); reason != "" {
		return "", errors.New("gemini text: prompt blocked: " + reason)
	}
	return gemini.Text(body), nil
}
