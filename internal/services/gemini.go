package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/resume-matcher/internal/logger"
)

const defaultModel = "gemini-2.0-flash"

// TextGenerator is the scoring backend.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Model() string
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiService struct {
	models      contentGenerator
	modelName   string
	temperature *float32
	logger      *zap.Logger
}

// NewGeminiService creates the process-wide client. It is safe for concurrent
// use and is never reconfigured after construction.
func NewGeminiService(ctx context.Context, apiKey, model string, temperature *float32, log *zap.Logger) (TextGenerator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &geminiService{
		models:      client.Models,
		modelName:   model,
		temperature: temperature,
		logger:      logger.OrNop(log),
	}, nil
}

// GenerateText returns the model's text verbatim.
func (g *geminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	var config *genai.GenerateContentConfig
	if g.temperature != nil {
		config = &genai.GenerateContentConfig{Temperature: g.temperature}
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			g.logger.Warn("gemini blocked prompt",
				zap.String("block_reason", string(resp.PromptFeedback.BlockReason)),
			)
		}
		return "", ErrEmptyResponse
	}

	return text, nil
}

func (g *geminiService) Model() string {
	return g.modelName
}
