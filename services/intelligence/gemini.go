// File: services/intelligence/gemini.go
package ai

import (
	"context"
	"strings"

	"voicebook/models"
	"voicebook/utils"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiService implements Service on top of the Gemini API.
type GeminiService struct {
	model *genai.GenerativeModel
}

func NewGeminiService(apiKey string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, utils.NewServiceError(utils.CodeConfigurationMissing, "gemini api key not configured", nil)
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, utils.NewServiceError(utils.CodeConfigurationMissing, "failed to create Gemini client", err)
	}
	model := client.GenerativeModel("models/gemini-1.5-pro")
	return &GeminiService{model: model}, nil
}

func (g *GeminiService) Reply(ctx context.Context, turns []models.ConversationTurn) (string, error) {
	return g.generate(ctx, renderTurns(turns))
}

func (g *GeminiService) Summarize(ctx context.Context, transcript string) (string, error) {
	return g.generate(ctx, summaryPrompt(transcript))
}

func (g *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", utils.NewServiceError(utils.CodeUpstreamUnavailable, "model call failed", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", utils.NewServiceError(utils.CodeUpstreamUnavailable, "model returned no candidates", nil)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", utils.NewServiceError(utils.CodeUpstreamUnavailable, "model returned no content", nil)
	}
	return out, nil
}
