package ai

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"stayhaven/models"
)

// GeminiModel is the production ChatModel backed by the Gemini API.
type GeminiModel struct {
	model *genai.GenerativeModel
}

// NewGeminiModel creates a Gemini-backed chat model with the registry's tool
// catalog and the fixed system instruction attached.
func NewGeminiModel(apiKey, modelName string, registry *ToolRegistry) (*GeminiModel, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.Tools = registry.Declarations()
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}
	return &GeminiModel{model: model}, nil
}

func (g *GeminiModel) NewSession(ctx context.Context, history []models.ChatMessage) (ModelSession, error) {
	chat := g.model.StartChat()
	for _, m := range history {
		role := "user"
		if m.Role == models.ChatRoleAssistant {
			role = "model"
		}
		chat.History = append(chat.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return &geminiSession{chat: chat}, nil
}

type geminiSession struct {
	chat *genai.ChatSession
}

func (s *geminiSession) SendText(ctx context.Context, text string, onDelta func(string)) (*ModelReply, error) {
	return s.send(ctx, onDelta, genai.Text(text))
}

func (s *geminiSession) SendToolResults(ctx context.Context, results []ToolResult, onDelta func(string)) (*ModelReply, error) {
	parts := make([]genai.Part, 0, len(results))
	for _, r := range results {
		parts = append(parts, genai.FunctionResponse{
			Name:     r.Name,
			Response: r.Response,
		})
	}
	return s.send(ctx, onDelta, parts...)
}

// send streams one model turn, forwarding text deltas as they arrive and
// collecting any function calls.
func (s *geminiSession) send(ctx context.Context, onDelta func(string), parts ...genai.Part) (*ModelReply, error) {
	iter := s.chat.SendMessageStream(ctx, parts...)

	reply := &ModelReply{}
	var sb strings.Builder
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gemini stream error: %w", err)
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				switch p := part.(type) {
				case genai.Text:
					sb.WriteString(string(p))
					if onDelta != nil {
						onDelta(string(p))
					}
				case genai.FunctionCall:
					reply.Calls = append(reply.Calls, ToolCall{Name: p.Name, Args: p.Args})
				}
			}
		}
	}
	reply.Text = sb.String()
	return reply, nil
}
