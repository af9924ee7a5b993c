package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stayhaven/models"
	"stayhaven/utils"
)

// maxModelTurns bounds the agentic loop. When the budget is exhausted the
// loop exits cleanly with whatever text the model has produced so far.
const maxModelTurns = 5

// AssistantService drives one conversational request end to end, streaming
// events through emit as they are produced.
type AssistantService interface {
	Chat(ctx context.Context, req models.ChatRequest, caller CallerContext, emit func(models.ChatEvent)) error
}

// DefaultAssistantService implements AssistantService.
type DefaultAssistantService struct {
	Model    ChatModel
	Registry *ToolRegistry
}

func NewDefaultAssistantService(model ChatModel, registry *ToolRegistry) *DefaultAssistantService {
	return &DefaultAssistantService{Model: model, Registry: registry}
}

// Chat runs the bounded orchestration loop: each model turn may stream text
// and request tool calls; calls are executed in order and their structured
// results fed back until the model concludes or the turn budget runs out.
// Tool failures are recovered inside the registry; only a model or transport
// failure is returned as an error.
func (s *DefaultAssistantService) Chat(ctx context.Context, req models.ChatRequest, caller CallerContext, emit func(models.ChatEvent)) error {
	logger := utils.GetLogger()

	if len(req.Messages) == 0 {
		return fmt.Errorf("at least one message is required")
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != models.ChatRoleUser {
		return fmt.Errorf("the last message must come from the user")
	}
	history := req.Messages[:len(req.Messages)-1]

	session, err := s.Model.NewSession(ctx, history)
	if err != nil {
		return fmt.Errorf("failed to start model session: %w", err)
	}

	onDelta := func(delta string) {
		emit(models.ChatEvent{Type: models.ChatEventText, Text: delta})
	}

	reply, err := session.SendText(ctx, last.Content, onDelta)
	if err != nil {
		return fmt.Errorf("model call failed: %w", err)
	}

	for turn := 1; turn < maxModelTurns && len(reply.Calls) > 0; turn++ {
		results := make([]ToolResult, 0, len(reply.Calls))
		for _, call := range reply.Calls {
			emit(models.ChatEvent{
				Type: models.ChatEventToolCall,
				Tool: call.Name,
				Args: call.Args,
			})
			result := s.Registry.Execute(ctx, call, caller)
			emit(models.ChatEvent{
				Type:   models.ChatEventToolResult,
				Tool:   result.Name,
				Result: result.Response,
			})
			results = append(results, result)
		}

		reply, err = session.SendToolResults(ctx, results, onDelta)
		if err != nil {
			return fmt.Errorf("model call failed: %w", err)
		}
	}

	if len(reply.Calls) > 0 {
		logger.Warn("assistant turn budget exhausted with tool calls pending",
			zap.Int("maxTurns", maxModelTurns),
			zap.String("userID", caller.UserID))
	}

	emit(models.ChatEvent{Type: models.ChatEventDone})
	return nil
}
