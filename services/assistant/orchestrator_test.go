package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhaven/models"
)

// fakeModel replays a scripted sequence of replies. Each call to SendText or
// SendToolResults consumes the next reply and streams its text through onDelta.
type fakeModel struct {
	replies []ModelReply
}

type fakeSession struct {
	replies  []ModelReply
	turn     int
	received [][]ToolResult
}

func (m *fakeModel) NewSession(ctx context.Context, history []models.ChatMessage) (ModelSession, error) {
	return &fakeSession{replies: m.replies}, nil
}

func (s *fakeSession) next(onDelta func(string)) (*ModelReply, error) {
	if s.turn >= len(s.replies) {
		return &ModelReply{}, nil
	}
	reply := s.replies[s.turn]
	s.turn++
	if reply.Text != "" && onDelta != nil {
		onDelta(reply.Text)
	}
	return &reply, nil
}

func (s *fakeSession) SendText(ctx context.Context, text string, onDelta func(string)) (*ModelReply, error) {
	return s.next(onDelta)
}

func (s *fakeSession) SendToolResults(ctx context.Context, results []ToolResult, onDelta func(string)) (*ModelReply, error) {
	s.received = append(s.received, results)
	return s.next(onDelta)
}

func newEchoRegistry() *ToolRegistry {
	r := &ToolRegistry{tools: make(map[string]Tool)}
	r.register(Tool{
		Name: "echo",
		Execute: func(ctx context.Context, args map[string]any, caller CallerContext) (map[string]any, error) {
			return map[string]any{"echo": args["value"]}, nil
		},
	})
	r.register(Tool{
		Name:         "private",
		RequiresAuth: true,
		Execute: func(ctx context.Context, args map[string]any, caller CallerContext) (map[string]any, error) {
			return map[string]any{"user": caller.UserID}, nil
		},
	})
	return r
}

func collectEvents(t *testing.T, svc *DefaultAssistantService, req models.ChatRequest, caller CallerContext) []models.ChatEvent {
	t.Helper()
	var events []models.ChatEvent
	err := svc.Chat(context.Background(), req, caller, func(e models.ChatEvent) {
		events = append(events, e)
	})
	require.NoError(t, err)
	return events
}

func userRequest(content string) models.ChatRequest {
	return models.ChatRequest{Messages: []models.ChatMessage{
		{Role: models.ChatRoleUser, Content: content},
	}}
}

func eventTypes(events []models.ChatEvent) []string {
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func TestChatTextOnly(t *testing.T) {
	model := &fakeModel{replies: []ModelReply{{Text: "Hello there"}}}
	svc := NewDefaultAssistantService(model, newEchoRegistry())

	events := collectEvents(t, svc, userRequest("hi"), CallerContext{})
	assert.Equal(t, []string{models.ChatEventText, models.ChatEventDone}, eventTypes(events))
	assert.Equal(t, "Hello there", events[0].Text)
}

func TestChatToolRoundTrip(t *testing.T) {
	model := &fakeModel{replies: []ModelReply{
		{Calls: []ToolCall{{Name: "echo", Args: map[string]any{"value": "hi"}}}},
		{Text: "Done"},
	}}
	svc := NewDefaultAssistantService(model, newEchoRegistry())

	events := collectEvents(t, svc, userRequest("use the tool"), CallerContext{})
	assert.Equal(t, []string{
		models.ChatEventToolCall,
		models.ChatEventToolResult,
		models.ChatEventText,
		models.ChatEventDone,
	}, eventTypes(events))
	assert.Equal(t, "echo", events[0].Tool)
	assert.Equal(t, map[string]any{"echo": "hi"}, events[1].Result)
}

func TestChatTurnBudget(t *testing.T) {
	// The model asks for a tool on every turn and never concludes. The loop
	// must still terminate and emit done.
	endless := make([]ModelReply, 10)
	for i := range endless {
		endless[i] = ModelReply{Calls: []ToolCall{{Name: "echo", Args: map[string]any{"value": i}}}}
	}
	model := &fakeModel{replies: endless}
	svc := NewDefaultAssistantService(model, newEchoRegistry())

	events := collectEvents(t, svc, userRequest("loop forever"), CallerContext{})

	var toolCalls int
	for _, e := range events {
		if e.Type == models.ChatEventToolCall {
			toolCalls++
		}
	}
	assert.Equal(t, maxModelTurns-1, toolCalls)
	assert.Equal(t, models.ChatEventDone, events[len(events)-1].Type)
}

func TestChatToolErrorFeedsBackAndContinues(t *testing.T) {
	model := &fakeModel{replies: []ModelReply{
		{Calls: []ToolCall{{Name: "no_such_tool", Args: map[string]any{}}}},
		{Text: "Sorry, I could not do that"},
	}}
	svc := NewDefaultAssistantService(model, newEchoRegistry())

	events := collectEvents(t, svc, userRequest("break it"), CallerContext{})
	require.Len(t, events, 4)
	assert.Equal(t, models.ChatEventToolResult, events[1].Type)
	assert.Equal(t, "unknown_tool", events[1].Result["error"])
	assert.Equal(t, models.ChatEventText, events[2].Type)
}

func TestChatAuthRequiredForAnonymous(t *testing.T) {
	model := &fakeModel{replies: []ModelReply{
		{Calls: []ToolCall{{Name: "private", Args: map[string]any{}}}},
		{Text: "Please sign in first"},
	}}
	svc := NewDefaultAssistantService(model, newEchoRegistry())

	events := collectEvents(t, svc, userRequest("book it"), CallerContext{})
	assert.Equal(t, "authentication_required", events[1].Result["error"])

	// The same call succeeds for a signed-in user.
	model = &fakeModel{replies: []ModelReply{
		{Calls: []ToolCall{{Name: "private", Args: map[string]any{}}}},
		{Text: "Done"},
	}}
	svc = NewDefaultAssistantService(model, newEchoRegistry())
	events = collectEvents(t, svc, userRequest("book it"), CallerContext{UserID: "user-1"})
	assert.Equal(t, map[string]any{"user": "user-1"}, events[1].Result)
}

func TestChatRejectsBadRequests(t *testing.T) {
	svc := NewDefaultAssistantService(&fakeModel{}, newEchoRegistry())

	err := svc.Chat(context.Background(), models.ChatRequest{}, CallerContext{}, func(models.ChatEvent) {})
	assert.Error(t, err)

	err = svc.Chat(context.Background(), models.ChatRequest{Messages: []models.ChatMessage{
		{Role: models.ChatRoleAssistant, Content: "I speak last"},
	}}, CallerContext{}, func(models.ChatEvent) {})
	assert.Error(t, err)
}

func TestChatHistoryPassedToSession(t *testing.T) {
	model := &fakeModel{replies: []ModelReply{{Text: "ok"}}}
	svc := NewDefaultAssistantService(model, newEchoRegistry())

	req := models.ChatRequest{Messages: []models.ChatMessage{
		{Role: models.ChatRoleUser, Content: "earlier question"},
		{Role: models.ChatRoleAssistant, Content: "earlier answer"},
		{Role: models.ChatRoleUser, Content: "followup"},
	}}
	events := collectEvents(t, svc, req, CallerContext{})
	assert.Equal(t, models.ChatEventDone, events[len(events)-1].Type)
}
