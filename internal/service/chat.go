package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"homematch/internal/config"
	"homematch/internal/model"
	"homematch/internal/utils"
)

// ErrTurnInFlight is returned when a user sends a message while their
// previous turn is still being processed.
var ErrTurnInFlight = errors.New("a previous message is still being processed")

// ErrTurnLimit is returned when a session has consumed its turn budget
// and must be reset before the assistant responds again.
var ErrTurnLimit = errors.New("conversation turn limit reached")

const systemPrompt = `You are a friendly rental housing assistant for Dumaguete City, Philippines. You help users find apartments, rooms and bedspaces that fit their budget, location and lifestyle.

Guidelines:
- Keep replies short, warm and conversational. One property at a time.
- When the user asks for recommendations, first make sure you know which single factor matters most to them: proximity to their work or school (distance), their budget (price), or the kind of room (room_type). Then call get_recommendations with that priority.
- Present the property from the tool result naturally: mention the title, monthly rate, barangay and the amenities that match what the user asked for. Never invent details that are not in the tool result.
- When the user wants another option, call show_next_property. When they dislike the current one, call reject_recommendation with its property_id.
- When a tool reports no matches, say so honestly and suggest relaxing the constraint.
- Stay on the topic of rentals in Dumaguete. If the user has been consistently off-topic for 5 or more messages, call reset_conversation.
- Prices are in Philippine pesos.`

// TranscriptStore persists the per-user conversation transcript. It is
// the only session state that survives a restart.
type TranscriptStore interface {
	GetTranscript(ctx context.Context, userID int64, limit int) ([]model.ChatMessage, error)
	AppendMessage(ctx context.Context, userID int64, sender model.ChatSender, text string) error
	ClearTranscript(ctx context.Context, userID int64) error
}

// ChatEvent is one server-sent item during a streaming turn
type ChatEvent struct {
	Type    string          `json:"type"` // content | thinking | tool | result | error
	Content string          `json:"content,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ChatEventCallback receives streaming events as a turn progresses
type ChatEventCallback func(event ChatEvent) error

// ChatService mediates between the user, the assistant provider and the
// recommendation engine. It owns the tool-call loop: it sends the user's
// message with the tool declarations, executes whichever tool the
// assistant picks, feeds the structured result back and surfaces the
// assistant's final text to the user.
type ChatService struct {
	ai          AIClient
	recommender *Recommender
	transcripts TranscriptStore
	sessions    *SessionRegistry
	cfg         config.ChatConfig
}

// NewChatService creates the conversation mediator
func NewChatService(ai AIClient, recommender *Recommender, transcripts TranscriptStore, cfg config.ChatConfig) *ChatService {
	return &ChatService{
		ai:          ai,
		recommender: recommender,
		transcripts: transcripts,
		sessions:    NewSessionRegistry(),
		cfg:         cfg,
	}
}

// toolOutcome is what executing one tool produced, before it is
// serialized back to the assistant
type toolOutcome struct {
	result model.ToolResult
	reset  bool
}

// HandleTurn processes one user message end to end and returns the
// assistant's reply plus any property surfaced by a tool call.
func (s *ChatService) HandleTurn(ctx context.Context, userID int64, text string) (*model.ChatResponse, error) {
	return s.handleTurn(ctx, userID, text, nil)
}

// HandleTurnStream is HandleTurn with chunked delivery: assistant text is
// forwarded through the callback as it arrives, and the final response is
// still returned for the terminating event.
func (s *ChatService) HandleTurnStream(ctx context.Context, userID int64, text string, callback ChatEventCallback) (*model.ChatResponse, error) {
	return s.handleTurn(ctx, userID, text, callback)
}

func (s *ChatService) handleTurn(ctx context.Context, userID int64, text string, callback ChatEventCallback) (*model.ChatResponse, error) {
	session := s.sessions.Get(userID)
	if !session.BeginTurn() {
		return nil, ErrTurnInFlight
	}
	defer session.EndTurn()

	if session.UserTurns() >= s.cfg.MaxUserTurns {
		return nil, ErrTurnLimit
	}
	session.CountTurn()
	generation := session.Generation()
	queue := session.Queue()

	if err := s.transcripts.AppendMessage(ctx, userID, model.SenderUser, text); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	messages, err := s.buildMessages(ctx, userID)
	if err != nil {
		return nil, err
	}

	req := ChatCompletionRequest{
		Messages:   messages,
		Tools:      chatTools,
		ToolChoice: "auto",
	}

	first, err := s.complete(ctx, req, callback)
	if err != nil {
		return nil, err
	}

	// No tool requested: the assistant answered directly
	if len(first.ToolCalls) == 0 {
		return s.finishTurn(ctx, session, generation, first.Content, nil, false)
	}

	// The assistant proposes at most one tool per turn; anything beyond
	// the first is dropped
	call := first.ToolCalls[0]
	kind := toolKindOf(call.Function.Name)
	if kind == toolUnknown {
		log.Printf("Chat: user %d: assistant requested unknown tool %q", userID, call.Function.Name)
		return &model.ChatResponse{Reply: ""}, nil
	}

	// A reset that landed while the completion was in flight invalidates
	// the turn before any state is touched. The queue pointer captured at
	// turn start is already orphaned at this point, so even a reset that
	// slips in after this check cannot reach the fresh session's state.
	if session.Generation() != generation {
		log.Printf("Chat: user %d: session reset mid-turn, discarding tool call", session.UserID)
		return &model.ChatResponse{Reply: ""}, nil
	}

	outcome := s.executeTool(ctx, session, queue, kind, call.Function.Arguments)
	if callback != nil {
		if data, merr := json.Marshal(outcome.result); merr == nil {
			if cbErr := callback(ChatEvent{Type: "tool", Content: call.Function.Name, Data: data}); cbErr != nil {
				return nil, cbErr
			}
		}
	}

	resultJSON, err := json.Marshal(outcome.result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}

	followUp := req
	followUp.Messages = append(messages,
		ChatMessage{Role: "assistant", Content: first.Content, ToolCalls: []ToolCall{call}},
		ChatMessage{Role: "tool", Content: string(resultJSON), ToolCallID: call.ID},
	)
	// The tool already ran; the follow-up exchange only narrates its result
	followUp.Tools = nil
	followUp.ToolChoice = ""

	second, err := s.complete(ctx, followUp, callback)
	if err != nil {
		return nil, err
	}

	return s.finishTurn(ctx, session, generation, second.Content, &outcome.result, outcome.reset)
}

// finishTurn persists the assistant's reply and assembles the response.
// If the session was reset by another actor while this turn was running,
// the result is discarded so it cannot leak stale queue state into the
// fresh conversation.
func (s *ChatService) finishTurn(ctx context.Context, session *ChatSession, generation int, reply string, result *model.ToolResult, resetTurn bool) (*model.ChatResponse, error) {
	if !resetTurn && session.Generation() != generation {
		log.Printf("Chat: user %d: session reset mid-turn, discarding result", session.UserID)
		return &model.ChatResponse{Reply: ""}, nil
	}

	if reply != "" {
		if err := s.transcripts.AppendMessage(ctx, session.UserID, model.SenderAssistant, reply); err != nil {
			log.Printf("Chat: user %d: failed to persist assistant reply: %v", session.UserID, err)
		}
	}

	resp := &model.ChatResponse{Reply: reply}
	if result != nil && result.Success {
		resp.Property = result.Property
		resp.HasMore = result.HasMore
	}
	return resp, nil
}

// buildMessages assembles the provider message list: system prompt plus
// the most recent transcript window
func (s *ChatService) buildMessages(ctx context.Context, userID int64) ([]ChatMessage, error) {
	transcript, err := s.transcripts.GetTranscript(ctx, userID, s.cfg.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}

	messages := make([]ChatMessage, 0, len(transcript)+1)
	messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt})
	for _, m := range transcript {
		role := "user"
		if m.Sender == model.SenderAssistant {
			role = "assistant"
		}
		messages = append(messages, ChatMessage{Role: role, Content: m.Text})
	}
	return messages, nil
}

// completionResult is the normalized output of one provider exchange,
// whether it arrived streamed or whole
type completionResult struct {
	Content   string
	ToolCalls []ToolCall
}

// complete performs one provider exchange with retry. Overload errors
// are retried up to MaxRetries times with a doubling delay starting at
// RetryBaseDelay seconds; any other error fails the turn immediately.
// A streaming exchange that already delivered content is not retried.
func (s *ChatService) complete(ctx context.Context, req ChatCompletionRequest, callback ChatEventCallback) (*completionResult, error) {
	delay := time.Duration(s.cfg.RetryBaseDelay) * time.Second
	var lastErr error

	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 1 {
			log.Printf("Chat: assistant overloaded, retrying in %s (attempt %d/%d)", delay, attempt, s.cfg.MaxRetries)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		result, delivered, err := s.exchange(ctx, req, callback)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !errors.Is(err, ErrAssistantOverloaded) || delivered {
			return nil, err
		}
	}
	return nil, lastErr
}

// exchange performs a single request against the provider. The second
// return reports whether any content was already forwarded to the
// stream callback, which makes the attempt unretryable.
func (s *ChatService) exchange(ctx context.Context, req ChatCompletionRequest, callback ChatEventCallback) (*completionResult, bool, error) {
	if callback == nil {
		resp, err := s.ai.ChatCompletion(ctx, req)
		if err != nil {
			return nil, false, err
		}
		if len(resp.Choices) == 0 {
			return nil, false, fmt.Errorf("assistant returned no choices")
		}
		msg := resp.Choices[0].Message
		return &completionResult{Content: msg.Content, ToolCalls: msg.ToolCalls}, false, nil
	}

	var content string
	var deltas []ToolCallDelta
	delivered := false

	streamReq := req
	streamReq.Stream = true
	err := s.ai.ChatCompletionStream(ctx, streamReq, func(chunk *StreamChunk) error {
		if chunk.Done {
			return nil
		}
		if chunk.ThinkingContent != "" {
			if cbErr := callback(ChatEvent{Type: "thinking", Content: chunk.ThinkingContent}); cbErr != nil {
				return cbErr
			}
		}
		if chunk.Content != "" {
			content += chunk.Content
			delivered = true
			if cbErr := callback(ChatEvent{Type: "content", Content: chunk.Content}); cbErr != nil {
				return cbErr
			}
		}
		if len(chunk.ToolCallDeltas) > 0 {
			deltas = append(deltas, chunk.ToolCallDeltas...)
		}
		return nil
	})
	if err != nil {
		return nil, delivered, err
	}
	return &completionResult{Content: content, ToolCalls: AccumulateToolCalls(deltas)}, delivered, nil
}

// executeTool runs one tool against the turn's queue and the recommender.
// The queue is the pointer captured at turn start, never re-read from the
// session. Every path returns a well-formed result; tool failures are
// reported back to the assistant, never surfaced as turn errors.
func (s *ChatService) executeTool(ctx context.Context, session *ChatSession, queue *RecommendationQueue, kind toolKind, rawArgs string) toolOutcome {
	switch kind {
	case toolGetRecommendations:
		return s.runGetRecommendations(ctx, session, queue, rawArgs)
	case toolShowNextProperty:
		return s.runShowNext(queue)
	case toolRejectRecommendation:
		return s.runReject(queue, rawArgs)
	case toolResetConversation:
		return s.runReset(ctx, session, rawArgs)
	default:
		return toolOutcome{result: model.ToolResult{Success: false, Message: "Unknown tool"}}
	}
}

func (s *ChatService) runGetRecommendations(ctx context.Context, session *ChatSession, queue *RecommendationQueue, rawArgs string) toolOutcome {
	var args struct {
		Priority model.RecommendPriority `json:"priority"`
	}
	if err := utils.ParseAIJSON(rawArgs, &args); err != nil || !args.Priority.Valid() {
		return toolOutcome{result: model.ToolResult{
			Success: false,
			Message: "Invalid priority; expected one of distance, price, room_type",
		}}
	}

	results, err := s.recommender.Recommend(ctx, session.UserID, args.Priority, queue.ExcludedIDs())
	if err != nil {
		log.Printf("Chat: user %d: recommendation failed: %v", session.UserID, err)
		return toolOutcome{result: model.ToolResult{
			Success: false,
			Message: "Could not fetch recommendations right now, please try again",
		}}
	}
	if len(results) == 0 {
		return toolOutcome{result: model.ToolResult{
			Success: false,
			Message: "No available properties matched that priority",
		}}
	}

	queue.SetQueue(results)
	first := queue.Next()
	queue.MarkShown(first.PropertyID)

	count := len(results)
	hasMore := queue.HasMore()
	return toolOutcome{result: model.ToolResult{
		Success:           true,
		Count:             &count,
		HasMore:           &hasMore,
		Property:          first.AsPayload(),
		CurrentPropertyID: &first.PropertyID,
	}}
}

func (s *ChatService) runShowNext(queue *RecommendationQueue) toolOutcome {
	next := queue.Next()
	if next == nil {
		return toolOutcome{result: model.ToolResult{
			Success: false,
			Message: "No more properties in the current list; fetch fresh recommendations",
		}}
	}
	queue.MarkShown(next.PropertyID)

	hasMore := queue.HasMore()
	return toolOutcome{result: model.ToolResult{
		Success:           true,
		HasMore:           &hasMore,
		Property:          next.AsPayload(),
		CurrentPropertyID: &next.PropertyID,
	}}
}

func (s *ChatService) runReject(queue *RecommendationQueue, rawArgs string) toolOutcome {
	var args struct {
		PropertyID int64 `json:"property_id"`
	}
	if err := utils.ParseAIJSON(rawArgs, &args); err != nil || args.PropertyID == 0 {
		return toolOutcome{result: model.ToolResult{
			Success: false,
			Message: "Invalid property_id",
		}}
	}

	next := queue.Reject(args.PropertyID)
	if next == nil {
		hasMore := false
		return toolOutcome{result: model.ToolResult{
			Success: true,
			HasMore: &hasMore,
			Message: "Noted; no more properties in the current list",
		}}
	}
	queue.MarkShown(next.PropertyID)

	hasMore := queue.HasMore()
	return toolOutcome{result: model.ToolResult{
		Success:           true,
		HasMore:           &hasMore,
		Property:          next.AsPayload(),
		CurrentPropertyID: &next.PropertyID,
	}}
}

func (s *ChatService) runReset(ctx context.Context, session *ChatSession, rawArgs string) toolOutcome {
	var args struct {
		Reason string `json:"reason"`
	}
	_ = utils.ParseAIJSON(rawArgs, &args)
	log.Printf("Chat: user %d: assistant reset conversation: %s", session.UserID, args.Reason)

	if err := s.transcripts.ClearTranscript(ctx, session.UserID); err != nil {
		log.Printf("Chat: user %d: failed to clear transcript: %v", session.UserID, err)
	}
	session.Reset()

	return toolOutcome{
		result: model.ToolResult{Success: true, Message: "Conversation reset"},
		reset:  true,
	}
}

// Reset discards a user's conversation on their own request: transcript,
// queue, shown and rejected sets, turn counter.
func (s *ChatService) Reset(ctx context.Context, userID int64) error {
	if err := s.transcripts.ClearTranscript(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear transcript: %w", err)
	}
	s.sessions.Get(userID).Reset()
	return nil
}

// History returns the user's persisted transcript, oldest first
func (s *ChatService) History(ctx context.Context, userID int64, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = s.cfg.HistoryLimit
	}
	return s.transcripts.GetTranscript(ctx, userID, limit)
}

// Enabled reports whether the assistant provider is configured
func (s *ChatService) Enabled() bool {
	return s.ai != nil && s.ai.IsEnabled()
}
