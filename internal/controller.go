package internal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chatloom/chatloom/internal/llm"
)

// Controller orchestrates conversation operations between the store and
// the inference provider. It holds no per-conversation state: every
// operation takes an identifier and reads what it needs from storage, so
// one Controller serves any number of concurrent sessions.
type Controller struct {
	store        *Store
	provider     llm.Provider
	systemPrompt string
	timeout      time.Duration
}

// NewController creates a Controller. systemPrompt may be empty; timeout
// bounds each inference call and zero disables the bound.
func NewController(store *Store, provider llm.Provider, systemPrompt string, timeout time.Duration) *Controller {
	return &Controller{
		store:        store,
		provider:     provider,
		systemPrompt: systemPrompt,
		timeout:      timeout,
	}
}

// NewConversation mints a fresh conversation identifier. Nothing is
// written to storage until the first user turn arrives.
func (c *Controller) NewConversation() string {
	return uuid.NewString()
}

// History returns the full ordered message sequence of a conversation for
// replay. It never mutates state; an unseen identifier yields an empty
// sequence.
func (c *Controller) History(ctx context.Context, threadID string) ([]Message, error) {
	return c.store.Turns(ctx, threadID)
}

// Conversation loads identity, display name and full history in one call,
// for replay into a presentation layer.
func (c *Controller) Conversation(ctx context.Context, threadID string) (*Conversation, error) {
	return c.store.Load(ctx, threadID)
}

// SubmitTurn records a user turn, obtains the assistant reply and records
// it. The user turn is checkpointed before the inference call, so a
// provider failure leaves a resumable conversation and the user can retry
// by resubmitting.
func (c *Controller) SubmitTurn(ctx context.Context, threadID, userText string) (string, error) {
	history, err := c.beginTurn(ctx, threadID, userText)
	if err != nil {
		return "", err
	}

	reply, err := c.infer(ctx, history, nil)
	if err != nil {
		return "", err
	}

	if err := c.store.AppendSnapshot(ctx, threadID, append(history, Message{Role: RoleAssistant, Content: reply})); err != nil {
		return "", err
	}
	return reply, nil
}

// StreamTurn behaves like SubmitTurn but delivers the reply incrementally
// through onDelta. The assistant turn is persisted only after the stream
// has been fully drained; if onDelta returns an error the stream is
// abandoned and the partial reply is discarded, leaving the user turn as
// the latest checkpoint.
func (c *Controller) StreamTurn(ctx context.Context, threadID, userText string, onDelta func(chunk string) error) (string, error) {
	history, err := c.beginTurn(ctx, threadID, userText)
	if err != nil {
		return "", err
	}

	reply, err := c.infer(ctx, history, onDelta)
	if err != nil {
		return "", err
	}

	if err := c.store.AppendSnapshot(ctx, threadID, append(history, Message{Role: RoleAssistant, Content: reply})); err != nil {
		return "", err
	}
	return reply, nil
}

// DeleteConversation removes a conversation and all its state. Deleting an
// unknown or already-deleted identifier succeeds. The caller is
// responsible for minting a new identifier if the deleted conversation was
// the active one.
func (c *Controller) DeleteConversation(ctx context.Context, threadID string) error {
	return c.store.Delete(ctx, threadID)
}

// ListThreads returns summaries of all stored conversations, most recently
// active first.
func (c *Controller) ListThreads(ctx context.Context) ([]Thread, error) {
	return c.store.ListThreads(ctx)
}

// beginTurn loads history, names the conversation on its first user turn
// and checkpoints the history including the new user turn. Whether this is
// the first turn is derived from storage, not from session state.
func (c *Controller) beginTurn(ctx context.Context, threadID, userText string) ([]Message, error) {
	history, err := c.store.Turns(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if len(history) == 0 {
		name := DeriveName(userText)
		if err := c.store.UpsertName(ctx, threadID, name); err != nil {
			return nil, err
		}
		log.Debug().Str("thread_id", threadID).Str("name", name).Msg("conversation named")
	}

	history = append(history, Message{Role: RoleUser, Content: userText})
	if err := c.store.AppendSnapshot(ctx, threadID, history); err != nil {
		return nil, err
	}
	return history, nil
}

// infer calls the provider with the conversation history, optionally
// streaming, under the configured timeout.
func (c *Controller) infer(ctx context.Context, history []Message, onDelta func(chunk string) error) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]llm.Message, 0, len(history)+1)
	if c.systemPrompt != "" {
		messages = append(messages, llm.Message{Role: "system", Content: c.systemPrompt})
	}
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	if onDelta != nil {
		return c.provider.GenerateStream(ctx, messages, onDelta)
	}
	return c.provider.Generate(ctx, messages)
}
