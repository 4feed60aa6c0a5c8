package internal

import (
	"context"
	"errors"
	"testing"

	"github.com/chatloom/chatloom/internal/llm"
	"github.com/chatloom/chatloom/testutil"
)

func newTestController(t *testing.T, provider llm.Provider) (*Controller, *Store) {
	t.Helper()
	store := newTestStore(t)
	return NewController(store, provider, "", 0), store
}

func TestController_NewConversation(t *testing.T) {
	ctrl, store := newTestController(t, &testutil.StubProvider{})

	id := ctrl.NewConversation()
	if id == "" {
		t.Fatal("NewConversation() returned empty identifier")
	}
	if id == ctrl.NewConversation() {
		t.Error("NewConversation() returned duplicate identifiers")
	}

	// Lazy creation: nothing is stored until the first turn.
	threads, err := store.ListThreads(context.Background())
	if err != nil {
		t.Fatalf("ListThreads() error = %v", err)
	}
	if len(threads) != 0 {
		t.Errorf("NewConversation() wrote %d thread(s) to storage, want 0", len(threads))
	}
}

func TestController_SubmitTurn(t *testing.T) {
	provider := &testutil.StubProvider{Reply: "Hello!"}
	ctrl, _ := newTestController(t, provider)
	ctx := context.Background()

	id := ctrl.NewConversation()
	reply, err := ctrl.SubmitTurn(ctx, id, "Hi")
	if err != nil {
		t.Fatalf("SubmitTurn() error = %v", err)
	}
	if reply != "Hello!" {
		t.Errorf("SubmitTurn() reply = %q, want %q", reply, "Hello!")
	}

	history, err := ctrl.History(ctx, id)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	want := []Message{
		{Role: RoleUser, Content: "Hi"},
		{Role: RoleAssistant, Content: "Hello!"},
	}
	if len(history) != len(want) {
		t.Fatalf("History() returned %d messages, want %d", len(history), len(want))
	}
	for i := range want {
		if history[i] != want[i] {
			t.Errorf("History()[%d] = %+v, want %+v", i, history[i], want[i])
		}
	}

	// Registry picks up the derived name.
	threads, err := ctrl.ListThreads(ctx)
	if err != nil {
		t.Fatalf("ListThreads() error = %v", err)
	}
	if len(threads) != 1 || threads[0].ID != id || threads[0].Name != "Hi" {
		t.Errorf("ListThreads() = %+v, want one thread %s named %q", threads, id, "Hi")
	}
}

func TestController_NamingOnlyOnFirstTurn(t *testing.T) {
	provider := &testutil.StubProvider{Reply: "ok"}
	ctrl, store := newTestController(t, provider)
	ctx := context.Background()

	id := ctrl.NewConversation()
	if _, err := ctrl.SubmitTurn(ctx, id, "First question here"); err != nil {
		t.Fatalf("SubmitTurn() error = %v", err)
	}
	if _, err := ctrl.SubmitTurn(ctx, id, "Second question, different text"); err != nil {
		t.Fatalf("SubmitTurn() error = %v", err)
	}

	name, ok, err := store.GetName(ctx, id)
	if err != nil {
		t.Fatalf("GetName() error = %v", err)
	}
	if !ok || name != "First question here" {
		t.Errorf("GetName() = (%q, %v), want name from first turn", name, ok)
	}
}

func TestController_ProviderReceivesFullHistory(t *testing.T) {
	provider := &testutil.StubProvider{Reply: "ok"}
	ctrl, _ := newTestController(t, provider)
	ctx := context.Background()

	id := ctrl.NewConversation()
	if _, err := ctrl.SubmitTurn(ctx, id, "one"); err != nil {
		t.Fatalf("SubmitTurn() error = %v", err)
	}
	if _, err := ctrl.SubmitTurn(ctx, id, "two"); err != nil {
		t.Fatalf("SubmitTurn() error = %v", err)
	}

	calls := provider.Calls()
	if len(calls) != 2 {
		t.Fatalf("provider called %d times, want 2", len(calls))
	}
	// Second call: prior user turn, prior reply, new user turn.
	second := calls[1]
	if len(second) != 3 {
		t.Fatalf("second call history length = %d, want 3", len(second))
	}
	if second[0].Content != "one" || second[1].Content != "ok" || second[2].Content != "two" {
		t.Errorf("second call history = %+v", second)
	}
}

func TestController_SystemPromptPrepended(t *testing.T) {
	provider := &testutil.StubProvider{Reply: "ok"}
	store := newTestStore(t)
	ctrl := NewController(store, provider, "be terse", 0)
	ctx := context.Background()

	id := ctrl.NewConversation()
	if _, err := ctrl.SubmitTurn(ctx, id, "hello"); err != nil {
		t.Fatalf("SubmitTurn() error = %v", err)
	}

	calls := provider.Calls()
	if len(calls) != 1 || len(calls[0]) != 2 {
		t.Fatalf("unexpected provider calls: %+v", calls)
	}
	if calls[0][0].Role != "system" || calls[0][0].Content != "be terse" {
		t.Errorf("first message = %+v, want system prompt", calls[0][0])
	}

	// The system prompt is never persisted.
	history, _ := ctrl.History(ctx, id)
	for _, msg := range history {
		if msg.Role == "system" {
			t.Error("system prompt leaked into stored history")
		}
	}
}

func TestController_ProviderFailureKeepsUserTurn(t *testing.T) {
	provider := &testutil.StubProvider{Err: &llm.ProviderError{StatusCode: 503, Err: errors.New("down")}}
	ctrl, _ := newTestController(t, provider)
	ctx := context.Background()

	id := ctrl.NewConversation()
	_, err := ctrl.SubmitTurn(ctx, id, "Hi")
	if err == nil {
		t.Fatal("SubmitTurn() expected error from failing provider")
	}
	if !llm.IsProviderError(err) {
		t.Errorf("SubmitTurn() error = %T, want provider error", err)
	}

	// The user turn stays checkpointed so the conversation is resumable.
	history, herr := ctrl.History(ctx, id)
	if herr != nil {
		t.Fatalf("History() error = %v", herr)
	}
	if len(history) != 1 || history[0].Role != RoleUser {
		t.Errorf("History() after provider failure = %+v, want just the user turn", history)
	}
}

func TestController_StreamTurn(t *testing.T) {
	provider := &testutil.StubProvider{Chunks: []string{"Hel", "lo!"}}
	ctrl, _ := newTestController(t, provider)
	ctx := context.Background()

	id := ctrl.NewConversation()
	var chunks []string
	reply, err := ctrl.StreamTurn(ctx, id, "Hi", func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamTurn() error = %v", err)
	}
	if reply != "Hello!" {
		t.Errorf("StreamTurn() reply = %q, want %q", reply, "Hello!")
	}
	if len(chunks) != 2 || chunks[0] != "Hel" || chunks[1] != "lo!" {
		t.Errorf("chunks = %v, want [Hel lo!]", chunks)
	}

	history, _ := ctrl.History(ctx, id)
	if len(history) != 2 || history[1].Content != "Hello!" {
		t.Errorf("History() after stream = %+v", history)
	}
}

func TestController_AbandonedStreamNotPersisted(t *testing.T) {
	provider := &testutil.StubProvider{Chunks: []string{"partial", " reply"}}
	ctrl, _ := newTestController(t, provider)
	ctx := context.Background()

	abandon := errors.New("consumer gone")
	id := ctrl.NewConversation()
	_, err := ctrl.StreamTurn(ctx, id, "Hi", func(chunk string) error {
		return abandon
	})
	if !errors.Is(err, abandon) {
		t.Fatalf("StreamTurn() error = %v, want %v", err, abandon)
	}

	// The partial reply must not appear as if it were complete.
	history, _ := ctrl.History(ctx, id)
	if len(history) != 1 || history[0].Role != RoleUser {
		t.Errorf("History() after abandoned stream = %+v, want just the user turn", history)
	}
}

func TestController_DeleteConversation(t *testing.T) {
	provider := &testutil.StubProvider{Reply: "Hello!"}
	ctrl, _ := newTestController(t, provider)
	ctx := context.Background()

	id := ctrl.NewConversation()
	if _, err := ctrl.SubmitTurn(ctx, id, "Hi"); err != nil {
		t.Fatalf("SubmitTurn() error = %v", err)
	}
	if err := ctrl.DeleteConversation(ctx, id); err != nil {
		t.Fatalf("DeleteConversation() error = %v", err)
	}

	history, err := ctrl.History(ctx, id)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 0 {
		t.Errorf("History() after delete = %+v, want empty", history)
	}

	// Deleting again is a no-op success.
	if err := ctrl.DeleteConversation(ctx, id); err != nil {
		t.Errorf("second DeleteConversation() error = %v, want nil", err)
	}
}
