package llm

import "context"

// Message is a role-tagged text turn sent to or received from a provider
type Message struct {
	Role    string
	Content string
}

// Provider abstracts a hosted chat-completion API. Implementations receive
// the full ordered message history on every call and return one reply.
type Provider interface {
	// Generate returns the complete reply for the given history.
	Generate(ctx context.Context, messages []Message) (string, error)

	// GenerateStream delivers the reply incrementally through onDelta and
	// returns the concatenated full reply once the stream is drained. If
	// onDelta returns an error the stream is abandoned and that error is
	// returned.
	GenerateStream(ctx context.Context, messages []Message, onDelta func(chunk string) error) (string, error)
}
