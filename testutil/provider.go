package testutil

import (
	"context"
	"sync"

	"github.com/chatloom/chatloom/internal/llm"
)

// StubProvider is a canned inference provider for tests. It records every
// history it was called with and replies with Reply, or fails with Err.
type StubProvider struct {
	Reply  string
	Chunks []string // streaming delivery; defaults to one chunk of Reply
	Err    error

	mu    sync.Mutex
	calls [][]llm.Message
}

// Generate returns the canned reply
func (p *StubProvider) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	p.record(messages)
	if p.Err != nil {
		return "", p.Err
	}
	return p.Reply, nil
}

// GenerateStream delivers the canned chunks through onDelta
func (p *StubProvider) GenerateStream(ctx context.Context, messages []llm.Message, onDelta func(chunk string) error) (string, error) {
	p.record(messages)
	if p.Err != nil {
		return "", p.Err
	}

	chunks := p.Chunks
	if chunks == nil {
		chunks = []string{p.Reply}
	}
	var full string
	for _, chunk := range chunks {
		full += chunk
		if onDelta != nil {
			if err := onDelta(chunk); err != nil {
				return "", err
			}
		}
	}
	return full, nil
}

// Calls returns the histories passed to the provider, in call order
func (p *StubProvider) Calls() [][]llm.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]llm.Message, len(p.calls))
	copy(out, p.calls)
	return out
}

func (p *StubProvider) record(messages []llm.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	copied := make([]llm.Message, len(messages))
	copy(copied, messages)
	p.calls = append(p.calls, copied)
}
