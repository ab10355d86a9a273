// Package cancel tracks one in-flight request token per purpose.
//
// Acquiring a token for a purpose cancels the token previously registered for it,
// so only the latest request of each kind can ever apply its result.
package cancel

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Purpose names an independently cancellable category of backend calls
type Purpose string

const (
	PurposeSearch       Purpose = "search"
	PurposeListAll      Purpose = "list-all"
	PurposeStatistics   Purpose = "statistics"
	PurposeConnectivity Purpose = "connectivity"
	PurposeExport       Purpose = "export"
	PurposeMutate       Purpose = "mutate"
)

// Token is a cancellation handle for one request
type Token struct {
	id      string
	purpose Purpose
	ctx     context.Context
	cancel  context.CancelFunc
}

func newToken(purpose Purpose) *Token {
	ctx, cancel := context.WithCancel(context.Background())
	return &Token{
		id:      uuid.NewString(),
		purpose: purpose,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ID returns the token's unique id
func (t *Token) ID() string { return t.id }

// Purpose returns the purpose the token was acquired for ("" for one-shot tokens)
func (t *Token) Purpose() Purpose { return t.purpose }

// Context returns a context that is done once the token is cancelled
func (t *Token) Context() context.Context { return t.ctx }

// Cancel signals cancellation. Safe to call more than once.
func (t *Token) Cancel() { t.cancel() }

// Cancelled reports whether Cancel has been called
func (t *Token) Cancelled() bool {
	return t.ctx.Err() != nil
}

// Registry maps purposes to their current token
type Registry struct {
	mu     sync.Mutex
	tokens map[Purpose]*Token
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{tokens: make(map[Purpose]*Token)}
}

// Acquire cancels the token registered for purpose, if any, then registers and returns a fresh one
func (r *Registry) Acquire(purpose Purpose) *Token {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.tokens[purpose]; ok {
		prev.Cancel()
	}
	tok := newToken(purpose)
	r.tokens[purpose] = tok
	return tok
}

// OneShot returns a private token that is never registered and never superseded
func (r *Registry) OneShot() *Token {
	return newToken("")
}

// Current returns the token registered for purpose
func (r *Registry) Current(purpose Purpose) (*Token, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tok, ok := r.tokens[purpose]
	return tok, ok
}

// Release unregisters tok if it is still the current token for its purpose.
// The token itself is not cancelled.
func (r *Registry) Release(tok *Token) {
	if tok == nil || tok.purpose == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.tokens[tok.purpose]; ok && cur == tok {
		delete(r.tokens, tok.purpose)
	}
}

// CancelAll cancels and unregisters every token
func (r *Registry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for purpose, tok := range r.tokens {
		tok.Cancel()
		delete(r.tokens, purpose)
	}
}

// Len returns the number of registered tokens
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
