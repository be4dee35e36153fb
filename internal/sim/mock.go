package sim

import (
	"context"
	"sync"
)

// MockEngine is a scripted Engine for tests. RunFunc supplies the result for
// each call; requests are recorded for later inspection.
type MockEngine struct {
	PingErr error
	RunFunc func(ctx context.Context, req RunRequest) (*RunResult, error)

	mu    sync.Mutex
	calls []RunRequest
}

// Ping returns the scripted availability error, if any.
func (m *MockEngine) Ping(ctx context.Context) error {
	if m.PingErr != nil {
		return m.PingErr
	}
	return ctx.Err()
}

// Run records the request and delegates to RunFunc. A nil RunFunc yields an
// empty result.
func (m *MockEngine) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.RunFunc == nil {
		return &RunResult{}, nil
	}
	return m.RunFunc(ctx, req)
}

// Calls returns a copy of every recorded request.
func (m *MockEngine) Calls() []RunRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RunRequest, len(m.calls))
	copy(out, m.calls)
	return out
}
