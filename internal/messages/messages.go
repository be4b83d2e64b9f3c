// Package messages collects user-facing notices and errors produced
// while handling one request. The handler drains the collector into the
// response; callers adding messages never see a return value.
package messages

import "sync"

type Messages struct {
	mu      sync.Mutex
	notices []string
	errors  []string
}

func New() *Messages {
	return &Messages{}
}

func (m *Messages) AddNotice(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, text)
}

func (m *Messages) AddError(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, text)
}

func (m *Messages) Notices() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.notices))
	copy(out, m.notices)
	return out
}

func (m *Messages) Errors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.errors))
	copy(out, m.errors)
	return out
}

func (m *Messages) HasErrors() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errors) > 0
}
