package tokens

import (
	"context"
	"sync"
)

// MemoryStore keeps credentials for the lifetime of the process only.
type MemoryStore struct {
	mu    sync.Mutex
	creds Credentials
}

func NewMemoryStore(creds Credentials) *MemoryStore {
	return &MemoryStore{creds: creds}
}

func (m *MemoryStore) Access(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds.Access
}

func (m *MemoryStore) Refresh(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds.Refresh
}

func (m *MemoryStore) SetTokens(ctx context.Context, access, refresh string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds.Access = access
	if refresh != "" {
		m.creds.Refresh = refresh
	}
}

func (m *MemoryStore) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = Credentials{}
}
