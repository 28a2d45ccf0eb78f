package session

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var ErrClientRequired = errors.New("client id is required")

// Storage is the durable key/value namespace of one browser client.
// Put writes every key of values in a single step; Clear removes the
// whole namespace, not just the session keys.
type Storage interface {
	Load(ctx context.Context, clientID string) (map[string]string, error)
	Put(ctx context.Context, clientID string, values map[string]string) error
	Clear(ctx context.Context, clientID string) error
}

// Backend is a Storage that holds external resources.
type Backend interface {
	Storage
	Close() error
}

type MemoryStorage struct {
	mu      sync.RWMutex
	clients map[string]map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{clients: make(map[string]map[string]string)}
}

func (s *MemoryStorage) Load(_ context.Context, clientID string) (map[string]string, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, ErrClientRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyValues(s.clients[clientID]), nil
}

func (s *MemoryStorage) Put(_ context.Context, clientID string, values map[string]string) error {
	if strings.TrimSpace(clientID) == "" {
		return ErrClientRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.clients[clientID]
	if !ok {
		ns = make(map[string]string, len(values))
		s.clients[clientID] = ns
	}
	for k, v := range values {
		ns[k] = v
	}
	return nil
}

func (s *MemoryStorage) Clear(_ context.Context, clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return ErrClientRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, clientID)
	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}

func copyValues(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
