package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type FileStorage struct {
	path string

	mu      sync.RWMutex
	clients map[string]map[string]string
}

func NewFileStorage(path string) (*FileStorage, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage file path is required")
	}

	s := &FileStorage{
		path:    path,
		clients: make(map[string]map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStorage) Load(_ context.Context, clientID string) (map[string]string, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, ErrClientRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyValues(s.clients[clientID]), nil
}

func (s *FileStorage) Put(_ context.Context, clientID string, values map[string]string) error {
	if strings.TrimSpace(clientID) == "" {
		return ErrClientRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.clients[clientID]
	next := copyValues(prev)
	for k, v := range values {
		next[k] = v
	}
	s.clients[clientID] = next
	if err := s.persistLocked(); err != nil {
		if existed {
			s.clients[clientID] = prev
		} else {
			delete(s.clients, clientID)
		}
		return err
	}
	return nil
}

func (s *FileStorage) Clear(_ context.Context, clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return ErrClientRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.clients[clientID]
	if !existed {
		return nil
	}
	delete(s.clients, clientID)
	if err := s.persistLocked(); err != nil {
		s.clients[clientID] = prev
		return err
	}
	return nil
}

func (s *FileStorage) Close() error {
	return nil
}

func (s *FileStorage) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read storage file: %w", err)
	}
	if len(b) == 0 {
		return nil
	}

	var decoded map[string]map[string]string
	if err := json.Unmarshal(b, &decoded); err != nil {
		return fmt.Errorf("decode storage file: %w", err)
	}
	for id, values := range decoded {
		if strings.TrimSpace(id) == "" {
			continue
		}
		s.clients[id] = copyValues(values)
	}
	return nil
}

func (s *FileStorage) persistLocked() error {
	b, err := json.MarshalIndent(s.clients, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir storage dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
