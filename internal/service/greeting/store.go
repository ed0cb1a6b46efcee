package greeting

import (
	"context"
	"sync"

	"go.uber.org/zap"

	applog "github.com/janisto/greeting-service/internal/platform/logging"
)

// Store is the in-memory Service. The zero value is not usable; call NewStore.
type Store struct {
	mu  sync.RWMutex
	msg string
}

// NewStore returns a Store holding DefaultMessage.
func NewStore() *Store {
	return NewStoreWithMessage(DefaultMessage)
}

// NewStoreWithMessage returns a Store seeded with msg.
func NewStoreWithMessage(msg string) *Store {
	return &Store{msg: msg}
}

// Get returns the current message.
func (s *Store) Get(_ context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.msg
}

// Set replaces the current message. The lock covers only the assignment;
// logging happens after it is released.
func (s *Store) Set(ctx context.Context, msg string) {
	s.mu.Lock()
	prev := s.msg
	s.msg = msg
	s.mu.Unlock()

	applog.LogInfo(ctx, "greeting updated",
		zap.Int("length", len(msg)),
		zap.Bool("changed", prev != msg),
	)
}

var _ Service = (*Store)(nil)
