package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Store persists cart state. Implementations replace whole collections
// on every write and treat missing or corrupt data as an empty cart.
type Store interface {
	Load(ctx context.Context, cartID string) State
	Save(ctx context.Context, cartID string, state State)
	Delete(ctx context.Context, cartID string)
}

// RedisStore keeps carts in Redis under per-collection keys.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
	Logger zerolog.Logger
}

func (s *RedisStore) key(cartID, part string) string {
	return fmt.Sprintf("cart:%s:%s", cartID, part)
}

// Load reads the cart. Read failures and corrupt payloads degrade to an
// empty collection rather than surfacing an error.
func (s *RedisStore) Load(ctx context.Context, cartID string) State {
	var state State
	s.loadPart(ctx, s.key(cartID, "active"), &state.Active)
	s.loadPart(ctx, s.key(cartID, "saved"), &state.Saved)
	s.loadPart(ctx, s.key(cartID, "meta"), &state.Meta)
	return state
}

func (s *RedisStore) loadPart(ctx context.Context, key string, dst any) {
	data, err := s.Client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.Logger.Warn().Err(err).Str("key", key).Msg("cart read")
		}
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.Logger.Warn().Err(err).Str("key", key).Msg("cart payload corrupt, resetting")
	}
}

// Save replaces all cart collections. Write failures are logged and
// swallowed so a flaky store never breaks the shopping flow.
func (s *RedisStore) Save(ctx context.Context, cartID string, state State) {
	s.savePart(ctx, s.key(cartID, "active"), state.Active)
	s.savePart(ctx, s.key(cartID, "saved"), state.Saved)
	s.savePart(ctx, s.key(cartID, "meta"), state.Meta)
}

func (s *RedisStore) savePart(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.Logger.Warn().Err(err).Str("key", key).Msg("cart encode")
		return
	}
	if err := s.Client.Set(ctx, key, data, s.TTL).Err(); err != nil {
		s.Logger.Warn().Err(err).Str("key", key).Msg("cart write")
	}
}

// Delete removes every cart key.
func (s *RedisStore) Delete(ctx context.Context, cartID string) {
	keys := []string{s.key(cartID, "active"), s.key(cartID, "saved"), s.key(cartID, "meta")}
	if err := s.Client.Del(ctx, keys...).Err(); err != nil {
		s.Logger.Warn().Err(err).Str("cart_id", cartID).Msg("cart delete")
	}
}

// MemoryStore is the in-process fallback used when Redis is not configured.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]State
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]State)}
}

func (s *MemoryStore) Load(ctx context.Context, cartID string) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.carts[cartID]
}

func (s *MemoryStore) Save(ctx context.Context, cartID string, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cartID] = state
}

func (s *MemoryStore) Delete(ctx context.Context, cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
}
