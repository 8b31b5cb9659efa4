// Package favorites keeps each administrator's starred prompts.
package favorites

import (
	"context"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
)

type Store interface {
	List(ctx context.Context, owner string) ([]string, error)
	Add(ctx context.Context, owner, promptID string) error
	Remove(ctx context.Context, owner, promptID string) error
}

// RedisStore keeps one set per owner.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, prefix: "cop:favorites:"}
}

func (s *RedisStore) key(owner string) string {
	return s.prefix + owner
}

func (s *RedisStore) List(ctx context.Context, owner string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.key(owner)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *RedisStore) Add(ctx context.Context, owner, promptID string) error {
	return s.client.SAdd(ctx, s.key(owner), promptID).Err()
}

func (s *RedisStore) Remove(ctx context.Context, owner, promptID string) error {
	return s.client.SRem(ctx, s.key(owner), promptID).Err()
}

// MemoryStore is a process-local Store for single-instance deployments
// without redis.
type MemoryStore struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: make(map[string]map[string]struct{})}
}

func (s *MemoryStore) List(_ context.Context, owner string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sets[owner]))
	for id := range s.sets[owner] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) Add(_ context.Context, owner, promptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[owner]
	if !ok {
		set = make(map[string]struct{})
		s.sets[owner] = set
	}
	set[promptID] = struct{}{}
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, owner, promptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets[owner], promptID)
	return nil
}
