package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const conversationPrefix = "launcher:conversation:"

// ConversationStore keeps greeting state per session id.
type ConversationStore interface {
	Load(ctx context.Context, sessionID string) (Conversation, error)
	Save(ctx context.Context, sessionID string, conv Conversation) error
}

type memoryConversations struct {
	mu    sync.Mutex
	convs map[string]Conversation
}

// NewMemoryConversationStore keeps conversations in process memory.
func NewMemoryConversationStore() ConversationStore {
	return &memoryConversations{convs: make(map[string]Conversation)}
}

func (s *memoryConversations) Load(_ context.Context, sessionID string) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.convs[sessionID], nil
}

func (s *memoryConversations) Save(_ context.Context, sessionID string, conv Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs[sessionID] = conv
	return nil
}

// RedisConversationStore keeps conversations in Redis so they survive
// restarts and are shared between instances. Entries expire with the session.
type RedisConversationStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisConversationStore constructs a Redis backed store.
func NewRedisConversationStore(client *redis.Client, ttl time.Duration) *RedisConversationStore {
	return &RedisConversationStore{client: client, ttl: ttl}
}

func (s *RedisConversationStore) Load(ctx context.Context, sessionID string) (Conversation, error) {
	raw, err := s.client.Get(ctx, conversationPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return Conversation{}, nil
	}
	if err != nil {
		return Conversation{}, err
	}
	var conv Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		return Conversation{}, err
	}
	return conv, nil
}

func (s *RedisConversationStore) Save(ctx context.Context, sessionID string, conv Conversation) error {
	payload, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, conversationPrefix+sessionID, payload, s.ttl).Err()
}
