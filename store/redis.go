package store

import (
	"context"
	"encoding/json"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/chatmodel"
	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentchain", "store")

// The redis store implements the MessageStore interface using Redis as the
// backend. The keys namespace is organized as follows:
// - `/<prefix>/chatstore/<tenantID>/messages/<chatID>` for chat messages
// - `/<prefix>/chatstore/<tenantID>/chats` for the set of chat IDs of a tenant
type redisStore struct {
	client *redis.Client
	prefix string
}

var (
	_ MessageStore = (*redisStore)(nil)
	_ ChatLister   = (*redisStore)(nil)
)

// NewRedisStore creates a Redis-backed MessageStore under a key prefix.
func NewRedisStore(client *redis.Client, prefix string) MessageStore {
	return &redisStore{
		client: client,
		prefix: prefix,
	}
}

func (m *redisStore) messagesKey(tenantID, chatID string) string {
	return path.Join(m.prefix, "chatstore", tenantID, "messages", chatID)
}

func (m *redisStore) chatListKey(tenantID string) string {
	return path.Join(m.prefix, "chatstore", tenantID, "chats")
}

func (m *redisStore) Messages(ctx context.Context) []llms.Message {
	tenantID, chatID, err := chatmodel.GetTenantAndChatID(ctx)
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR, "reason", "GetTenantAndChatID", "err", err.Error())
		return nil
	}

	key := m.messagesKey(tenantID, chatID)
	data, err := m.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR, "reason", "LRange", "key", key, "err", err.Error())
		return nil
	}

	var messages []llms.Message
	for _, item := range data {
		var model messageModel
		if err := json.Unmarshal([]byte(item), &model); err != nil {
			logger.ContextKV(ctx, xlog.ERROR, "reason", "unmarshal_message", "err", err.Error())
			continue
		}
		messages = append(messages, fromModel(model))
	}
	return messages
}

func (m *redisStore) Add(ctx context.Context, msgs ...llms.Message) error {
	tenantID, chatID, err := chatmodel.GetTenantAndChatID(ctx)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}

	key := m.messagesKey(tenantID, chatID)
	pipe := m.client.Pipeline()
	for _, msg := range msgs {
		data, err := json.Marshal(toModel(msg))
		if err != nil {
			return errors.WithMessage(err, "failed to marshal message")
		}
		pipe.RPush(ctx, key, data)
	}
	// Keep only the most recent messages
	pipe.LTrim(ctx, key, int64(-DefaultMaxMessages), -1)
	pipe.SAdd(ctx, m.chatListKey(tenantID), chatID)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WithMessage(err, "failed to store messages in Redis")
	}
	return nil
}

func (m *redisStore) Reset(ctx context.Context) error {
	tenantID, chatID, err := chatmodel.GetTenantAndChatID(ctx)
	if err != nil {
		return err
	}

	pipe := m.client.Pipeline()
	pipe.Del(ctx, m.messagesKey(tenantID, chatID))
	pipe.SRem(ctx, m.chatListKey(tenantID), chatID)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WithMessage(err, "failed to reset chat in Redis")
	}
	return nil
}

// ListChats returns the chat IDs stored for a tenant.
func (m *redisStore) ListChats(ctx context.Context, tenantID string) ([]string, error) {
	ids, err := m.client.SMembers(ctx, m.chatListKey(tenantID)).Result()
	if err != nil {
		return nil, errors.WithMessage(err, "failed to list chats")
	}
	return ids, nil
}
