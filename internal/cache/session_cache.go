package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mockprep/internal/model"
)

// ErrStaleRevision means the stored session was deleted or changed since it
// was read
var ErrStaleRevision = errors.New("session revision is stale")

// SessionCache holds live AnswerSessions. Each owner has at most one active
// session; opening another one deletes the previous.
type SessionCache interface {
	// Create stores s as the owner's active session and returns the id of
	// the session it replaced, if any
	Create(ctx context.Context, s *model.AnswerSession) (replacedID string, err error)
	Get(ctx context.Context, id string) (*model.AnswerSession, error)
	// Update writes s only if the stored revision equals expectedRevision,
	// then sets s.Revision to the new revision
	Update(ctx context.Context, s *model.AnswerSession, expectedRevision int64) error
	Delete(ctx context.Context, ownerID, id string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a new session cache; sessions idle longer than ttl expire
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

// Key helpers
func (c *sessionCache) key(id string) string {
	return fmt.Sprintf("answer_session:%s", id)
}

func (c *sessionCache) activeKey(ownerID string) string {
	return fmt.Sprintf("owner:%s:active_session", ownerID)
}

func (c *sessionCache) Create(ctx context.Context, s *model.AnswerSession) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}

	active := c.activeKey(s.OwnerID)
	previous, err := c.client.Get(ctx, active).Result()
	if err != nil && err != redis.Nil {
		return "", err
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if previous != "" && previous != s.ID {
			pipe.Del(ctx, c.key(previous))
		}
		pipe.Set(ctx, c.key(s.ID), data, c.ttl)
		pipe.Set(ctx, active, s.ID, c.ttl)
		return nil
	})
	if err != nil {
		return "", err
	}
	if previous == s.ID {
		previous = ""
	}
	return previous, nil
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.AnswerSession, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s model.AnswerSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *sessionCache) Update(ctx context.Context, s *model.AnswerSession, expectedRevision int64) error {
	key := c.key(s.ID)
	next := *s
	next.Revision = expectedRevision + 1

	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrStaleRevision
		}
		if err != nil {
			return err
		}

		var current model.AnswerSession
		if err := json.Unmarshal(data, &current); err != nil {
			return err
		}
		if current.Revision != expectedRevision {
			return ErrStaleRevision
		}

		payload, err := json.Marshal(&next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, c.ttl)
			pipe.Expire(ctx, c.activeKey(s.OwnerID), c.ttl)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrStaleRevision
	}
	if err != nil {
		return err
	}
	s.Revision = next.Revision
	return nil
}

func (c *sessionCache) Delete(ctx context.Context, ownerID, id string) error {
	active := c.activeKey(ownerID)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, active).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, c.key(id))
			if current == id {
				pipe.Del(ctx, active)
			}
			return nil
		})
		return err
	}, active)

	if errors.Is(err, redis.TxFailedErr) {
		// pointer moved to a newer session; only the old body needs removing
		return c.client.Del(ctx, c.key(id)).Err()
	}
	return err
}
