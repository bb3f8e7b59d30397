package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"personnel-audit-bot/internal/models"

	"github.com/redis/go-redis/v9"
)

var ErrAlreadyExpired = errors.New("expiry date is in the past")

// BlacklistStore handles blacklist operations (Redis)
type BlacklistStore interface {
	AddEntry(ctx context.Context, entry models.BlacklistEntry) error
	FindEntry(ctx context.Context, discordTag, passport string) (models.BlacklistEntry, bool, error)
	RemoveByPassport(ctx context.Context, passport string) (bool, error)
}

// Journal records emitted audit records (PostgreSQL)
type Journal interface {
	InsertAudit(ctx context.Context, rec models.AuditRecord) error
}

type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(opts *redis.Options) *RedisStore {
	rdb := redis.NewClient(opts)
	return &RedisStore{client: rdb, now: time.Now}
}

// Ping checks connectivity so startup can fail fast on a bad REDIS_ADDR.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func passportKey(passport string) string {
	return fmt.Sprintf("blacklist:passport:%s", strings.TrimSpace(passport))
}

func tagKey(tag string) string {
	return fmt.Sprintf("blacklist:tag:%s", strings.ToLower(strings.TrimSpace(tag)))
}

// maxTxRetries bounds optimistic transaction retries when a watched key changes.
const maxTxRetries = 5

// unlinkTag deletes a tag index key only while it still points at the given passport key.
var unlinkTag = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// watch runs fn in an optimistic transaction over keys, retrying on conflicts.
func (s *RedisStore) watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return redis.TxFailedErr
}

// AddEntry stores entry under its passport and indexes it by Discord tag. A tag
// previously indexed for the same passport is unlinked when the tag changes.
func (s *RedisStore) AddEntry(ctx context.Context, entry models.BlacklistEntry) error {
	var ttl time.Duration
	if at, ok := entry.ExpiresAt(); ok {
		ttl = at.Sub(s.now())
		if ttl <= 0 {
			return ErrAlreadyExpired
		}
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = s.now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := passportKey(entry.PassportNumber)
	newTag := ""
	if entry.DiscordTag != "" {
		newTag = tagKey(entry.DiscordTag)
	}

	return s.watch(ctx, func(tx *redis.Tx) error {
		prev, found, err := getEntry(ctx, tx, key)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if found && prev.DiscordTag != "" && tagKey(prev.DiscordTag) != newTag {
				unlinkTag.Eval(ctx, pipe, []string{tagKey(prev.DiscordTag)}, key)
			}
			pipe.Set(ctx, key, data, ttl)
			if newTag != "" {
				pipe.Set(ctx, newTag, key, ttl)
			}
			return nil
		})
		return err
	}, key)
}

// FindEntry looks up by Discord tag first, then by passport number.
func (s *RedisStore) FindEntry(ctx context.Context, discordTag, passport string) (models.BlacklistEntry, bool, error) {
	if discordTag != "" {
		key, err := s.client.Get(ctx, tagKey(discordTag)).Result()
		switch {
		case err == nil:
			if entry, ok, err := getEntry(ctx, s.client, key); err != nil || ok {
				return entry, ok, err
			}
		case !errors.Is(err, redis.Nil):
			return models.BlacklistEntry{}, false, err
		}
	}

	if passport == "" {
		return models.BlacklistEntry{}, false, nil
	}
	return getEntry(ctx, s.client, passportKey(passport))
}

func getEntry(ctx context.Context, c redis.Cmdable, key string) (models.BlacklistEntry, bool, error) {
	val, err := c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return models.BlacklistEntry{}, false, nil
	} else if err != nil {
		return models.BlacklistEntry{}, false, err
	}

	var entry models.BlacklistEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return models.BlacklistEntry{}, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return entry, true, nil
}

// RemoveByPassport deletes the entry for passport. Its tag index is removed only
// while it still points at this passport.
func (s *RedisStore) RemoveByPassport(ctx context.Context, passport string) (bool, error) {
	key := passportKey(passport)
	removed := false

	err := s.watch(ctx, func(tx *redis.Tx) error {
		entry, ok, err := getEntry(ctx, tx, key)
		if err != nil || !ok {
			removed = false
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			if entry.DiscordTag != "" {
				unlinkTag.Eval(ctx, pipe, []string{tagKey(entry.DiscordTag)}, key)
			}
			return nil
		})
		removed = err == nil
		return err
	}, key)
	return removed, err
}
