package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mateuseller4-oss/celestial-register/internal/attendance"
)

// Redis keeps each session's roster in a Redis list (order) plus a set
// (email uniqueness), both expiring with the session. This is session state
// shared across instances, not cross-session persistence: records still die
// with the session.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed roster with the given session TTL.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Redis{client: client, ttl: ttl}
}

func recordsKey(sessionID string) string { return "chamada:roster:" + sessionID + ":records" }
func emailsKey(sessionID string) string  { return "chamada:roster:" + sessionID + ":emails" }

// Append commits a record. SADD is the atomic uniqueness check: a second
// writer with the same email sees 0 added members and loses.
func (r *Redis) Append(ctx context.Context, sessionID string, rec attendance.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	added, err := r.client.SAdd(ctx, emailsKey(sessionID), rec.Email).Result()
	if err != nil {
		return fmt.Errorf("roster email set: %w", err)
	}
	if added == 0 {
		return attendance.ErrDuplicate
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, recordsKey(sessionID), payload)
	pipe.Expire(ctx, recordsKey(sessionID), r.ttl)
	pipe.Expire(ctx, emailsKey(sessionID), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		// Release the email reservation or every retry would read as a
		// duplicate of a record that was never stored.
		r.client.SRem(context.WithoutCancel(ctx), emailsKey(sessionID), rec.Email)
		return fmt.Errorf("roster append: %w", err)
	}
	return nil
}

// Contains reports whether the session already holds the email.
func (r *Redis) Contains(ctx context.Context, sessionID, email string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, emailsKey(sessionID), email).Result()
	if err != nil {
		return false, fmt.Errorf("roster lookup: %w", err)
	}
	return ok, nil
}

// List returns the session's records in insertion order.
func (r *Redis) List(ctx context.Context, sessionID string) ([]attendance.Record, error) {
	raw, err := r.client.LRange(ctx, recordsKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("roster list: %w", err)
	}
	out := make([]attendance.Record, 0, len(raw))
	for _, item := range raw {
		var rec attendance.Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("roster decode: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}
