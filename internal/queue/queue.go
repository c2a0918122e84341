package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mateuseller4-oss/celestial-register/internal/attendance"
)

// Job is an accepted record awaiting out-of-band notification dispatch.
type Job struct {
	SessionID string            `json:"session_id"`
	Record    attendance.Record `json:"record"`
}

// Queue is the abstraction over dispatch-job backends.
type Queue interface {
	Publish(ctx context.Context, job Job) error
	Consume(ctx context.Context) (<-chan Job, error)
}

// InMemory is a channel-backed queue for single-process deployments and
// tests.
type InMemory struct {
	ch chan Job
}

// NewInMemory creates a bounded in-memory queue.
func NewInMemory(size int) *InMemory {
	return &InMemory{ch: make(chan Job, size)}
}

// Publish enqueues a job.
func (q *InMemory) Publish(ctx context.Context, job Job) error {
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume returns a channel for workers.
func (q *InMemory) Consume(ctx context.Context) (<-chan Job, error) {
	out := make(chan Job)
	go func() {
		defer close(out)
		for {
			select {
			case job := <-q.ch:
				out <- job
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Enqueue adapts Publish to the attendance service's Enqueuer.
func (q *InMemory) Enqueue(ctx context.Context, sessionID string, rec attendance.Record) error {
	return q.Publish(ctx, Job{SessionID: sessionID, Record: rec})
}

// RedisQueue implements a Redis list-backed queue with LPUSH/BRPOP
// semantics, jobs stored as JSON.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue builds a Redis queue on the given list key.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = "chamada:dispatch"
	}
	return &RedisQueue{client: client, key: key}
}

// Publish enqueues a job.
func (q *RedisQueue) Publish(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, payload).Err()
}

// Consume streams jobs using BRPOP. Undecodable entries are dropped.
func (q *RedisQueue) Consume(ctx context.Context) (<-chan Job, error) {
	out := make(chan Job)
	go func() {
		defer close(out)
		for {
			res, err := q.client.BRPop(ctx, 5*time.Second, q.key).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if len(res) == 2 {
				var job Job
				if err := json.Unmarshal([]byte(res[1]), &job); err == nil {
					out <- job
				}
			}
		}
	}()
	return out, nil
}

// Enqueue adapts Publish to the attendance service's Enqueuer.
func (q *RedisQueue) Enqueue(ctx context.Context, sessionID string, rec attendance.Record) error {
	return q.Publish(ctx, Job{SessionID: sessionID, Record: rec})
}
