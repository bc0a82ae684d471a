package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gnelabs/authgate/internal/auth/entity"
	"github.com/gnelabs/authgate/internal/pkg/config"
	"github.com/gnelabs/authgate/internal/pkg/goerror"
	"github.com/gnelabs/authgate/internal/pkg/instrument"
)

const defaultTTL = 5 * time.Minute

// Store persists credential records in redis.
//
// Each challenge lives under its own key, and a per-user pointer tracks the
// latest challenge issued for that user so older ones can be refused. Both
// keys expire with the challenge validity window.
type Store struct {
	client    *redis.Client
	ins       instrument.Instrumentation
	namespace string
	ttl       time.Duration
}

// New builds a Store from a redis client and runtime configuration.
func New(client *redis.Client, cfg config.Config, ins instrument.Instrumentation) *Store {
	namespace := cfg.GetString("store.namespace")
	if namespace == "" {
		namespace = "authgate"
	}

	ttl := cfg.GetMinute("auth.challenge_ttl_minutes")
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Store{
		client:    client,
		ins:       ins,
		namespace: namespace,
		ttl:       ttl,
	}
}

func (s *Store) challengeKey(id string) string {
	return s.namespace + ":challenge:" + id
}

func (s *Store) userKey(username string) string {
	return s.namespace + ":user:" + username
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.outbound.store").Start(ctx, name)
}

func (s *Store) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Save writes the challenge record and moves the user's latest pointer to it.
func (s *Store) Save(ctx context.Context, ch entity.Challenge) (err error) {
	ctx, span := s.startSpan(ctx, "Save")
	defer func() { s.endSpan(span, err) }()

	payload, err := json.Marshal(ch)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.challengeKey(ch.ID), payload, s.ttl)
		pipe.Set(ctx, s.userKey(ch.Username), ch.ID, s.ttl)
		return nil
	})
	return err
}

// GetByID loads a challenge record, or goerror.ErrNotFound when the key is
// missing or already expired.
func (s *Store) GetByID(ctx context.Context, id string) (ch *entity.Challenge, err error) {
	ctx, span := s.startSpan(ctx, "GetByID")
	defer func() { s.endSpan(span, err) }()

	payload, err := s.client.Get(ctx, s.challengeKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var record entity.Challenge
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// LatestIDForUser returns the id of the most recent challenge issued for the
// user, or goerror.ErrNotFound when none is outstanding.
func (s *Store) LatestIDForUser(ctx context.Context, username string) (id string, err error) {
	ctx, span := s.startSpan(ctx, "LatestIDForUser")
	defer func() { s.endSpan(span, err) }()

	id, err = s.client.Get(ctx, s.userKey(username)).Result()
	if errors.Is(err, redis.Nil) {
		return "", goerror.ErrNotFound
	}
	return id, err
}

// Delete removes the challenge record and, when it still points at this
// challenge, the user's latest pointer.
func (s *Store) Delete(ctx context.Context, ch entity.Challenge) (err error) {
	ctx, span := s.startSpan(ctx, "Delete")
	defer func() { s.endSpan(span, err) }()

	if err := s.client.Del(ctx, s.challengeKey(ch.ID)).Err(); err != nil {
		return err
	}

	latest, err := s.client.Get(ctx, s.userKey(ch.Username)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	if latest == ch.ID {
		return s.client.Del(ctx, s.userKey(ch.Username)).Err()
	}
	return nil
}
