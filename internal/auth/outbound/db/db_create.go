package db

import (
	"context"

	"github.com/gnelabs/authgate/internal/auth/entity"
)

const createLoginAttemptSQL = `
INSERT INTO login_attempts (id, username, challenge_id, step, success, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

// CreateLoginAttempt appends one row to the login audit trail.
func (s *DB) CreateLoginAttempt(ctx context.Context, in entity.LoginAttempt) (err error) {
	ctx, span := s.startSpan(ctx, "CreateLoginAttempt")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, createLoginAttemptSQL,
		in.ID, in.Username, in.ChallengeID, in.Step.String(), in.Success, in.CreatedAt)
	err = s.mapError(err)
	return err
}
