package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gnelabs/authgate/internal/auth/entity"
	"github.com/gnelabs/authgate/internal/pkg/goerror"
	"github.com/gnelabs/authgate/internal/pkg/twofa"
)

// LoginChallengeInput is the verifier request after wire decoding.
type LoginChallengeInput struct {
	Code        string `validate:"required"`
	ChallengeID string `validate:"required"`
	Username    string `validate:"required"`
	Password    string `validate:"required"`
	SMS         bool
}

// LoginChallengeOutput carries the access token issued on success.
type LoginChallengeOutput struct {
	AccessToken string
}

// LoginChallenge verifies a submitted challenge code and completes the login.
//
// The challenge must exist, belong to the caller, be the latest one issued for
// that user, and still be inside its validity window. All rejections collapse
// into one unauthorized answer so callers learn nothing about which check
// failed.
func (s *Usecase) LoginChallenge(ctx context.Context, in LoginChallengeInput) (*LoginChallengeOutput, error) {
	ctx, span := s.startSpan(ctx, "LoginChallenge")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	username := strings.TrimSpace(in.Username)
	rejected := goerror.NewBusiness("challenge rejected", goerror.CodeUnauthorized)

	ch, err := s.store.GetByID(ctx, in.ChallengeID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "challenge not found", "challenge_id", in.ChallengeID)
		s.audit(ctx, username, in.ChallengeID, entity.AttemptStepVerify, false)
		return nil, rejected
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to load credential record",
			"challenge_id", in.ChallengeID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if ch.Username != username {
		slog.WarnContext(ctx, "challenge does not belong to user", "challenge_id", ch.ID)
		s.audit(ctx, username, ch.ID, entity.AttemptStepVerify, false)
		return nil, rejected
	}

	if s.clock.Now().Sub(ch.IssuedAt) > s.cfg.GetMinute("auth.challenge_ttl_minutes") {
		slog.WarnContext(ctx, "challenge has expired", "challenge_id", ch.ID)
		s.audit(ctx, username, ch.ID, entity.AttemptStepVerify, false)
		return nil, rejected
	}

	latest, err := s.store.LatestIDForUser(ctx, username)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to load latest challenge pointer",
			"challenge_id", ch.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if latest != "" && latest != ch.ID {
		slog.WarnContext(ctx, "challenge superseded by a newer login attempt", "challenge_id", ch.ID)
		s.audit(ctx, username, ch.ID, entity.AttemptStepVerify, false)
		return nil, rejected
	}

	err = s.provider.ValidateCode(ctx, twofa.Challenge{
		ID:          ch.ID,
		Username:    ch.Username,
		DeviceToken: ch.DeviceTokenHash,
		Channel:     ch.Channel.String(),
		IssuedAt:    ch.IssuedAt,
	}, in.Code)
	if errors.Is(err, twofa.ErrRejected) || errors.Is(err, twofa.ErrExpired) {
		s.audit(ctx, username, ch.ID, entity.AttemptStepVerify, false)
		return nil, rejected
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to validate code with provider",
			"challenge_id", ch.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	// Single use: the record is gone once the code has been accepted.
	if err := s.store.Delete(ctx, *ch); err != nil {
		slog.WarnContext(ctx, "failed to delete used credential record",
			"challenge_id", ch.ID, "error", err)
	}

	acToken, err := s.jwt.Generate(username)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token",
			"challenge_id", ch.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.audit(ctx, username, ch.ID, entity.AttemptStepVerify, true)

	return &LoginChallengeOutput{AccessToken: acToken}, nil
}
