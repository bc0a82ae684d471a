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

// LoginInput is the issuer request after wire decoding.
type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	SMS      bool
}

// LoginOutput carries the challenge id returned to the client.
type LoginOutput struct {
	ChallengeID string
}

// Login issues a 2FA challenge for a login attempt.
//
// The device token is generated fresh, stored (as a keyed digest) under the
// challenge id, and the provider is asked to issue the challenge. The store
// write happens first; if it fails the provider is never consulted.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	username := strings.TrimSpace(in.Username)

	deviceToken, err := s.token.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate device token", "error", err)
		return nil, goerror.NewServer(err)
	}

	digest, err := s.hmac.Hash(deviceToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash device token", "error", err)
		return nil, goerror.NewServer(err)
	}

	ch := entity.Challenge{
		ID:              s.uuid.Generate(),
		Username:        username,
		DeviceTokenHash: string(digest),
		Channel:         entity.DeliveryChannelFromSMS(in.SMS),
		IssuedAt:        s.clock.Now(),
	}

	if err := s.store.Save(ctx, ch); err != nil {
		slog.ErrorContext(ctx, "failed to persist credential record",
			"challenge_id", ch.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	err = s.provider.IssueChallenge(ctx, twofa.Credentials{
		Username: username,
		Password: in.Password,
	}, twofa.Challenge{
		ID:          ch.ID,
		Username:    ch.Username,
		DeviceToken: ch.DeviceTokenHash,
		Channel:     ch.Channel.String(),
		IssuedAt:    ch.IssuedAt,
	})
	if errors.Is(err, twofa.ErrRejected) {
		s.audit(ctx, username, ch.ID, entity.AttemptStepIssue, false)
		return nil, goerror.NewBusiness("invalid username or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue challenge with provider",
			"challenge_id", ch.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.audit(ctx, username, ch.ID, entity.AttemptStepIssue, true)

	return &LoginOutput{ChallengeID: ch.ID}, nil
}
