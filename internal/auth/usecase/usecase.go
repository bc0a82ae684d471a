package usecase

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/gnelabs/authgate/internal/auth/entity"
	"github.com/gnelabs/authgate/internal/pkg/clock"
	"github.com/gnelabs/authgate/internal/pkg/config"
	"github.com/gnelabs/authgate/internal/pkg/goroutine"
	"github.com/gnelabs/authgate/internal/pkg/hash"
	"github.com/gnelabs/authgate/internal/pkg/instrument"
	"github.com/gnelabs/authgate/internal/pkg/jwt"
	"github.com/gnelabs/authgate/internal/pkg/token"
	"github.com/gnelabs/authgate/internal/pkg/twofa"
	"github.com/gnelabs/authgate/internal/pkg/uid"
	"github.com/gnelabs/authgate/internal/pkg/validator"
)

// credentialStore is the persisted handoff between the two protocol steps.
type credentialStore interface {
	Save(ctx context.Context, ch entity.Challenge) error
	GetByID(ctx context.Context, id string) (*entity.Challenge, error)
	LatestIDForUser(ctx context.Context, username string) (string, error)
	Delete(ctx context.Context, ch entity.Challenge) error
}

type repoDB interface {
	CreateLoginAttempt(ctx context.Context, in entity.LoginAttempt) error
}

// Usecase implements the two-step challenge/response workflow.
type Usecase struct {
	store     credentialStore
	repoDB    repoDB
	provider  twofa.Provider
	validator validator.Validator
	cfg       config.Config
	hmac      hash.Hash
	token     token.Generator
	uuid      uid.StringID
	uid       uid.NumberID
	clock     clock.Clocker
	jwt       jwt.JWT
	ins       instrument.Instrumentation
	goroutine *goroutine.Manager
}

// Dependency lists the collaborators a Usecase needs.
type Dependency struct {
	Store      credentialStore
	RepoDB     repoDB
	Provider   twofa.Provider
	Validator  validator.Validator
	Config     config.Config
	HMAC       hash.Hash
	Token      token.Generator
	UUID       uid.StringID
	UID        uid.NumberID
	Clock      clock.Clocker
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
	Goroutine  *goroutine.Manager
}

// New constructs the Usecase from its dependencies.
func New(dep Dependency) *Usecase {
	return &Usecase{
		store:     dep.Store,
		repoDB:    dep.RepoDB,
		provider:  dep.Provider,
		validator: dep.Validator,
		cfg:       dep.Config,
		hmac:      dep.HMAC,
		token:     dep.Token,
		uuid:      dep.UUID,
		uid:       dep.UID,
		clock:     dep.Clock,
		jwt:       dep.JWT,
		ins:       dep.Instrument,
		goroutine: dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

// audit records a login attempt without blocking or failing the request.
func (s *Usecase) audit(ctx context.Context, username, challengeID string, step entity.AttemptStep, success bool) {
	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		err := s.repoDB.CreateLoginAttempt(ctx, entity.LoginAttempt{
			ID:          s.uid.Generate(),
			Username:    username,
			ChallengeID: challengeID,
			Step:        step,
			Success:     success,
			CreatedAt:   s.clock.Now(),
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to record login attempt",
				"username", username, "step", step.String(), "error", err)
		}
		return nil
	})
}
