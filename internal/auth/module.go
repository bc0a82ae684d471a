package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gnelabs/authgate/internal/auth/inbound"
	"github.com/gnelabs/authgate/internal/auth/outbound/db"
	"github.com/gnelabs/authgate/internal/auth/outbound/mq"
	"github.com/gnelabs/authgate/internal/auth/outbound/store"
	"github.com/gnelabs/authgate/internal/auth/usecase"
	"github.com/gnelabs/authgate/internal/pkg/clock"
	"github.com/gnelabs/authgate/internal/pkg/config"
	"github.com/gnelabs/authgate/internal/pkg/goroutine"
	"github.com/gnelabs/authgate/internal/pkg/hash"
	"github.com/gnelabs/authgate/internal/pkg/instrument"
	"github.com/gnelabs/authgate/internal/pkg/jwt"
	"github.com/gnelabs/authgate/internal/pkg/messaging"
	"github.com/gnelabs/authgate/internal/pkg/router"
	"github.com/gnelabs/authgate/internal/pkg/token"
	"github.com/gnelabs/authgate/internal/pkg/twofa"
	"github.com/gnelabs/authgate/internal/pkg/uid"
	"github.com/gnelabs/authgate/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Provider   twofa.Provider             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Token      token.Generator            `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	credStore := store.New(dep.CacheConn, dep.Config, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		Store:      credStore,
		RepoDB:     dbAuth,
		Provider:   dep.Provider,
		Validator:  dep.Validator,
		Config:     dep.Config,
		HMAC:       dep.HMAC,
		Token:      dep.Token,
		UUID:       dep.UUID,
		UID:        dep.UID,
		Clock:      dep.Clock,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
		Goroutine:  dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}

// NewDeliverer exposes the challenge code publisher so the provider can be
// built with it before the module itself is wired.
func NewDeliverer(client messaging.Messaging, ins instrument.Instrumentation) *mq.Messaging {
	return mq.NewMessaging(client, ins)
}
