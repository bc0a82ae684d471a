package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gnelabs/authgate/internal/pkg/clock"
	"github.com/gnelabs/authgate/internal/pkg/config"
	"github.com/gnelabs/authgate/internal/pkg/goroutine"
	"github.com/gnelabs/authgate/internal/pkg/hash"
	"github.com/gnelabs/authgate/internal/pkg/instrument"
	"github.com/gnelabs/authgate/internal/pkg/jwt"
	"github.com/gnelabs/authgate/internal/pkg/mail"
	"github.com/gnelabs/authgate/internal/pkg/messaging"
	"github.com/gnelabs/authgate/internal/pkg/router"
	"github.com/gnelabs/authgate/internal/pkg/token"
	"github.com/gnelabs/authgate/internal/pkg/twofa"
	"github.com/gnelabs/authgate/internal/pkg/uid"
	"github.com/gnelabs/authgate/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	bcrypt    hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	token     token.Generator
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	mail      mail.Mail
	messaging messaging.Messaging
	provider  twofa.Provider

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initMessaging()
	app.initProvider()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
