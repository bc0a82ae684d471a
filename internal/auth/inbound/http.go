package inbound

import (
	"context"

	"github.com/gnelabs/authgate/internal/auth/usecase"
	"github.com/gnelabs/authgate/internal/pkg/router"
)

type uc interface {
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	LoginChallenge(ctx context.Context, in usecase.LoginChallengeInput) (*usecase.LoginChallengeOutput, error)
}

// RegisterHTTPEndpoint mounts the two protocol endpoints on the router.
func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/login", end.Login)
	r.POST("/api/loginchallenge", end.LoginChallenge)
}
