package inbound

import (
	"errors"
	"net/http"

	"github.com/gnelabs/authgate/internal/auth/usecase"
	"github.com/gnelabs/authgate/internal/pkg/goerror"
	"github.com/gnelabs/authgate/internal/pkg/router"
)

// HTTPEndpoint exposes the challenge issuer and verifier handlers.
//
// Both endpoints always answer with their own flat JSON body, so usecase
// errors are translated here instead of being returned to the router's
// generic error codec.
type HTTPEndpoint struct {
	uc uc
}

// Login issues a 2FA challenge for a username/password login attempt.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return LoginResponse{Message: msgMissingParams, status: http.StatusBadRequest}, nil
	}
	if req.Username == nil || req.Password == nil || req.SMS == nil {
		return LoginResponse{Message: msgMissingParams, status: http.StatusBadRequest}, nil
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Username: *req.Username,
		Password: *req.Password,
		SMS:      *req.SMS,
	})
	if err != nil {
		return loginErrorResponse(err), nil
	}

	return LoginResponse{
		ChallengeID: resp.ChallengeID,
		Message:     msgChallengeIssued,
		status:      http.StatusOK,
	}, nil
}

// LoginChallenge verifies a challenge code and completes the login.
func (h *HTTPEndpoint) LoginChallenge(r *router.Request) (any, error) {
	var req LoginChallengeRequest
	if err := r.DecodeBody(&req); err != nil {
		return LoginChallengeResponse{Message: msgMissingParams, status: http.StatusBadRequest}, nil
	}
	if req.Code == nil || req.Challenge == nil || req.Username == nil || req.Password == nil || req.SMS == nil {
		return LoginChallengeResponse{Message: msgMissingParams, status: http.StatusBadRequest}, nil
	}

	resp, err := h.uc.LoginChallenge(r.Context(), usecase.LoginChallengeInput{
		Code:        *req.Code,
		ChallengeID: *req.Challenge,
		Username:    *req.Username,
		Password:    *req.Password,
		SMS:         *req.SMS,
	})
	if err != nil {
		return loginChallengeErrorResponse(err), nil
	}

	return LoginChallengeResponse{
		Successful:  true,
		Message:     msgAuthenticated,
		AccessToken: resp.AccessToken,
		status:      http.StatusOK,
	}, nil
}

func loginErrorResponse(err error) LoginResponse {
	var gerr *goerror.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Type() == goerror.TypeValidation:
			return LoginResponse{Message: msgMissingParams, status: http.StatusBadRequest}
		case gerr.Code() == goerror.CodeUnauthorized:
			return LoginResponse{Message: msgLoginFailed, status: http.StatusUnauthorized}
		}
	}
	return LoginResponse{Message: msgServerError, status: http.StatusInternalServerError}
}

func loginChallengeErrorResponse(err error) LoginChallengeResponse {
	var gerr *goerror.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Type() == goerror.TypeValidation:
			return LoginChallengeResponse{Message: msgMissingParams, status: http.StatusBadRequest}
		case gerr.Code() == goerror.CodeUnauthorized:
			return LoginChallengeResponse{Message: msgAuthFailed, status: http.StatusUnauthorized}
		}
	}
	return LoginChallengeResponse{Message: msgServerError, status: http.StatusInternalServerError}
}
