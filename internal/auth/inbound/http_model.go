package inbound

// Response messages are part of the wire contract; clients match on them.
const (
	msgMissingParams   = "No parameters specified or missing parameters."
	msgServerError     = "Something went wrong server-side."
	msgChallengeIssued = "Successfully generated challenge ID."
	msgLoginFailed     = "Failed to login."
	msgAuthenticated   = "Successfully authenticated. Logging in."
	msgAuthFailed      = "Failed to authenticate."
)

// LoginRequest is the issuer request body. Fields are pointers so a missing
// key is distinguishable from a zero value.
type LoginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	SMS      *bool   `json:"sms"`
}

// LoginResponse is the issuer response body.
type LoginResponse struct {
	ChallengeID string `json:"challenge_id"`
	Message     string `json:"message"`

	status int
}

// StatusCode reports the HTTP status the payload should be written with.
func (r LoginResponse) StatusCode() int { return r.status }

// LoginChallengeRequest is the verifier request body.
type LoginChallengeRequest struct {
	Code      *string `json:"code"`
	Challenge *string `json:"challenge"`
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	SMS       *bool   `json:"sms"`
}

// LoginChallengeResponse is the verifier response body.
type LoginChallengeResponse struct {
	Successful  bool   `json:"2fa_login_successful"`
	Message     string `json:"message"`
	AccessToken string `json:"access_token,omitempty"`

	status int
}

// StatusCode reports the HTTP status the payload should be written with.
func (r LoginChallengeResponse) StatusCode() int { return r.status }
