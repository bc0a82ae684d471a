package entity

import "time"

// Challenge is the credential record persisted between the two protocol
// steps. It is keyed by its own ID so concurrent login attempts never share
// state, and it carries the issuance time so the verifier can reject stale
// challenges.
//
// DeviceTokenHash holds the keyed digest of the per-session device token; the
// raw token is discarded after issuance.
type Challenge struct {
	ID              string          `json:"id"`
	Username        string          `json:"username"`
	DeviceTokenHash string          `json:"device_token_hash"`
	Channel         DeliveryChannel `json:"channel"`
	IssuedAt        time.Time       `json:"issued_at"`
}

// LoginAttempt is one row of the login audit trail.
type LoginAttempt struct {
	ID          int64
	Username    string
	ChallengeID string
	Step        AttemptStep
	Success     bool
	CreatedAt   time.Time
}
