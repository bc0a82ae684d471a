package twofa

import "context"

// Mock is a Provider that accepts any credentials and any code.
//
// It preserves the pre-provider behavior of the workflow: issuance always
// succeeds and validation always passes. Record lookup, expiry, and
// supersession checks still apply at the workflow layer, so the rejection
// path stays reachable even with this driver.
type Mock struct{}

// NewMock constructs the accept-everything provider.
func NewMock() *Mock {
	return &Mock{}
}

// IssueChallenge always succeeds.
func (*Mock) IssueChallenge(ctx context.Context, _ Credentials, _ Challenge) error {
	return ctx.Err()
}

// ValidateCode always succeeds.
func (*Mock) ValidateCode(ctx context.Context, _ Challenge, _ string) error {
	return ctx.Err()
}
