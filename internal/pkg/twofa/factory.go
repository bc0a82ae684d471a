package twofa

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverMock selects the accept-everything stub provider.
	DriverMock = "mock"
	// DriverOTP selects the TOTP-backed provider.
	DriverOTP = "otp"
)

// ErrUnknownDriver indicates an unsupported provider driver.
var ErrUnknownDriver = errors.New("twofa: unknown driver")

// FactoryOptions groups config for the supported providers.
type FactoryOptions struct {
	// OTP provides configuration for the TOTP driver.
	OTP OTPConfig
}

// NewFromDriver constructs a Provider by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (Provider, error) {
	switch strings.TrimSpace(driver) {
	case DriverMock:
		return NewMock(), nil
	case DriverOTP:
		return NewOTP(opts.OTP)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
