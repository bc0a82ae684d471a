package entity

import "github.com/samber/lo"

// DeliveryChannel selects how a challenge code reaches the user.
type DeliveryChannel int

const (
	// DeliveryChannelEmail delivers the code by email.
	DeliveryChannelEmail DeliveryChannel = iota
	// DeliveryChannelSMS delivers the code by text message.
	DeliveryChannelSMS
)

// String returns the canonical channel name.
func (c DeliveryChannel) String() string {
	if c == DeliveryChannelSMS {
		return "SMS"
	}
	return "EMAIL"
}

// DeliveryChannelFromString parses a canonical channel name, defaulting to email.
func DeliveryChannelFromString(s string) DeliveryChannel {
	return lo.Ternary(s == "SMS", DeliveryChannelSMS, DeliveryChannelEmail)
}

// DeliveryChannelFromSMS maps the wire-level sms flag to a channel.
func DeliveryChannelFromSMS(sms bool) DeliveryChannel {
	return lo.Ternary(sms, DeliveryChannelSMS, DeliveryChannelEmail)
}

// AttemptStep marks which protocol step an audit row belongs to.
type AttemptStep int

const (
	// AttemptStepIssue is the challenge issuance step.
	AttemptStepIssue AttemptStep = iota
	// AttemptStepVerify is the code verification step.
	AttemptStepVerify
)

// String returns the step name stored in the audit trail.
func (s AttemptStep) String() string {
	if s == AttemptStepVerify {
		return "VERIFY"
	}
	return "ISSUE"
}
