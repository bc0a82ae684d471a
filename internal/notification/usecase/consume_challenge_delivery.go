package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gnelabs/authgate/internal/pkg/mail"
)

const challengeEmailHTML = `<p>Hello,</p>
<p>Your login code is <strong>{{.code}}</strong>.</p>
<p>The code expires in {{.ttl_minutes}} minutes. If you did not try to log in, you can ignore this email.</p>`

type ConsumeChallengeDeliveryInput struct {
	ChallengeID string `validate:"required"`
	Username    string `validate:"required"`
	Channel     string `validate:"required,oneof=EMAIL SMS"`
	Code        string `validate:"required"`
}

// ConsumeChallengeDelivery hands a freshly issued challenge code to the user.
//
// Malformed messages are dropped with a log line rather than returned as
// errors, so a poison message never wedges the consumer.
func (s *Usecase) ConsumeChallengeDelivery(ctx context.Context, in ConsumeChallengeDeliveryInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeChallengeDelivery")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	if in.Channel == "SMS" {
		return s.deliverBySMS(ctx, in)
	}
	return s.deliverByEmail(ctx, in)
}

func (s *Usecase) deliverBySMS(ctx context.Context, in ConsumeChallengeDeliveryInput) error {
	if s.repoSMS == nil {
		slog.WarnContext(ctx, "sms gateway not configured, dropping challenge code",
			"username", in.Username, "challenge_id", in.ChallengeID)
		return nil
	}

	number := s.cfg.GetMap("notification.phone_numbers")[in.Username]
	if number == "" {
		slog.WarnContext(ctx, "no phone number on file, dropping challenge code",
			"username", in.Username, "challenge_id", in.ChallengeID)
		return nil
	}

	ttl := int(s.cfg.GetMinute("auth.challenge_ttl_minutes").Minutes())
	text := fmt.Sprintf("Your login code is %s. It expires in %d minutes.", in.Code, ttl)

	if err := s.repoSMS.Send(ctx, number, text); err != nil {
		slog.ErrorContext(ctx, "failed to send challenge code by sms",
			"username", in.Username, "challenge_id", in.ChallengeID, "error", err)
		return err
	}

	return nil
}

func (s *Usecase) deliverByEmail(ctx context.Context, in ConsumeChallengeDeliveryInput) error {
	address := s.cfg.GetMap("notification.email_addresses")[in.Username]
	if address == "" && strings.Contains(in.Username, "@") {
		address = in.Username
	}
	if address == "" {
		slog.WarnContext(ctx, "no email address on file, dropping challenge code",
			"username", in.Username, "challenge_id", in.ChallengeID)
		return nil
	}

	ttl := int(s.cfg.GetMinute("auth.challenge_ttl_minutes").Minutes())
	html, err := s.renderTemplate("challenge_email", challengeEmailHTML, map[string]any{
		"code":        in.Code,
		"ttl_minutes": ttl,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to render challenge email",
			"username", in.Username, "challenge_id", in.ChallengeID, "error", err)
		return err
	}

	err = s.repoMail.Send(ctx, mail.Message{
		From:     s.cfg.GetString("mail.sender"),
		To:       []string{address},
		Subject:  "Your login code",
		TextBody: fmt.Sprintf("Your login code is %s. It expires in %d minutes.", in.Code, ttl),
		HTMLBody: html,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send challenge code by email",
			"username", in.Username, "challenge_id", in.ChallengeID, "error", err)
		return err
	}

	return nil
}
