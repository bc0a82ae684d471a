package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/gnelabs/authgate/internal/pkg/config"
	"github.com/gnelabs/authgate/internal/pkg/instrument"
	"github.com/gnelabs/authgate/internal/pkg/mail"
	"github.com/gnelabs/authgate/internal/pkg/validator"
)

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeSMS struct {
	to   []string
	text []string
	err  error
}

func (f *fakeSMS) Send(_ context.Context, to, text string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.text = append(f.text, text)
	return nil
}

func newTestUsecase(t *testing.T, mailer *fakeMailer, sms *fakeSMS) *Usecase {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
auth:
  challenge_ttl_minutes: 5
mail:
  sender: no-reply@example.com
notification:
  email_addresses: "alice:alice@example.com"
  phone_numbers: "alice:+15550001111"
`))
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}

	val, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	dep := Dependency{
		Config:     cfg,
		Validator:  val,
		RepoMail:   mailer,
		Instrument: instrument.NewNoop(),
	}
	if sms != nil {
		dep.RepoSMS = sms
	}
	return NewNotification(dep)
}

func validInput() ConsumeChallengeDeliveryInput {
	return ConsumeChallengeDeliveryInput{
		ChallengeID: "ch-1",
		Username:    "alice",
		Channel:     "EMAIL",
		Code:        "123456",
	}
}

func TestConsumeChallengeDeliveryEmail(t *testing.T) {
	mailer := &fakeMailer{}
	uc := newTestUsecase(t, mailer, nil)

	if err := uc.ConsumeChallengeDelivery(context.Background(), validInput()); err != nil {
		t.Fatalf("delivery failed: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.To[0] != "alice@example.com" {
		t.Fatalf("unexpected recipient %v", msg.To)
	}
	if msg.From != "no-reply@example.com" {
		t.Fatalf("unexpected sender %q", msg.From)
	}
	if !strings.Contains(msg.TextBody, "123456") || !strings.Contains(msg.HTMLBody, "123456") {
		t.Fatalf("code missing from bodies: %q / %q", msg.TextBody, msg.HTMLBody)
	}
	if !strings.Contains(msg.TextBody, "5 minutes") {
		t.Fatalf("ttl missing from text body: %q", msg.TextBody)
	}
}

func TestConsumeChallengeDeliveryEmailFallsBackToUsername(t *testing.T) {
	mailer := &fakeMailer{}
	uc := newTestUsecase(t, mailer, nil)

	in := validInput()
	in.Username = "bob@example.com"
	if err := uc.ConsumeChallengeDelivery(context.Background(), in); err != nil {
		t.Fatalf("delivery failed: %v", err)
	}

	if len(mailer.sent) != 1 || mailer.sent[0].To[0] != "bob@example.com" {
		t.Fatalf("expected fallback to username address, got %+v", mailer.sent)
	}
}

func TestConsumeChallengeDeliverySMS(t *testing.T) {
	mailer := &fakeMailer{}
	sms := &fakeSMS{}
	uc := newTestUsecase(t, mailer, sms)

	in := validInput()
	in.Channel = "SMS"
	if err := uc.ConsumeChallengeDelivery(context.Background(), in); err != nil {
		t.Fatalf("delivery failed: %v", err)
	}

	if len(sms.to) != 1 || sms.to[0] != "+15550001111" {
		t.Fatalf("unexpected sms recipients %v", sms.to)
	}
	if !strings.Contains(sms.text[0], "123456") {
		t.Fatalf("code missing from sms text %q", sms.text[0])
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("no email expected for sms delivery")
	}
}

func TestConsumeChallengeDeliverySMSWithoutGateway(t *testing.T) {
	mailer := &fakeMailer{}
	uc := newTestUsecase(t, mailer, nil)

	in := validInput()
	in.Channel = "SMS"
	if err := uc.ConsumeChallengeDelivery(context.Background(), in); err != nil {
		t.Fatalf("missing gateway should drop, not fail: %v", err)
	}
}

func TestConsumeChallengeDeliveryInvalidMessageDropped(t *testing.T) {
	mailer := &fakeMailer{}
	uc := newTestUsecase(t, mailer, nil)

	in := validInput()
	in.Channel = "CARRIER_PIGEON"
	if err := uc.ConsumeChallengeDelivery(context.Background(), in); err != nil {
		t.Fatalf("invalid message should drop, not fail: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("nothing should be sent for invalid input")
	}
}

func TestConsumeChallengeDeliveryUnknownSMSRecipientDropped(t *testing.T) {
	mailer := &fakeMailer{}
	sms := &fakeSMS{}
	uc := newTestUsecase(t, mailer, sms)

	in := validInput()
	in.Username = "mallory"
	in.Channel = "SMS"
	if err := uc.ConsumeChallengeDelivery(context.Background(), in); err != nil {
		t.Fatalf("unknown recipient should drop, not fail: %v", err)
	}
	if len(sms.to) != 0 {
		t.Fatalf("nothing should be sent for unknown recipient")
	}
}
