package usecase

import (
	"bytes"
	"context"
	"html/template"

	"go.opentelemetry.io/otel/trace"

	"github.com/gnelabs/authgate/internal/pkg/config"
	"github.com/gnelabs/authgate/internal/pkg/instrument"
	"github.com/gnelabs/authgate/internal/pkg/mail"
	"github.com/gnelabs/authgate/internal/pkg/validator"
)

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type repoSMS interface {
	Send(ctx context.Context, to, text string) error
}

type Usecase struct {
	cfg       config.Config
	validator validator.Validator
	repoMail  repoMail
	repoSMS   repoSMS
	ins       instrument.Instrumentation
}

type Dependency struct {
	Config     config.Config
	Validator  validator.Validator
	RepoMail   repoMail
	RepoSMS    repoSMS
	Instrument instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	return &Usecase{
		cfg:       dep.Config,
		validator: dep.Validator,
		repoMail:  dep.RepoMail,
		repoSMS:   dep.RepoSMS,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) renderTemplate(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
