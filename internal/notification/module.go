package notification

import (
	"context"

	"github.com/gnelabs/authgate/internal/notification/inbound"
	"github.com/gnelabs/authgate/internal/notification/outbound/email"
	"github.com/gnelabs/authgate/internal/notification/outbound/sms"
	"github.com/gnelabs/authgate/internal/notification/usecase"
	"github.com/gnelabs/authgate/internal/pkg/config"
	"github.com/gnelabs/authgate/internal/pkg/goroutine"
	"github.com/gnelabs/authgate/internal/pkg/instrument"
	"github.com/gnelabs/authgate/internal/pkg/mail"
	"github.com/gnelabs/authgate/internal/pkg/messaging"
	"github.com/gnelabs/authgate/internal/pkg/uid"
	"github.com/gnelabs/authgate/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context
	Messaging  messaging.Messaging
	Config     config.Config
	Instrument instrument.Instrumentation
	UUID       uid.StringID
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
	Mail       mail.Mail
}

func New(dep Dependency) error {
	repoMail := email.New(dep.Mail, dep.Instrument)

	ucDep := usecase.Dependency{
		Config:     dep.Config,
		Validator:  dep.Validator,
		RepoMail:   repoMail,
		Instrument: dep.Instrument,
	}

	// SMS delivery is optional; without a gateway the usecase drops SMS
	// messages with a warning.
	if dep.Config.GetString("sms.gateway_url") != "" {
		repoSMS, err := sms.New(dep.Config, dep.Instrument)
		if err != nil {
			return err
		}
		ucDep.RepoSMS = repoSMS
	}

	uc := usecase.NewNotification(ucDep)

	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
