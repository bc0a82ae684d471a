package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/codes"

	"github.com/gnelabs/authgate/internal/pkg/instrument"
	"github.com/gnelabs/authgate/internal/pkg/messaging"
	"github.com/gnelabs/authgate/internal/pkg/twofa"
	"github.com/gnelabs/authgate/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

// Messaging publishes challenge codes for the notification module to deliver.
// It satisfies twofa.Deliverer.
type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

// NewMessaging builds the publisher from a messaging client.
func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

// Deliver publishes the challenge code. The broker may be briefly unavailable
// during deploys, so the publish is retried with a capped fibonacci backoff.
func (m *Messaging) Deliver(ctx context.Context, ch twofa.Challenge, code string) error {
	ctx, span := m.ins.Tracer("auth.outbound.mq").Start(ctx, "Deliver")
	defer span.End()

	body, err := json.Marshal(event.ChallengeDeliveryMessage{
		ChallengeID: ch.ID,
		Username:    ch.Username,
		Channel:     ch.Channel,
		Code:        code,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	msg := messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}

	b := retry.WithMaxRetries(3, retry.WithCappedDuration(2*time.Second, retry.NewFibonacci(100*time.Millisecond)))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		if _, err := m.client.Publish(ctx, event.ChallengeDeliveryDestination, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
