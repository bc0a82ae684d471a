package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gnelabs/authgate/internal/notification/usecase"
	"github.com/gnelabs/authgate/internal/pkg/instrument"
	"github.com/gnelabs/authgate/internal/pkg/messaging"
	"github.com/gnelabs/authgate/internal/pkg/uid"
	"github.com/gnelabs/authgate/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) ChallengeDeliveryNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "ChallengeDeliveryNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: challenge delivery notification", "challenge_id", msg.ID())

	var payload event.ChallengeDeliveryMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of challenge delivery notification", "error", err)
		return nil
	}

	if err := h.uc.ConsumeChallengeDelivery(ctx, usecase.ConsumeChallengeDeliveryInput{
		ChallengeID: payload.ChallengeID,
		Username:    payload.Username,
		Channel:     payload.Channel,
		Code:        payload.Code,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume challenge delivery", "challenge_id", payload.ChallengeID, "error", err)
		return err
	}

	return nil
}
