package inbound

import (
	"context"

	"github.com/gnelabs/authgate/internal/notification/usecase"
)

type uc interface {
	ConsumeChallengeDelivery(ctx context.Context, in usecase.ConsumeChallengeDeliveryInput) error
}
