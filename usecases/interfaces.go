package usecases

import (
	"context"

	"aghast/models"
)

// RelayUseCaseInterface defines the interface for the ticket relay engine
type RelayUseCaseInterface interface {
	ProcessMessageEvent(ctx context.Context, event models.MessageEvent) error
	ProcessThreadDeletedEvent(ctx context.Context, event models.ThreadDeletedEvent) error
}
