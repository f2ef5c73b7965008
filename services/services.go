package services

import (
	"context"

	"github.com/samber/mo"

	"aghast/models"
)

// TicketsService is the durable ticket store: the one-to-one mapping between a
// user's DM channel and its moderation thread, plus the message pairs mirrored
// between them. All mutating operations are conflict-checked and idempotent so
// that concurrent handlers for the same ticket stay consistent without any
// in-process locking.
type TicketsService interface {
	CreateTicket(ctx context.Context, dmChannelID, threadChannelID string) (*models.Ticket, error)
	GetTicketByDMChannel(ctx context.Context, dmChannelID string) (mo.Option[*models.Ticket], error)
	GetTicketByThreadChannel(ctx context.Context, threadChannelID string) (mo.Option[*models.Ticket], error)
	DeleteTicketByDMChannel(ctx context.Context, dmChannelID string) (bool, error)
	DeleteTicketByThreadChannel(ctx context.Context, threadChannelID string) (bool, error)

	RecordMessagePair(
		ctx context.Context,
		ticket *models.Ticket,
		dmMessageID, threadMessageID string,
	) (*models.TicketMessage, error)
	GetPairByDMMessage(ctx context.Context, dmMessageID string) (mo.Option[*models.TicketMessage], error)
	GetPairByThreadMessage(ctx context.Context, threadMessageID string) (mo.Option[*models.TicketMessage], error)
	DeletePairByDMMessage(ctx context.Context, dmMessageID string) (bool, error)
	DeletePairByThreadMessage(ctx context.Context, threadMessageID string) (bool, error)
}

// TransactionManager provides transaction management for use cases
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
