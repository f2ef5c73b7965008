package tickets

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"aghast/core"
	"aghast/db"
	"aghast/models"
	"aghast/services"
)

type TicketsService struct {
	ticketsRepo        *db.PostgresTicketsRepository
	ticketMessagesRepo *db.PostgresTicketMessagesRepository
	txManager          services.TransactionManager
}

func NewTicketsService(
	ticketsRepo *db.PostgresTicketsRepository,
	ticketMessagesRepo *db.PostgresTicketMessagesRepository,
	txManager services.TransactionManager,
) *TicketsService {
	return &TicketsService{
		ticketsRepo:        ticketsRepo,
		ticketMessagesRepo: ticketMessagesRepo,
		txManager:          txManager,
	}
}

func (s *TicketsService) CreateTicket(
	ctx context.Context,
	dmChannelID, threadChannelID string,
) (*models.Ticket, error) {
	log.Printf("📋 Starting to create ticket for DM channel: %s, thread channel: %s", dmChannelID, threadChannelID)
	if dmChannelID == "" {
		return nil, fmt.Errorf("dm_channel_id cannot be empty")
	}
	if threadChannelID == "" {
		return nil, fmt.Errorf("thread_channel_id cannot be empty")
	}

	ticket := &models.Ticket{
		ID:              core.NewID("tkt"),
		DMChannelID:     dmChannelID,
		ThreadChannelID: threadChannelID,
	}

	if err := s.ticketsRepo.CreateTicket(ctx, ticket); err != nil {
		if core.IsConflictError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	log.Printf("📋 Completed successfully - created ticket with ID: %s", ticket.ID)
	return ticket, nil
}

func (s *TicketsService) GetTicketByDMChannel(
	ctx context.Context,
	dmChannelID string,
) (mo.Option[*models.Ticket], error) {
	log.Printf("📋 Starting to get ticket by DM channel: %s", dmChannelID)
	if dmChannelID == "" {
		return mo.None[*models.Ticket](), fmt.Errorf("dm_channel_id cannot be empty")
	}

	maybeTicket, err := s.ticketsRepo.GetTicketByDMChannel(ctx, dmChannelID)
	if err != nil {
		return mo.None[*models.Ticket](), fmt.Errorf("failed to get ticket: %w", err)
	}
	if !maybeTicket.IsPresent() {
		log.Printf("📋 Completed successfully - no ticket for DM channel: %s", dmChannelID)
		return mo.None[*models.Ticket](), nil
	}

	log.Printf("📋 Completed successfully - found ticket with ID: %s", maybeTicket.MustGet().ID)
	return maybeTicket, nil
}

func (s *TicketsService) GetTicketByThreadChannel(
	ctx context.Context,
	threadChannelID string,
) (mo.Option[*models.Ticket], error) {
	log.Printf("📋 Starting to get ticket by thread channel: %s", threadChannelID)
	if threadChannelID == "" {
		return mo.None[*models.Ticket](), fmt.Errorf("thread_channel_id cannot be empty")
	}

	maybeTicket, err := s.ticketsRepo.GetTicketByThreadChannel(ctx, threadChannelID)
	if err != nil {
		return mo.None[*models.Ticket](), fmt.Errorf("failed to get ticket: %w", err)
	}
	if !maybeTicket.IsPresent() {
		log.Printf("📋 Completed successfully - no ticket for thread channel: %s", threadChannelID)
		return mo.None[*models.Ticket](), nil
	}

	log.Printf("📋 Completed successfully - found ticket with ID: %s", maybeTicket.MustGet().ID)
	return maybeTicket, nil
}

// DeleteTicketByDMChannel removes the ticket and all of its message pairs in
// one transaction, pairs first so the delete does not depend on the schema's
// cascade. Deleting an absent ticket is a no-op, so close is idempotent.
func (s *TicketsService) DeleteTicketByDMChannel(ctx context.Context, dmChannelID string) (bool, error) {
	log.Printf("📋 Starting to delete ticket by DM channel: %s", dmChannelID)
	if dmChannelID == "" {
		return false, fmt.Errorf("dm_channel_id cannot be empty")
	}

	var deleted bool
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.ticketMessagesRepo.DeleteTicketMessagesByDMChannel(txCtx, dmChannelID); err != nil {
			return err
		}
		var err error
		deleted, err = s.ticketsRepo.DeleteTicketByDMChannel(txCtx, dmChannelID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete ticket: %w", err)
	}

	log.Printf("📋 Completed successfully - deleted ticket by DM channel: %s (existed: %t)", dmChannelID, deleted)
	return deleted, nil
}

func (s *TicketsService) DeleteTicketByThreadChannel(ctx context.Context, threadChannelID string) (bool, error) {
	log.Printf("📋 Starting to delete ticket by thread channel: %s", threadChannelID)
	if threadChannelID == "" {
		return false, fmt.Errorf("thread_channel_id cannot be empty")
	}

	var deleted bool
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.ticketMessagesRepo.DeleteTicketMessagesByThreadChannel(txCtx, threadChannelID); err != nil {
			return err
		}
		var err error
		deleted, err = s.ticketsRepo.DeleteTicketByThreadChannel(txCtx, threadChannelID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete ticket: %w", err)
	}

	log.Printf(
		"📋 Completed successfully - deleted ticket by thread channel: %s (existed: %t)",
		threadChannelID,
		deleted,
	)
	return deleted, nil
}

func (s *TicketsService) RecordMessagePair(
	ctx context.Context,
	ticket *models.Ticket,
	dmMessageID, threadMessageID string,
) (*models.TicketMessage, error) {
	log.Printf(
		"📋 Starting to record message pair for ticket: %s, dm message: %s, thread message: %s",
		ticket.ID,
		dmMessageID,
		threadMessageID,
	)
	if dmMessageID == "" {
		return nil, fmt.Errorf("dm_message_id cannot be empty")
	}
	if threadMessageID == "" {
		return nil, fmt.Errorf("thread_message_id cannot be empty")
	}

	message := &models.TicketMessage{
		ID:              core.NewID("tm"),
		DMChannelID:     ticket.DMChannelID,
		ThreadChannelID: ticket.ThreadChannelID,
		DMMessageID:     dmMessageID,
		ThreadMessageID: threadMessageID,
	}

	if err := s.ticketMessagesRepo.CreateTicketMessage(ctx, message); err != nil {
		if core.IsConflictError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to record message pair: %w", err)
	}

	log.Printf("📋 Completed successfully - recorded message pair with ID: %s", message.ID)
	return message, nil
}

func (s *TicketsService) GetPairByDMMessage(
	ctx context.Context,
	dmMessageID string,
) (mo.Option[*models.TicketMessage], error) {
	log.Printf("📋 Starting to get message pair by DM message: %s", dmMessageID)
	if dmMessageID == "" {
		return mo.None[*models.TicketMessage](), fmt.Errorf("dm_message_id cannot be empty")
	}

	maybePair, err := s.ticketMessagesRepo.GetTicketMessageByDMMessage(ctx, dmMessageID)
	if err != nil {
		return mo.None[*models.TicketMessage](), fmt.Errorf("failed to get message pair: %w", err)
	}

	log.Printf("📋 Completed successfully - message pair present: %t", maybePair.IsPresent())
	return maybePair, nil
}

func (s *TicketsService) GetPairByThreadMessage(
	ctx context.Context,
	threadMessageID string,
) (mo.Option[*models.TicketMessage], error) {
	log.Printf("📋 Starting to get message pair by thread message: %s", threadMessageID)
	if threadMessageID == "" {
		return mo.None[*models.TicketMessage](), fmt.Errorf("thread_message_id cannot be empty")
	}

	maybePair, err := s.ticketMessagesRepo.GetTicketMessageByThreadMessage(ctx, threadMessageID)
	if err != nil {
		return mo.None[*models.TicketMessage](), fmt.Errorf("failed to get message pair: %w", err)
	}

	log.Printf("📋 Completed successfully - message pair present: %t", maybePair.IsPresent())
	return maybePair, nil
}

func (s *TicketsService) DeletePairByDMMessage(ctx context.Context, dmMessageID string) (bool, error) {
	log.Printf("📋 Starting to delete message pair by DM message: %s", dmMessageID)
	if dmMessageID == "" {
		return false, fmt.Errorf("dm_message_id cannot be empty")
	}

	deleted, err := s.ticketMessagesRepo.DeleteTicketMessageByDMMessage(ctx, dmMessageID)
	if err != nil {
		return false, fmt.Errorf("failed to delete message pair: %w", err)
	}

	log.Printf("📋 Completed successfully - deleted message pair by DM message: %s (existed: %t)", dmMessageID, deleted)
	return deleted, nil
}

func (s *TicketsService) DeletePairByThreadMessage(ctx context.Context, threadMessageID string) (bool, error) {
	log.Printf("📋 Starting to delete message pair by thread message: %s", threadMessageID)
	if threadMessageID == "" {
		return false, fmt.Errorf("thread_message_id cannot be empty")
	}

	deleted, err := s.ticketMessagesRepo.DeleteTicketMessageByThreadMessage(ctx, threadMessageID)
	if err != nil {
		return false, fmt.Errorf("failed to delete message pair: %w", err)
	}

	log.Printf(
		"📋 Completed successfully - deleted message pair by thread message: %s (existed: %t)",
		threadMessageID,
		deleted,
	)
	return deleted, nil
}
