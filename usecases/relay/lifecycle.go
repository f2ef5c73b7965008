package relay

import (
	"context"
	"fmt"
	"log"

	"aghast/core"
	"aghast/models"
	"aghast/utils"
)

// openTicket creates a moderation thread for the user, persists the mapping,
// acknowledges the user and mirrors the opening content into the new thread.
// If the mapping insert conflicts with a concurrent open, the existing ticket
// wins: the just-created thread is archived and the event is dropped.
func (u *RelayUseCase) openTicket(ctx context.Context, event models.MessageEvent) error {
	threadName := utils.ThreadName(event.UserName, event.UserID)

	threadID, err := u.discordClient.CreateThread(ctx, u.ticketChannelID, threadName)
	if err != nil {
		// fail closed: no thread means no mapping is persisted
		return fmt.Errorf("failed to create ticket thread: %w", err)
	}
	log.Printf("🎫 Created ticket thread %s for DM channel %s", threadID, event.ChannelID)

	ticket, err := u.ticketsService.CreateTicket(ctx, event.ChannelID, threadID)
	if err != nil {
		if archiveErr := u.discordClient.ArchiveThread(ctx, threadID); archiveErr != nil {
			log.Printf("⚠️ Failed to archive orphaned thread %s: %v", threadID, archiveErr)
		}
		if core.IsConflictError(err) {
			log.Printf("🔍 Ticket already exists for DM channel %s - dropping open request", event.ChannelID)
			return nil
		}
		return fmt.Errorf("failed to persist ticket mapping: %w", err)
	}

	if _, err := u.discordClient.SendMessage(ctx, ticket.DMChannelID, u.relayConfig.OpenMessage); err != nil {
		log.Printf("⚠️ Failed to send open acknowledgment to DM channel %s: %v", ticket.DMChannelID, err)
	}

	log.Printf("✅ Opened ticket %s (dm: %s, thread: %s)", ticket.ID, ticket.DMChannelID, ticket.ThreadChannelID)
	return u.mirrorToThread(ctx, ticket, event)
}

// closeTicket notifies the user, removes the ticket mapping together with its
// message pairs, and tears down the thread unless it is already gone. Closing
// is idempotent: a ticket whose row has already been removed is a no-op.
func (u *RelayUseCase) closeTicket(ctx context.Context, ticket *models.Ticket, teardownThread bool) error {
	if _, err := u.discordClient.SendMessage(ctx, ticket.DMChannelID, u.relayConfig.CloseMessage); err != nil {
		log.Printf("⚠️ Failed to send close notification to DM channel %s: %v", ticket.DMChannelID, err)
	}

	deleted, err := u.ticketsService.DeleteTicketByThreadChannel(ctx, ticket.ThreadChannelID)
	if err != nil {
		return fmt.Errorf("failed to delete ticket mapping: %w", err)
	}
	if !deleted {
		log.Printf("🔍 Ticket for thread %s already closed", ticket.ThreadChannelID)
	}

	if teardownThread {
		if err := u.discordClient.DeleteThread(ctx, ticket.ThreadChannelID); err != nil {
			log.Printf("⚠️ Failed to delete thread %s: %v", ticket.ThreadChannelID, err)
		}
	}

	log.Printf("✅ Closed ticket %s (dm: %s, thread: %s)", ticket.ID, ticket.DMChannelID, ticket.ThreadChannelID)
	return nil
}

// ProcessThreadDeletedEvent closes the ticket mapped to an externally deleted
// thread. The platform-side teardown is skipped since the thread is gone.
func (u *RelayUseCase) ProcessThreadDeletedEvent(ctx context.Context, event models.ThreadDeletedEvent) error {
	log.Printf("📋 Starting to process thread deleted event for channel %s", event.ThreadChannelID)

	maybeTicket, err := u.ticketsService.GetTicketByThreadChannel(ctx, event.ThreadChannelID)
	if err != nil {
		return err
	}
	if !maybeTicket.IsPresent() {
		log.Printf("🔍 No ticket for deleted thread %s - ignoring", event.ThreadChannelID)
		return nil
	}

	return u.closeTicket(ctx, maybeTicket.MustGet(), false)
}
