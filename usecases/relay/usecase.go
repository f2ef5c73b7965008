package relay

import (
	"context"
	"log"

	"aghast/clients"
	"aghast/config"
	"aghast/models"
	"aghast/services"
)

// RelayUseCase is the ticket relay engine. It owns the ticket lifecycle
// (open on first DM, close on command or thread deletion) and mirrors message
// creates, edits and deletes between a user's DM channel and the ticket's
// moderation thread. All of its state lives in the ticket store, whose
// conflict-checked writes make concurrent event handling safe.
type RelayUseCase struct {
	discordClient   clients.DiscordClient
	ticketsService  services.TicketsService
	ticketChannelID string
	relayConfig     config.RelayConfig
}

func NewRelayUseCase(
	discordClient clients.DiscordClient,
	ticketsService services.TicketsService,
	ticketChannelID string,
	relayConfig config.RelayConfig,
) *RelayUseCase {
	return &RelayUseCase{
		discordClient:   discordClient,
		ticketsService:  ticketsService,
		ticketChannelID: ticketChannelID,
		relayConfig:     relayConfig,
	}
}

// ProcessMessageEvent dispatches an inbound platform event to the lifecycle
// or mirror path based on its kind and which side it arrived on.
func (u *RelayUseCase) ProcessMessageEvent(ctx context.Context, event models.MessageEvent) error {
	log.Printf("📋 Starting to process %s message event in channel %s (dm: %t)",
		event.Kind, event.ChannelID, event.IsDM)

	switch event.Kind {
	case models.MessageEventKindCreated:
		if event.IsDM {
			return u.processDMMessage(ctx, event)
		}
		return u.processThreadMessage(ctx, event)
	case models.MessageEventKindUpdated:
		return u.processMessageEdit(ctx, event)
	case models.MessageEventKindDeleted:
		return u.processMessageDelete(ctx, event)
	default:
		log.Printf("⚠️ Ignoring message event with unknown kind: %s", event.Kind)
		return nil
	}
}

// processDMMessage handles a new message on the user's private side. A DM
// with no ticket is an open request; a DM on an open ticket is mirrored into
// the moderation thread.
func (u *RelayUseCase) processDMMessage(ctx context.Context, event models.MessageEvent) error {
	maybeTicket, err := u.ticketsService.GetTicketByDMChannel(ctx, event.ChannelID)
	if err != nil {
		return err
	}

	if !maybeTicket.IsPresent() {
		log.Printf("🎫 No ticket for DM channel %s - opening a new one", event.ChannelID)
		return u.openTicket(ctx, event)
	}

	return u.mirrorToThread(ctx, maybeTicket.MustGet(), event)
}

// processThreadMessage handles a new message on the moderation thread side,
// interpreting the in-band command grammar before mirroring.
func (u *RelayUseCase) processThreadMessage(ctx context.Context, event models.MessageEvent) error {
	maybeTicket, err := u.ticketsService.GetTicketByThreadChannel(ctx, event.ChannelID)
	if err != nil {
		return err
	}
	if !maybeTicket.IsPresent() {
		log.Printf("🔍 No ticket for thread channel %s - ignoring message", event.ChannelID)
		return nil
	}
	ticket := maybeTicket.MustGet()

	command := ParseThreadCommand(event.Content)
	switch command.Kind {
	case models.ThreadCommandClose:
		log.Printf("🎫 Close command received in thread %s", event.ChannelID)
		return u.closeTicket(ctx, ticket, true)
	case models.ThreadCommandReply:
		return u.mirrorToDM(ctx, ticket, event, command.ReplyText)
	default:
		return u.mirrorToDM(ctx, ticket, event, event.Content)
	}
}
