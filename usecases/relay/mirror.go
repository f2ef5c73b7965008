package relay

import (
	"context"
	"fmt"
	"log"
	"strings"

	"aghast/core"
	"aghast/models"
)

// mirrorToThread posts a DM-side message into the ticket's moderation thread
// and records the message pair. A failed post means the thread is gone, which
// is treated as an implicit close rather than an error.
func (u *RelayUseCase) mirrorToThread(ctx context.Context, ticket *models.Ticket, event models.MessageEvent) error {
	content := relayContent(event.Content, event.AttachmentURLs)

	posted, err := u.discordClient.SendMessage(ctx, ticket.ThreadChannelID, content)
	if err != nil {
		log.Printf("⚠️ Failed to mirror DM message into thread %s - closing ticket: %v", ticket.ThreadChannelID, err)
		return u.closeTicket(ctx, ticket, true)
	}

	return u.recordPair(ctx, ticket, event.MessageID, posted.ID, posted.ChannelID)
}

// mirrorToDM posts a thread-side message (or the payload of a reply command)
// into the user's DM channel and records the message pair.
func (u *RelayUseCase) mirrorToDM(
	ctx context.Context,
	ticket *models.Ticket,
	event models.MessageEvent,
	text string,
) error {
	content := relayContent(text, event.AttachmentURLs)

	posted, err := u.discordClient.SendMessage(ctx, ticket.DMChannelID, content)
	if err != nil {
		log.Printf("⚠️ Failed to mirror thread message into DM channel %s - closing ticket: %v", ticket.DMChannelID, err)
		return u.closeTicket(ctx, ticket, true)
	}

	return u.recordPair(ctx, ticket, posted.ID, event.MessageID, posted.ChannelID)
}

// recordPair persists the dm/thread message pair. A conflict means the same
// source message was already relayed by a concurrent handler; the existing
// row is authoritative, so the duplicate post is removed and the event dropped.
func (u *RelayUseCase) recordPair(
	ctx context.Context,
	ticket *models.Ticket,
	dmMessageID, threadMessageID, postedChannelID string,
) error {
	postedMessageID := threadMessageID
	if postedChannelID == ticket.DMChannelID {
		postedMessageID = dmMessageID
	}

	if _, err := u.ticketsService.RecordMessagePair(ctx, ticket, dmMessageID, threadMessageID); err != nil {
		if core.IsConflictError(err) {
			log.Printf("🔍 Message pair already recorded for ticket %s - removing duplicate relay", ticket.ID)
			if delErr := u.discordClient.DeleteMessage(ctx, postedChannelID, postedMessageID); delErr != nil {
				log.Printf("⚠️ Failed to remove duplicate relay message %s: %v", postedMessageID, delErr)
			}
			return nil
		}
		return fmt.Errorf("failed to record message pair: %w", err)
	}

	return nil
}

// processMessageEdit propagates an edit to the mirrored message. Messages
// with no recorded pair (predating the ticket, or never successfully
// mirrored) are silently ignored; edits are best-effort and never retried.
func (u *RelayUseCase) processMessageEdit(ctx context.Context, event models.MessageEvent) error {
	if event.IsDM {
		maybePair, err := u.ticketsService.GetPairByDMMessage(ctx, event.MessageID)
		if err != nil {
			return err
		}
		if !maybePair.IsPresent() {
			log.Printf("🔍 No pair for edited DM message %s - ignoring edit", event.MessageID)
			return nil
		}
		pair := maybePair.MustGet()

		content := relayContent(event.Content, event.AttachmentURLs)
		if err := u.discordClient.EditMessage(ctx, pair.ThreadChannelID, pair.ThreadMessageID, content); err != nil {
			log.Printf("⚠️ Failed to propagate DM edit to thread message %s: %v", pair.ThreadMessageID, err)
		}
		return nil
	}

	maybePair, err := u.ticketsService.GetPairByThreadMessage(ctx, event.MessageID)
	if err != nil {
		return err
	}
	if !maybePair.IsPresent() {
		log.Printf("🔍 No pair for edited thread message %s - ignoring edit", event.MessageID)
		return nil
	}
	pair := maybePair.MustGet()

	// A mirrored reply command keeps its prefix stripped on edit as well.
	text := event.Content
	command := ParseThreadCommand(event.Content)
	switch command.Kind {
	case models.ThreadCommandReply:
		text = command.ReplyText
	case models.ThreadCommandClose:
		log.Printf("🔍 Thread message %s edited into a close command - ignoring edit", event.MessageID)
		return nil
	}

	content := relayContent(text, event.AttachmentURLs)
	if err := u.discordClient.EditMessage(ctx, pair.DMChannelID, pair.DMMessageID, content); err != nil {
		log.Printf("⚠️ Failed to propagate thread edit to DM message %s: %v", pair.DMMessageID, err)
	}
	return nil
}

// processMessageDelete removes the mirrored counterpart of a deleted message
// along with the pair row. Unknown messages are ignored.
func (u *RelayUseCase) processMessageDelete(ctx context.Context, event models.MessageEvent) error {
	if event.IsDM {
		maybePair, err := u.ticketsService.GetPairByDMMessage(ctx, event.MessageID)
		if err != nil {
			return err
		}
		if !maybePair.IsPresent() {
			log.Printf("🔍 No pair for deleted DM message %s - ignoring delete", event.MessageID)
			return nil
		}
		pair := maybePair.MustGet()

		if err := u.discordClient.DeleteMessage(ctx, pair.ThreadChannelID, pair.ThreadMessageID); err != nil {
			log.Printf("⚠️ Failed to delete mirrored thread message %s: %v", pair.ThreadMessageID, err)
		}
		if _, err := u.ticketsService.DeletePairByDMMessage(ctx, event.MessageID); err != nil {
			return err
		}
		return nil
	}

	maybePair, err := u.ticketsService.GetPairByThreadMessage(ctx, event.MessageID)
	if err != nil {
		return err
	}
	if !maybePair.IsPresent() {
		log.Printf("🔍 No pair for deleted thread message %s - ignoring delete", event.MessageID)
		return nil
	}
	pair := maybePair.MustGet()

	if err := u.discordClient.DeleteMessage(ctx, pair.DMChannelID, pair.DMMessageID); err != nil {
		log.Printf("⚠️ Failed to delete mirrored DM message %s: %v", pair.DMMessageID, err)
	}
	if _, err := u.ticketsService.DeletePairByThreadMessage(ctx, event.MessageID); err != nil {
		return err
	}
	return nil
}

// relayContent joins the message text with any forwarded attachment URLs,
// one per line, so the destination side re-embeds the referenced media.
func relayContent(text string, attachmentURLs []string) string {
	parts := make([]string, 0, 1+len(attachmentURLs))
	if text != "" {
		parts = append(parts, text)
	}
	parts = append(parts, attachmentURLs...)
	return strings.Join(parts, "\n")
}
