package handlers

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"aghast/middleware"
	"aghast/models"
	"aghast/usecases"
)

// DiscordEventsHandler is the event router: it receives raw gateway events,
// classifies them (DM vs thread, create/edit/delete), maps them to domain
// events and dispatches them to the relay engine. Events it cannot attribute
// to the configured guild or to a DM are dropped with a log line only.
type DiscordEventsHandler struct {
	discordSDKClient *discordgo.Session
	relayUseCase     usecases.RelayUseCaseInterface
	alertMiddleware  *middleware.ErrorAlertMiddleware
	dispatcher       *channelDispatcher
	guildID          string
}

func NewDiscordEventsHandler(
	session *discordgo.Session,
	guildID string,
	relayUseCase usecases.RelayUseCaseInterface,
	alertMiddleware *middleware.ErrorAlertMiddleware,
) *DiscordEventsHandler {
	handler := &DiscordEventsHandler{
		discordSDKClient: session,
		relayUseCase:     relayUseCase,
		alertMiddleware:  alertMiddleware,
		dispatcher:       newChannelDispatcher(),
		guildID:          guildID,
	}

	// Register event handlers
	session.AddHandler(handler.handleMessageCreatedEvent)
	session.AddHandler(handler.handleMessageUpdatedEvent)
	session.AddHandler(handler.handleMessageDeletedEvent)
	session.AddHandler(handler.handleThreadDeletedEvent)

	// Set intents to receive guild and DM message events plus thread lifecycle
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return handler
}

// StartBot opens the Discord connection and starts listening for events
func (h *DiscordEventsHandler) StartBot() error {
	if err := h.discordSDKClient.Open(); err != nil {
		return err
	}

	log.Printf("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot closes the Discord connection and drains in-flight events
func (h *DiscordEventsHandler) StopBot() {
	h.discordSDKClient.Close()
	h.dispatcher.StopWait()
}

func (h *DiscordEventsHandler) handleMessageCreatedEvent(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || h.isOwnMessage(s, m.Author.ID) || m.Author.Bot {
		return
	}

	isDM := m.GuildID == ""
	if !isDM && m.GuildID != h.guildID {
		log.Printf("🔍 Ignoring message in foreign guild %s", m.GuildID)
		return
	}

	event := models.MessageEvent{
		Kind:           models.MessageEventKindCreated,
		ChannelID:      m.ChannelID,
		MessageID:      m.ID,
		UserID:         m.Author.ID,
		UserName:       displayName(m.Member, m.Author),
		Content:        m.Content,
		IsDM:           isDM,
		AttachmentURLs: attachmentURLs(m.Attachments),
	}

	h.dispatchMessageEvent(event)
}

func (h *DiscordEventsHandler) handleMessageUpdatedEvent(s *discordgo.Session, m *discordgo.MessageUpdate) {
	// Embed unfurls and system updates arrive without an author; link
	// previews also produce edits with unchanged empty content. Skip both.
	if m.Author == nil || h.isOwnMessage(s, m.Author.ID) || m.Author.Bot {
		return
	}
	if m.Content == "" && len(m.Attachments) == 0 {
		return
	}

	isDM := m.GuildID == ""
	if !isDM && m.GuildID != h.guildID {
		return
	}

	event := models.MessageEvent{
		Kind:           models.MessageEventKindUpdated,
		ChannelID:      m.ChannelID,
		MessageID:      m.ID,
		UserID:         m.Author.ID,
		UserName:       displayName(m.Member, m.Author),
		Content:        m.Content,
		IsDM:           isDM,
		AttachmentURLs: attachmentURLs(m.Attachments),
	}

	h.dispatchMessageEvent(event)
}

func (h *DiscordEventsHandler) handleMessageDeletedEvent(s *discordgo.Session, m *discordgo.MessageDelete) {
	// Delete events carry no author, so the bot's own mirrored messages pass
	// through here too. The relay tolerates that: the pair row is removed
	// when the first delete of either side is processed, and the echo of the
	// propagated delete finds no pair and is ignored.
	isDM := m.GuildID == ""
	if !isDM && m.GuildID != h.guildID {
		return
	}

	event := models.MessageEvent{
		Kind:      models.MessageEventKindDeleted,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		IsDM:      isDM,
	}

	h.dispatchMessageEvent(event)
}

func (h *DiscordEventsHandler) handleThreadDeletedEvent(s *discordgo.Session, t *discordgo.ThreadDelete) {
	if t.GuildID != h.guildID {
		return
	}

	log.Printf("📨 Thread %s deleted externally", t.ID)
	event := models.ThreadDeletedEvent{ThreadChannelID: t.ID}

	h.dispatcher.Submit(t.ID, h.alertMiddleware.WrapEventTask("ProcessThreadDeletedEvent", func() error {
		return h.relayUseCase.ProcessThreadDeletedEvent(context.Background(), event)
	}))
}

func (h *DiscordEventsHandler) dispatchMessageEvent(event models.MessageEvent) {
	h.dispatcher.Submit(event.ChannelID, h.alertMiddleware.WrapEventTask("ProcessMessageEvent", func() error {
		return h.relayUseCase.ProcessMessageEvent(context.Background(), event)
	}))
}

func (h *DiscordEventsHandler) isOwnMessage(s *discordgo.Session, authorID string) bool {
	return s.State != nil && s.State.User != nil && authorID == s.State.User.ID
}

func displayName(member *discordgo.Member, author *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if author.GlobalName != "" {
		return author.GlobalName
	}
	return author.Username
}

func attachmentURLs(attachments []*discordgo.MessageAttachment) []string {
	if len(attachments) == 0 {
		return nil
	}
	urls := make([]string, 0, len(attachments))
	for _, attachment := range attachments {
		if attachment != nil && attachment.URL != "" {
			urls = append(urls, attachment.URL)
		}
	}
	return urls
}
