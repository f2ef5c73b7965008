package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"aghast/clients"
)

// threadAutoArchiveMinutes is the auto-archive window Discord applies to
// ticket threads that see no activity (3 days).
const threadAutoArchiveMinutes = 4320

// DiscordClient implements the clients.DiscordClient interface on top of a
// shared discordgo session. The session is owned by the events handler; this
// client only issues REST calls through it.
type DiscordClient struct {
	session *discordgo.Session
}

func NewDiscordClient(session *discordgo.Session) clients.DiscordClient {
	return &DiscordClient{session: session}
}

func (c *DiscordClient) GetBotUser() (*clients.DiscordUser, error) {
	if c.session.State != nil && c.session.State.User != nil {
		return &clients.DiscordUser{
			ID:       c.session.State.User.ID,
			Username: c.session.State.User.Username,
		}, nil
	}

	user, err := c.session.User("@me")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bot user: %w", err)
	}
	return &clients.DiscordUser{ID: user.ID, Username: user.Username}, nil
}

func (c *DiscordClient) SendMessage(
	ctx context.Context,
	channelID, content string,
) (*clients.DiscordMessage, error) {
	msg, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}

	return &clients.DiscordMessage{ID: msg.ID, ChannelID: msg.ChannelID}, nil
}

func (c *DiscordClient) EditMessage(ctx context.Context, channelID, messageID, content string) error {
	_, err := c.session.ChannelMessageEdit(channelID, messageID, content, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to edit message %s in channel %s: %w", messageID, channelID, err)
	}

	return nil
}

func (c *DiscordClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	err := c.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete message %s in channel %s: %w", messageID, channelID, err)
	}

	return nil
}

func (c *DiscordClient) CreateThread(ctx context.Context, parentChannelID, name string) (string, error) {
	thread, err := c.session.ThreadStartComplex(parentChannelID, &discordgo.ThreadStart{
		Name:                name,
		AutoArchiveDuration: threadAutoArchiveMinutes,
		Type:                discordgo.ChannelTypeGuildPublicThread,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to create thread in channel %s: %w", parentChannelID, err)
	}

	return thread.ID, nil
}

func (c *DiscordClient) ArchiveThread(ctx context.Context, threadChannelID string) error {
	archived := true
	_, err := c.session.ChannelEditComplex(threadChannelID, &discordgo.ChannelEdit{
		Archived: &archived,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to archive thread %s: %w", threadChannelID, err)
	}

	return nil
}

func (c *DiscordClient) DeleteThread(ctx context.Context, threadChannelID string) error {
	_, err := c.session.ChannelDelete(threadChannelID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete thread %s: %w", threadChannelID, err)
	}

	return nil
}
