package clients

import (
	"context"
)

// DiscordUser represents the bot's own user identity
type DiscordUser struct {
	ID       string
	Username string
}

// DiscordMessage represents a message posted through the client
type DiscordMessage struct {
	ID        string
	ChannelID string
}

// DiscordClient is the boundary to the remote chat platform. The relay engine
// only ever touches the platform through this interface; the discordgo-backed
// implementation lives in clients/discord.
type DiscordClient interface {
	GetBotUser() (*DiscordUser, error)
	SendMessage(ctx context.Context, channelID, content string) (*DiscordMessage, error)
	EditMessage(ctx context.Context, channelID, messageID, content string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	CreateThread(ctx context.Context, parentChannelID, name string) (string, error)
	ArchiveThread(ctx context.Context, threadChannelID string) error
	DeleteThread(ctx context.Context, threadChannelID string) error
}
