package discord

import (
	"context"

	"github.com/stretchr/testify/mock"

	"aghast/clients"
)

type MockDiscordClient struct {
	mock.Mock
}

func (m *MockDiscordClient) GetBotUser() (*clients.DiscordUser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordUser), args.Error(1)
}

func (m *MockDiscordClient) SendMessage(
	ctx context.Context,
	channelID, content string,
) (*clients.DiscordMessage, error) {
	args := m.Called(ctx, channelID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordMessage), args.Error(1)
}

func (m *MockDiscordClient) EditMessage(ctx context.Context, channelID, messageID, content string) error {
	args := m.Called(ctx, channelID, messageID, content)
	return args.Error(0)
}

func (m *MockDiscordClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	args := m.Called(ctx, channelID, messageID)
	return args.Error(0)
}

func (m *MockDiscordClient) CreateThread(ctx context.Context, parentChannelID, name string) (string, error) {
	args := m.Called(ctx, parentChannelID, name)
	return args.String(0), args.Error(1)
}

func (m *MockDiscordClient) ArchiveThread(ctx context.Context, threadChannelID string) error {
	args := m.Called(ctx, threadChannelID)
	return args.Error(0)
}

func (m *MockDiscordClient) DeleteThread(ctx context.Context, threadChannelID string) error {
	args := m.Called(ctx, threadChannelID)
	return args.Error(0)
}
