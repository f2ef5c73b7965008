package tickets

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"aghast/models"
)

type MockTicketsService struct {
	mock.Mock
}

func (m *MockTicketsService) CreateTicket(
	ctx context.Context,
	dmChannelID, threadChannelID string,
) (*models.Ticket, error) {
	args := m.Called(ctx, dmChannelID, threadChannelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketsService) GetTicketByDMChannel(
	ctx context.Context,
	dmChannelID string,
) (mo.Option[*models.Ticket], error) {
	args := m.Called(ctx, dmChannelID)
	if args.Get(0) == nil {
		return mo.None[*models.Ticket](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.Ticket]), args.Error(1)
}

func (m *MockTicketsService) GetTicketByThreadChannel(
	ctx context.Context,
	threadChannelID string,
) (mo.Option[*models.Ticket], error) {
	args := m.Called(ctx, threadChannelID)
	if args.Get(0) == nil {
		return mo.None[*models.Ticket](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.Ticket]), args.Error(1)
}

func (m *MockTicketsService) DeleteTicketByDMChannel(ctx context.Context, dmChannelID string) (bool, error) {
	args := m.Called(ctx, dmChannelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketsService) DeleteTicketByThreadChannel(ctx context.Context, threadChannelID string) (bool, error) {
	args := m.Called(ctx, threadChannelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketsService) RecordMessagePair(
	ctx context.Context,
	ticket *models.Ticket,
	dmMessageID, threadMessageID string,
) (*models.TicketMessage, error) {
	args := m.Called(ctx, ticket, dmMessageID, threadMessageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketMessage), args.Error(1)
}

func (m *MockTicketsService) GetPairByDMMessage(
	ctx context.Context,
	dmMessageID string,
) (mo.Option[*models.TicketMessage], error) {
	args := m.Called(ctx, dmMessageID)
	if args.Get(0) == nil {
		return mo.None[*models.TicketMessage](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.TicketMessage]), args.Error(1)
}

func (m *MockTicketsService) GetPairByThreadMessage(
	ctx context.Context,
	threadMessageID string,
) (mo.Option[*models.TicketMessage], error) {
	args := m.Called(ctx, threadMessageID)
	if args.Get(0) == nil {
		return mo.None[*models.TicketMessage](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.TicketMessage]), args.Error(1)
}

func (m *MockTicketsService) DeletePairByDMMessage(ctx context.Context, dmMessageID string) (bool, error) {
	args := m.Called(ctx, dmMessageID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketsService) DeletePairByThreadMessage(ctx context.Context, threadMessageID string) (bool, error) {
	args := m.Called(ctx, threadMessageID)
	return args.Bool(0), args.Error(1)
}
