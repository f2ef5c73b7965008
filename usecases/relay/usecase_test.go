package relay

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aghast/clients"
	discordclient "aghast/clients/discord"
	"aghast/config"
	"aghast/core"
	"aghast/models"
	ticketsservice "aghast/services/tickets"
)

const (
	testParentChannelID = "parent-500"
	testDMChannelID     = "42"
	testThreadChannelID = "99"
	testOpenMessage     = "ticket opened"
	testCloseMessage    = "ticket closed"
)

func setupRelayTest() (*RelayUseCase, *discordclient.MockDiscordClient, *ticketsservice.MockTicketsService) {
	mockDiscord := new(discordclient.MockDiscordClient)
	mockTickets := new(ticketsservice.MockTicketsService)

	usecase := NewRelayUseCase(mockDiscord, mockTickets, testParentChannelID, config.RelayConfig{
		OpenMessage:  testOpenMessage,
		CloseMessage: testCloseMessage,
	})

	return usecase, mockDiscord, mockTickets
}

func testTicket() *models.Ticket {
	return &models.Ticket{
		ID:              "tkt_01HZXW0000000000000000TEST",
		DMChannelID:     testDMChannelID,
		ThreadChannelID: testThreadChannelID,
	}
}

func dmCreateEvent(messageID, content string) models.MessageEvent {
	return models.MessageEvent{
		Kind:      models.MessageEventKindCreated,
		ChannelID: testDMChannelID,
		MessageID: messageID,
		UserID:    "user-7",
		UserName:  "wumpus",
		Content:   content,
		IsDM:      true,
	}
}

func threadCreateEvent(messageID, content string) models.MessageEvent {
	return models.MessageEvent{
		Kind:      models.MessageEventKindCreated,
		ChannelID: testThreadChannelID,
		MessageID: messageID,
		UserID:    "mod-3",
		UserName:  "moderator",
		Content:   content,
		IsDM:      false,
	}
}

func TestProcessDMMessage(t *testing.T) {
	t.Run("OpensTicketOnFirstDM", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := dmCreateEvent("dm-msg-1", "help me")
		ticket := testTicket()

		mockTickets.On("GetTicketByDMChannel", mock.Anything, testDMChannelID).
			Return(mo.None[*models.Ticket](), nil)
		mockDiscord.On("CreateThread", mock.Anything, testParentChannelID, "wumpus").
			Return(testThreadChannelID, nil)
		mockTickets.On("CreateTicket", mock.Anything, testDMChannelID, testThreadChannelID).
			Return(ticket, nil)
		mockDiscord.On("SendMessage", mock.Anything, testDMChannelID, testOpenMessage).
			Return(&clients.DiscordMessage{ID: "ack-1", ChannelID: testDMChannelID}, nil)
		mockDiscord.On("SendMessage", mock.Anything, testThreadChannelID, "help me").
			Return(&clients.DiscordMessage{ID: "thread-msg-1", ChannelID: testThreadChannelID}, nil)
		mockTickets.On("RecordMessagePair", mock.Anything, ticket, "dm-msg-1", "thread-msg-1").
			Return(&models.TicketMessage{ID: "tm_1"}, nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockDiscord.AssertExpectations(t)
		mockTickets.AssertExpectations(t)
	})

	t.Run("MirrorsIntoExistingTicket", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := dmCreateEvent("dm-msg-2", "any update?")
		ticket := testTicket()

		mockTickets.On("GetTicketByDMChannel", mock.Anything, testDMChannelID).
			Return(mo.Some(ticket), nil)
		mockDiscord.On("SendMessage", mock.Anything, testThreadChannelID, "any update?").
			Return(&clients.DiscordMessage{ID: "thread-msg-2", ChannelID: testThreadChannelID}, nil)
		mockTickets.On("RecordMessagePair", mock.Anything, ticket, "dm-msg-2", "thread-msg-2").
			Return(&models.TicketMessage{ID: "tm_2"}, nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockDiscord.AssertNotCalled(t, "CreateThread", mock.Anything, mock.Anything, mock.Anything)
		mockDiscord.AssertExpectations(t)
		mockTickets.AssertExpectations(t)
	})

	t.Run("ForwardsAttachmentURLs", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := dmCreateEvent("dm-msg-3", "look at this")
		event.AttachmentURLs = []string{"https://cdn.example/a.png", "https://cdn.example/b.png"}
		ticket := testTicket()

		expectedContent := "look at this\nhttps://cdn.example/a.png\nhttps://cdn.example/b.png"
		mockTickets.On("GetTicketByDMChannel", mock.Anything, testDMChannelID).
			Return(mo.Some(ticket), nil)
		mockDiscord.On("SendMessage", mock.Anything, testThreadChannelID, expectedContent).
			Return(&clients.DiscordMessage{ID: "thread-msg-3", ChannelID: testThreadChannelID}, nil)
		mockTickets.On("RecordMessagePair", mock.Anything, ticket, "dm-msg-3", "thread-msg-3").
			Return(&models.TicketMessage{ID: "tm_3"}, nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockDiscord.AssertExpectations(t)
	})

	t.Run("DoubleOpenLoserArchivesThreadAndDropsEvent", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := dmCreateEvent("dm-msg-4", "hello?")

		mockTickets.On("GetTicketByDMChannel", mock.Anything, testDMChannelID).
			Return(mo.None[*models.Ticket](), nil)
		mockDiscord.On("CreateThread", mock.Anything, testParentChannelID, "wumpus").
			Return("thread-loser", nil)
		mockTickets.On("CreateTicket", mock.Anything, testDMChannelID, "thread-loser").
			Return(nil, fmt.Errorf("ticket already exists for channel: %w", core.ErrConflict))
		mockDiscord.On("ArchiveThread", mock.Anything, "thread-loser").
			Return(nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockDiscord.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
		mockTickets.AssertNotCalled(t, "RecordMessagePair", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockDiscord.AssertExpectations(t)
		mockTickets.AssertExpectations(t)
	})

	t.Run("ThreadCreationFailureFailsClosed", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := dmCreateEvent("dm-msg-5", "hello?")

		mockTickets.On("GetTicketByDMChannel", mock.Anything, testDMChannelID).
			Return(mo.None[*models.Ticket](), nil)
		mockDiscord.On("CreateThread", mock.Anything, testParentChannelID, "wumpus").
			Return("", errors.New("api unavailable"))

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.Error(t, err)
		mockTickets.AssertNotCalled(t, "CreateTicket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ImplicitCloseWhenThreadUnreachable", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := dmCreateEvent("dm-msg-6", "are you there?")
		ticket := testTicket()

		mockTickets.On("GetTicketByDMChannel", mock.Anything, testDMChannelID).
			Return(mo.Some(ticket), nil)
		mockDiscord.On("SendMessage", mock.Anything, testThreadChannelID, "are you there?").
			Return(nil, errors.New("unknown channel"))
		// implicit close: notify the user, drop the mapping, tear down the thread
		mockDiscord.On("SendMessage", mock.Anything, testDMChannelID, testCloseMessage).
			Return(&clients.DiscordMessage{ID: "close-1", ChannelID: testDMChannelID}, nil)
		mockTickets.On("DeleteTicketByThreadChannel", mock.Anything, testThreadChannelID).
			Return(true, nil)
		mockDiscord.On("DeleteThread", mock.Anything, testThreadChannelID).
			Return(nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockTickets.AssertNotCalled(t, "RecordMessagePair", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockDiscord.AssertExpectations(t)
		mockTickets.AssertExpectations(t)
	})

	t.Run("DuplicateRelayRemovesDuplicatePost", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := dmCreateEvent("dm-msg-7", "help me")
		ticket := testTicket()

		mockTickets.On("GetTicketByDMChannel", mock.Anything, testDMChannelID).
			Return(mo.Some(ticket), nil)
		mockDiscord.On("SendMessage", mock.Anything, testThreadChannelID, "help me").
			Return(&clients.DiscordMessage{ID: "thread-dup", ChannelID: testThreadChannelID}, nil)
		mockTickets.On("RecordMessagePair", mock.Anything, ticket, "dm-msg-7", "thread-dup").
			Return(nil, fmt.Errorf("message pair already recorded: %w", core.ErrConflict))
		mockDiscord.On("DeleteMessage", mock.Anything, testThreadChannelID, "thread-dup").
			Return(nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockDiscord.AssertExpectations(t)
	})
}

func TestProcessThreadMessage(t *testing.T) {
	t.Run("ReplyCommandRelaysPayloadOnly", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := threadCreateEvent("thread-msg-10", "!r On it")
		ticket := testTicket()

		mockTickets.On("GetTicketByThreadChannel", mock.Anything, testThreadChannelID).
			Return(mo.Some(ticket), nil)
		mockDiscord.On("SendMessage", mock.Anything, testDMChannelID, "On it").
			Return(&clients.DiscordMessage{ID: "dm-msg-10", ChannelID: testDMChannelID}, nil)
		mockTickets.On("RecordMessagePair", mock.Anything, ticket, "dm-msg-10", "thread-msg-10").
			Return(&models.TicketMessage{ID: "tm_10"}, nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockDiscord.AssertExpectations(t)
		mockTickets.AssertExpectations(t)
	})

	t.Run("PlainContentMirroredVerbatim", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := threadCreateEvent("thread-msg-11", "internal note, oops")
		ticket := testTicket()

		mockTickets.On("GetTicketByThreadChannel", mock.Anything, testThreadChannelID).
			Return(mo.Some(ticket), nil)
		mockDiscord.On("SendMessage", mock.Anything, testDMChannelID, "internal note, oops").
			Return(&clients.DiscordMessage{ID: "dm-msg-11", ChannelID: testDMChannelID}, nil)
		mockTickets.On("RecordMessagePair", mock.Anything, ticket, "dm-msg-11", "thread-msg-11").
			Return(&models.TicketMessage{ID: "tm_11"}, nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockDiscord.AssertExpectations(t)
	})

	t.Run("CloseCommandTearsDownTicket", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := threadCreateEvent("thread-msg-12", "!close")
		ticket := testTicket()

		mockTickets.On("GetTicketByThreadChannel", mock.Anything, testThreadChannelID).
			Return(mo.Some(ticket), nil)
		mockDiscord.On("SendMessage", mock.Anything, testDMChannelID, testCloseMessage).
			Return(&clients.DiscordMessage{ID: "close-2", ChannelID: testDMChannelID}, nil)
		mockTickets.On("DeleteTicketByThreadChannel", mock.Anything, testThreadChannelID).
			Return(true, nil)
		mockDiscord.On("DeleteThread", mock.Anything, testThreadChannelID).
			Return(nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockDiscord.AssertExpectations(t)
		mockTickets.AssertExpectations(t)
	})

	t.Run("CloseIsIdempotent", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := threadCreateEvent("thread-msg-13", "!close")
		ticket := testTicket()

		mockTickets.On("GetTicketByThreadChannel", mock.Anything, testThreadChannelID).
			Return(mo.Some(ticket), nil)
		mockDiscord.On("SendMessage", mock.Anything, testDMChannelID, testCloseMessage).
			Return(&clients.DiscordMessage{ID: "close-3", ChannelID: testDMChannelID}, nil)
		// the row is already gone; the second close is a no-op, not an error
		mockTickets.On("DeleteTicketByThreadChannel", mock.Anything, testThreadChannelID).
			Return(false, nil)
		mockDiscord.On("DeleteThread", mock.Anything, testThreadChannelID).
			Return(errors.New("unknown channel"))

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
	})

	t.Run("CloseNotificationFailureDoesNotBlockClose", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := threadCreateEvent("thread-msg-14", "!close")
		ticket := testTicket()

		mockTickets.On("GetTicketByThreadChannel", mock.Anything, testThreadChannelID).
			Return(mo.Some(ticket), nil)
		mockDiscord.On("SendMessage", mock.Anything, testDMChannelID, testCloseMessage).
			Return(nil, errors.New("cannot DM user"))
		mockTickets.On("DeleteTicketByThreadChannel", mock.Anything, testThreadChannelID).
			Return(true, nil)
		mockDiscord.On("DeleteThread", mock.Anything, testThreadChannelID).
			Return(nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockTickets.AssertExpectations(t)
	})

	t.Run("MessageInUnmappedThreadIsDropped", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := threadCreateEvent("thread-msg-15", "hello")
		event.ChannelID = "unrelated-thread"

		mockTickets.On("GetTicketByThreadChannel", mock.Anything, "unrelated-thread").
			Return(mo.None[*models.Ticket](), nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockDiscord.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProcessMessageEdit(t *testing.T) {
	pair := &models.TicketMessage{
		ID:              "tm_20",
		DMChannelID:     testDMChannelID,
		ThreadChannelID: testThreadChannelID,
		DMMessageID:     "dm-msg-20",
		ThreadMessageID: "thread-msg-20",
	}

	t.Run("DMEditPropagatesToThread", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := dmCreateEvent("dm-msg-20", "corrected text")
		event.Kind = models.MessageEventKindUpdated

		mockTickets.On("GetPairByDMMessage", mock.Anything, "dm-msg-20").
			Return(mo.Some(pair), nil)
		mockDiscord.On("EditMessage", mock.Anything, testThreadChannelID, "thread-msg-20", "corrected text").
			Return(nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockDiscord.AssertExpectations(t)
	})

	t.Run("ThreadEditStripsReplyPrefix", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := threadCreateEvent("thread-msg-20", "!r corrected reply")
		event.Kind = models.MessageEventKindUpdated

		mockTickets.On("GetPairByThreadMessage", mock.Anything, "thread-msg-20").
			Return(mo.Some(pair), nil)
		mockDiscord.On("EditMessage", mock.Anything, testDMChannelID, "dm-msg-20", "corrected reply").
			Return(nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockDiscord.AssertExpectations(t)
	})

	t.Run("EditWithoutPairIsIgnored", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := dmCreateEvent("dm-msg-21", "edited before ticket existed")
		event.Kind = models.MessageEventKindUpdated

		mockTickets.On("GetPairByDMMessage", mock.Anything, "dm-msg-21").
			Return(mo.None[*models.TicketMessage](), nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockDiscord.AssertNotCalled(t, "EditMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EditFailureIsBestEffort", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := dmCreateEvent("dm-msg-20", "corrected text")
		event.Kind = models.MessageEventKindUpdated

		mockTickets.On("GetPairByDMMessage", mock.Anything, "dm-msg-20").
			Return(mo.Some(pair), nil)
		mockDiscord.On("EditMessage", mock.Anything, testThreadChannelID, "thread-msg-20", "corrected text").
			Return(errors.New("message too old"))

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
	})
}

func TestProcessMessageDelete(t *testing.T) {
	pair := &models.TicketMessage{
		ID:              "tm_30",
		DMChannelID:     testDMChannelID,
		ThreadChannelID: testThreadChannelID,
		DMMessageID:     "dm-msg-30",
		ThreadMessageID: "thread-msg-30",
	}

	t.Run("DMDeleteRemovesMirrorAndPair", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := models.MessageEvent{
			Kind:      models.MessageEventKindDeleted,
			ChannelID: testDMChannelID,
			MessageID: "dm-msg-30",
			IsDM:      true,
		}

		mockTickets.On("GetPairByDMMessage", mock.Anything, "dm-msg-30").
			Return(mo.Some(pair), nil)
		mockDiscord.On("DeleteMessage", mock.Anything, testThreadChannelID, "thread-msg-30").
			Return(nil)
		mockTickets.On("DeletePairByDMMessage", mock.Anything, "dm-msg-30").
			Return(true, nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockDiscord.AssertExpectations(t)
		mockTickets.AssertExpectations(t)
	})

	t.Run("ThreadDeleteRemovesMirrorAndPair", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := models.MessageEvent{
			Kind:      models.MessageEventKindDeleted,
			ChannelID: testThreadChannelID,
			MessageID: "thread-msg-30",
			IsDM:      false,
		}

		mockTickets.On("GetPairByThreadMessage", mock.Anything, "thread-msg-30").
			Return(mo.Some(pair), nil)
		mockDiscord.On("DeleteMessage", mock.Anything, testDMChannelID, "dm-msg-30").
			Return(nil)
		mockTickets.On("DeletePairByThreadMessage", mock.Anything, "thread-msg-30").
			Return(true, nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockTickets.AssertExpectations(t)
	})

	t.Run("DeleteWithoutPairIsIgnored", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		event := models.MessageEvent{
			Kind:      models.MessageEventKindDeleted,
			ChannelID: testDMChannelID,
			MessageID: "dm-msg-31",
			IsDM:      true,
		}

		mockTickets.On("GetPairByDMMessage", mock.Anything, "dm-msg-31").
			Return(mo.None[*models.TicketMessage](), nil)

		err := usecase.ProcessMessageEvent(context.Background(), event)

		require.NoError(t, err)
		mockDiscord.AssertNotCalled(t, "DeleteMessage", mock.Anything, mock.Anything, mock.Anything)
		mockTickets.AssertNotCalled(t, "DeletePairByDMMessage", mock.Anything, mock.Anything)
	})
}

func TestProcessThreadDeletedEvent(t *testing.T) {
	t.Run("ClosesTicketWithoutPlatformTeardown", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()
		ticket := testTicket()

		mockTickets.On("GetTicketByThreadChannel", mock.Anything, testThreadChannelID).
			Return(mo.Some(ticket), nil)
		mockDiscord.On("SendMessage", mock.Anything, testDMChannelID, testCloseMessage).
			Return(&clients.DiscordMessage{ID: "close-4", ChannelID: testDMChannelID}, nil)
		mockTickets.On("DeleteTicketByThreadChannel", mock.Anything, testThreadChannelID).
			Return(true, nil)

		err := usecase.ProcessThreadDeletedEvent(context.Background(), models.ThreadDeletedEvent{
			ThreadChannelID: testThreadChannelID,
		})

		require.NoError(t, err)
		mockDiscord.AssertNotCalled(t, "DeleteThread", mock.Anything, mock.Anything)
		mockTickets.AssertExpectations(t)
	})

	t.Run("UnmappedThreadIsIgnored", func(t *testing.T) {
		usecase, mockDiscord, mockTickets := setupRelayTest()

		mockTickets.On("GetTicketByThreadChannel", mock.Anything, "unrelated-thread").
			Return(mo.None[*models.Ticket](), nil)

		err := usecase.ProcessThreadDeletedEvent(context.Background(), models.ThreadDeletedEvent{
			ThreadChannelID: "unrelated-thread",
		})

		require.NoError(t, err)
		mockDiscord.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProcessMessageEventUnknownKind(t *testing.T) {
	usecase, mockDiscord, mockTickets := setupRelayTest()

	err := usecase.ProcessMessageEvent(context.Background(), models.MessageEvent{Kind: "BOGUS"})

	assert.NoError(t, err)
	mockDiscord.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
	mockTickets.AssertNotCalled(t, "GetTicketByDMChannel", mock.Anything, mock.Anything)
}
