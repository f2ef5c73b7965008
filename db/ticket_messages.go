package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	"aghast/core"
	dbtx "aghast/db/tx"
	"aghast/models"
)

type PostgresTicketMessagesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for ticket_messages table
var ticketMessagesColumns = []string{
	"id",
	"dm_channel_id",
	"thread_channel_id",
	"dm_message_id",
	"thread_message_id",
	"created_at",
	"updated_at",
}

func NewPostgresTicketMessagesRepository(db *sqlx.DB, schema string) *PostgresTicketMessagesRepository {
	return &PostgresTicketMessagesRepository{db: db, schema: schema}
}

func (r *PostgresTicketMessagesRepository) CreateTicketMessage(
	ctx context.Context,
	message *models.TicketMessage,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(ticketMessagesColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.ticket_messages
			(id, dm_channel_id, thread_channel_id, dm_message_id, thread_message_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING %s`,
		r.schema, returningStr)

	err := db.GetContext(
		ctx,
		message,
		query,
		message.ID,
		message.DMChannelID,
		message.ThreadChannelID,
		message.DMMessageID,
		message.ThreadMessageID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique violation
			return fmt.Errorf("message pair already recorded: %w", core.ErrConflict)
		}
		return fmt.Errorf("failed to create ticket message: %w", err)
	}

	return nil
}

func (r *PostgresTicketMessagesRepository) GetTicketMessageByDMMessage(
	ctx context.Context,
	dmMessageID string,
) (mo.Option[*models.TicketMessage], error) {
	return r.getTicketMessageByColumn(ctx, "dm_message_id", dmMessageID)
}

func (r *PostgresTicketMessagesRepository) GetTicketMessageByThreadMessage(
	ctx context.Context,
	threadMessageID string,
) (mo.Option[*models.TicketMessage], error) {
	return r.getTicketMessageByColumn(ctx, "thread_message_id", threadMessageID)
}

func (r *PostgresTicketMessagesRepository) getTicketMessageByColumn(
	ctx context.Context,
	column, value string,
) (mo.Option[*models.TicketMessage], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(ticketMessagesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.ticket_messages
		WHERE %s = $1`,
		columnsStr, r.schema, column)

	var message models.TicketMessage
	err := db.GetContext(ctx, &message, query, value)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.TicketMessage](), nil
		}
		return mo.None[*models.TicketMessage](), fmt.Errorf("failed to get ticket message: %w", err)
	}

	return mo.Some(&message), nil
}

func (r *PostgresTicketMessagesRepository) DeleteTicketMessageByDMMessage(
	ctx context.Context,
	dmMessageID string,
) (bool, error) {
	return r.deleteTicketMessageByColumn(ctx, "dm_message_id", dmMessageID)
}

func (r *PostgresTicketMessagesRepository) DeleteTicketMessageByThreadMessage(
	ctx context.Context,
	threadMessageID string,
) (bool, error) {
	return r.deleteTicketMessageByColumn(ctx, "thread_message_id", threadMessageID)
}

func (r *PostgresTicketMessagesRepository) deleteTicketMessageByColumn(
	ctx context.Context,
	column, value string,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		DELETE FROM %s.ticket_messages
		WHERE %s = $1`,
		r.schema, column)

	result, err := db.ExecContext(ctx, query, value)
	if err != nil {
		return false, fmt.Errorf("failed to delete ticket message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// DeleteTicketMessagesByDMChannel removes all pairs belonging to the ticket
// owning the given DM channel. Used by the close path for an explicit
// pairs-then-ticket delete alongside the schema-level cascade.
func (r *PostgresTicketMessagesRepository) DeleteTicketMessagesByDMChannel(
	ctx context.Context,
	dmChannelID string,
) (int64, error) {
	return r.deleteTicketMessagesByColumn(ctx, "dm_channel_id", dmChannelID)
}

func (r *PostgresTicketMessagesRepository) DeleteTicketMessagesByThreadChannel(
	ctx context.Context,
	threadChannelID string,
) (int64, error) {
	return r.deleteTicketMessagesByColumn(ctx, "thread_channel_id", threadChannelID)
}

func (r *PostgresTicketMessagesRepository) deleteTicketMessagesByColumn(
	ctx context.Context,
	column, value string,
) (int64, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		DELETE FROM %s.ticket_messages
		WHERE %s = $1`,
		r.schema, column)

	result, err := db.ExecContext(ctx, query, value)
	if err != nil {
		return 0, fmt.Errorf("failed to delete ticket messages: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// GetTicketMessagesByThreadChannel lists all recorded pairs for a ticket's
// thread, oldest first. Used by tests to assert cascade behavior.
func (r *PostgresTicketMessagesRepository) GetTicketMessagesByThreadChannel(
	ctx context.Context,
	threadChannelID string,
) ([]*models.TicketMessage, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(ticketMessagesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.ticket_messages
		WHERE thread_channel_id = $1
		ORDER BY created_at ASC`,
		columnsStr, r.schema)

	var messages []models.TicketMessage
	err := db.SelectContext(ctx, &messages, query, threadChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket messages: %w", err)
	}

	result := make([]*models.TicketMessage, len(messages))
	for i := range messages {
		result[i] = &messages[i]
	}

	return result, nil
}
