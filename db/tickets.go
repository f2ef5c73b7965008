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

type PostgresTicketsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for tickets table
var ticketsColumns = []string{
	"id",
	"dm_channel_id",
	"thread_channel_id",
	"created_at",
	"updated_at",
}

func NewPostgresTicketsRepository(db *sqlx.DB, schema string) *PostgresTicketsRepository {
	return &PostgresTicketsRepository{db: db, schema: schema}
}

func (r *PostgresTicketsRepository) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(ticketsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.tickets (id, dm_channel_id, thread_channel_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING %s`,
		r.schema, returningStr)

	err := db.GetContext(ctx, ticket, query, ticket.ID, ticket.DMChannelID, ticket.ThreadChannelID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique violation
			return fmt.Errorf("ticket already exists for channel: %w", core.ErrConflict)
		}
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return nil
}

func (r *PostgresTicketsRepository) GetTicketByDMChannel(
	ctx context.Context,
	dmChannelID string,
) (mo.Option[*models.Ticket], error) {
	return r.getTicketByColumn(ctx, "dm_channel_id", dmChannelID)
}

func (r *PostgresTicketsRepository) GetTicketByThreadChannel(
	ctx context.Context,
	threadChannelID string,
) (mo.Option[*models.Ticket], error) {
	return r.getTicketByColumn(ctx, "thread_channel_id", threadChannelID)
}

func (r *PostgresTicketsRepository) getTicketByColumn(
	ctx context.Context,
	column, value string,
) (mo.Option[*models.Ticket], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(ticketsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.tickets
		WHERE %s = $1`,
		columnsStr, r.schema, column)

	var ticket models.Ticket
	err := db.GetContext(ctx, &ticket, query, value)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Ticket](), nil
		}
		return mo.None[*models.Ticket](), fmt.Errorf("failed to get ticket: %w", err)
	}

	return mo.Some(&ticket), nil
}

// DeleteTicketByDMChannel removes the ticket mapped to the given DM channel.
// Message pairs go with it via the foreign key cascade. Returns false if no
// ticket existed, which is not an error.
func (r *PostgresTicketsRepository) DeleteTicketByDMChannel(
	ctx context.Context,
	dmChannelID string,
) (bool, error) {
	return r.deleteTicketByColumn(ctx, "dm_channel_id", dmChannelID)
}

func (r *PostgresTicketsRepository) DeleteTicketByThreadChannel(
	ctx context.Context,
	threadChannelID string,
) (bool, error) {
	return r.deleteTicketByColumn(ctx, "thread_channel_id", threadChannelID)
}

func (r *PostgresTicketsRepository) deleteTicketByColumn(
	ctx context.Context,
	column, value string,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		DELETE FROM %s.tickets
		WHERE %s = $1`,
		r.schema, column)

	result, err := db.ExecContext(ctx, query, value)
	if err != nil {
		return false, fmt.Errorf("failed to delete ticket: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
