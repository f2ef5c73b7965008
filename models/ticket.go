package models

import (
	"time"
)

// Ticket is the durable association between one user's DM channel and the
// moderation thread mirroring it. At most one open ticket exists per DM
// channel and per thread channel, enforced by unique constraints.
type Ticket struct {
	ID              string    `json:"id"                db:"id"`
	DMChannelID     string    `json:"dm_channel_id"     db:"dm_channel_id"`
	ThreadChannelID string    `json:"thread_channel_id" db:"thread_channel_id"`
	CreatedAt       time.Time `json:"created_at"        db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"        db:"updated_at"`
}

// TicketMessage links a DM-side message to its mirrored thread-side
// counterpart. Both message IDs are unique across all rows, guaranteeing a
// 1:1 mirror and preventing the same event from being relayed twice. The
// channel columns reference the owning ticket and are cascade-deleted with it.
type TicketMessage struct {
	ID              string    `json:"id"                db:"id"`
	DMChannelID     string    `json:"dm_channel_id"     db:"dm_channel_id"`
	ThreadChannelID string    `json:"thread_channel_id" db:"thread_channel_id"`
	DMMessageID     string    `json:"dm_message_id"     db:"dm_message_id"`
	ThreadMessageID string    `json:"thread_message_id" db:"thread_message_id"`
	CreatedAt       time.Time `json:"created_at"        db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"        db:"updated_at"`
}
