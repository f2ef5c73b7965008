package models

type MessageEventKind string

const (
	MessageEventKindCreated MessageEventKind = "CREATED"
	MessageEventKindUpdated MessageEventKind = "UPDATED"
	MessageEventKindDeleted MessageEventKind = "DELETED"
)

// MessageEvent is an inbound platform event on either side of a ticket.
// IsDM distinguishes the user's private side from the moderation thread side.
type MessageEvent struct {
	Kind      MessageEventKind
	ChannelID string
	MessageID string
	UserID    string
	// UserName is the author's display name, used to title new ticket
	// threads. Empty on delete events, which carry no author.
	UserName string
	Content  string
	IsDM     bool
	// AttachmentURLs are forwarded along with the text when mirroring
	AttachmentURLs []string
}

// ThreadDeletedEvent signals that a thread channel was removed externally,
// which closes any ticket mapped to it.
type ThreadDeletedEvent struct {
	ThreadChannelID string
}
