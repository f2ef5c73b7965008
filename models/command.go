package models

type ThreadCommandKind string

const (
	// ThreadCommandReply relays the text after the prefix to the user's DM
	ThreadCommandReply ThreadCommandKind = "REPLY"
	// ThreadCommandClose tears down the ticket
	ThreadCommandClose ThreadCommandKind = "CLOSE"
	// ThreadCommandPlain is any other thread message, mirrored as-is
	ThreadCommandPlain ThreadCommandKind = "PLAIN"
)

// ThreadCommand is the parsed form of a thread-side message. ReplyText is
// populated only for ThreadCommandReply.
type ThreadCommand struct {
	Kind      ThreadCommandKind
	ReplyText string
}
