package relay

import (
	"strings"

	"aghast/models"
)

const (
	// replyCommandPrefix relays the remainder of the message to the user
	replyCommandPrefix = "!r "
	// closeCommand tears down the ticket when sent as the whole message
	closeCommand = "!close"
)

// ParseThreadCommand classifies a thread-side message. A message beginning
// with the reply prefix and a non-empty payload is a reply command; a message
// that is exactly the close token is a close command. Everything else,
// including a bare "!r" with no payload, is plain content to mirror - the
// relay never rejects input.
func ParseThreadCommand(text string) models.ThreadCommand {
	trimmed := strings.TrimSpace(text)

	if trimmed == closeCommand {
		return models.ThreadCommand{Kind: models.ThreadCommandClose}
	}

	if strings.HasPrefix(trimmed, replyCommandPrefix) {
		payload := strings.TrimSpace(trimmed[len(replyCommandPrefix):])
		if payload != "" {
			return models.ThreadCommand{Kind: models.ThreadCommandReply, ReplyText: payload}
		}
	}

	return models.ThreadCommand{Kind: models.ThreadCommandPlain}
}
