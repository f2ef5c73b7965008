package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aghast/models"
)

func TestParseThreadCommand(t *testing.T) {
	t.Run("ReplyWithPayload", func(t *testing.T) {
		command := ParseThreadCommand("!r hello")
		assert.Equal(t, models.ThreadCommandReply, command.Kind)
		assert.Equal(t, "hello", command.ReplyText)
	})

	t.Run("ReplyPayloadKeepsInternalSpacing", func(t *testing.T) {
		command := ParseThreadCommand("!r On it, give us a minute")
		assert.Equal(t, models.ThreadCommandReply, command.Kind)
		assert.Equal(t, "On it, give us a minute", command.ReplyText)
	})

	t.Run("BareReplyPrefixIsPlain", func(t *testing.T) {
		command := ParseThreadCommand("!r")
		assert.Equal(t, models.ThreadCommandPlain, command.Kind)
		assert.Empty(t, command.ReplyText)
	})

	t.Run("ReplyPrefixWithOnlyWhitespaceIsPlain", func(t *testing.T) {
		command := ParseThreadCommand("!r    ")
		assert.Equal(t, models.ThreadCommandPlain, command.Kind)
	})

	t.Run("ReplyPrefixMustBeFollowedBySpace", func(t *testing.T) {
		command := ParseThreadCommand("!rabbit season")
		assert.Equal(t, models.ThreadCommandPlain, command.Kind)
	})

	t.Run("Close", func(t *testing.T) {
		command := ParseThreadCommand("!close")
		assert.Equal(t, models.ThreadCommandClose, command.Kind)
	})

	t.Run("CloseToleratesSurroundingWhitespace", func(t *testing.T) {
		command := ParseThreadCommand("  !close  ")
		assert.Equal(t, models.ThreadCommandClose, command.Kind)
	})

	t.Run("CloseWithTrailingTextIsPlain", func(t *testing.T) {
		command := ParseThreadCommand("!close please")
		assert.Equal(t, models.ThreadCommandPlain, command.Kind)
	})

	t.Run("OrdinaryTextIsPlain", func(t *testing.T) {
		command := ParseThreadCommand("what is the status here?")
		assert.Equal(t, models.ThreadCommandPlain, command.Kind)
	})

	t.Run("EmptyTextIsPlain", func(t *testing.T) {
		command := ParseThreadCommand("")
		assert.Equal(t, models.ThreadCommandPlain, command.Kind)
	})
}
