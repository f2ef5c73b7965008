package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestThreadName(t *testing.T) {
	t.Run("UsesDisplayName", func(t *testing.T) {
		assert.Equal(t, "wumpus", ThreadName("wumpus", "123456789"))
	})

	t.Run("FallsBackToUserID", func(t *testing.T) {
		assert.Equal(t, "123456789", ThreadName("", "123456789"))
		assert.Equal(t, "123456789", ThreadName("   ", "123456789"))
	})

	t.Run("TrimsWhitespace", func(t *testing.T) {
		assert.Equal(t, "wumpus", ThreadName("  wumpus  ", "123456789"))
	})

	t.Run("TruncatesLongNames", func(t *testing.T) {
		long := strings.Repeat("a", 150)
		got := ThreadName(long, "123456789")
		assert.Len(t, got, 100)
	})

	t.Run("TruncatesByCharacterNotByte", func(t *testing.T) {
		long := strings.Repeat("ü", 150)
		got := ThreadName(long, "123456789")
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, 100, utf8.RuneCountInString(got))
	})
}

func TestAssertInvariant(t *testing.T) {
	t.Run("PassingConditionDoesNotPanic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			AssertInvariant(true, "should not panic")
		})
	})

	t.Run("FailingConditionPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			AssertInvariant(false, "should panic")
		})
	})
}
