package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	t.Run("removes duplicates and blanks", func(t *testing.T) {
		got := DedupeAndTrim([]string{"  admin ", "viewer", "admin", "", "  "})
		assert.Equal(t, []string{"admin", "viewer"}, got)
	})

	t.Run("preserves first-seen order", func(t *testing.T) {
		got := DedupeAndTrim([]string{"b", "a", "b", "c", "a"})
		assert.Equal(t, []string{"b", "a", "c"}, got)
	})

	t.Run("empty input returned as-is", func(t *testing.T) {
		assert.Empty(t, DedupeAndTrim(nil))
	})
}
