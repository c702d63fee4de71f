package sanitize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"marketgo/backend/internal/sanitize"
)

func TestClean(t *testing.T) {
	assert.Equal(t, "", sanitize.Clean(""))
	assert.Equal(t, "", sanitize.Clean("   \t\n  "))
	assert.Equal(t, "hello world", sanitize.Clean("  hello \n\t world  "))
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", sanitize.Clean("<script>alert(1)</script>"))
	assert.Equal(t, "a &amp; b", sanitize.Clean("a & b"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", sanitize.Truncate("short", 10))

	exact := strings.Repeat("a", 10)
	assert.Equal(t, exact, sanitize.Truncate(exact, 10))

	long := strings.Repeat("a", 20)
	got := sanitize.Truncate(long, 10)
	assert.Len(t, got, 10)
	assert.True(t, strings.HasSuffix(got, sanitize.TruncationMarker))

	// Multibyte input must not be cut mid-character.
	cyrillic := strings.Repeat("ж", 20)
	got = sanitize.Truncate(cyrillic, 10)
	runes := []rune(got)
	assert.Len(t, runes, 10)
	assert.Equal(t, "жжжжжжж...", got)
}

func TestValidUsername(t *testing.T) {
	assert.True(t, sanitize.ValidUsername("ab"))
	assert.True(t, sanitize.ValidUsername("alice_99"))
	assert.False(t, sanitize.ValidUsername("a"))
	assert.False(t, sanitize.ValidUsername(strings.Repeat("a", 21)))
	assert.False(t, sanitize.ValidUsername("bad name"))
	assert.False(t, sanitize.ValidUsername("bad-name"))
	assert.False(t, sanitize.ValidUsername(""))
}

func TestCheckPassword(t *testing.T) {
	assert.NoError(t, sanitize.CheckPassword("S0lid!pass"))

	assert.Error(t, sanitize.CheckPassword("Ab1!"), "too short")
	assert.Error(t, sanitize.CheckPassword("12345678!"), "no letter")
	assert.Error(t, sanitize.CheckPassword("abcdwxyz!"), "no digit")
	assert.Error(t, sanitize.CheckPassword("abcdwxyz1"), "no symbol")
	assert.Error(t, sanitize.CheckPassword("Password1!"), "common pattern")
	assert.Error(t, sanitize.CheckPassword("Qwerty99!"), "common pattern")
}
