package text

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate_ShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "hello world", Truncate("hello world", 200))
	assert.Equal(t, "exact", Truncate("exact", 5))
	assert.Equal(t, "", Truncate("", 10))
}

func TestTruncate_SentenceBoundary(t *testing.T) {
	// "Bold link text. " is 16 runes, each filler sentence adds 24.
	// The last ". " inside 200 runes ends the 7th filler sentence at index 182.
	filler := "More filler words here. "
	normalized := Normalize("**Bold** [link](http://x) text. " + strings.Repeat(filler, 10))
	require.Greater(t, utf8.RuneCountInString(normalized), 200)

	got := Truncate(normalized, 200)

	want := "Bold link text. " + strings.TrimSpace(strings.Repeat(filler, 7))
	assert.Equal(t, want, got)
	assert.False(t, strings.HasSuffix(got, Ellipsis))
	assert.NotContains(t, got, "**")
	assert.NotContains(t, got, "](")
}

func TestTruncate_SentenceBoundaryTooEarly(t *testing.T) {
	// The only boundary sits at index 2, well below 70% of 20.
	got := Truncate("Hi. "+strings.Repeat("abc ", 20), 20)

	assert.Equal(t, "Hi. abc abc abc...", got)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 20)
}

func TestTruncate_QuestionAndExclamation(t *testing.T) {
	text := "Is this the right place? Yes! And then some more words follow"
	// '!' at index 28 is past 70% of 35.
	assert.Equal(t, "Is this the right place? Yes!", Truncate(text, 35))
}

func TestTruncate_WordBoundary(t *testing.T) {
	got := Truncate(strings.Repeat("word ", 50), 20)
	assert.Equal(t, "word word word...", got)
}

func TestTruncate_HardCut(t *testing.T) {
	got := Truncate(strings.Repeat("x", 30), 10)
	assert.Equal(t, "xxxxxxx...", got)
}

func TestTruncate_TinyLimits(t *testing.T) {
	assert.Equal(t, "", Truncate("anything", 0))
	assert.Equal(t, "", Truncate("anything", -5))
	assert.Equal(t, "any", Truncate("anything", 3))
	assert.Equal(t, "a", Truncate("anything", 1))
}

func TestTruncate_Unicode(t *testing.T) {
	got := Truncate(strings.Repeat("héllo wörld ", 20), 25)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 25)
	assert.True(t, strings.HasSuffix(got, Ellipsis))
}

func TestTruncate_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("abcdefgh     .!?ü\n")

	for i := 0; i < 500; i++ {
		n := rng.Intn(400)
		buf := make([]rune, n)
		for j := range buf {
			buf[j] = alphabet[rng.Intn(len(alphabet))]
		}
		s := string(buf)
		maxLen := 1 + rng.Intn(250)

		once := Truncate(s, maxLen)
		assert.Equal(t, once, Truncate(once, maxLen), "idempotence: %q / %d", s, maxLen)
		assert.LessOrEqual(t, utf8.RuneCountInString(once), maxLen+len(Ellipsis))
	}
}
