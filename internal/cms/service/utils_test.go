package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title  string
		expect string
	}{
		{"Hello, World! 2025", "hello-world-2025"},
		{"  multiple   spaces ", "multiple-spaces"},
		{"Already-Hyphenated --- Title", "already-hyphenated-title"},
		{"ALL CAPS", "all-caps"},
		{"éàü unicode stripped", "unicode-stripped"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.expect, Slugify(tc.title), "title %q", tc.title)
	}
}

func TestSlugifyTruncation(t *testing.T) {
	t.Parallel()

	// plain 200-char title cuts to exactly 100
	slug := Slugify(strings.Repeat("a", 200))
	require.Len(t, slug, 100)

	// a hyphen exposed by the cut is trimmed, so the result may be shorter
	title := strings.Repeat("ab ", 100)
	slug = Slugify(title)
	require.LessOrEqual(t, len(slug), 100)
	require.False(t, strings.HasSuffix(slug, "-"),
		"truncation must not leave a trailing hyphen")
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	got := Excerpt("# Hello\n\nThis is **bold** news.", 200)
	require.Contains(t, got, "Hello")
	require.Contains(t, got, "bold news.")
	require.NotContains(t, got, "<")
	require.NotContains(t, got, "**")

	long := strings.Repeat("word ", 100)
	require.LessOrEqual(t, len([]rune(Excerpt(long, 50))), 50)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "abc", Truncate("abcdef", 3))
	require.Equal(t, "abcdef", Truncate("abcdef", 10))
	require.Equal(t, "abcdef", Truncate("abcdef", 0))
	require.Equal(t, "日本", Truncate("日本語", 2), "truncation counts runes, not bytes")
}
