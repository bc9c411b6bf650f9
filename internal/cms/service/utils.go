package service

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
)

// slug derivation per the legacy admin panel, reproduced exactly so slugs
// stay stable across tooling
var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugHyphens = regexp.MustCompile(`-+`)

	htmlTag = regexp.MustCompile(`<[^>]*>`)
)

// slugMaxLen derived slugs are cut at this many bytes
const slugMaxLen = 100

// Slugify derive a URL-safe slug from a display title: lowercase, strip
// everything outside [a-z0-9\s-], collapse whitespace runs to one hyphen,
// collapse hyphen runs to one, trim edge hyphens. Slugs longer than 100
// characters are truncated; a trailing hyphen exposed by the cut is
// trimmed, so the result may be shorter than 100.
//
// Derivation is deterministic and carries no uniqueness guarantee; the
// mutators resolve collisions.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > slugMaxLen {
		s = strings.TrimRight(s[:slugMaxLen], "-")
	}

	return s
}

// ParseMarkdown2HTML render post markdown to HTML for previews.
func ParseMarkdown2HTML(md []byte) string {
	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	return string(markdown.ToHTML(md, nil, renderer))
}

// Excerpt derive a plain-text excerpt from markdown content, truncated to
// n runes.
func Excerpt(md string, n int) string {
	plain := htmlTag.ReplaceAllString(ParseMarkdown2HTML([]byte(md)), " ")
	plain = strings.Join(strings.Fields(plain), " ")
	return strings.TrimSpace(Truncate(plain, n))
}

// Truncate truncate string to n runes
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}

	var count int
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}

	return s
}
