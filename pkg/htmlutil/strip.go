// Package htmlutil strips markup from HTML fragments such as book comments
// and EPUB page content.
package htmlutil

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	spacesPattern = regexp.MustCompile(`\s{2,}`)
)

// blockCloseTags are replaced with newlines before stripping so paragraph
// boundaries survive as line breaks.
var blockCloseTags = []string{
	"</p>", "</div>", "<br>", "<br/>", "<br />",
	"</li>", "</h1>", "</h2>", "</h3>", "</h4>", "</h5>", "</h6>",
}

// StripTags removes HTML tags, decodes entities, and normalizes whitespace.
func StripTags(s string) string {
	if s == "" {
		return ""
	}

	for _, tag := range blockCloseTags {
		s = strings.ReplaceAll(s, tag, "\n")
		s = strings.ReplaceAll(s, strings.ToUpper(tag), "\n")
	}

	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(spacesPattern.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
