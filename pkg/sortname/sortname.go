// Package sortname generates bibliographic sort strings for titles and
// person names.
package sortname

import (
	"strings"
)

// titleArticles are moved to the end of a sort title ("The Hobbit" becomes
// "Hobbit, The").
var titleArticles = []string{"The", "A", "An"}

// prefixes are honorifics stripped from person names.
var prefixes = []string{
	"Dr.", "Dr", "Mr.", "Mr", "Mrs.", "Mrs", "Ms.", "Ms",
	"Prof.", "Prof", "Rev.", "Rev", "Sir", "Dame", "Lord", "Lady",
}

// particles stay attached to the given name: "Ludwig van Beethoven" sorts as
// "Beethoven, Ludwig van".
var particles = []string{
	"van", "von", "de", "da", "di", "du", "del", "della",
	"la", "le", "el", "al", "bin", "ibn",
}

// ForTitle moves a leading article to the end of the title.
func ForTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}

	for _, article := range titleArticles {
		prefix := article + " "
		if len(title) > len(prefix) && strings.EqualFold(title[:len(prefix)], prefix) {
			rest := strings.TrimSpace(title[len(prefix):])
			if rest != "" {
				return rest + ", " + title[:len(article)]
			}
		}
	}
	return title
}

// ForPerson converts a display name to "Last, First" form. Honorific
// prefixes are dropped; name particles move to the end with the given name.
func ForPerson(name string) string {
	name = strings.TrimSpace(name)
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return name
	}

	for len(parts) > 1 && matchesFold(parts[0], prefixes) {
		parts = parts[1:]
	}
	if len(parts) == 1 {
		return parts[0]
	}

	surname := parts[len(parts)-1]
	given := parts[:len(parts)-1]

	var trailing []string
	for len(given) > 0 && matchesFold(given[len(given)-1], particles) {
		trailing = append([]string{given[len(given)-1]}, trailing...)
		given = given[:len(given)-1]
	}

	out := surname + ", " + strings.Join(given, " ")
	if len(trailing) > 0 {
		if len(given) > 0 {
			out += " "
		}
		out += strings.Join(trailing, " ")
	}
	return strings.TrimSuffix(strings.TrimSpace(out), ",")
}

func matchesFold(word string, list []string) bool {
	for _, candidate := range list {
		if strings.EqualFold(word, candidate) {
			return true
		}
	}
	return false
}
