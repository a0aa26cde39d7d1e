// Package cip extracts Chinese Cataloguing-in-Publication records from ebook
// files.
package cip

import (
	"regexp"
	"strings"

	"github.com/shukubooks/shuku/pkg/htmlutil"
)

// Record is one parsed CIP block. Fields the parser cannot recover stay
// empty.
type Record struct {
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	Pubdate       string   `json:"pubdate"`
	ISBN          string   `json:"isbn"`
	CategoryID    string   `json:"category_id"`
	CipID         string   `json:"cip_id"`
	Price         string   `json:"price"`
}

const (
	cipMarker      = "图书在版编目"
	registryMarker = "中国版本图书馆"
)

// IsCipPage reports whether the text looks like a CIP page: it must mention
// both the CIP block itself and the registry that issued it.
func IsCipPage(text string) bool {
	return strings.Contains(text, cipMarker) && strings.Contains(text, registryMarker)
}

var (
	isbnPattern     = regexp.MustCompile(`ISBN\s*[:：]?\s*([0-9][0-9-]{8,16}[0-9Xx])`)
	cipIDPattern    = regexp.MustCompile(`第\s*([0-9]+)\s*号`)
	pubdatePattern  = regexp.MustCompile(`([0-9]{4})\s*[.年]\s*([0-9]{1,2})`)
	pricePattern    = regexp.MustCompile(`定价\s*[:：]?\s*([0-9]+(?:\.[0-9]+)?)\s*元`)
	categoryPattern = regexp.MustCompile(`[ⅠIⅤV]+\s*[.．]\s*([A-Z][A-Z0-9.-]*)`)
	// "题名/作者" line of the block, e.g. "深入理解计算机系统 / 王某, 李某著".
	titleAuthorPattern = regexp.MustCompile(`(?m)^\s*([^/\n]{1,80})\s*[/／]\s*(.{1,120}?)(?:著|编著|主编|译|编)?\s*[.．。－-]`)

	authorDelimPattern = regexp.MustCompile(`[,，、;；]`)
)

// ParseRecord extracts CIP fields from the plain text of a CIP page. The
// format in the wild is loose, so every field is best-effort.
func ParseRecord(text string) *Record {
	record := &Record{}

	if m := isbnPattern.FindStringSubmatch(text); m != nil {
		record.ISBN = m[1]
	}
	if m := cipIDPattern.FindStringSubmatch(text); m != nil {
		record.CipID = m[1]
	}
	if m := pubdatePattern.FindStringSubmatch(text); m != nil {
		record.Pubdate = m[1] + "-" + m[2]
	}
	if m := pricePattern.FindStringSubmatch(text); m != nil {
		record.Price = m[1]
	}
	if m := categoryPattern.FindStringSubmatch(text); m != nil {
		record.CategoryID = m[1]
	}

	if m := titleAuthorPattern.FindStringSubmatch(text); m != nil {
		record.Title = strings.TrimSpace(m[1])
		for _, name := range authorDelimPattern.Split(m[2], -1) {
			name = strings.TrimSpace(name)
			if name != "" {
				record.Authors = append(record.Authors, name)
			}
		}
	}

	if idx := strings.Index(text, "出版社"); idx >= 0 {
		// Walk back to the start of the line holding the publisher.
		start := strings.LastIndexAny(text[:idx], "\n:：.．") + 1
		record.Publisher = strings.TrimSpace(text[start:idx]) + "出版社"
	}

	return record
}

// ParseRecordFromHTML strips markup before parsing. Used for MOBI content,
// which is stored as HTML.
func ParseRecordFromHTML(html string) *Record {
	return ParseRecord(htmlutil.StripTags(html))
}
