package cip

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shukubooks/shuku/pkg/errcodes"
	"github.com/shukubooks/shuku/pkg/htmlutil"
)

// Extract dispatches on the file extension and returns the first CIP record
// found in the sampled pages.
func Extract(ctx context.Context, path string) (*Record, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "pdf":
		return extractFromPdf(ctx, path)
	case "epub":
		return extractFromEpub(ctx, path)
	case "azw", "azw3", "mobi":
		return extractFromMobi(ctx, path)
	default:
		return nil, errcodes.UnsupportedFile(ext)
	}
}

func extractFromPdf(ctx context.Context, path string) (*Record, error) {
	log := logger.FromContext(ctx)

	reader, err := OpenPdf(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	pages := reader.Pages()

	// Front pages 1..9, then the last five. Unreadable pages are skipped
	// rather than failing the whole scan.
	frontPage := 1
	for ; frontPage < 10 && frontPage < pages; frontPage++ {
		text, err := reader.ReadPage(frontPage)
		if err != nil {
			log.Warn("skipping unreadable page", logger.Data{"page": frontPage, "err": err.Error()})
			continue
		}
		if IsCipPage(text) {
			return ParseRecord(text), nil
		}
	}

	rearPage := pages - 5
	if rearPage < frontPage {
		rearPage = frontPage
	}
	for ; rearPage < pages; rearPage++ {
		text, err := reader.ReadPage(rearPage)
		if err != nil {
			log.Warn("skipping unreadable page", logger.Data{"page": rearPage, "err": err.Error()})
			continue
		}
		if IsCipPage(text) {
			return ParseRecord(text), nil
		}
	}

	return nil, errcodes.NoCipRecordFound()
}

func extractFromEpub(ctx context.Context, path string) (*Record, error) {
	log := logger.FromContext(ctx)

	reader, err := OpenEpub(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	pages := reader.Pages()

	frontPage := 0
	for ; frontPage < 5 && frontPage < pages; frontPage++ {
		text, err := reader.ReadPage(frontPage)
		if err != nil {
			log.Warn("skipping unreadable spine entry", logger.Data{"page": frontPage, "err": err.Error()})
			continue
		}
		if IsCipPage(text) {
			return ParseRecord(text), nil
		}
	}

	rearPage := pages - 5
	if rearPage < frontPage {
		rearPage = frontPage
	}
	for ; rearPage < pages; rearPage++ {
		text, err := reader.ReadPage(rearPage)
		if err != nil {
			log.Warn("skipping unreadable spine entry", logger.Data{"page": rearPage, "err": err.Error()})
			continue
		}
		if IsCipPage(text) {
			return ParseRecord(text), nil
		}
	}

	return nil, errcodes.NoCipRecordFound()
}

// extractFromMobi tests the whole decoded text once: PalmDoc records don't
// map to visual pages, so there is no meaningful window to sample.
func extractFromMobi(_ context.Context, path string) (*Record, error) {
	reader, err := OpenMobi(path)
	if err != nil {
		return nil, err
	}

	html, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	text := htmlutil.StripTags(html)
	if !IsCipPage(text) {
		return nil, errcodes.NoCipRecordFound()
	}
	return ParseRecord(text), nil
}
