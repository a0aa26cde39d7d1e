// Package namesplit normalizes composite author and tag names left behind by
// earlier imports, e.g. "Alice & Bob" becomes two linked authors.
package namesplit

import (
	"context"
	"strings"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shukubooks/shuku/pkg/catalog"
)

// Delimiter lists differ: "、" shows up in author lists but is part of many
// legitimate tag names, so tags only split on the ASCII and fullwidth
// separators.
var (
	authorDelimiters = []string{";", "&", "；", "、"}
	tagDelimiters    = []string{"&", ";", "；"}
)

type Splitter struct {
	catalog *catalog.Service
}

func NewSplitter(cat *catalog.Service) *Splitter {
	return &Splitter{catalog: cat}
}

// Run splits authors first, then tags. A failure inside one pass aborts the
// migration; completed passes stay applied and the run is safe to retry.
func (s *Splitter) Run(ctx context.Context) error {
	if err := s.SplitAuthors(ctx); err != nil {
		return err
	}
	return s.SplitTags(ctx)
}

func (s *Splitter) SplitAuthors(ctx context.Context) error {
	log := logger.FromContext(ctx)

	for _, delimiter := range authorDelimiters {
		composites, err := s.catalog.FindAuthorsByNamePattern(ctx, delimiter)
		if err != nil {
			return err
		}
		log.Info("splitting composite authors", logger.Data{
			"delimiter": delimiter,
			"count":     len(composites),
		})

		for _, composite := range composites {
			// Even a degenerate composite ("Alice &", "&&") is rerouted to
			// whatever atomic parts it has and then removed, so no name with
			// a delimiter survives the migration.
			parts := splitName(composite.Name, delimiter)

			partIDs := make([]int, 0, len(parts))
			for _, part := range parts {
				author, err := s.catalog.ResolveAuthor(ctx, part)
				if err != nil {
					return err
				}
				partIDs = append(partIDs, author.ID)
			}

			links, err := s.catalog.ListBookAuthorLinks(ctx, composite.ID)
			if err != nil {
				return err
			}
			for _, link := range links {
				for _, partID := range partIDs {
					if err := s.catalog.AddBookAuthor(ctx, link.BookID, partID); err != nil {
						return err
					}
				}
				if err := s.catalog.DeleteBookAuthor(ctx, link.ID); err != nil {
					return err
				}
			}

			if err := s.catalog.DeleteAuthor(ctx, composite.ID); err != nil {
				return err
			}
			log.Info("split author", logger.Data{
				"name":  composite.Name,
				"parts": len(parts),
				"links": len(links),
			})
		}
	}

	return nil
}

func (s *Splitter) SplitTags(ctx context.Context) error {
	log := logger.FromContext(ctx)

	for _, delimiter := range tagDelimiters {
		composites, err := s.catalog.FindTagsByNamePattern(ctx, delimiter)
		if err != nil {
			return err
		}
		log.Info("splitting composite tags", logger.Data{
			"delimiter": delimiter,
			"count":     len(composites),
		})

		for _, composite := range composites {
			parts := splitName(composite.Name, delimiter)

			partIDs := make([]int, 0, len(parts))
			for _, part := range parts {
				tag, err := s.catalog.ResolveTag(ctx, part)
				if err != nil {
					return err
				}
				partIDs = append(partIDs, tag.ID)
			}

			links, err := s.catalog.ListBookTagLinks(ctx, composite.ID)
			if err != nil {
				return err
			}
			for _, link := range links {
				for _, partID := range partIDs {
					if err := s.catalog.AddBookTag(ctx, link.BookID, partID); err != nil {
						return err
					}
				}
				if err := s.catalog.DeleteBookTag(ctx, link.ID); err != nil {
					return err
				}
			}

			if err := s.catalog.DeleteTag(ctx, composite.ID); err != nil {
				return err
			}
			log.Info("split tag", logger.Data{
				"name":  composite.Name,
				"parts": len(parts),
				"links": len(links),
			})
		}
	}

	return nil
}

// splitName splits on the delimiter, trims whitespace, and drops empty parts
// so runs of delimiters collapse.
func splitName(name, delimiter string) []string {
	var parts []string
	for _, part := range strings.Split(name, delimiter) {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
