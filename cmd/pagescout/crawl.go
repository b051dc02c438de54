package main

import (
	"fmt"

	"github.com/pagescout/pagescout"
)

// CrawlCmd crawls a site scope once and reports the indexed page count.
type CrawlCmd struct {
	URL string `arg:"" required:"" help:"Start URL; its host and first path segment define the scope"`

	fetchFlags
}

func (c *CrawlCmd) Run(deps *Dependencies) error {
	crawler, cleanup, err := c.newCrawlService(deps)
	if err != nil {
		return err
	}
	defer cleanup()

	scope, err := pagescout.ScopeFromURL(c.URL)
	if err != nil {
		return err
	}

	count, err := crawler.Crawl(deps.Ctx, c.URL)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "indexed %d pages in scope %s\n", count, scope.Key())
	return nil
}

// SearchCmd crawls a site scope and searches the indexed pages.
type SearchCmd struct {
	URL   string `arg:"" required:"" help:"Start URL; its host and first path segment define the scope"`
	Query string `arg:"" required:"" help:"Search query"`

	fetchFlags
}

func (c *SearchCmd) Run(deps *Dependencies) error {
	crawler, cleanup, err := c.newCrawlService(deps)
	if err != nil {
		return err
	}
	defer cleanup()

	scope, err := pagescout.ScopeFromURL(c.URL)
	if err != nil {
		return err
	}

	if _, err := crawler.Crawl(deps.Ctx, c.URL); err != nil {
		return err
	}

	results := crawler.Search(c.Query, scope.Key())
	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "no matches")
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(deps.Stdout, "%s\n", r.Title)
		if r.Fragment != "" {
			fmt.Fprintf(deps.Stdout, "  %s%s\n", r.URL, r.Fragment)
		}
	}
	return nil
}
