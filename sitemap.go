package pagescout

import "context"

// SitemapService discovers URLs from website sitemaps. The crawler uses
// it to seed a session's frontier before link-following begins.
type SitemapService interface {
	// DiscoverURLs finds URLs from a site's sitemap. It checks
	// robots.txt for sitemap directives first, then falls back to
	// /sitemap.xml. Sitemap indexes are resolved recursively. A site
	// without a sitemap yields an empty slice, not an error.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
