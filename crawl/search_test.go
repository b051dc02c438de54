package crawl_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pagescout/pagescout"
	"github.com/pagescout/pagescout/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// crawlPages indexes the given pages into a fresh service and returns it
// with the scope key of the seed URL.
func crawlPages(t *testing.T, seed string, pages map[string]fakePage) (*crawl.Service, string) {
	t.Helper()
	fetcher, content, links := fakeSite(pages, nil)
	svc := crawl.NewService(fetcher, content, links)
	_, err := svc.Crawl(context.Background(), seed)
	require.NoError(t, err)
	scope, err := pagescout.ScopeFromURL(seed)
	require.NoError(t, err)
	return svc, scope.Key()
}

func TestService_Search_empty_query_returns_no_results(t *testing.T) {
	t.Parallel()

	svc, key := crawlPages(t, "https://a.com/docs/", map[string]fakePage{
		"https://a.com/docs/": {title: "Docs", text: "anything at all"},
	})

	assert.Empty(t, svc.Search("", key))
	assert.Empty(t, svc.Search("   ", key))
}

func TestService_Search_unknown_scope_returns_no_results(t *testing.T) {
	t.Parallel()

	svc, _ := crawlPages(t, "https://a.com/docs/", map[string]fakePage{
		"https://a.com/docs/": {title: "Docs", text: "anything"},
	})

	assert.Empty(t, svc.Search("anything", "b.com|/"))
}

func TestService_Search_title_matches_outrank_body_matches(t *testing.T) {
	t.Parallel()

	svc, key := crawlPages(t, "https://a.com/docs/", map[string]fakePage{
		"https://a.com/docs/": {title: "Index", text: "nothing relevant", links: []string{
			"https://a.com/docs/title-hit",
			"https://a.com/docs/body-hit",
		}},
		"https://a.com/docs/title-hit": {title: "gopher handbook", text: "unrelated body"},
		"https://a.com/docs/body-hit":  {title: "Something else", text: "a body mentioning gopher once"},
	})

	results := svc.Search("gopher", key)
	require.Len(t, results, 2)
	assert.Equal(t, "https://a.com/docs/title-hit", results[0].URL)
	assert.Equal(t, "https://a.com/docs/body-hit", results[1].URL)
}

func TestService_Search_earlier_body_matches_outrank_later_ones(t *testing.T) {
	t.Parallel()

	late := strings.Repeat("padding words here ", 100) + "gopher"
	svc, key := crawlPages(t, "https://a.com/docs/", map[string]fakePage{
		"https://a.com/docs/": {title: "Index", text: "gopher early in the body", links: []string{
			"https://a.com/docs/late",
		}},
		"https://a.com/docs/late": {title: "Late", text: late},
	})

	results := svc.Search("gopher", key)
	require.Len(t, results, 2)
	assert.Equal(t, "https://a.com/docs/", results[0].URL)
}

func TestService_Search_result_shape(t *testing.T) {
	t.Parallel()

	svc, key := crawlPages(t, "https://a.com/docs/", map[string]fakePage{
		"https://a.com/docs/": {title: "Gopher Guide", text: "all about the gopher lifestyle"},
	})

	results := svc.Search("gopher", key)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "crawl:https://a.com/docs/", r.ID)
	assert.Equal(t, pagescout.LevelSite, r.Level)
	assert.Equal(t, "Gopher Guide — https://a.com/docs/", r.Title)
	assert.Equal(t, "https://a.com/docs/", r.URL)
	assert.True(t, strings.HasPrefix(r.Fragment, "#:~:text="),
		"body matches carry a text fragment anchor")
	assert.Contains(t, r.Fragment, "gopher")
}

func TestService_Search_fragment_window_and_encoding(t *testing.T) {
	t.Parallel()

	text := "prefix padding before the needle match and then quite a lot of trailing context that extends beyond the window to prove truncation works as intended"
	svc, key := crawlPages(t, "https://a.com/docs/", map[string]fakePage{
		"https://a.com/docs/": {title: "Doc", text: text},
	})

	results := svc.Search("needle", key)
	require.Len(t, results, 1)

	frag := results[0].Fragment
	require.True(t, strings.HasPrefix(frag, "#:~:text="))
	encoded := strings.TrimPrefix(frag, "#:~:text=")

	assert.Contains(t, encoded, "needle")
	assert.Contains(t, encoded, "%20", "spaces are percent-encoded")
	assert.NotContains(t, encoded, " ")
	assert.NotContains(t, encoded, "+")
	// Window is ~20 chars before to ~80 after: the far prefix and far
	// tail fall outside it.
	assert.NotContains(t, encoded, "prefix")
	assert.NotContains(t, encoded, "intended")
}

func TestService_Search_fragment_aligns_after_case_folding(t *testing.T) {
	t.Parallel()

	// Folding "İ" (2 bytes) yields 3 bytes, so byte offsets in the
	// folded text differ from the original. The fragment window must
	// still land on the match.
	text := strings.Repeat("İZMİR ", 30) + "the needle sits here with trailing words after it"
	svc, key := crawlPages(t, "https://a.com/docs/", map[string]fakePage{
		"https://a.com/docs/": {title: "Doc", text: text},
	})

	results := svc.Search("needle", key)
	require.Len(t, results, 1)

	frag := results[0].Fragment
	require.True(t, strings.HasPrefix(frag, "#:~:text="))
	assert.Contains(t, frag, "needle")
	assert.True(t, utf8.ValidString(frag))
}

func TestService_Search_caps_results(t *testing.T) {
	t.Parallel()

	pages := map[string]fakePage{}
	var links []string
	for i := 0; i < 30; i++ {
		url := fmt.Sprintf("https://a.com/docs/p%02d", i)
		links = append(links, url)
		pages[url] = fakePage{title: "Match", text: "match everywhere"}
	}
	pages["https://a.com/docs/"] = fakePage{title: "Match", text: "match everywhere", links: links}

	svc, key := crawlPages(t, "https://a.com/docs/", pages)

	results := svc.Search("match", key)
	assert.Len(t, results, crawl.MaxSearchResults)
}

func TestService_Search_is_case_insensitive(t *testing.T) {
	t.Parallel()

	svc, key := crawlPages(t, "https://a.com/docs/", map[string]fakePage{
		"https://a.com/docs/": {title: "MiXeD Case Title", text: "Body With MIXED casing"},
	})

	results := svc.Search("mixed", key)
	require.Len(t, results, 1)
}
