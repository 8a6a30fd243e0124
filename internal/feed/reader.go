// Package feed reads the catalog's syndication feed and extracts the
// ordered list of catalog identifiers to ingest.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/cesargomez89/bookwall/internal/httpclient"
)

// Reader fetches and parses the publication feed.
type Reader struct {
	client  *httpclient.Client
	feedURL string
}

// NewReader creates a feed reader for the composed feed URL
// (base + "/rss?count=N", matching the upstream feed contract).
func NewReader(client *httpclient.Client, baseURL string, count int) *Reader {
	return &Reader{
		client:  client,
		feedURL: fmt.Sprintf("%s/rss?count=%d", strings.TrimSuffix(baseURL, "/"), count),
	}
}

// FeedURL returns the fully composed feed URL.
func (r *Reader) FeedURL() string {
	return r.feedURL
}

// Identifiers fetches the feed and returns one catalog identifier per
// item, in feed order, duplicates preserved. Each identifier is the
// trailing path segment of the item's link URL. Any fetch or parse
// failure is returned; the caller treats it as fatal to the refresh.
func (r *Reader) Identifiers(ctx context.Context) ([]string, error) {
	resp, err := r.client.Get(ctx, r.feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	ids := make([]string, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		id, err := identifierFromLink(item.Link)
		if err != nil {
			return nil, fmt.Errorf("malformed feed item %q: %w", item.Title, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// identifierFromLink extracts the trailing path segment of an item link.
func identifierFromLink(link string) (string, error) {
	if link == "" {
		return "", fmt.Errorf("item has no link")
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", link, err)
	}
	segments := strings.Split(strings.TrimSuffix(u.Path, "/"), "/")
	id := segments[len(segments)-1]
	if id == "" {
		return "", fmt.Errorf("link %q has no path segments", link)
	}
	return id, nil
}
