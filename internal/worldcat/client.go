// Package worldcat talks to the bibliographic catalog APIs: the record
// content API and the signed cross-reference (edition expansion) API.
package worldcat

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cesargomez89/bookwall/internal/domain"
	"github.com/cesargomez89/bookwall/internal/httpclient"
)

// Client fetches bibliographic records keyed by catalog identifier.
type Client struct {
	client  *httpclient.Client
	baseURL string
	wsKey   string
}

// NewClient creates a record API client.
func NewClient(client *httpclient.Client, baseURL, wsKey string) *Client {
	return &Client{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		wsKey:   wsKey,
	}
}

// Fetch retrieves the record for one catalog identifier and maps it to
// a Publication. The returned Publication has no cover image yet. Any
// network or parse failure is returned; a record that merely lacks
// optional fields is not an error.
func (c *Client) Fetch(ctx context.Context, oclcNumber string) (*domain.Publication, error) {
	u := fmt.Sprintf("%s/%s?wskey=%s", c.baseURL, url.PathEscape(oclcNumber), url.QueryEscape(c.wsKey))

	resp, err := c.client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch record %s: %w", oclcNumber, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("record API returned status %d for %s", resp.StatusCode, oclcNumber)
	}

	record, err := ParseRecord(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record %s: %w", oclcNumber, err)
	}

	pub := &domain.Publication{OCLCNumber: oclcNumber}
	pub.SetTitle(record.First(TagTitle))
	pub.Description = record.First(TagAbstract)
	pub.SetISBNs(record.All(TagISBN))
	pub.SetAuthors(record.First(TagAuthor), record.All(TagAddedAuthor))
	return pub, nil
}
