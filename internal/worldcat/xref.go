package worldcat

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cesargomez89/bookwall/internal/httpclient"
	"github.com/cesargomez89/bookwall/internal/signature"
)

// XRefClient lists alternate catalog identifiers for other editions of
// the same work via the signed cross-reference API.
type XRefClient struct {
	client  *httpclient.Client
	signer  *signature.Service
	baseURL string
	token   string
}

// NewXRefClient creates a cross-reference client. Requests are signed
// with the given signature service.
func NewXRefClient(client *httpclient.Client, signer *signature.Service, baseURL, token string) *XRefClient {
	return &XRefClient{
		client:  client,
		signer:  signer,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
	}
}

type xrefResponse struct {
	Numbers []string `xml:"oclcnum"`
}

// Editions returns the alternate identifiers for a work, in the order
// the upstream returns them. The digest covers the bare resource URL,
// not the query string; that is the wire contract.
func (c *XRefClient) Editions(ctx context.Context, oclcNumber string) ([]string, error) {
	resource := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(oclcNumber))

	digest, err := c.signer.Sign(ctx, resource)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s?method=getEditions&format=xml&fl=oclcnum&token=%s&hash=%s",
		resource, url.QueryEscape(c.token), digest)

	resp, err := c.client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch editions for %s: %w", oclcNumber, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cross-reference API returned status %d for %s", resp.StatusCode, oclcNumber)
	}

	var result xrefResponse
	if err := xml.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode editions for %s: %w", oclcNumber, err)
	}
	return result.Numbers, nil
}
