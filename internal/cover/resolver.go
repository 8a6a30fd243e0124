// Package cover resolves a verified cover image for a publication,
// falling back through progressively weaker sources and ending at a
// synthesized placeholder.
package cover

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cesargomez89/bookwall/internal/constants"
	"github.com/cesargomez89/bookwall/internal/domain"
	"github.com/cesargomez89/bookwall/internal/httpclient"
	"github.com/cesargomez89/bookwall/internal/logger"
)

// EditionLister expands a catalog identifier into alternate identifiers
// for other editions of the same work.
type EditionLister interface {
	Editions(ctx context.Context, oclcNumber string) ([]string, error)
}

// Resolver runs the cover search for one publication at a time. All
// lookups within one search are strictly sequential so the chain can
// short-circuit on the first verified image without wasted downloads.
type Resolver struct {
	client    *httpclient.Client
	editions  EditionLister
	detailURL string
	log       *logger.Logger
}

// NewResolver creates a cover resolver scraping detail pages under
// baseURL.
func NewResolver(client *httpclient.Client, editions EditionLister, baseURL string, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Default()
	}
	return &Resolver{
		client:    client,
		editions:  editions,
		detailURL: strings.TrimSuffix(baseURL, "/"),
		log:       log.WithComponent("cover"),
	}
}

// Resolve returns a verified cover for the publication, or the
// synthesized placeholder when every source fails. It never returns
// nil: every failure inside the search is degraded-path, not fatal.
func (r *Resolver) Resolve(ctx context.Context, pub *domain.Publication) image.Image {
	log := r.log.WithPublication(pub.OCLCNumber, pub.Title)

	alternates, err := r.editions.Editions(ctx, pub.OCLCNumber)
	if err != nil {
		// Degraded: search continues with the original identifier only.
		log.Warn("edition expansion failed", "error", err)
		alternates = nil
	}

	for _, id := range alternates {
		if img, ok := r.searchIdentifier(ctx, log, id); ok {
			return img
		}
	}
	if img, ok := r.searchIdentifier(ctx, log, pub.OCLCNumber); ok {
		return img
	}

	log.Info("no verified cover found, rendering placeholder")
	return Placeholder(pub.Title, pub.AuthorLine())
}

// searchIdentifier scrapes one identifier's detail page and tries its
// candidate URLs in order. ok is false when this identifier yields
// nothing and the search should move on.
func (r *Resolver) searchIdentifier(ctx context.Context, log *logger.Logger, oclcNumber string) (image.Image, bool) {
	candidates, err := r.coverCandidates(ctx, oclcNumber)
	if err != nil {
		log.Debug("detail page scrape failed", "id", oclcNumber, "error", err)
		return nil, false
	}

	for _, candidate := range candidates {
		img, err := r.fetchCandidate(ctx, candidate)
		if err != nil {
			log.Debug("cover candidate rejected", "url", candidate, "error", err)
			continue
		}
		return img, true
	}
	return nil, false
}

// coverCandidates locates the cover img element on the identifier's
// detail page and derives the three candidate URLs by suffix
// substitution, best resolution first.
func (r *Resolver) coverCandidates(ctx context.Context, oclcNumber string) ([]string, error) {
	pageURL := fmt.Sprintf("%s/%s", r.detailURL, url.PathEscape(oclcNumber))

	resp, err := r.client.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch detail page: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detail page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse detail page: %w", err)
	}

	src, exists := doc.Find("#cover img").First().Attr("src")
	if !exists || src == "" {
		return nil, fmt.Errorf("no cover element on detail page")
	}

	src, err = r.absoluteSrc(pageURL, src)
	if err != nil {
		return nil, err
	}

	return []string{
		strings.ReplaceAll(src, constants.CoverSuffixDefault, constants.CoverSuffixLarge),
		src,
		strings.ReplaceAll(src, constants.CoverSuffixDefault, constants.CoverSuffixSmall),
	}, nil
}

// absoluteSrc resolves the scraped src against the detail page URL.
// The upstream serves protocol-relative srcs, which inherit the page's
// scheme.
func (r *Resolver) absoluteSrc(pageURL, src string) (string, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid detail page URL: %w", err)
	}
	ref, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("invalid cover src %q: %w", src, err)
	}
	return page.ResolveReference(ref).String(), nil
}

// fetchCandidate downloads, decodes, and validates one candidate URL.
func (r *Resolver) fetchCandidate(ctx context.Context, candidateURL string) (image.Image, error) {
	resp, err := r.client.Get(ctx, candidateURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download candidate: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("candidate returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode candidate: %w", err)
	}

	if !Valid(img, constants.CoverMinBrightness, constants.CoverMaxBrightness) {
		return nil, fmt.Errorf("candidate failed brightness validation (mean %.1f)", BrightnessMean(img))
	}
	return img, nil
}
