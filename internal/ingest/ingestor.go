// Package ingest fans the feed's identifier list out across the
// metadata and cover resolvers and joins the results into one
// fully-resolved publication set.
package ingest

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/cesargomez89/bookwall/internal/domain"
	"github.com/cesargomez89/bookwall/internal/logger"
)

// IdentifierSource lists the catalog identifiers to ingest, in display
// order.
type IdentifierSource interface {
	Identifiers(ctx context.Context) ([]string, error)
}

// MetadataFetcher resolves one identifier to a publication without a
// cover.
type MetadataFetcher interface {
	Fetch(ctx context.Context, oclcNumber string) (*domain.Publication, error)
}

// CoverResolver attaches a verified or placeholder cover. It never
// fails.
type CoverResolver interface {
	Resolve(ctx context.Context, pub *domain.Publication) image.Image
}

// Ingestor runs the full resolution pipeline for one refresh.
type Ingestor struct {
	feed          IdentifierSource
	metadata      MetadataFetcher
	covers        CoverResolver
	maxConcurrent int
	log           *logger.Logger
}

// NewIngestor wires the pipeline stages together. maxConcurrent bounds
// the number of identifiers resolved at once.
func NewIngestor(feed IdentifierSource, metadata MetadataFetcher, covers CoverResolver, maxConcurrent int, log *logger.Logger) *Ingestor {
	if log == nil {
		log = logger.Default()
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Ingestor{
		feed:          feed,
		metadata:      metadata,
		covers:        covers,
		maxConcurrent: maxConcurrent,
		log:           log.WithComponent("ingest"),
	}
}

// Run resolves every feed identifier to a complete publication. One
// task per identifier runs metadata fetch then cover resolution; the
// join waits for every task, and any task error fails the whole run
// with no partial results. Output order matches feed order regardless
// of completion order.
func (in *Ingestor) Run(ctx context.Context) ([]domain.Publication, error) {
	ids, err := in.feed.Identifiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}
	in.log.Info("feed read", "identifiers", len(ids))

	pubs := make([]domain.Publication, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.maxConcurrent)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			pub, err := in.metadata.Fetch(gctx, id)
			if err != nil {
				return err
			}
			pub.CoverImage = in.covers.Resolve(gctx, pub)
			pubs[i] = *pub
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ingestion failed: %w", err)
	}

	in.log.Info("ingestion complete", "publications", len(pubs))
	return pubs, nil
}
