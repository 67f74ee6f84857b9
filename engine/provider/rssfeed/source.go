// Package rssfeed streams announcement records from configured RSS and Atom
// feeds. Items carry no action history, so their canonical status stays at
// the derivation default.
package rssfeed

import (
	"context"
	"time"

	"github.com/avasalony-boop/policy-tracker/engine/provider"
	"github.com/avasalony-boop/policy-tracker/pkg/logger"
	"github.com/go-resty/resty/v2"
)

const (
	SourceName = "rss"

	defaultTimeout = 30 * time.Second
)

// Source fetches every configured feed and emits the items passing that
// feed's keyword filters. A feed that fails to fetch or decode is skipped;
// one bad feed never ends the run.
type Source struct {
	client *resty.Client
	feeds  []Feed
}

func New(feeds []Feed) *Source {
	return &Source{
		client: resty.New().SetTimeout(defaultTimeout),
		feeds:  feeds,
	}
}

func (s *Source) Name() string {
	return SourceName
}

func (s *Source) Fetch(ctx context.Context, emit provider.EmitFunc) error {
	log := logger.FromContext(ctx).With("source", SourceName)
	for _, feed := range s.feeds {
		if feed.URL == "" {
			continue
		}
		items, err := s.fetchFeed(ctx, feed.URL)
		if err != nil {
			log.Warn("Skipping feed", "url", feed.URL, "error", err)
			continue
		}
		for _, it := range items {
			if it.Link == "" || it.Title == "" {
				continue
			}
			if !matchFilters(it.Title, it.Summary, feed.Include, feed.Exclude) {
				continue
			}
			rec := &provider.RawRecord{
				Source:       SourceName,
				ID:           it.Link,
				Jurisdiction: feed.State,
				Title:        it.Title,
				Summary:      it.Summary,
				URL:          it.Link,
			}
			if err := emit(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Source) fetchFeed(ctx context.Context, url string) ([]item, error) {
	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &statusError{status: resp.Status()}
	}
	return parseDocument(resp.Body())
}

type statusError struct {
	status string
}

func (e *statusError) Error() string {
	return "unexpected response status " + e.status
}
