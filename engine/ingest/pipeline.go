// Package ingest runs the per-record pipeline: normalize a raw provider
// record, classify it, upsert it atomically, and observe the resulting
// status transition. Records are processed one at a time, fully, in order.
package ingest

import (
	"context"
	"time"

	"github.com/avasalony-boop/policy-tracker/engine/bill"
	"github.com/avasalony-boop/policy-tracker/engine/classify"
	"github.com/avasalony-boop/policy-tracker/engine/normalize"
	"github.com/avasalony-boop/policy-tracker/engine/notify"
	"github.com/avasalony-boop/policy-tracker/engine/provider"
	"github.com/avasalony-boop/policy-tracker/pkg/logger"
)

// Summary reports the outcome of one ingestion run.
type Summary struct {
	Processed   int
	Failed      int
	Transitions int
}

// Pipeline wires the normalizer, classifier, store, and notifier. Failure
// isolation is per record: a record that fails to persist is counted and
// logged, and the batch continues.
type Pipeline struct {
	repo     bill.Repository
	notifier *notify.Notifier
	now      func() time.Time
}

func New(repo bill.Repository, notifier *notify.Notifier) *Pipeline {
	return &Pipeline{repo: repo, notifier: notifier, now: time.Now}
}

// Run drains every source in order and ingests each emitted record. A source
// whose stream fails is logged and skipped; records already ingested from it
// stay committed. Run only fails when the context is done.
func (p *Pipeline) Run(ctx context.Context, sources ...provider.Source) (*Summary, error) {
	log := logger.FromContext(ctx)
	summary := &Summary{}
	for _, src := range sources {
		err := src.Fetch(ctx, func(rec *provider.RawRecord) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			transitioned, err := p.ingest(ctx, rec)
			if err != nil {
				summary.Failed++
				log.Error("Record ingestion failed",
					"source", src.Name(), "record_id", rec.ID, "error", err)
				return nil
			}
			summary.Processed++
			if transitioned {
				summary.Transitions++
			}
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			log.Error("Source stream failed", "source", src.Name(), "error", err)
		}
	}
	log.Info("Ingestion run finished",
		"processed", summary.Processed,
		"failed", summary.Failed,
		"transitions", summary.Transitions)
	return summary, nil
}

func (p *Pipeline) ingest(ctx context.Context, rec *provider.RawRecord) (bool, error) {
	b, actions := normalize.Record(rec, p.now())
	labels := classify.BuildLabels(b.UID, b.Title, b.Summary)
	res, err := p.repo.Upsert(ctx, b, actions, labels)
	if err != nil {
		return false, err
	}
	transitioned, err := p.notifier.ObserveTransition(ctx, b, res)
	if err != nil {
		// The record is committed at this point; delivery is at most once
		// per observed transition and a failed send is not replayed.
		logger.FromContext(ctx).Warn("Notification delivery failed", "bill_uid", b.UID, "error", err)
	}
	return transitioned, nil
}
