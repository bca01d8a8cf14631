package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"google.golang.org/api/iterator"
)

type stageCountsDocument struct {
	Discovered        int `firestore:"discovered"`
	DuplicatesSkipped int `firestore:"duplicates_skipped"`
	Processed         int `firestore:"processed"`
	AutoApproved      int `firestore:"auto_approved"`
	AutoRejected      int `firestore:"auto_rejected"`
	SentToReview      int `firestore:"sent_to_review"`
	Scanned           int `firestore:"scanned"`
	Escalated         int `firestore:"escalated"`
	DiscoveryErrors   int `firestore:"discovery_errors"`
	RoutingErrors     int `firestore:"routing_errors"`
	EscalationErrors  int `firestore:"escalation_errors"`
}

type executionDocument struct {
	ID         string              `firestore:"id"`
	Trigger    string              `firestore:"trigger"`
	StartedAt  time.Time           `firestore:"started_at"`
	FinishedAt time.Time           `firestore:"finished_at"`
	DurationMS int64               `firestore:"duration_ms"`
	Counts     stageCountsDocument `firestore:"counts"`
	Errors     []string            `firestore:"errors"`
	Success    bool                `firestore:"success"`
}

func toExecutionDocument(s *model.ExecutionSummary) *executionDocument {
	return &executionDocument{
		ID:         s.ID,
		Trigger:    string(s.Trigger),
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		DurationMS: s.Duration.Milliseconds(),
		Counts: stageCountsDocument{
			Discovered:        s.Discovery.Discovered,
			DuplicatesSkipped: s.Discovery.DuplicatesSkipped,
			DiscoveryErrors:   s.Discovery.Errors,
			Processed:         s.Routing.Processed,
			AutoApproved:      s.Routing.AutoApproved,
			AutoRejected:      s.Routing.AutoRejected,
			SentToReview:      s.Routing.SentToReview,
			RoutingErrors:     s.Routing.Errors,
			Scanned:           s.Escalation.Scanned,
			Escalated:         s.Escalation.Escalated,
			EscalationErrors:  s.Escalation.Errors,
		},
		Errors:  s.Errors,
		Success: s.Success,
	}
}

func (d *executionDocument) toModel() *model.ExecutionSummary {
	return &model.ExecutionSummary{
		ID:         d.ID,
		Trigger:    model.CycleTrigger(d.Trigger),
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
		Duration:   time.Duration(d.DurationMS) * time.Millisecond,
		Discovery: model.DiscoveryResult{
			Discovered:        d.Counts.Discovered,
			DuplicatesSkipped: d.Counts.DuplicatesSkipped,
			Errors:            d.Counts.DiscoveryErrors,
		},
		Routing: model.RoutingResult{
			Processed:    d.Counts.Processed,
			AutoApproved: d.Counts.AutoApproved,
			AutoRejected: d.Counts.AutoRejected,
			SentToReview: d.Counts.SentToReview,
			Errors:       d.Counts.RoutingErrors,
		},
		Escalation: model.EscalationResult{
			Scanned:   d.Counts.Scanned,
			Escalated: d.Counts.Escalated,
			Errors:    d.Counts.EscalationErrors,
		},
		Errors:  d.Errors,
		Success: d.Success,
	}
}

type executionLogRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newExecutionLogRepository(client *firestore.Client) *executionLogRepository {
	return &executionLogRepository{client: client}
}

func (r *executionLogRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_executions"
	}
	return "executions"
}

func (r *executionLogRepository) Put(ctx context.Context, summary *model.ExecutionSummary) error {
	doc := toExecutionDocument(summary)
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	docRef := r.client.Collection(r.collection()).Doc(doc.ID)
	if _, err := docRef.Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put execution summary", goerr.V("id", doc.ID))
	}

	return nil
}

func (r *executionLogRepository) Latest(ctx context.Context) (*model.ExecutionSummary, error) {
	query := r.client.Collection(r.collection()).
		OrderBy("started_at", firestore.Desc).
		Limit(1)

	it := query.Documents(ctx)
	defer it.Stop()

	snapshot, err := it.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "no execution summaries")
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get latest execution summary")
	}

	var doc executionDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode execution document")
	}

	return doc.toModel(), nil
}

func (r *executionLogRepository) ListSince(ctx context.Context, since time.Time) ([]*model.ExecutionSummary, error) {
	query := r.client.Collection(r.collection()).
		Where("started_at", ">=", since).
		OrderBy("started_at", firestore.Desc)

	it := query.Documents(ctx)
	defer it.Stop()

	var summaries []*model.ExecutionSummary
	for {
		snapshot, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate execution summaries")
		}

		var doc executionDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode execution document")
		}

		summaries = append(summaries, doc.toModel())
	}

	return summaries, nil
}

func (r *executionLogRepository) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	query := r.client.Collection(r.collection()).
		Where("started_at", "<", olderThan)

	it := query.Documents(ctx)
	defer it.Stop()

	deleted := 0
	batch := r.client.BulkWriter(ctx)
	for {
		snapshot, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, goerr.Wrap(err, "failed to iterate execution summaries for pruning")
		}

		if _, err := batch.Delete(snapshot.Ref); err != nil {
			return deleted, goerr.Wrap(err, "failed to schedule execution summary deletion")
		}
		deleted++
	}
	batch.End()

	return deleted, nil
}
