package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type escalationDocument struct {
	ID          string    `firestore:"id"`
	ReviewID    string    `firestore:"review_id"`
	RiskID      int64     `firestore:"risk_id"`
	EscalatedAt time.Time `firestore:"escalated_at"`
	Reason      string    `firestore:"reason"`
	EscalatedTo string    `firestore:"escalated_to"`
}

func (d *escalationDocument) toModel() *model.EscalationRecord {
	return &model.EscalationRecord{
		ID:          d.ID,
		ReviewID:    d.ReviewID,
		RiskID:      d.RiskID,
		EscalatedAt: d.EscalatedAt,
		Reason:      d.Reason,
		EscalatedTo: types.EscalationTarget(d.EscalatedTo),
	}
}

type escalationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newEscalationRepository(client *firestore.Client) *escalationRepository {
	return &escalationRepository{client: client}
}

func (r *escalationRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_escalations"
	}
	return "escalations"
}

func (r *escalationRepository) Create(ctx context.Context, record *model.EscalationRecord) (*model.EscalationRecord, error) {
	doc := &escalationDocument{
		ID:          uuid.NewString(),
		ReviewID:    record.ReviewID,
		RiskID:      record.RiskID,
		EscalatedAt: record.EscalatedAt,
		Reason:      record.Reason,
		EscalatedTo: record.EscalatedTo.String(),
	}
	if doc.EscalatedAt.IsZero() {
		doc.EscalatedAt = time.Now().UTC()
	}

	docRef := r.client.Collection(r.collection()).Doc(doc.ID)
	if _, err := docRef.Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create escalation record",
			goerr.V("review_id", record.ReviewID))
	}

	return doc.toModel(), nil
}

func (r *escalationRepository) ListByReview(ctx context.Context, reviewID string) ([]*model.EscalationRecord, error) {
	query := r.client.Collection(r.collection()).
		Where("review_id", "==", reviewID).
		OrderBy("escalated_at", firestore.Asc)

	return r.list(ctx, query)
}

func (r *escalationRepository) ListSince(ctx context.Context, since time.Time) ([]*model.EscalationRecord, error) {
	query := r.client.Collection(r.collection()).
		Where("escalated_at", ">=", since).
		OrderBy("escalated_at", firestore.Asc)

	return r.list(ctx, query)
}

func (r *escalationRepository) list(ctx context.Context, query firestore.Query) ([]*model.EscalationRecord, error) {
	it := query.Documents(ctx)
	defer it.Stop()

	var records []*model.EscalationRecord
	for {
		snapshot, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate escalation records")
		}

		var doc escalationDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode escalation document")
		}

		records = append(records, doc.toModel())
	}

	return records, nil
}
