package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type reviewContextDocument struct {
	EntityName        string `firestore:"entity_name"`
	Description       string `firestore:"description"`
	Justification     string `firestore:"justification"`
	RecommendedAction string `firestore:"recommended_action"`
}

type reviewDocument struct {
	ID            string                `firestore:"id"`
	RiskID        int64                 `firestore:"risk_id"`
	Priority      string                `firestore:"priority"`
	AssignedTo    string                `firestore:"assigned_to"`
	Reason        string                `firestore:"reason"`
	Context       reviewContextDocument `firestore:"context"`
	Status        string                `firestore:"status"`
	CreatedAt     time.Time             `firestore:"created_at"`
	DueDate       time.Time             `firestore:"due_date"`
	CompletedAt   *time.Time            `firestore:"completed_at"`
	Outcome       string                `firestore:"outcome"`
	Reviewer      string                `firestore:"reviewer"`
	ReviewerNotes string                `firestore:"reviewer_notes"`
}

func toReviewDocument(r *model.ReviewRequest) *reviewDocument {
	return &reviewDocument{
		ID:         r.ID,
		RiskID:     r.RiskID,
		Priority:   r.Priority.String(),
		AssignedTo: r.AssignedTo,
		Reason:     r.Reason,
		Context: reviewContextDocument{
			EntityName:        r.Context.EntityName,
			Description:       r.Context.Description,
			Justification:     r.Context.Justification,
			RecommendedAction: r.Context.RecommendedAction,
		},
		Status:        r.Status.String(),
		CreatedAt:     r.CreatedAt,
		DueDate:       r.DueDate,
		CompletedAt:   r.CompletedAt,
		Outcome:       r.Outcome.String(),
		Reviewer:      r.Reviewer,
		ReviewerNotes: r.ReviewerNotes,
	}
}

func (d *reviewDocument) toModel() (*model.ReviewRequest, error) {
	priority, err := types.ParseReviewPriority(d.Priority)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid review document", goerr.V("id", d.ID))
	}
	reviewStatus, err := types.ParseReviewStatus(d.Status)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid review document", goerr.V("id", d.ID))
	}

	var outcome types.ReviewOutcome
	if d.Outcome != "" {
		outcome, err = types.ParseReviewOutcome(d.Outcome)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid review document", goerr.V("id", d.ID))
		}
	}

	return &model.ReviewRequest{
		ID:         d.ID,
		RiskID:     d.RiskID,
		Priority:   priority,
		AssignedTo: d.AssignedTo,
		Reason:     d.Reason,
		Context: model.ReviewContext{
			EntityName:        d.Context.EntityName,
			Description:       d.Context.Description,
			Justification:     d.Context.Justification,
			RecommendedAction: d.Context.RecommendedAction,
		},
		Status:        reviewStatus,
		CreatedAt:     d.CreatedAt,
		DueDate:       d.DueDate,
		CompletedAt:   d.CompletedAt,
		Outcome:       outcome,
		Reviewer:      d.Reviewer,
		ReviewerNotes: d.ReviewerNotes,
	}, nil
}

type reviewRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newReviewRepository(client *firestore.Client) *reviewRepository {
	return &reviewRepository{client: client}
}

func (r *reviewRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_review_requests"
	}
	return "review_requests"
}

func (r *reviewRepository) Create(ctx context.Context, review *model.ReviewRequest) (*model.ReviewRequest, error) {
	doc := toReviewDocument(review)
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Status == "" {
		doc.Status = types.ReviewStatusPending.String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	docRef := r.client.Collection(r.collection()).Doc(doc.ID)
	if _, err := docRef.Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create review request",
			goerr.V("risk_id", review.RiskID))
	}

	return doc.toModel()
}

func (r *reviewRepository) Get(ctx context.Context, id string) (*model.ReviewRequest, error) {
	docRef := r.client.Collection(r.collection()).Doc(id)
	snapshot, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "review request not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get review request", goerr.V("id", id))
	}

	var doc reviewDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode review document", goerr.V("id", id))
	}

	return doc.toModel()
}

func (r *reviewRepository) List(ctx context.Context, opts ...interfaces.ListReviewOption) ([]*model.ReviewRequest, error) {
	cfg := interfaces.BuildListReviewConfig(opts...)

	query := r.client.Collection(r.collection()).Query
	if cfg.Status() != nil {
		query = query.Where("status", "==", cfg.Status().String())
	}
	if cfg.Priority() != nil {
		query = query.Where("priority", "==", cfg.Priority().String())
	}
	if cfg.AssignedTo() != nil {
		query = query.Where("assigned_to", "==", *cfg.AssignedTo())
	}
	if cfg.CreatedSince() != nil {
		query = query.Where("created_at", ">=", *cfg.CreatedSince())
	}

	return r.list(ctx, query)
}

func (r *reviewRepository) ListOverdue(ctx context.Context, now time.Time) ([]*model.ReviewRequest, error) {
	// Escalated and completed requests never match, which keeps the
	// escalation transition idempotent.
	query := r.client.Collection(r.collection()).
		Where("status", "in", []string{
			types.ReviewStatusPending.String(),
			types.ReviewStatusInProgress.String(),
		}).
		Where("due_date", "<", now)

	return r.list(ctx, query)
}

func (r *reviewRepository) Update(ctx context.Context, review *model.ReviewRequest) (*model.ReviewRequest, error) {
	docRef := r.client.Collection(r.collection()).Doc(review.ID)
	snapshot, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "review request not found", goerr.V("id", review.ID))
		}
		return nil, goerr.Wrap(err, "failed to get review request", goerr.V("id", review.ID))
	}

	var existing reviewDocument
	if err := snapshot.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to decode review document", goerr.V("id", review.ID))
	}

	doc := toReviewDocument(review)
	doc.CreatedAt = existing.CreatedAt

	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to update review request", goerr.V("id", review.ID))
	}

	return doc.toModel()
}

func (r *reviewRepository) list(ctx context.Context, query firestore.Query) ([]*model.ReviewRequest, error) {
	it := query.Documents(ctx)
	defer it.Stop()

	var reviews []*model.ReviewRequest
	for {
		snapshot, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate review requests")
		}

		var doc reviewDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode review document")
		}

		review, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	return reviews, nil
}
