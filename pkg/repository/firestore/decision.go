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

type decisionDocument struct {
	ID              string          `firestore:"id"`
	RiskID          int64           `firestore:"risk_id"`
	Decision        string          `firestore:"decision"`
	ConfidenceScore float64         `firestore:"confidence_score"`
	Reasoning       []string        `firestore:"reasoning"`
	Factors         factorsDocument `firestore:"factors"`
	Automated       bool            `firestore:"automated"`
	DecidedAt       time.Time       `firestore:"decided_at"`
}

func (d *decisionDocument) toModel() (*model.WorkflowDecision, error) {
	decision, err := types.ParseDecision(d.Decision)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid decision document", goerr.V("id", d.ID))
	}

	return &model.WorkflowDecision{
		ID:              d.ID,
		RiskID:          d.RiskID,
		Decision:        decision,
		ConfidenceScore: d.ConfidenceScore,
		Reasoning:       d.Reasoning,
		Factors:         d.Factors.toModel(),
		Automated:       d.Automated,
		DecidedAt:       d.DecidedAt,
	}, nil
}

type decisionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newDecisionRepository(client *firestore.Client) *decisionRepository {
	return &decisionRepository{client: client}
}

func (r *decisionRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_workflow_decisions"
	}
	return "workflow_decisions"
}

func (r *decisionRepository) Create(ctx context.Context, decision *model.WorkflowDecision) (*model.WorkflowDecision, error) {
	doc := &decisionDocument{
		ID:              uuid.NewString(),
		RiskID:          decision.RiskID,
		Decision:        decision.Decision.String(),
		ConfidenceScore: decision.ConfidenceScore,
		Reasoning:       decision.Reasoning,
		Factors:         toFactorsDocument(decision.Factors),
		Automated:       decision.Automated,
		DecidedAt:       decision.DecidedAt,
	}
	if doc.DecidedAt.IsZero() {
		doc.DecidedAt = time.Now().UTC()
	}

	docRef := r.client.Collection(r.collection()).Doc(doc.ID)
	if _, err := docRef.Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create workflow decision",
			goerr.V("risk_id", decision.RiskID))
	}

	return doc.toModel()
}

func (r *decisionRepository) ListByRisk(ctx context.Context, riskID int64) ([]*model.WorkflowDecision, error) {
	query := r.client.Collection(r.collection()).
		Where("risk_id", "==", riskID).
		OrderBy("decided_at", firestore.Asc)

	return r.list(ctx, query)
}

func (r *decisionRepository) ListSince(ctx context.Context, since time.Time) ([]*model.WorkflowDecision, error) {
	query := r.client.Collection(r.collection()).
		Where("decided_at", ">=", since).
		OrderBy("decided_at", firestore.Asc)

	return r.list(ctx, query)
}

func (r *decisionRepository) list(ctx context.Context, query firestore.Query) ([]*model.WorkflowDecision, error) {
	it := query.Documents(ctx)
	defer it.Stop()

	var decisions []*model.WorkflowDecision
	for {
		snapshot, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate workflow decisions")
		}

		var doc decisionDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode workflow decision document")
		}

		decision, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, decision)
	}

	return decisions, nil
}
