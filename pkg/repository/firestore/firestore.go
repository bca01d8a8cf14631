package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
)

type Firestore struct {
	client     *firestore.Client
	risk       *riskRepository
	decision   *decisionRepository
	review     *reviewRepository
	escalation *escalationRepository
	execution  *executionLogRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, used by tests to isolate runs
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.risk.collectionPrefix = prefix
		f.decision.collectionPrefix = prefix
		f.review.collectionPrefix = prefix
		f.escalation.collectionPrefix = prefix
		f.execution.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:     client,
		risk:       newRiskRepository(client),
		decision:   newDecisionRepository(client),
		review:     newReviewRepository(client),
		escalation: newEscalationRepository(client),
		execution:  newExecutionLogRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Risk() interfaces.RiskRepository {
	return f.risk
}

func (f *Firestore) Decision() interfaces.DecisionRepository {
	return f.decision
}

func (f *Firestore) Review() interfaces.ReviewRepository {
	return f.review
}

func (f *Firestore) Escalation() interfaces.EscalationRepository {
	return f.escalation
}

func (f *Firestore) Execution() interfaces.ExecutionLogRepository {
	return f.execution
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
