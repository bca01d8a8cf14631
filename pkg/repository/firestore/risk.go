package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type factorsDocument struct {
	MLConfidence       float64 `firestore:"ml_confidence"`
	HistoricalAccuracy float64 `firestore:"historical_accuracy"`
	SourceReliability  float64 `firestore:"source_reliability"`
	SeverityLevel      float64 `firestore:"severity_level"`
	BusinessImpact     float64 `firestore:"business_impact"`
	CriticalAsset      bool    `firestore:"critical_asset"`
	ComplianceRelated  bool    `firestore:"compliance_related"`
}

func toFactorsDocument(f model.DecisionFactors) factorsDocument {
	return factorsDocument(f)
}

func (d factorsDocument) toModel() model.DecisionFactors {
	return model.DecisionFactors(d)
}

type riskDocument struct {
	ID              int64           `firestore:"id"`
	SourceSystem    string          `firestore:"source_system"`
	SourceID        string          `firestore:"source_id"`
	Title           string          `firestore:"title"`
	Description     string          `firestore:"description"`
	Category        string          `firestore:"category"`
	Severity        string          `firestore:"severity"`
	Probability     int             `firestore:"probability"`
	Impact          int             `firestore:"impact"`
	ConfidenceScore float64         `firestore:"confidence_score"`
	Status          string          `firestore:"status"`
	EntityID        string          `firestore:"entity_id"`
	AssignedTo      string          `firestore:"assigned_to"`
	Factors         factorsDocument `firestore:"factors"`
	CreatedAt       time.Time       `firestore:"created_at"`
	UpdatedAt       time.Time       `firestore:"updated_at"`
}

func toRiskDocument(r *model.Risk) *riskDocument {
	return &riskDocument{
		ID:              r.ID,
		SourceSystem:    r.SourceSystem,
		SourceID:        r.SourceID,
		Title:           r.Title,
		Description:     r.Description,
		Category:        r.Category,
		Severity:        r.Severity.String(),
		Probability:     r.Probability,
		Impact:          r.Impact,
		ConfidenceScore: r.ConfidenceScore,
		Status:          r.Status.String(),
		EntityID:        r.EntityID,
		AssignedTo:      r.AssignedTo,
		Factors:         toFactorsDocument(r.Factors),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// toModel validates enum fields at the store boundary; an invalid row is an
// error, never a silently defaulted value.
func (d *riskDocument) toModel() (*model.Risk, error) {
	severity, err := types.ParseSeverity(d.Severity)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid risk document", goerr.V("id", d.ID))
	}
	riskStatus, err := types.ParseRiskStatus(d.Status)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid risk document", goerr.V("id", d.ID))
	}

	return &model.Risk{
		ID:              d.ID,
		SourceSystem:    d.SourceSystem,
		SourceID:        d.SourceID,
		Title:           d.Title,
		Description:     d.Description,
		Category:        d.Category,
		Severity:        severity,
		Probability:     d.Probability,
		Impact:          d.Impact,
		ConfidenceScore: d.ConfidenceScore,
		Status:          riskStatus,
		EntityID:        d.EntityID,
		AssignedTo:      d.AssignedTo,
		Factors:         d.Factors.toModel(),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

type riskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRiskRepository(client *firestore.Client) *riskRepository {
	return &riskRepository{client: client}
}

func (r *riskRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_risks"
	}
	return "risks"
}

func (r *riskRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	if err := risk.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid risk")
	}

	now := time.Now().UTC()
	doc := toRiskDocument(risk)
	if doc.Status == "" {
		doc.Status = types.RiskStatusPending.String()
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now

	counterRef := r.client.Collection(r.counterCollection()).Doc("risk_counter")

	// Duplicate check, counter increment and insert share one transaction
	// so concurrent discovery cannot race duplicate inserts.
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		dup := r.client.Collection(r.collection()).
			Where("title", "==", risk.Title).
			Where("entity_id", "==", risk.EntityID).
			Where("status", "==", types.RiskStatusActive.String()).
			Limit(1)
		it := tx.Documents(dup)
		defer it.Stop()
		if _, err := it.Next(); err != iterator.Done {
			if err != nil {
				return goerr.Wrap(err, "failed to query active duplicates")
			}
			return goerr.Wrap(interfaces.ErrDuplicateRisk, "risk already active",
				goerr.V("title", risk.Title), goerr.V("entity", risk.EntityID))
		}

		counterDoc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return goerr.Wrap(err, "failed to get risk counter")
			}
			doc.ID = 1
			if err := tx.Set(counterRef, map[string]interface{}{"value": doc.ID}); err != nil {
				return goerr.Wrap(err, "failed to initialize risk counter")
			}
		} else {
			value, err := counterDoc.DataAt("value")
			if err != nil {
				return goerr.Wrap(err, "failed to read risk counter value")
			}
			doc.ID = value.(int64) + 1
			if err := tx.Update(counterRef, []firestore.Update{
				{Path: "value", Value: doc.ID},
			}); err != nil {
				return goerr.Wrap(err, "failed to update risk counter")
			}
		}

		docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", doc.ID))
		return tx.Set(docRef, doc)
	})
	if err != nil {
		return nil, err
	}

	return doc.toModel()
}

func (r *riskRepository) Get(ctx context.Context, id int64) (*model.Risk, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	snapshot, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	var doc riskDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode risk document", goerr.V("id", id))
	}

	return doc.toModel()
}

func (r *riskRepository) List(ctx context.Context, opts ...interfaces.ListRiskOption) ([]*model.Risk, error) {
	cfg := interfaces.BuildListRiskConfig(opts...)

	query := r.client.Collection(r.collection()).Query
	if cfg.Status() != nil {
		query = query.Where("status", "==", cfg.Status().String())
	}
	if cfg.CreatedSince() != nil {
		query = query.Where("created_at", ">=", *cfg.CreatedSince())
	}

	it := query.Documents(ctx)
	defer it.Stop()

	var risks []*model.Risk
	for {
		snapshot, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risks")
		}

		var doc riskDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode risk document")
		}

		risk, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		risks = append(risks, risk)
	}

	return risks, nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	if err := risk.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid risk")
	}

	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", risk.ID))
	snapshot, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "risk not found", goerr.V("id", risk.ID))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", risk.ID))
	}

	var existing riskDocument
	if err := snapshot.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to decode risk document", goerr.V("id", risk.ID))
	}

	doc := toRiskDocument(risk)
	doc.CreatedAt = existing.CreatedAt
	doc.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V("id", risk.ID))
	}

	return doc.toModel()
}
