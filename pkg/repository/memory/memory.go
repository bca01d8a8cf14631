package memory

import (
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
)

// Memory is an in-memory repository backend for development and tests
type Memory struct {
	risk       *riskRepository
	decision   *decisionRepository
	review     *reviewRepository
	escalation *escalationRepository
	execution  *executionLogRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		risk:       newRiskRepository(),
		decision:   newDecisionRepository(),
		review:     newReviewRepository(),
		escalation: newEscalationRepository(),
		execution:  newExecutionLogRepository(),
	}
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) Decision() interfaces.DecisionRepository {
	return m.decision
}

func (m *Memory) Review() interfaces.ReviewRepository {
	return m.review
}

func (m *Memory) Escalation() interfaces.EscalationRepository {
	return m.escalation
}

func (m *Memory) Execution() interfaces.ExecutionLogRepository {
	return m.execution
}

func (m *Memory) Close() error {
	return nil
}
