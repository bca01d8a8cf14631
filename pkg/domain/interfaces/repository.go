package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Risk() RiskRepository
	Decision() DecisionRepository
	Review() ReviewRepository
	Escalation() EscalationRepository
	Execution() ExecutionLogRepository

	Close() error
}
