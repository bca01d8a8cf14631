package signal

import "github.com/secmon-lab/briareus/pkg/domain/types"

// NewITSM builds a simulator shaped like a ticketing system export:
// human-filed findings with moderate confidence and compliance flavor.
func NewITSM(seed int64, options ...Option) *Simulator {
	catalog := []template{
		{
			title:       "Expired TLS certificate on customer portal",
			description: "Support ticket reports certificate warnings on the customer-facing portal",
			category:    "misconfiguration",
			severity:    types.SeverityMedium,
			entityName:  "portal-web",
			confidence:  0.58,
		},
		{
			title:          "Access review overdue for payment system",
			description:    "Quarterly access review for the payment processing system missed its compliance deadline",
			category:       "access_control",
			severity:       types.SeverityHigh,
			entityName:     "pay-gateway",
			entityCritical: true,
			compliance:     true,
			confidence:     0.71,
		},
		{
			title:       "Shared admin account in use",
			description: "Audit ticket notes a shared administrator account on the build infrastructure",
			category:    "policy_violation",
			severity:    types.SeverityMedium,
			entityName:  "ci-build-01",
			compliance:  true,
			confidence:  0.52,
		},
		{
			title:       "Backup job failing for file server",
			description: "Nightly backup of the department file server has failed for three consecutive runs",
			category:    "availability",
			severity:    types.SeverityLow,
			entityName:  "fs-dept-03",
			confidence:  0.45,
		},
	}
	return newSimulator("itsm", 0.70, 0.75, seed, catalog, options)
}
