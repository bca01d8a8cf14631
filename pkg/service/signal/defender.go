package signal

import "github.com/secmon-lab/briareus/pkg/domain/types"

// NewDefender builds a simulator shaped like an endpoint protection feed:
// high-confidence detections on workstations and servers.
func NewDefender(seed int64, options ...Option) *Simulator {
	catalog := []template{
		{
			title:          "Malware detected on finance workstation",
			description:    "Endpoint protection flagged a trojan dropper on a finance department workstation",
			category:       "malware",
			severity:       types.SeverityHigh,
			entityName:     "ws-finance-042",
			entityCritical: false,
			confidence:     0.88,
		},
		{
			title:          "Lateral movement from compromised host",
			description:    "SMB enumeration and remote service creation observed from a quarantined host",
			category:       "intrusion",
			severity:       types.SeverityCritical,
			entityName:     "srv-ad-primary",
			entityCritical: true,
			confidence:     0.82,
		},
		{
			title:          "Unsigned driver loaded on production server",
			description:    "Kernel driver without a valid signature loaded outside the maintenance window",
			category:       "policy_violation",
			severity:       types.SeverityMedium,
			entityName:     "srv-app-07",
			confidence:     0.64,
		},
		{
			title:          "Credential dumping tool executed",
			description:    "LSASS memory access pattern consistent with credential dumping",
			category:       "credential_access",
			severity:       types.SeverityCritical,
			entityName:     "srv-db-payments",
			entityCritical: true,
			confidence:     0.91,
		},
	}
	return newSimulator("defender", 0.85, 0.90, seed, catalog, options)
}
