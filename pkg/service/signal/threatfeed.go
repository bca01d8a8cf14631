package signal

import "github.com/secmon-lab/briareus/pkg/domain/types"

// NewThreatFeed builds a simulator shaped like an external intelligence feed:
// broad indicators with lower per-event confidence.
func NewThreatFeed(seed int64, options ...Option) *Simulator {
	catalog := []template{
		{
			title:       "Known C2 domain resolved from corporate network",
			description: "DNS logs matched a domain on the current command-and-control blocklist",
			category:    "intrusion",
			severity:    types.SeverityHigh,
			entityName:  "dns-resolver",
			confidence:  0.62,
		},
		{
			title:       "Leaked credentials observed in public dump",
			description: "Corporate email addresses appeared in a freshly published credential dump",
			category:    "credential_access",
			severity:    types.SeverityMedium,
			entityName:  "identity-provider",
			confidence:  0.55,
		},
		{
			title:          "Exploit published for internet-facing VPN appliance",
			description:    "Proof-of-concept exploit released for the VPN gateway firmware version in production",
			category:       "vulnerability",
			severity:       types.SeverityCritical,
			entityName:     "vpn-gateway",
			entityCritical: true,
			confidence:     0.68,
		},
		{
			title:       "Phishing campaign targeting the sector",
			description: "Industry sharing group reports an active phishing campaign against regional banks",
			category:    "phishing",
			severity:    types.SeverityLow,
			entityName:  "mail-gateway",
			confidence:  0.40,
		},
	}
	return newSimulator("threat_feed", 0.60, 0.65, seed, catalog, options)
}
