package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/briareus/pkg/domain/model/config"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Workflow holds CLI flags for workflow tuning. All parameters have
// defaults; a TOML file overrides only the keys it sets.
type Workflow struct {
	path string
}

// Flags returns CLI flags for workflow configuration
func (w *Workflow) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "workflow-config",
			Usage:       "Path to workflow tuning file (TOML)",
			Category:    "Workflow",
			Sources:     cli.EnvVars("BRIAREUS_WORKFLOW_CONFIG"),
			Destination: &w.path,
		},
	}
}

// workflowFile is the TOML shape of the tuning file. Pointer fields
// distinguish "unset" from an explicit zero.
type workflowFile struct {
	AutoApproveThreshold *float64       `toml:"auto_approve_threshold"`
	ReviewThreshold      *float64       `toml:"review_threshold"`
	CycleInterval        *string        `toml:"cycle_interval"`
	HealthCheckInterval  *string        `toml:"health_check_interval"`
	HealthWindow         *string        `toml:"health_window"`
	Retention            *string        `toml:"retention"`
	SystemOnlineRatio    *float64       `toml:"system_online_ratio"`
	RoutingConcurrency   *int           `toml:"routing_concurrency"`
	SLAHours             map[string]int `toml:"sla_hours"`

	ComponentHealth struct {
		OnlineMin   *float64 `toml:"online_min"`
		DegradedMin *float64 `toml:"degraded_min"`
	} `toml:"component_health"`
}

// Configure returns the workflow configuration, applying the TOML file
// over the defaults when a path is set.
func (w *Workflow) Configure() (*domainConfig.WorkflowConfig, error) {
	cfg := domainConfig.DefaultWorkflowConfig()
	if w.path == "" {
		return cfg, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, goerr.Wrap(ErrConfigNotFound, err.Error(), goerr.V("path", w.path))
	}

	var file workflowFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config",
			goerr.V("path", w.path), goerr.V("cause", err.Error()))
	}

	if err := file.apply(cfg); err != nil {
		return nil, goerr.Wrap(err, "invalid workflow config", goerr.V("path", w.path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "workflow config validation failed", goerr.V("path", w.path))
	}
	return cfg, nil
}

func (f *workflowFile) apply(cfg *domainConfig.WorkflowConfig) error {
	if f.AutoApproveThreshold != nil {
		cfg.AutoApproveThreshold = *f.AutoApproveThreshold
	}
	if f.ReviewThreshold != nil {
		cfg.ReviewThreshold = *f.ReviewThreshold
	}
	if f.SystemOnlineRatio != nil {
		cfg.SystemOnlineRatio = *f.SystemOnlineRatio
	}
	if f.RoutingConcurrency != nil {
		cfg.RoutingConcurrency = *f.RoutingConcurrency
	}
	if f.ComponentHealth.OnlineMin != nil {
		cfg.ComponentHealth.OnlineMin = *f.ComponentHealth.OnlineMin
	}
	if f.ComponentHealth.DegradedMin != nil {
		cfg.ComponentHealth.DegradedMin = *f.ComponentHealth.DegradedMin
	}

	durations := []struct {
		key   string
		raw   *string
		field *time.Duration
	}{
		{"cycle_interval", f.CycleInterval, &cfg.CycleInterval},
		{"health_check_interval", f.HealthCheckInterval, &cfg.HealthCheckInterval},
		{"health_window", f.HealthWindow, &cfg.HealthWindow},
		{"retention", f.Retention, &cfg.Retention},
	}
	for _, d := range durations {
		if d.raw == nil {
			continue
		}
		parsed, err := time.ParseDuration(*d.raw)
		if err != nil {
			return goerr.Wrap(err, "invalid duration", goerr.V("key", d.key), goerr.V("value", *d.raw))
		}
		*d.field = parsed
	}

	for name, hours := range f.SLAHours {
		priority, err := types.ParseReviewPriority(name)
		if err != nil {
			return goerr.Wrap(err, "invalid SLA priority", goerr.V("priority", name))
		}
		cfg.ReviewSLAHours[priority] = hours
	}

	return nil
}
