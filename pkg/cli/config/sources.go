package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/service/signal"
	"github.com/urfave/cli/v3"
)

// Sources holds CLI flags for signal source selection
type Sources struct {
	names []string
	seed  int64
}

// Flags returns CLI flags for signal source configuration
func (s *Sources) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "signal-sources",
			Usage:       "Signal sources to poll (defender, itsm, threatfeed)",
			Category:    "Sources",
			Value:       []string{"defender", "itsm", "threatfeed"},
			Sources:     cli.EnvVars("BRIAREUS_SIGNAL_SOURCES"),
			Destination: &s.names,
		},
		&cli.Int64Flag{
			Name:        "signal-seed",
			Usage:       "Random seed for signal simulators (0 uses current time)",
			Category:    "Sources",
			Sources:     cli.EnvVars("BRIAREUS_SIGNAL_SEED"),
			Destination: &s.seed,
		},
	}
}

func (s Sources) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("names", s.names),
		slog.Int64("seed", s.seed),
	)
}

// Configure builds the configured signal sources
func (s *Sources) Configure() ([]interfaces.SignalSource, error) {
	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sources := make([]interfaces.SignalSource, 0, len(s.names))
	for _, name := range s.names {
		switch name {
		case "defender":
			sources = append(sources, signal.NewDefender(seed))
		case "itsm":
			sources = append(sources, signal.NewITSM(seed))
		case "threatfeed":
			sources = append(sources, signal.NewThreatFeed(seed))
		default:
			return nil, goerr.New("unknown signal source", goerr.V("name", name))
		}
	}
	if len(sources) == 0 {
		return nil, goerr.New("at least one signal source is required")
	}
	return sources, nil
}
