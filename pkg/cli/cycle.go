package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/briareus/pkg/cli/config"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

func cmdCycle() *cli.Command {
	var repoCfg config.Repository
	var workflowCfg config.Workflow
	var sourcesCfg config.Sources

	flags := repoCfg.Flags()
	flags = append(flags, workflowCfg.Flags()...)
	flags = append(flags, sourcesCfg.Flags()...)

	return &cli.Command{
		Name:    "cycle",
		Aliases: []string{"c"},
		Usage:   "Run a single pipeline cycle and print the summary",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			workflow, err := workflowCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load workflow configuration")
			}

			sources, err := sourcesCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure signal sources")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				_ = repo.Close()
			}()

			uc := usecase.New(repo,
				usecase.WithWorkflowConfig(workflow),
				usecase.WithSources(sources...),
			)

			summary, err := uc.Cycle.Run(ctx, model.CycleTriggerManual)
			if err != nil {
				return goerr.Wrap(err, "cycle failed")
			}

			printSummary(summary)
			if !summary.Success {
				return goerr.New("cycle completed with errors",
					goerr.V("errors", len(summary.Errors)))
			}
			return nil
		},
	}
}

func printSummary(s *model.ExecutionSummary) {
	header := color.New(color.Bold, color.FgCyan)
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	header.Printf("Cycle %s (%s)\n", s.ID, s.Duration)
	fmt.Printf("  discovery:  %d discovered, %d duplicates skipped, %d errors\n",
		s.Discovery.Discovered, s.Discovery.DuplicatesSkipped, s.Discovery.Errors)
	fmt.Printf("  routing:    %d processed (%d approved, %d rejected, %d to review), %d errors\n",
		s.Routing.Processed, s.Routing.AutoApproved, s.Routing.AutoRejected,
		s.Routing.SentToReview, s.Routing.Errors)
	fmt.Printf("  escalation: %d scanned, %d escalated, %d errors\n",
		s.Escalation.Scanned, s.Escalation.Escalated, s.Escalation.Errors)

	if s.Success {
		ok.Println("  result: success")
		return
	}
	bad.Println("  result: failed")
	for _, msg := range s.Errors {
		fmt.Fprintf(os.Stderr, "    - %s\n", msg)
	}
}
