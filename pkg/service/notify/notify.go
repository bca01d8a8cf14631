// Package notify posts escalation and decision notifications to Slack.
// A nil *Notifier is valid and silently drops every notification, so callers
// never need to branch on whether Slack is configured.
package notify

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Notifier posts workflow notifications to a single Slack channel
type Notifier struct {
	api       *slack.Client
	channelID string
}

// New creates a Notifier with the provided bot token and channel ID
func New(token, channelID string) (*Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}
	return &Notifier{
		api:       slack.New(token),
		channelID: channelID,
	}, nil
}

// NotifyEscalation posts a message when an overdue review is escalated
func (n *Notifier) NotifyEscalation(ctx context.Context, review *model.ReviewRequest, record *model.EscalationRecord) error {
	if n == nil {
		return nil
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(
			slack.PlainTextType, "Review escalated", false, false)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Review:* %s", review.ID), false, false),
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Risk:* #%d", review.RiskID), false, false),
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Priority:* %s", review.Priority), false, false),
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Escalated to:* %s", record.EscalatedTo), false, false),
		}, nil),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType,
			record.Reason, false, false), nil, nil),
	}

	text := fmt.Sprintf("Review %s escalated to %s", review.ID, record.EscalatedTo)
	_, _, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post escalation notification",
			goerr.V("review_id", review.ID), goerr.V("channel_id", n.channelID))
	}
	return nil
}

// NotifyDecision posts a message when routing decides on a critical risk
func (n *Notifier) NotifyDecision(ctx context.Context, risk *model.Risk, decision *model.WorkflowDecision) error {
	if n == nil {
		return nil
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(
			slack.PlainTextType, "Risk routed", false, false)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Risk:* #%d %s", risk.ID, risk.Title), false, false),
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Severity:* %s", risk.Severity), false, false),
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Decision:* %s", decision.Decision), false, false),
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Confidence:* %.2f", decision.ConfidenceScore), false, false),
		}, nil),
	}

	text := fmt.Sprintf("Risk #%d routed as %s", risk.ID, decision.Decision)
	_, _, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post decision notification",
			goerr.V("risk_id", risk.ID), goerr.V("channel_id", n.channelID))
	}
	return nil
}
