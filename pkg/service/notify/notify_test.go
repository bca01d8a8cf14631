package notify_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/service/notify"
)

func TestNewRequiresTokenAndChannel(t *testing.T) {
	_, err := notify.New("", "C12345")
	gt.Error(t, err)

	_, err = notify.New("xoxb-test", "")
	gt.Error(t, err)

	n, err := notify.New("xoxb-test", "C12345")
	gt.NoError(t, err)
	gt.Value(t, n).NotNil()
}

func TestNilNotifierIsNoop(t *testing.T) {
	var n *notify.Notifier
	ctx := context.Background()

	review := &model.ReviewRequest{ID: "rev-1", RiskID: 1, Priority: types.ReviewPriorityUrgent}
	record := &model.EscalationRecord{ReviewID: "rev-1", EscalatedTo: types.EscalationTargetSecurityManager}
	gt.NoError(t, n.NotifyEscalation(ctx, review, record))

	risk := &model.Risk{ID: 1, Title: "Exposed bucket", Severity: types.SeverityHigh}
	decision := &model.WorkflowDecision{RiskID: 1, Decision: types.DecisionAutoApprove}
	gt.NoError(t, n.NotifyDecision(ctx, risk, decision))
}
