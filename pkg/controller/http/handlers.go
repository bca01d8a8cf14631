package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/usecase"
	"github.com/secmon-lab/briareus/pkg/utils/errutil"
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w,
			goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

type executionSummaryResponse struct {
	ID         string                 `json:"id"`
	Trigger    string                 `json:"trigger"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	DurationMS int64                  `json:"duration_ms"`
	Discovery  model.DiscoveryResult  `json:"discovery"`
	Routing    model.RoutingResult    `json:"routing"`
	Escalation model.EscalationResult `json:"escalation"`
	Errors     []string               `json:"errors"`
	Success    bool                   `json:"success"`
}

func toExecutionSummaryResponse(s *model.ExecutionSummary) *executionSummaryResponse {
	if s == nil {
		return nil
	}
	errs := s.Errors
	if errs == nil {
		errs = []string{}
	}
	return &executionSummaryResponse{
		ID:         s.ID,
		Trigger:    string(s.Trigger),
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		DurationMS: s.Duration.Milliseconds(),
		Discovery:  s.Discovery,
		Routing:    s.Routing,
		Escalation: s.Escalation,
		Errors:     errs,
		Success:    s.Success,
	}
}

func (s *Server) handleTriggerCycle(w http.ResponseWriter, r *http.Request) {
	summary, err := s.uc.Cycle.Run(r.Context(), model.CycleTriggerManual)
	if err != nil {
		if errors.Is(err, usecase.ErrCycleAlreadyRunning) {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusConflict)
			return
		}
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, http.StatusOK, toExecutionSummaryResponse(summary))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	type componentResponse struct {
		Component   string  `json:"component"`
		Status      string  `json:"status"`
		Attempts    int     `json:"attempts"`
		Failures    int     `json:"failures"`
		SuccessRate float64 `json:"success_rate"`
	}
	type systemHealthResponse struct {
		Status      string              `json:"status"`
		Components  []componentResponse `json:"components"`
		OnlineRatio float64             `json:"online_ratio"`
	}
	type performanceResponse struct {
		DiscoveryAutomationRate float64 `json:"discovery_automation_rate"`
		AvgResolutionMinutes    float64 `json:"avg_resolution_minutes"`
		ApprovalAccuracyRate    float64 `json:"approval_accuracy_rate"`
		AutomationRateTarget    float64 `json:"automation_rate_target"`
		ResolutionTargetMinutes float64 `json:"resolution_target_minutes"`
	}
	type response struct {
		SystemHealth    systemHealthResponse      `json:"system_health"`
		Performance     performanceResponse       `json:"performance"`
		RecentExecution *executionSummaryResponse `json:"recent_execution"`
	}

	dashboard, err := s.uc.Health.Dashboard(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	resp := response{
		SystemHealth: systemHealthResponse{
			Status:      string(dashboard.SystemHealth.Status),
			Components:  make([]componentResponse, 0, len(dashboard.SystemHealth.Components)),
			OnlineRatio: dashboard.SystemHealth.OnlineRatio,
		},
		Performance: performanceResponse{
			DiscoveryAutomationRate: dashboard.Performance.DiscoveryAutomationRate,
			AvgResolutionMinutes:    dashboard.Performance.AvgResolutionMinutes,
			ApprovalAccuracyRate:    dashboard.Performance.ApprovalAccuracyRate,
			AutomationRateTarget:    model.SLATargetAutomationRate,
			ResolutionTargetMinutes: model.SLATargetResolutionMinutes,
		},
		RecentExecution: toExecutionSummaryResponse(dashboard.RecentExecution),
	}
	for _, c := range dashboard.SystemHealth.Components {
		resp.SystemHealth.Components = append(resp.SystemHealth.Components, componentResponse{
			Component:   string(c.Component),
			Status:      string(c.Status),
			Attempts:    c.Attempts,
			Failures:    c.Failures,
			SuccessRate: c.SuccessRate,
		})
	}

	respondJSON(w, r, http.StatusOK, resp)
}

type reviewResponse struct {
	ID          string     `json:"id"`
	RiskID      int64      `json:"risk_id"`
	Priority    string     `json:"priority"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	Reason      string     `json:"reason"`
	EntityName  string     `json:"entity_name,omitempty"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     time.Time  `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Outcome     string     `json:"outcome,omitempty"`
	Reviewer    string     `json:"reviewer,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

func toReviewResponse(review *model.ReviewRequest) reviewResponse {
	return reviewResponse{
		ID:          review.ID,
		RiskID:      review.RiskID,
		Priority:    string(review.Priority),
		AssignedTo:  review.AssignedTo,
		Reason:      review.Reason,
		EntityName:  review.Context.EntityName,
		Description: review.Context.Description,
		Status:      string(review.Status),
		CreatedAt:   review.CreatedAt,
		DueDate:     review.DueDate,
		CompletedAt: review.CompletedAt,
		Outcome:     string(review.Outcome),
		Reviewer:    review.Reviewer,
		Notes:       review.ReviewerNotes,
	}
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	var priority types.ReviewPriority
	if raw := r.URL.Query().Get("priority"); raw != "" {
		parsed, err := types.ParseReviewPriority(raw)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
		priority = parsed
	}

	reviews, err := s.uc.Review.ListPending(r.Context(), r.URL.Query().Get("assigned_to"), priority)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	resp := struct {
		Reviews []reviewResponse `json:"reviews"`
	}{Reviews: make([]reviewResponse, 0, len(reviews))}
	for _, review := range reviews {
		resp.Reviews = append(resp.Reviews, toReviewResponse(review))
	}

	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleSubmitDecision(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Decision string `json:"decision"`
		Reviewer string `json:"reviewer"`
		Notes    string `json:"notes"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w,
			goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	outcome, err := types.ParseReviewOutcome(req.Decision)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	reviewID := chi.URLParam(r, "reviewID")
	review, err := s.uc.Review.SubmitDecision(r.Context(), reviewID, outcome, req.Reviewer, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrReviewNotFound), errors.Is(err, usecase.ErrRiskNotFound):
			errutil.HandleHTTP(r.Context(), w, err, http.StatusNotFound)
		case errors.Is(err, usecase.ErrReviewAlreadyCompleted):
			errutil.HandleHTTP(r.Context(), w, err, http.StatusConflict)
		case errors.Is(err, usecase.ErrInvalidReviewOutcome):
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		default:
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, r, http.StatusOK, toReviewResponse(review))
}

func (s *Server) handleWorkflowMetrics(w http.ResponseWriter, r *http.Request) {
	type response struct {
		AutoApproved   int     `json:"auto_approved"`
		AutoRejected   int     `json:"auto_rejected"`
		PendingReviews int     `json:"pending_reviews"`
		OverdueReviews int     `json:"overdue_reviews"`
		SLACompliance  float64 `json:"sla_compliance"`
	}

	metrics, err := s.uc.Health.WorkflowMetrics(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, http.StatusOK, response{
		AutoApproved:   metrics.AutoApproved,
		AutoRejected:   metrics.AutoRejected,
		PendingReviews: metrics.PendingReviews,
		OverdueReviews: metrics.OverdueReviews,
		SLACompliance:  metrics.SLACompliance,
	})
}

func (s *Server) handleListRisks(w http.ResponseWriter, r *http.Request) {
	type riskResponse struct {
		ID              int64     `json:"id"`
		SourceSystem    string    `json:"source_system"`
		Title           string    `json:"title"`
		Category        string    `json:"category"`
		Severity        string    `json:"severity"`
		Probability     int       `json:"probability"`
		Impact          int       `json:"impact"`
		ConfidenceScore float64   `json:"confidence_score"`
		Status          string    `json:"status"`
		EntityID        string    `json:"entity_id,omitempty"`
		CreatedAt       time.Time `json:"created_at"`
	}

	var opts []interfaces.ListRiskOption
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := types.ParseRiskStatus(raw)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
		opts = append(opts, interfaces.WithRiskStatus(status))
	}

	risks, err := s.uc.Risks().List(r.Context(), opts...)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	resp := struct {
		Risks []riskResponse `json:"risks"`
	}{Risks: make([]riskResponse, 0, len(risks))}
	for _, risk := range risks {
		resp.Risks = append(resp.Risks, riskResponse{
			ID:              risk.ID,
			SourceSystem:    risk.SourceSystem,
			Title:           risk.Title,
			Category:        risk.Category,
			Severity:        string(risk.Severity),
			Probability:     risk.Probability,
			Impact:          risk.Impact,
			ConfidenceScore: risk.ConfidenceScore,
			Status:          string(risk.Status),
			EntityID:        risk.EntityID,
			CreatedAt:       risk.CreatedAt,
		})
	}

	respondJSON(w, r, http.StatusOK, resp)
}
