package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

func (h *Handler) RunBootstrapJob(w http.ResponseWriter, r *http.Request) {
	h.runJob(w, r, "httpapi.Handler.RunBootstrapJob", "bootstrap", func(ctx context.Context, _ usecase.JobSyncInput) (usecase.JobSyncResult, error) {
		return h.jobOrchestrator.Bootstrap(ctx)
	})
}

func (h *Handler) RunSyncMatchesJob(w http.ResponseWriter, r *http.Request) {
	h.runJob(w, r, "httpapi.Handler.RunSyncMatchesJob", "sync_matches", func(ctx context.Context, input usecase.JobSyncInput) (usecase.JobSyncResult, error) {
		return h.jobOrchestrator.RunMatchSync(ctx, input)
	})
}

func (h *Handler) RunRefreshPointsJob(w http.ResponseWriter, r *http.Request) {
	h.runJob(w, r, "httpapi.Handler.RunRefreshPointsJob", "refresh_points", func(ctx context.Context, input usecase.JobSyncInput) (usecase.JobSyncResult, error) {
		return h.jobOrchestrator.RunPointsRefresh(ctx, input)
	})
}

func (h *Handler) runJob(
	w http.ResponseWriter,
	r *http.Request,
	spanName string,
	jobName string,
	run func(ctx context.Context, input usecase.JobSyncInput) (usecase.JobSyncResult, error),
) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req internalJobRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := run(ctx, usecase.JobSyncInput{Force: req.Force})
	if err != nil {
		h.logger.WarnContext(ctx, "internal job failed", "job", jobName, "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "internal job completed",
		"job", jobName,
		"dispatch_id", req.DispatchID,
		"queued", result.QueuedCount,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}
