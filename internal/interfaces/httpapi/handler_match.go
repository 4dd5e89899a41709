package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

func (h *Handler) ListUpcomingMatches(w http.ResponseWriter, r *http.Request) {
	h.listMatches(w, r, "httpapi.Handler.ListUpcomingMatches", match.BucketUpcoming)
}

func (h *Handler) ListLiveMatches(w http.ResponseWriter, r *http.Request) {
	h.listMatches(w, r, "httpapi.Handler.ListLiveMatches", match.BucketLive)
}

func (h *Handler) ListCompletedMatches(w http.ResponseWriter, r *http.Request) {
	h.listMatches(w, r, "httpapi.Handler.ListCompletedMatches", match.BucketCompleted)
}

func (h *Handler) listMatches(w http.ResponseWriter, r *http.Request, spanName string, bucket match.Bucket) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	items, err := h.matchService.List(ctx, bucket)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "bucket", bucket, "error", err)
		writeError(ctx, w, fmt.Errorf("failed to fetch %s matches: %w", bucket, err))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(items, bucket))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, bucket, _, err := h.matchService.Bucket(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item, bucket))
}

func (h *Handler) GetScorecard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScorecard")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	card, bucket, err := h.matchService.GetScorecard(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get scorecard failed", "match_id", matchID, "error", err)
		writeError(ctx, w, fmt.Errorf("failed to fetch scorecard: %w", err))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scorecardToDTO(card, bucket))
}

func (h *Handler) GetSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSquad")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	squad, err := h.matchService.GetSquad(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad failed", "match_id", matchID, "error", err)
		writeError(ctx, w, fmt.Errorf("failed to fetch squad: %w", err))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(squad))
}

func (h *Handler) ListMatchPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchPoints")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	items, err := h.pointsService.MatchPlayerPoints(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list match points failed", "match_id", matchID, "error", err)
		writeError(ctx, w, fmt.Errorf("failed to compute points: %w", err))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerPointsToDTO(items))
}

func (h *Handler) GetPlayerPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerPoints")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	playerID := strings.TrimSpace(r.PathValue("playerID"))
	role, err := scoring.ParseRole(r.URL.Query().Get("role"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: unknown role %q", usecase.ErrInvalidInput, r.URL.Query().Get("role")))
		return
	}

	detail, err := h.pointsService.PlayerBreakdown(ctx, matchID, playerID, role)
	if err != nil {
		h.logger.WarnContext(ctx, "get player points failed", "match_id", matchID, "player_id", playerID, "error", err)
		writeError(ctx, w, fmt.Errorf("failed to compute points: %w", err))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerBreakdownToDTO(detail))
}

func (h *Handler) ListContestsByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListContestsByMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	items, err := h.contestService.ListByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list contests failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]contestDTO, 0, len(items))
	for _, item := range items {
		out = append(out, contestToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
