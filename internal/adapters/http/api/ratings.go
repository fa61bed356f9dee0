// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// RatingsDependencies defines the interface for top-rating queries.
type RatingsDependencies interface {
	TopRatings(ctx context.Context, n int) ([]Entry, error)
}

// RatingsHandler handles top-rating requests.
type RatingsHandler struct {
	deps     RatingsDependencies
	maxLimit int
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(deps RatingsDependencies, maxLimit int) *RatingsHandler {
	return &RatingsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetRatings handles GET /ratings?limit=N requests.
func (h *RatingsHandler) HandleGetRatings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ratings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, ErrBadRequest))
		return
	}
	if h.maxLimit > 0 && n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%s: %w", op, ErrBadRequest))
		return
	}
	entries, err := h.deps.TopRatings(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
