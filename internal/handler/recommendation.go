package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/domain"
	"github.com/go-chi/chi/v5"
)

// GET /movies/{title}/recommendations
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	// Titles may contain slashes and spaces, so the route param is escaped
	title, err := url.PathUnescape(chi.URLParam(r, "title"))
	if err != nil || title == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid title parameter")
		return
	}

	// Parse and validate limit
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 50 {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	result, err := h.service.GetRecommendations(r.Context(), title, limit)
	if err != nil {
		// Unknown title
		if errors.Is(err, domain.ErrMovieNotFound) {
			writeError(w, http.StatusNotFound, "movie_not_found",
				fmt.Sprintf("Movie %q does not exist in the dataset", title))
			return
		}
		// Request timeout
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	resp := RecommendationResponse{
		Title:           title,
		Recommendations: result.Recommendations,
		Metadata: domain.RecommendationMeta{
			CacheHit:        result.CacheHit,
			PostersDegraded: result.PostersDegraded,
			GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
			TotalCount:      len(result.Recommendations),
		},
	}

	writeJSON(w, http.StatusOK, resp)
}
