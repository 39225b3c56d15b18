package handler

import "github.com/AanishRahmani/content-based-movie-recommender-system/internal/domain"

type RecommendationResponse struct {
	Title           string                    `json:"title"`
	Recommendations []domain.ScoredMovie      `json:"recommendations"`
	Metadata        domain.RecommendationMeta `json:"metadata"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
