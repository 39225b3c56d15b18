package domain

type ScoredMovie struct {
	MovieID   string  `json:"movie_id"`
	Title     string  `json:"title"`
	Score     float64 `json:"score"`
	PosterURL string  `json:"poster_url,omitempty"`
}

type RecommendationMeta struct {
	CacheHit        bool   `json:"cache_hit"`
	PostersDegraded int    `json:"posters_degraded"`
	GeneratedAt     string `json:"generated_at"`
	TotalCount      int    `json:"total_count"`
}

type RecommendationResult struct {
	Recommendations []ScoredMovie
	PostersDegraded int
	CacheHit        bool
}

type MovieList struct {
	Movies     []Movie `json:"movies"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalCount int     `json:"total_count"`
}
