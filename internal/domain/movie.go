package domain

// Movie is one entry of the immutable catalog loaded at startup.
// ID is the external catalog key used for poster lookups.
type Movie struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
