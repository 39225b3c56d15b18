package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Repository loads the dataset artifacts from Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}
