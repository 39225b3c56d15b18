package domain

import "errors"

var ErrMovieNotFound = errors.New("movie not found")
