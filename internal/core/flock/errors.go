package flock

import "errors"

var (
	ErrInvalidParams = errors.New("invalid flock parameters")
	ErrInvalidLayout = errors.New("invalid power line layout")
	ErrNegativeCount = errors.New("negative boid count")
)
