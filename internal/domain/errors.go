package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidInterval     = errors.New("fromTime must be before toTime")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
