package service

import "errors"

// Sentinel kinds returned by Service methods.
var (
	ErrMissingQuery = errors.New("name or id is required")
	ErrNotReady     = errors.New("volunteer data not loaded")
	ErrNoSource     = errors.New("no sheet source configured")
)
